package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateSourceLanguagePassthrough(t *testing.T) {
	provider := &fakeProvider{name: "hosted", result: "hola"}
	svc := NewTranslateServiceWithProviders("en", provider)

	assert.Equal(t, "hello", svc.Translate(context.Background(), "hello", "en"))
	assert.Equal(t, "hello", svc.Translate(context.Background(), "hello", "English"))
	assert.Zero(t, provider.calls)
}

func TestTranslateUsesFirstWorkingProvider(t *testing.T) {
	first := &fakeProvider{name: "hosted", err: errors.New("connection refused")}
	second := &fakeProvider{name: "llm", result: "hola"}
	svc := NewTranslateServiceWithProviders("en", first, second)

	assert.Equal(t, "hola", svc.Translate(context.Background(), "hello", "es"))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestTranslateIdentityWhenAllProvidersFail(t *testing.T) {
	first := &fakeProvider{name: "hosted", err: errors.New("down")}
	second := &fakeProvider{name: "llm", err: errors.New("also down")}
	svc := NewTranslateServiceWithProviders("en", first, second)

	assert.Equal(t, "hello", svc.Translate(context.Background(), "hello", "es"))
}

func TestTranslateMemoizesPerTextAndLanguage(t *testing.T) {
	provider := &fakeProvider{name: "hosted", result: "hola"}
	svc := NewTranslateServiceWithProviders("en", provider)

	svc.Translate(context.Background(), "hello", "es")
	svc.Translate(context.Background(), "hello", "es")
	assert.Equal(t, 1, provider.calls)

	// a different target language is a different cache entry
	svc.Translate(context.Background(), "hello", "fr")
	assert.Equal(t, 2, provider.calls)
}

func TestTranslateCachesIdentityFallback(t *testing.T) {
	provider := &fakeProvider{name: "hosted", err: errors.New("down")}
	svc := NewTranslateServiceWithProviders("en", provider)

	svc.Translate(context.Background(), "hello", "es")
	svc.Translate(context.Background(), "hello", "es")
	assert.Equal(t, 1, provider.calls)
}

func TestTranslateEmptyText(t *testing.T) {
	provider := &fakeProvider{name: "hosted", result: "should not be used"}
	svc := NewTranslateServiceWithProviders("en", provider)

	assert.Equal(t, "", svc.Translate(context.Background(), "", "es"))
	assert.Zero(t, provider.calls)
}

func TestIsSourceLanguage(t *testing.T) {
	svc := NewTranslateServiceWithProviders("en")

	assert.True(t, svc.IsSourceLanguage("en"))
	assert.True(t, svc.IsSourceLanguage(" EN "))
	assert.True(t, svc.IsSourceLanguage("english"))
	assert.False(t, svc.IsSourceLanguage("es"))
}
