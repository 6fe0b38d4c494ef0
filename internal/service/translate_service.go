package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"quizgen_backend/internal/config"
	"quizgen_backend/pkg/logger"
	"quizgen_backend/pkg/monitoring"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TranslationProvider is one strategy for producing a translation. Providers
// are tried in order until one succeeds.
type TranslationProvider interface {
	Name() string
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// HostedTranslator calls a LibreTranslate-compatible translation service.
type HostedTranslator struct {
	config config.TranslatorConfig
	client *http.Client
	source string
}

func NewHostedTranslator(cfg config.TranslatorConfig, sourceLang string) *HostedTranslator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HostedTranslator{
		config: cfg,
		client: &http.Client{Timeout: timeout},
		source: sourceLang,
	}
}

func (t *HostedTranslator) Name() string { return "hosted" }

func (t *HostedTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	reqBody := map[string]string{
		"q":       text,
		"source":  t.source,
		"target":  targetLang,
		"api_key": t.config.APIKey,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.config.BaseURL+"/translate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation service error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if strings.TrimSpace(result.TranslatedText) == "" {
		return "", fmt.Errorf("translation service returned empty text")
	}

	return result.TranslatedText, nil
}

// LLMTranslator is the fallback strategy: a translate-this-text prompt
// against the chat completion service.
type LLMTranslator struct {
	ai     ChatCompleter
	source string
}

func NewLLMTranslator(ai ChatCompleter, sourceLang string) *LLMTranslator {
	return &LLMTranslator{ai: ai, source: sourceLang}
}

func (t *LLMTranslator) Name() string { return "llm" }

func (t *LLMTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	messages := []ChatMessage{
		{Role: "system", Content: "You are a translator. Reply with the translation only, no explanations or quotes."},
		{Role: "user", Content: fmt.Sprintf("Translate the following text from %s to %s:\n\n%s", t.source, targetLang, text)},
	}

	translated, err := t.ai.Chat(ctx, "translate", messages)
	if err != nil {
		return "", err
	}

	translated = strings.TrimSpace(translated)
	if translated == "" {
		return "", fmt.Errorf("LLM returned empty translation")
	}

	return translated, nil
}

type cacheKey struct {
	text string
	lang string
}

// TranslateService runs the strategy chain with a per-pair memoization
// cache. Translate never fails: when every provider errors the original
// source-language text comes back unchanged.
type TranslateService struct {
	providers  []TranslationProvider
	sourceLang string

	mu    sync.Mutex
	cache map[cacheKey]string
}

func NewTranslateService(cfg *config.Config, ai ChatCompleter) *TranslateService {
	providers := []TranslationProvider{}
	if cfg.Translator.BaseURL != "" {
		providers = append(providers, NewHostedTranslator(cfg.Translator, cfg.Quiz.SourceLanguage))
	}
	providers = append(providers, NewLLMTranslator(ai, cfg.Quiz.SourceLanguage))

	return &TranslateService{
		providers:  providers,
		sourceLang: cfg.Quiz.SourceLanguage,
		cache:      make(map[cacheKey]string),
	}
}

// NewTranslateServiceWithProviders wires an explicit chain, used by tests.
func NewTranslateServiceWithProviders(sourceLang string, providers ...TranslationProvider) *TranslateService {
	return &TranslateService{
		providers:  providers,
		sourceLang: sourceLang,
		cache:      make(map[cacheKey]string),
	}
}

// IsSourceLanguage accepts both the bare code and the English language name
// ("en" and "english"), matching how UI language pickers label the option.
func (s *TranslateService) IsSourceLanguage(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	return lang == s.sourceLang || lang == "english" && s.sourceLang == "en"
}

func (s *TranslateService) Translate(ctx context.Context, text, targetLang string) string {
	if text == "" || s.IsSourceLanguage(targetLang) {
		return text
	}

	key := cacheKey{text: text, lang: targetLang}
	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		monitoring.TranslationCacheHits.Inc()
		return cached
	}
	s.mu.Unlock()

	translated := text
	resolved := "identity"
	for _, provider := range s.providers {
		result, err := provider.Translate(ctx, text, targetLang)
		if err != nil {
			logger.Log.Warn("translation provider failed",
				zap.String("provider", provider.Name()),
				zap.String("target", targetLang),
				zap.Error(err))
			continue
		}
		translated = result
		resolved = provider.Name()
		break
	}
	monitoring.TranslationCounter.WithLabelValues(resolved).Inc()

	s.mu.Lock()
	s.cache[key] = translated
	s.mu.Unlock()

	return translated
}
