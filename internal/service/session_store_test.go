package service

import (
	"context"
	"quizgen_backend/internal/model"
	"quizgen_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	session := newSessionWithQuestions(2)

	require.NoError(t, store.Save(context.Background(), session))

	loaded, err := store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
	assert.Len(t, loaded.Questions, 2)
	assert.Len(t, loaded.Answers, 2)
}

func TestMemoryStoreMissingSession(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)

	_, err := store.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	session := newSessionWithQuestions(1)
	require.NoError(t, store.Save(context.Background(), session))

	first, err := store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	first.Answers[0].ResponseText = "mutated without saving"

	second, err := store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Empty(t, second.Answers[0].ResponseText)
}

func TestMemoryStoreSaveSnapshotsInput(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	session := newSessionWithQuestions(1)
	require.NoError(t, store.Save(context.Background(), session))

	session.Answers[0].ResponseText = "changed after save"

	loaded, err := store.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Answers[0].ResponseText)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemorySessionStore(time.Hour)
	session := newSessionWithQuestions(1)
	require.NoError(t, store.Save(context.Background(), session))

	require.NoError(t, store.Delete(context.Background(), session.ID))

	_, err := store.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemorySessionStore(10 * time.Millisecond)
	session := &model.QuizSession{ID: "short-lived"}
	require.NoError(t, store.Save(context.Background(), session))

	time.Sleep(30 * time.Millisecond)

	_, err := store.Get(context.Background(), "short-lived")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}
