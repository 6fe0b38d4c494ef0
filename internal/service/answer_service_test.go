package service

import (
	"context"
	"errors"
	"quizgen_backend/internal/model"
	"quizgen_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionWithQuestions(n int) *model.QuizSession {
	session := &model.QuizSession{ID: "test-session", Language: "en"}
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{Prompt: "Q", ExpectedAnswer: "A"}
	}
	session.SetQuestions(questions)
	return session
}

func TestSubmitTypedOverwrites(t *testing.T) {
	svc := NewAnswerService(&fakeTranscriber{})
	session := newSessionWithQuestions(2)

	require.NoError(t, svc.SubmitTyped(session, 0, "first attempt"))
	require.NoError(t, svc.SubmitTyped(session, 0, "  second attempt  "))

	assert.Equal(t, "second attempt", session.Answers[0].ResponseText)
	assert.Equal(t, model.SourceTyped, session.Answers[0].Source)
	assert.Empty(t, session.Answers[1].ResponseText)
}

func TestSubmitTypedIndexOutOfRange(t *testing.T) {
	svc := NewAnswerService(&fakeTranscriber{})
	session := newSessionWithQuestions(2)

	assert.ErrorIs(t, svc.SubmitTyped(session, 2, "text"), util.ErrQuestionIndex)
	assert.ErrorIs(t, svc.SubmitTyped(session, -1, "text"), util.ErrQuestionIndex)
}

func TestSubmitAudioAppendsTranscripts(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "hello"}
	svc := NewAnswerService(transcriber)
	session := newSessionWithQuestions(1)

	answer, added, err := svc.SubmitAudio(context.Background(), session, 0, "a.wav", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "hello", answer)

	transcriber.transcript = "world"
	answer, added, err = svc.SubmitAudio(context.Background(), session, 0, "b.wav", []byte{4, 5, 6})
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "hello world", answer)
	assert.Equal(t, model.SourceTranscribed, session.Answers[0].Source)
}

func TestSubmitAudioDuplicatePayloadSkipped(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "hello"}
	svc := NewAnswerService(transcriber)
	session := newSessionWithQuestions(1)

	payload := []byte("same recording")
	_, added, err := svc.SubmitAudio(context.Background(), session, 0, "a.wav", payload)
	require.NoError(t, err)
	assert.True(t, added)

	answer, added, err := svc.SubmitAudio(context.Background(), session, 0, "a.wav", payload)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, "hello", answer)
	assert.Equal(t, 1, transcriber.calls)
}

func TestSubmitAudioSamePayloadDifferentQuestions(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "hello"}
	svc := NewAnswerService(transcriber)
	session := newSessionWithQuestions(2)

	payload := []byte("recording")
	_, added, err := svc.SubmitAudio(context.Background(), session, 0, "a.wav", payload)
	require.NoError(t, err)
	assert.True(t, added)

	// fingerprints are scoped per question
	_, added, err = svc.SubmitAudio(context.Background(), session, 1, "a.wav", payload)
	require.NoError(t, err)
	assert.True(t, added)
}

func TestSubmitAudioTranscriptionFailureLeavesAnswer(t *testing.T) {
	transcriber := &fakeTranscriber{transcript: "hello"}
	svc := NewAnswerService(transcriber)
	session := newSessionWithQuestions(1)

	_, _, err := svc.SubmitAudio(context.Background(), session, 0, "a.wav", []byte{1})
	require.NoError(t, err)

	transcriber.err = errors.New("whisper down")
	_, _, err = svc.SubmitAudio(context.Background(), session, 0, "b.wav", []byte{2})
	require.Error(t, err)

	assert.Equal(t, "hello", session.Answers[0].ResponseText)
	// the failed payload is not fingerprinted, so a retry goes through
	transcriber.err = nil
	transcriber.transcript = "again"
	answer, added, err := svc.SubmitAudio(context.Background(), session, 0, "b.wav", []byte{2})
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "hello again", answer)
}

func TestSubmitAudioEmptyPayload(t *testing.T) {
	svc := NewAnswerService(&fakeTranscriber{})
	session := newSessionWithQuestions(1)

	_, _, err := svc.SubmitAudio(context.Background(), session, 0, "a.wav", nil)
	assert.ErrorIs(t, err, util.ErrEmptyAudio)
}
