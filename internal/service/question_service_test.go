package service

import (
	"context"
	"errors"
	"quizgen_backend/internal/util"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQuestions(t *testing.T) {
	ai := &fakeChat{response: `[
		{"question": "What is a goroutine?", "answer": "A lightweight thread"},
		{"question": "What does defer do?", "answer": "Delays a call until return"}
	]`}
	svc := NewQuestionService(ai, 0)

	questions, err := svc.GenerateQuestions(context.Background(), "some document text", 3)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "What is a goroutine?", questions[0].Prompt)
	assert.Equal(t, "A lightweight thread", questions[0].ExpectedAnswer)
}

func TestGenerateQuestionsCapsAtRequested(t *testing.T) {
	ai := &fakeChat{response: `[
		{"question": "Q1", "answer": "A1"},
		{"question": "Q2", "answer": "A2"},
		{"question": "Q3", "answer": "A3"}
	]`}
	svc := NewQuestionService(ai, 0)

	questions, err := svc.GenerateQuestions(context.Background(), "text", 2)
	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestGenerateQuestionsDropsEmptyItems(t *testing.T) {
	ai := &fakeChat{response: `[
		{"question": "Q1", "answer": "A1"},
		{"question": "", "answer": "A2"},
		{"question": "Q3", "answer": "   "}
	]`}
	svc := NewQuestionService(ai, 0)

	questions, err := svc.GenerateQuestions(context.Background(), "text", 5)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Q1", questions[0].Prompt)
}

func TestGenerateQuestionsFencedOutput(t *testing.T) {
	ai := &fakeChat{response: "```json\n[{\"question\": \"Q\", \"answer\": \"A\"}]\n```"}
	svc := NewQuestionService(ai, 0)

	questions, err := svc.GenerateQuestions(context.Background(), "text", 1)
	require.NoError(t, err)
	assert.Len(t, questions, 1)
}

func TestGenerateQuestionsMalformed(t *testing.T) {
	ai := &fakeChat{response: "Sorry, I cannot help with that."}
	svc := NewQuestionService(ai, 0)

	_, err := svc.GenerateQuestions(context.Background(), "text", 3)
	assert.ErrorIs(t, err, util.ErrMalformedResponse)
}

func TestGenerateQuestionsModelError(t *testing.T) {
	ai := &fakeChat{err: errors.New("upstream timeout")}
	svc := NewQuestionService(ai, 0)

	_, err := svc.GenerateQuestions(context.Background(), "text", 3)
	assert.ErrorIs(t, err, util.ErrMalformedResponse)
}

func TestGenerateQuestionsInvalidCount(t *testing.T) {
	svc := NewQuestionService(&fakeChat{}, 0)

	_, err := svc.GenerateQuestions(context.Background(), "text", 0)
	assert.Error(t, err)
}

func TestGenerateQuestionsTruncatesDocument(t *testing.T) {
	ai := &fakeChat{response: `[{"question": "Q", "answer": "A"}]`}
	svc := NewQuestionService(ai, 100)

	longDoc := strings.Repeat("é", 500)
	_, err := svc.GenerateQuestions(context.Background(), longDoc, 1)
	require.NoError(t, err)

	require.Len(t, ai.lastMsgs, 2)
	// the prompt carries at most the budgeted runes of document text
	assert.Less(t, len([]rune(ai.lastMsgs[1].Content)), 400)
}
