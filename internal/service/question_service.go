package service

import (
	"context"
	"fmt"
	"quizgen_backend/internal/model"
	"quizgen_backend/internal/util"
	"quizgen_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

const questionSystemPrompt = "You are an educational content assistant. You generate short-answer study questions from source material. Respond with JSON only, no commentary."

const questionPromptTemplate = `Generate %d short-answer questions from the following text. Each question must be answerable from the text alone and have a concise answer key.

Respond with a JSON array of exactly this shape:
[{"question": "...", "answer": "..."}]

Text:
%s`

type generatedItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuestionService turns extracted document text into a question set.
type QuestionService struct {
	ai             ChatCompleter
	documentBudget int
}

func NewQuestionService(ai ChatCompleter, documentBudget int) *QuestionService {
	if documentBudget <= 0 {
		documentBudget = 6000
	}
	return &QuestionService{ai: ai, documentBudget: documentBudget}
}

// GenerateQuestions asks the model for up to n question/answer-key pairs.
// Malformed model output is recoverable: the caller gets an empty set and
// ErrMalformedResponse, surfaces "no questions produced" and may retry.
func (s *QuestionService) GenerateQuestions(ctx context.Context, docText string, n int) ([]model.Question, error) {
	if n < 1 {
		return nil, fmt.Errorf("question count must be at least 1, got %d", n)
	}

	docText = truncateRunes(docText, s.documentBudget)

	messages := []ChatMessage{
		{Role: "system", Content: questionSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(questionPromptTemplate, n, docText)},
	}

	content, err := s.ai.Chat(ctx, "generate", messages)
	if err != nil {
		logger.Log.Error("question generation call failed", zap.Error(err))
		return nil, util.ErrMalformedResponse
	}

	var items []generatedItem
	if err := util.DecodeModelArray(content, &items); err != nil {
		logger.Log.Warn("question generation returned unparseable output",
			zap.Int("requested", n),
			zap.Int("contentLength", len(content)))
		return nil, util.ErrMalformedResponse
	}

	questions := make([]model.Question, 0, n)
	for _, item := range items {
		prompt := strings.TrimSpace(item.Question)
		answer := strings.TrimSpace(item.Answer)
		if prompt == "" || answer == "" {
			continue
		}
		questions = append(questions, model.Question{
			Prompt:         prompt,
			ExpectedAnswer: answer,
		})
		if len(questions) == n {
			break
		}
	}

	if len(questions) == 0 {
		return nil, util.ErrMalformedResponse
	}

	if len(questions) < n {
		logger.Log.Info("generated fewer questions than requested",
			zap.Int("requested", n),
			zap.Int("generated", len(questions)))
	}

	return questions, nil
}

// truncateRunes caps text at limit runes so a multibyte document is not cut
// mid-character.
func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
