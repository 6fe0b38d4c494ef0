package service

import (
	"context"
	"encoding/json"
	"fmt"
	"quizgen_backend/internal/model"
	"quizgen_backend/internal/util"
	"quizgen_backend/pkg/logger"

	"go.uber.org/zap"
)

// Rubric bounds. Scoring is continuous with partial credit: a response
// containing the core correct concept, even if incomplete, scores at least
// CoreConceptFloor.
const (
	GradeMin         = 0.0
	GradeMax         = 10.0
	CoreConceptFloor = 6.0
)

const gradingFailedFeedback = "Error during scoring"

const gradingSystemPrompt = "You are a strict but fair grader of short-answer quiz responses. Respond with JSON only, no commentary."

const gradingPromptTemplate = `Grade each of the following short-answer responses on a scale of %.0f to %.0f.

Scoring rubric:
- %.0f: no answer, or entirely wrong.
- %.0f or higher: the response contains the core correct concept, even if incomplete.
- %.0f: complete and correct.
Partial credit between these anchors is encouraged.

For each item give concise feedback and a model answer.

Respond with a JSON array of exactly this shape, one entry per input item, same order:
[{"index": 0, "score": 0, "feedback": "...", "model_answer": "..."}]

Items:
%s`

type gradingItem struct {
	Index          int    `json:"index"`
	Question       string `json:"question"`
	ExpectedAnswer string `json:"expected_answer"`
	UserResponse   string `json:"user_response"`
}

type gradedItem struct {
	Index       int     `json:"index"`
	Score       float64 `json:"score"`
	Feedback    string  `json:"feedback"`
	ModelAnswer string  `json:"model_answer"`
}

// GradingService scores a whole session in one batched chat completion
// call and translates the feedback for the learner.
type GradingService struct {
	ai         ChatCompleter
	translator *TranslateService
}

func NewGradingService(ai ChatCompleter, translator *TranslateService) *GradingService {
	return &GradingService{ai: ai, translator: translator}
}

// GradeSession always returns exactly one result per question. When the
// grading call fails or returns unparseable output, every question gets the
// minimum score and a uniform explanatory feedback string.
func (s *GradingService) GradeSession(ctx context.Context, session *model.QuizSession) []model.GradingResult {
	if len(session.Questions) == 0 {
		return nil
	}

	graded, err := s.gradeBatch(ctx, session)
	if err != nil {
		logger.Log.Error("grading batch failed, returning degraded results",
			zap.String("sessionId", session.ID),
			zap.Int("questions", len(session.Questions)),
			zap.Error(err))
		return s.failedBatch(ctx, session)
	}

	byIndex := make(map[int]gradedItem, len(graded))
	for _, g := range graded {
		byIndex[g.Index] = g
	}

	results := make([]model.GradingResult, len(session.Questions))
	for i := range session.Questions {
		g, ok := byIndex[i]
		if !ok {
			results[i] = model.GradingResult{
				QuestionIndex: i,
				Score:         GradeMin,
				Feedback:      gradingFailedFeedback,
			}
			continue
		}
		results[i] = model.GradingResult{
			QuestionIndex: i,
			Score:         clampScore(g.Score),
			Feedback:      g.Feedback,
			ModelAnswer:   g.ModelAnswer,
		}
	}

	s.translateResults(ctx, results, session.Language)
	return results
}

func (s *GradingService) gradeBatch(ctx context.Context, session *model.QuizSession) ([]gradedItem, error) {
	items := make([]gradingItem, len(session.Questions))
	for i, q := range session.Questions {
		items[i] = gradingItem{
			Index:          i,
			Question:       q.Prompt,
			ExpectedAnswer: q.ExpectedAnswer,
			UserResponse:   session.Answers[i].ResponseText,
		}
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	messages := []ChatMessage{
		{Role: "system", Content: gradingSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(gradingPromptTemplate,
			GradeMin, GradeMax, GradeMin, CoreConceptFloor, GradeMax, string(itemsJSON))},
	}

	content, err := s.ai.Chat(ctx, "grade", messages)
	if err != nil {
		return nil, err
	}

	var graded []gradedItem
	if err := util.DecodeModelArray(content, &graded); err != nil {
		return nil, err
	}
	if len(graded) == 0 {
		return nil, util.ErrMalformedResponse
	}

	return graded, nil
}

func (s *GradingService) failedBatch(ctx context.Context, session *model.QuizSession) []model.GradingResult {
	feedbackTranslated := ""
	if !s.translator.IsSourceLanguage(session.Language) {
		feedbackTranslated = s.translator.Translate(ctx, gradingFailedFeedback, session.Language)
	}

	results := make([]model.GradingResult, len(session.Questions))
	for i := range session.Questions {
		results[i] = model.GradingResult{
			QuestionIndex:      i,
			Score:              GradeMin,
			Feedback:           gradingFailedFeedback,
			FeedbackTranslated: feedbackTranslated,
		}
	}
	return results
}

func (s *GradingService) translateResults(ctx context.Context, results []model.GradingResult, language string) {
	if s.translator.IsSourceLanguage(language) {
		return
	}
	for i := range results {
		results[i].FeedbackTranslated = s.translator.Translate(ctx, results[i].Feedback, language)
		results[i].ModelAnswerTranslated = s.translator.Translate(ctx, results[i].ModelAnswer, language)
	}
}

func clampScore(score float64) float64 {
	if score < GradeMin {
		return GradeMin
	}
	if score > GradeMax {
		return GradeMax
	}
	return score
}
