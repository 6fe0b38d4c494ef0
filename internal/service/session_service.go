package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"quizgen_backend/internal/config"
	"quizgen_backend/internal/model"
	"quizgen_backend/internal/util"
	"quizgen_backend/pkg/logger"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService orchestrates the quiz workflow over the session store:
// extract, generate, translate, collect, grade. Each step loads the session,
// mutates it and saves it back, last write wins.
type SessionService struct {
	store      SessionStore
	extract    *ExtractService
	questions  *QuestionService
	translator *TranslateService
	answers    *AnswerService
	grading    *GradingService
	storage    *StorageService
	config     *config.Config
}

func NewSessionService(
	store SessionStore,
	extract *ExtractService,
	questions *QuestionService,
	translator *TranslateService,
	answers *AnswerService,
	grading *GradingService,
	storage *StorageService,
	cfg *config.Config,
) *SessionService {
	return &SessionService{
		store:      store,
		extract:    extract,
		questions:  questions,
		translator: translator,
		answers:    answers,
		grading:    grading,
		storage:    storage,
		config:     cfg,
	}
}

func (s *SessionService) CreateSession(ctx context.Context, language string, numQuestions int) (*model.QuizSession, string, error) {
	if language == "" {
		language = s.config.Quiz.SourceLanguage
	}
	if numQuestions < 1 {
		numQuestions = 3
	}
	if numQuestions > s.config.Quiz.MaxQuestions {
		numQuestions = s.config.Quiz.MaxQuestions
	}

	now := time.Now()
	session := &model.QuizSession{
		ID:           uuid.New().String(),
		Language:     language,
		NumQuestions: numQuestions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateSessionToken(session.ID, s.config.Session.Secret, s.config.Session.TTL)
	if err != nil {
		return nil, "", err
	}

	logger.Log.Info("session created",
		zap.String("sessionId", session.ID),
		zap.String("language", language),
		zap.Int("numQuestions", numQuestions))

	return session, token, nil
}

func (s *SessionService) GetSession(ctx context.Context, id string) (*model.QuizSession, error) {
	return s.store.Get(ctx, id)
}

func (s *SessionService) EndSession(ctx context.Context, id string) error {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if session.DocumentName != "" {
		if err := s.storage.Delete(ctx, storedDocumentName(session)); err != nil {
			logger.Log.Warn("failed to delete stored document", zap.String("sessionId", id), zap.Error(err))
		}
	}
	return s.store.Delete(ctx, id)
}

// SetLanguage switches the learner language and retranslates whatever the
// session already holds. Thanks to the translation cache a switch back to a
// previous language costs no network calls.
func (s *SessionService) SetLanguage(ctx context.Context, id, language string) (*model.QuizSession, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Language = language
	s.translateQuestions(ctx, session)
	s.retranslateResults(ctx, session)
	session.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// UploadDocument extracts the document's text and keeps the original bytes
// in storage under the session ID.
func (s *SessionService) UploadDocument(ctx context.Context, id, filename string, data []byte) (*model.QuizSession, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	text, err := s.extract.ExtractText(ctx, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	session.DocumentName = filename
	session.DocumentText = text

	url, err := s.storage.Upload(ctx, storedDocumentName(session), bytes.NewReader(data), int64(len(data)), "application/pdf")
	if err != nil {
		// storage is a convenience copy; extraction already succeeded
		logger.Log.Warn("failed to store uploaded document", zap.String("sessionId", id), zap.Error(err))
	} else {
		session.DocumentURL = url
	}

	session.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	logger.Log.Info("document uploaded",
		zap.String("sessionId", id),
		zap.String("filename", filename),
		zap.Int("textLength", len(text)))

	return session, nil
}

// GenerateQuestions builds a fresh question set from the uploaded document
// and installs it on the session, resetting answers and results.
func (s *SessionService) GenerateQuestions(ctx context.Context, id string) (*model.QuizSession, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.DocumentText == "" {
		return nil, util.ErrNoDocument
	}

	questions, err := s.questions.GenerateQuestions(ctx, session.DocumentText, session.NumQuestions)
	if err != nil {
		return nil, err
	}

	session.SetQuestions(questions)
	s.translateQuestions(ctx, session)
	session.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	logger.Log.Info("questions generated",
		zap.String("sessionId", id),
		zap.Int("count", len(questions)))

	return session, nil
}

func (s *SessionService) SubmitTypedAnswer(ctx context.Context, id string, questionIndex int, text string) (*model.QuizSession, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.answers.SubmitTyped(session, questionIndex, text); err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) SubmitAudioAnswer(ctx context.Context, id string, questionIndex int, filename string, audio []byte) (string, bool, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return "", false, err
	}

	answer, added, err := s.answers.SubmitAudio(ctx, session, questionIndex, filename, audio)
	if err != nil {
		return "", false, err
	}

	if added {
		session.UpdatedAt = time.Now()
		if err := s.store.Save(ctx, session); err != nil {
			return "", false, err
		}
	}
	return answer, added, nil
}

// Evaluate grades the whole question set in one batch and stores the
// results on the session.
func (s *SessionService) Evaluate(ctx context.Context, id string) (*model.QuizSession, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(session.Questions) == 0 {
		return nil, util.ErrNoQuestions
	}

	session.Results = s.grading.GradeSession(ctx, session)
	session.Graded = true
	session.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	logger.Log.Info("session graded",
		zap.String("sessionId", id),
		zap.Int("results", len(session.Results)))

	return session, nil
}

func (s *SessionService) translateQuestions(ctx context.Context, session *model.QuizSession) {
	if s.translator.IsSourceLanguage(session.Language) {
		for i := range session.Questions {
			session.Questions[i].PromptTranslated = ""
			session.Questions[i].ExpectedAnswerTranslated = ""
		}
		return
	}
	for i := range session.Questions {
		session.Questions[i].PromptTranslated = s.translator.Translate(ctx, session.Questions[i].Prompt, session.Language)
		session.Questions[i].ExpectedAnswerTranslated = s.translator.Translate(ctx, session.Questions[i].ExpectedAnswer, session.Language)
	}
}

func (s *SessionService) retranslateResults(ctx context.Context, session *model.QuizSession) {
	if s.translator.IsSourceLanguage(session.Language) {
		for i := range session.Results {
			session.Results[i].FeedbackTranslated = ""
			session.Results[i].ModelAnswerTranslated = ""
		}
		return
	}
	for i := range session.Results {
		session.Results[i].FeedbackTranslated = s.translator.Translate(ctx, session.Results[i].Feedback, session.Language)
		session.Results[i].ModelAnswerTranslated = s.translator.Translate(ctx, session.Results[i].ModelAnswer, session.Language)
	}
}

func storedDocumentName(session *model.QuizSession) string {
	ext := filepath.Ext(session.DocumentName)
	if ext == "" {
		ext = ".pdf"
	}
	return fmt.Sprintf("documents/%s%s", session.ID, ext)
}
