package service

import (
	"context"
	"io"
	"quizgen_backend/internal/config"
	"quizgen_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	return f.text, f.err
}

// scriptedChat answers per operation so one fake can serve generation and
// grading in the same workflow.
type scriptedChat struct {
	responses map[string]string
}

func (s *scriptedChat) Chat(ctx context.Context, operation string, messages []ChatMessage) (string, error) {
	return s.responses[operation], nil
}

func newTestConfig(t *testing.T) *config.Config {
	return &config.Config{
		Session: config.SessionConfig{
			Store:  "memory",
			Secret: "test-secret",
			TTL:    time.Hour,
		},
		Storage: config.StorageConfig{
			Type:      "local",
			LocalPath: t.TempDir(),
		},
		Quiz: config.QuizConfig{
			SourceLanguage: "en",
			MaxQuestions:   10,
			DocumentBudget: 6000,
		},
	}
}

func newWorkflowService(t *testing.T, ai ChatCompleter, extractor ExtractorProvider, translator *TranslateService) *SessionService {
	cfg := newTestConfig(t)
	if translator == nil {
		translator = NewTranslateServiceWithProviders("en")
	}
	return NewSessionService(
		NewMemorySessionStore(cfg.Session.TTL),
		&ExtractService{Provider: extractor},
		NewQuestionService(ai, cfg.Quiz.DocumentBudget),
		translator,
		NewAnswerService(&fakeTranscriber{transcript: "spoken answer"}),
		NewGradingService(ai, translator),
		NewStorageService(cfg),
		cfg,
	)
}

func TestCreateSessionDefaultsAndToken(t *testing.T) {
	svc := newWorkflowService(t, &fakeChat{}, &fakeExtractor{}, nil)

	session, token, err := svc.CreateSession(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, "en", session.Language)
	assert.Equal(t, 3, session.NumQuestions)

	claims, err := util.ParseSessionToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, session.ID, claims.SessionID)
}

func TestCreateSessionClampsQuestionCount(t *testing.T) {
	svc := newWorkflowService(t, &fakeChat{}, &fakeExtractor{}, nil)

	session, _, err := svc.CreateSession(context.Background(), "es", 50)
	require.NoError(t, err)
	assert.Equal(t, 10, session.NumQuestions)
	assert.Equal(t, "es", session.Language)
}

func TestGenerateQuestionsRequiresDocument(t *testing.T) {
	svc := newWorkflowService(t, &fakeChat{}, &fakeExtractor{}, nil)
	session, _, err := svc.CreateSession(context.Background(), "en", 3)
	require.NoError(t, err)

	_, err = svc.GenerateQuestions(context.Background(), session.ID)
	assert.ErrorIs(t, err, util.ErrNoDocument)
}

func TestUploadDocumentEmptyText(t *testing.T) {
	svc := newWorkflowService(t, &fakeChat{}, &fakeExtractor{text: "  \n "}, nil)
	session, _, err := svc.CreateSession(context.Background(), "en", 3)
	require.NoError(t, err)

	_, err = svc.UploadDocument(context.Background(), session.ID, "scan.pdf", []byte("%PDF-"))
	assert.ErrorIs(t, err, util.ErrEmptyDocument)
}

func TestWorkflowUploadGenerateAnswerEvaluate(t *testing.T) {
	ai := &scriptedChat{responses: map[string]string{
		"generate": `[
			{"question": "What is photosynthesis?", "answer": "Light to chemical energy"},
			{"question": "Where does it happen?", "answer": "Chloroplasts"}
		]`,
		"grade": `[
			{"index": 0, "score": 9, "feedback": "Solid", "model_answer": "Light to chemical energy"},
			{"index": 1, "score": 2, "feedback": "Off target", "model_answer": "Chloroplasts"}
		]`,
	}}
	svc := newWorkflowService(t, ai, &fakeExtractor{text: "chapter on photosynthesis"}, nil)

	session, _, err := svc.CreateSession(context.Background(), "en", 2)
	require.NoError(t, err)

	session, err = svc.UploadDocument(context.Background(), session.ID, "bio.pdf", []byte("%PDF-"))
	require.NoError(t, err)
	assert.Equal(t, "bio.pdf", session.DocumentName)
	assert.NotEmpty(t, session.DocumentURL)

	session, err = svc.GenerateQuestions(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, session.Questions, 2)
	require.Len(t, session.Answers, 2)

	session, err = svc.SubmitTypedAnswer(context.Background(), session.ID, 0, "converts light to chemical energy")
	require.NoError(t, err)
	assert.Equal(t, "converts light to chemical energy", session.Answers[0].ResponseText)

	answer, added, err := svc.SubmitAudioAnswer(context.Background(), session.ID, 1, "a.webm", []byte("audio"))
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "spoken answer", answer)

	session, err = svc.Evaluate(context.Background(), session.ID)
	require.NoError(t, err)
	assert.True(t, session.Graded)
	require.Len(t, session.Results, 2)
	assert.Equal(t, 9.0, session.Results[0].Score)
}

func TestGenerateQuestionsTranslatesForLearnerLanguage(t *testing.T) {
	ai := &scriptedChat{responses: map[string]string{
		"generate": `[{"question": "Q", "answer": "A"}]`,
	}}
	provider := &fakeProvider{name: "hosted", result: "traducido"}
	translator := NewTranslateServiceWithProviders("en", provider)
	svc := newWorkflowService(t, ai, &fakeExtractor{text: "doc"}, translator)

	session, _, err := svc.CreateSession(context.Background(), "es", 1)
	require.NoError(t, err)

	_, err = svc.UploadDocument(context.Background(), session.ID, "doc.pdf", []byte("%PDF-"))
	require.NoError(t, err)

	session, err = svc.GenerateQuestions(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, session.Questions, 1)
	assert.Equal(t, "traducido", session.Questions[0].PromptTranslated)
	assert.Equal(t, "traducido", session.Questions[0].ExpectedAnswerTranslated)
}

func TestSetLanguageBackToSourceClearsTranslations(t *testing.T) {
	ai := &scriptedChat{responses: map[string]string{
		"generate": `[{"question": "Q", "answer": "A"}]`,
	}}
	provider := &fakeProvider{name: "hosted", result: "traducido"}
	translator := NewTranslateServiceWithProviders("en", provider)
	svc := newWorkflowService(t, ai, &fakeExtractor{text: "doc"}, translator)

	session, _, err := svc.CreateSession(context.Background(), "es", 1)
	require.NoError(t, err)
	_, err = svc.UploadDocument(context.Background(), session.ID, "doc.pdf", []byte("%PDF-"))
	require.NoError(t, err)
	_, err = svc.GenerateQuestions(context.Background(), session.ID)
	require.NoError(t, err)

	session, err = svc.SetLanguage(context.Background(), session.ID, "en")
	require.NoError(t, err)
	assert.Empty(t, session.Questions[0].PromptTranslated)
	assert.Empty(t, session.Questions[0].ExpectedAnswerTranslated)
}

func TestEvaluateRequiresQuestions(t *testing.T) {
	svc := newWorkflowService(t, &fakeChat{}, &fakeExtractor{}, nil)
	session, _, err := svc.CreateSession(context.Background(), "en", 3)
	require.NoError(t, err)

	_, err = svc.Evaluate(context.Background(), session.ID)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestEndSessionRemovesState(t *testing.T) {
	svc := newWorkflowService(t, &fakeChat{}, &fakeExtractor{text: "doc"}, nil)
	session, _, err := svc.CreateSession(context.Background(), "en", 3)
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(context.Background(), session.ID))

	_, err = svc.GetSession(context.Background(), session.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}
