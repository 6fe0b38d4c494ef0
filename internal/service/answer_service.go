package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"quizgen_backend/internal/model"
	"quizgen_backend/internal/util"
	"quizgen_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

// AnswerService records typed and dictated answers on a session. The caller
// owns saving the mutated session back to the store.
type AnswerService struct {
	speech Transcriber
}

func NewAnswerService(speech Transcriber) *AnswerService {
	return &AnswerService{speech: speech}
}

// SubmitTyped overwrites the stored answer for a question, last write wins.
func (s *AnswerService) SubmitTyped(session *model.QuizSession, questionIndex int, text string) error {
	if questionIndex < 0 || questionIndex >= len(session.Answers) {
		return util.ErrQuestionIndex
	}

	session.Answers[questionIndex] = model.AnswerSubmission{
		QuestionIndex: questionIndex,
		ResponseText:  strings.TrimSpace(text),
		Source:        model.SourceTyped,
	}
	return nil
}

// SubmitAudio transcribes a recording and appends the transcript to the
// stored answer. A payload whose fingerprint was already processed for the
// question is skipped entirely, so a UI re-render cannot double-append. On
// transcription failure the stored answer is left untouched.
func (s *AnswerService) SubmitAudio(ctx context.Context, session *model.QuizSession, questionIndex int, filename string, audio []byte) (string, bool, error) {
	if questionIndex < 0 || questionIndex >= len(session.Answers) {
		return "", false, util.ErrQuestionIndex
	}
	if len(audio) == 0 {
		return "", false, util.ErrEmptyAudio
	}

	hash := fingerprint(audio)
	if session.HasFingerprint(questionIndex, hash) {
		logger.Log.Debug("duplicate audio payload skipped",
			zap.String("sessionId", session.ID),
			zap.Int("question", questionIndex))
		return session.Answers[questionIndex].ResponseText, false, nil
	}

	transcript, err := s.speech.Transcribe(ctx, filename, audio)
	if err != nil {
		return "", false, err
	}

	current := session.Answers[questionIndex].ResponseText
	if current == "" {
		current = transcript
	} else if transcript != "" {
		current = current + " " + transcript
	}

	session.Answers[questionIndex] = model.AnswerSubmission{
		QuestionIndex: questionIndex,
		ResponseText:  current,
		Source:        model.SourceTranscribed,
	}
	session.AddFingerprint(questionIndex, hash)

	return current, true, nil
}

func fingerprint(audio []byte) string {
	sum := sha256.Sum256(audio)
	return hex.EncodeToString(sum[:])
}
