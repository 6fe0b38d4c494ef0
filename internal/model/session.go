package model

import "time"

type AnswerSource string

const (
	SourceTyped       AnswerSource = "typed"
	SourceTranscribed AnswerSource = "transcribed"
)

// Question is one generated question/answer-key pair. The prompt and
// expected answer are in the source language; the translated fields are
// filled in after generation and are empty when the learner language equals
// the source language.
type Question struct {
	Prompt                   string `json:"prompt"`
	ExpectedAnswer           string `json:"expectedAnswer"`
	PromptTranslated         string `json:"promptTranslated,omitempty"`
	ExpectedAnswerTranslated string `json:"expectedAnswerTranslated,omitempty"`
}

// AnswerSubmission is the learner's current answer for one question. It is
// overwritten on typed edits and appended to on repeated recordings.
type AnswerSubmission struct {
	QuestionIndex int          `json:"questionIndex"`
	ResponseText  string       `json:"responseText"`
	Source        AnswerSource `json:"source,omitempty"`
}

// GradingResult is the scored outcome for one question. Score is on the
// 0-10 rubric; a response carrying the core correct concept scores at
// least 6 even when incomplete.
type GradingResult struct {
	QuestionIndex         int     `json:"questionIndex"`
	Score                 float64 `json:"score"`
	Feedback              string  `json:"feedback"`
	FeedbackTranslated    string  `json:"feedbackTranslated,omitempty"`
	ModelAnswer           string  `json:"modelAnswer"`
	ModelAnswerTranslated string  `json:"modelAnswerTranslated,omitempty"`
}

// QuizSession is the whole state of one interactive quiz run. It lives in
// the session store for the configured TTL and is never persisted durably.
// Answers is always kept parallel to Questions.
type QuizSession struct {
	ID           string             `json:"id"`
	Language     string             `json:"language"`
	NumQuestions int                `json:"numQuestions"`
	DocumentName string             `json:"documentName,omitempty"`
	DocumentText string             `json:"documentText,omitempty"`
	DocumentURL  string             `json:"documentUrl,omitempty"`
	Questions    []Question         `json:"questions"`
	Answers      []AnswerSubmission `json:"answers"`
	Results      []GradingResult    `json:"results,omitempty"`
	Graded       bool               `json:"graded"`
	// AudioFingerprints maps question index to the hashes of recordings
	// already transcribed, so a re-submitted payload is not appended twice.
	AudioFingerprints map[int][]string `json:"audioFingerprints,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// SetQuestions installs a freshly generated question set and resets the
// parallel answer slice and any previous grading state.
func (s *QuizSession) SetQuestions(questions []Question) {
	s.Questions = questions
	s.Answers = make([]AnswerSubmission, len(questions))
	for i := range s.Answers {
		s.Answers[i].QuestionIndex = i
	}
	s.Results = nil
	s.Graded = false
	s.AudioFingerprints = nil
}

// HasFingerprint reports whether the given audio hash was already processed
// for the question.
func (s *QuizSession) HasFingerprint(questionIndex int, hash string) bool {
	for _, h := range s.AudioFingerprints[questionIndex] {
		if h == hash {
			return true
		}
	}
	return false
}

func (s *QuizSession) AddFingerprint(questionIndex int, hash string) {
	if s.AudioFingerprints == nil {
		s.AudioFingerprints = make(map[int][]string)
	}
	s.AudioFingerprints[questionIndex] = append(s.AudioFingerprints[questionIndex], hash)
}
