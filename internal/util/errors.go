package util

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found or expired")
	ErrEmptyDocument       = errors.New("document contains no extractable text")
	ErrExtractionFailed    = errors.New("document text extraction failed")
	ErrNoDocument          = errors.New("no document uploaded for this session")
	ErrMalformedResponse   = errors.New("model response did not match the expected shape")
	ErrNoQuestions         = errors.New("no questions generated for this session")
	ErrQuestionIndex       = errors.New("question index out of range")
	ErrTranscriptionFailed = errors.New("audio transcription failed")
	ErrEmptyAudio          = errors.New("audio recording is empty")
)
