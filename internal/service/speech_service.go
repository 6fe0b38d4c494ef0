package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"quizgen_backend/internal/config"
	"quizgen_backend/internal/util"
	"quizgen_backend/pkg/logger"
	"quizgen_backend/pkg/monitoring"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transcriber converts an audio recording to text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// SpeechService calls an OpenAI-compatible audio transcription endpoint.
// With normalization enabled the recording is first transcoded to 16kHz
// mono WAV via ffmpeg.
type SpeechService struct {
	config config.SpeechConfig
	client *http.Client
}

func NewSpeechService(cfg config.SpeechConfig) *SpeechService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &SpeechService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *SpeechService) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", util.ErrEmptyAudio
	}

	if s.config.Normalize {
		normalized, err := s.normalize(filename, audio)
		if err != nil {
			logger.Log.Warn("audio normalization failed, sending original recording", zap.Error(err))
		} else {
			audio = normalized
			filename = "recording.wav"
		}
	}

	text, err := s.transcribe(ctx, filename, audio)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	monitoring.TranscriptionCounter.WithLabelValues(outcome).Inc()

	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrTranscriptionFailed, err)
	}
	return text, nil
}

func (s *SpeechService) transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.WriteField("model", s.config.Model); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	return strings.TrimSpace(result.Text), nil
}

// normalize round-trips the recording through temp files because ffmpeg
// works on paths, not streams.
func (s *SpeechService) normalize(filename string, audio []byte) ([]byte, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".webm"
	}

	tmpDir := os.TempDir()
	id := uuid.New().String()
	inPath := filepath.Join(tmpDir, id+ext)
	outPath := filepath.Join(tmpDir, id+".wav")

	if err := os.WriteFile(inPath, audio, 0600); err != nil {
		return nil, err
	}
	defer os.Remove(inPath)
	defer os.Remove(outPath)

	if info, err := util.GetAudioInfo(inPath); err == nil {
		logger.Log.Debug("normalizing recording",
			zap.Float64("durationSeconds", info.Duration),
			zap.String("codec", info.Codec),
			zap.Int("channels", info.Channels))
	}

	if err := util.NormalizeAudio(inPath, outPath); err != nil {
		return nil, err
	}

	return os.ReadFile(outPath)
}
