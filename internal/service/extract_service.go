package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"quizgen_backend/internal/config"
	"quizgen_backend/internal/util"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// ExtractorProvider pulls plain text out of an uploaded document.
type ExtractorProvider interface {
	Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error)
}

// PDFExtractor extracts text in-process, page by page.
type PDFExtractor struct{}

func (p *PDFExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrExtractionFailed, err)
	}

	var sb strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// a single broken page should not sink the document
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// RemoteExtractor sends the raw bytes to a Tika-style extraction service
// that answers with the document's plain text.
type RemoteExtractor struct {
	config config.ExtractorConfig
	client *http.Client
}

func NewRemoteExtractor(cfg config.ExtractorConfig) *RemoteExtractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RemoteExtractor{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (e *RemoteExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "PUT", e.config.BaseURL+"/tika",
		io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Accept", "text/plain")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: extraction service status %d: %s", util.ErrExtractionFailed, resp.StatusCode, string(body))
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrExtractionFailed, err)
	}

	return buf.String(), nil
}

// ExtractService wraps the configured provider and enforces the non-empty
// document invariant.
type ExtractService struct {
	Provider ExtractorProvider
}

func NewExtractService(cfg *config.Config) *ExtractService {
	var provider ExtractorProvider
	switch cfg.Extractor.Type {
	case "remote":
		provider = NewRemoteExtractor(cfg.Extractor)
	}

	if provider == nil {
		provider = &PDFExtractor{}
	}

	return &ExtractService{Provider: provider}
}

func (s *ExtractService) ExtractText(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	text, err := s.Provider.Extract(ctx, r, size)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", util.ErrEmptyDocument
	}

	return text, nil
}
