// Package attachments downloads message attachments and extracts their
// text so the bot can echo it back.
package attachments

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"devbot/internal/common"
	"devbot/internal/config"
)

const (
	// maxExtractedChars bounds the reply size per attachment.
	maxExtractedChars = 4000
	// maxCSVRows bounds how much of a spreadsheet is echoed back.
	maxCSVRows = 50

	errorMarker       = "[Error processing attachment]"
	unsupportedMarker = "[Unsupported file type]"
)

// Attachment is the transport-layer view of an uploaded file.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType,omitempty"`
	ContentURL  string `json:"contentUrl"`
}

// Extractor downloads attachments and converts them to text.
type Extractor struct {
	httpClient *http.Client
	maxBytes   int64
}

func NewExtractor(cfg config.Config) *Extractor {
	maxMB := cfg.AttachmentMaxMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &Extractor{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxBytes:   int64(maxMB) * 1024 * 1024,
	}
}

// ExtractAll processes each attachment independently. A failing attachment
// contributes a fixed error marker and never aborts the batch.
func (e *Extractor) ExtractAll(ctx context.Context, atts []Attachment) []string {
	logger := common.Logger()
	out := make([]string, 0, len(atts))
	for _, att := range atts {
		text, err := e.extractOne(ctx, att)
		if err != nil {
			logger.Warn("attachments: extraction failed", "name", att.Name, "error", err)
			out = append(out, errorMarker)
			continue
		}
		out = append(out, text)
	}
	return out
}

func (e *Extractor) extractOne(ctx context.Context, att Attachment) (string, error) {
	if strings.TrimSpace(att.ContentURL) == "" {
		return "", errors.New("attachment has no content URL")
	}
	data, err := e.download(ctx, att.ContentURL)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", att.Name, err)
	}

	ext := strings.ToLower(filepath.Ext(att.Name))
	tmpPath := filepath.Join(os.TempDir(), "devbot-"+uuid.NewString()+ext)
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	// Best-effort cleanup on every exit path; a leftover temp file is not
	// worth surfacing to the user.
	defer func() { _ = os.Remove(tmpPath) }()

	var text string
	switch ext {
	case ".pdf":
		text, err = extractPDF(tmpPath)
	case ".csv":
		text, err = extractCSV(tmpPath)
	case ".txt", ".md", ".log":
		text, err = extractPlainText(tmpPath)
	default:
		text = unsupportedMarker
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", att.Name, err)
	}
	return truncate("File: "+att.Name+"\n"+text, maxExtractedChars), nil
}

func (e *Extractor) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > e.maxBytes {
		return nil, fmt.Errorf("attachment exceeds %d byte limit", e.maxBytes)
	}
	return data, nil
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(content); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	var rows []string
	for len(rows) < maxCSVRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		rows = append(rows, strings.Join(record, ", "))
	}
	return strings.Join(rows, "\n"), nil
}

func extractPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
