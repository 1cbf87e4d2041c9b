// Package media wraps the OCR and speech-to-text services that turn
// receipt photos and voice notes into raw text for the extraction pipeline.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OCR extracts text from a receipt image.
type OCR interface {
	ExtractText(ctx context.Context, imageURL string) (string, error)
}

// Transcriber turns an audio attachment into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}

// HTTPOCR calls a document-text endpoint with the image URL.
type HTTPOCR struct {
	baseURL string
	client  *http.Client
}

func NewHTTPOCR(baseURL string) *HTTPOCR {
	return &HTTPOCR{baseURL: baseURL, client: &http.Client{Timeout: 30 * time.Second}}
}

func (o *HTTPOCR) ExtractText(ctx context.Context, imageURL string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"image_url": imageURL})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/document-text", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr call: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr call: service returned %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}
	return out.Text, nil
}

// HTTPTranscriber posts raw audio to a speech-to-text endpoint.
type HTTPTranscriber struct {
	baseURL string
	client  *http.Client
}

func NewHTTPTranscriber(baseURL string) *HTTPTranscriber {
	return &HTTPTranscriber{baseURL: baseURL, client: &http.Client{Timeout: 60 * time.Second}}
}

func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/transcribe", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("build transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe call: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcribe call: service returned %d", resp.StatusCode)
	}

	var out struct {
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode transcript: %w", err)
	}
	return out.Transcript, nil
}
