// Package ocr implements the text extraction port against an HTTP OCR
// service (e.g. a Tesseract sidecar).
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client sends documents to an OCR endpoint accepting
// {"document_url": "..."} and returning {"text": "..."}.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New constructs an OCR client for the given endpoint.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type extractRequest struct {
	DocumentURL string `json:"document_url"`
}

type extractResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// ExtractText machine-reads the document at the given URL.
func (c *Client) ExtractText(ctx context.Context, documentURL string) (string, error) {
	body, err := json.Marshal(extractRequest{DocumentURL: documentURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr service returned status %d", resp.StatusCode)
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("ocr extraction failed: %s", out.Error)
	}
	return out.Text, nil
}
