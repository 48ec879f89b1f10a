// Package ocr talks to an HTTP OCR collaborator that turns image bytes
// into plain text. The analyzer treats OCR output as best-effort: an
// unreadable image costs its text, never the run.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/slidelens/deck-analyzer/internal/domain"
	"github.com/slidelens/deck-analyzer/internal/observability"
)

// Client handles communication with the OCR service. It implements
// domain.Recognizer.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	retry      *RetryConfig
	logger     *observability.Logger
}

// request is the OCR API request structure.
type request struct {
	Image string `json:"image"`
}

// response is the OCR API response structure.
type response struct {
	Text string `json:"text"`
}

// NewClient creates an OCR client. Timeout bounds each individual HTTP
// attempt; retries are governed separately.
func NewClient(endpoint, apiKey string, timeout time.Duration, logger *observability.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		retry:      DefaultRetryConfig(),
		logger:     logger.WithComponent("ocr"),
	}
}

// Recognize sends one image to the OCR service and returns the text it
// found. An image with no recognizable text yields an empty string and a
// nil error.
func (c *Client) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", nil
	}

	body, err := json.Marshal(request{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return "", domain.OCRError("failed to marshal request", err)
	}

	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		reqBody := bytes.NewReader(body)
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, reqBody)
		if err != nil {
			return nil, err
		}

		httpReq.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		return c.httpClient.Do(httpReq)
	})
	if err != nil {
		return "", domain.OCRError("failed to send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", domain.OCRError(
			fmt.Sprintf("service returned status %d: %s", resp.StatusCode, string(bodyBytes)), nil)
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", domain.OCRError("failed to parse response", err)
	}

	return strings.TrimSpace(parsed.Text), nil
}
