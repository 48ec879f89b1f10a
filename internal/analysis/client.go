// Package analysis sends consolidated deck text to the Gemini reasoning
// model and validates the structured findings it returns.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/slidelens/deck-analyzer/internal/domain"
	"github.com/slidelens/deck-analyzer/internal/observability"
)

const (
	maxRetries     = 3
	initialBackoff = 2 * time.Second
	maxBackoff     = 30 * time.Second
)

// Client implements domain.Analyzer against the Gemini API.
type Client struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
	logger  *observability.Logger
}

// NewClient creates an analysis client for the given model name. timeout
// bounds one whole Analyze call including retries; a stalled upstream
// fails the operation instead of hanging the run.
func NewClient(ctx context.Context, apiKey, modelName string, timeout time.Duration, logger *observability.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, domain.ConfigError("analysis API key is not set", nil)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, domain.APIError("failed to create analysis client", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"

	return &Client{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger.WithComponent("analysis"),
	}, nil
}

// Analyze sends the deck to the model and returns validated issues. A
// consistent deck yields an empty slice; an empty or malformed model
// response is an error, never silently treated as "no findings".
func (c *Client) Analyze(ctx context.Context, slides []domain.ExtractedSlideText) ([]domain.Issue, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt := buildPrompt(slides)

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	issues, err := parseIssues(raw)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyResponse) {
			return nil, domain.APIError("model returned no analysis", err)
		}
		return nil, domain.APIError("model output failed validation", err)
	}

	c.logger.Debug().Int("issues", len(issues)).Msg("analysis complete")
	return issues, nil
}

// generate calls the model with retry on transient failures.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return "", contextError(ctx)
		default:
		}

		resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
		if err == nil {
			return responseText(resp), nil
		}

		lastErr = err
		if !isTransient(err) {
			return "", domain.APIError("analysis request failed", err)
		}

		if attempt == maxRetries {
			break
		}

		backoff := time.Duration(float64(initialBackoff) * math.Pow(2, float64(attempt)))
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		c.logger.Warn().
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Dur("backoff", backoff).
			Err(err).
			Msg("analysis request failed, retrying")

		select {
		case <-ctx.Done():
			return "", contextError(ctx)
		case <-time.After(backoff):
		}
	}

	return "", domain.RetryableAPIError(
		fmt.Sprintf("analysis failed after %d retries", maxRetries), lastErr)
}

// contextError maps a hit deadline onto the analysis error taxonomy;
// plain cancellation (Ctrl-C) passes through untouched.
func contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.APIError("analysis timed out", ctx.Err())
	}
	return ctx.Err()
}

// isTransient reports whether the API error is worth another attempt:
// rate limits and upstream 5xx responses.
func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	// The SDK surfaces some transport-level failures as plain errors.
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "temporarily unavailable")
}

// responseText flattens the first candidate's text parts.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// Close releases the underlying API client.
func (c *Client) Close() error {
	return c.client.Close()
}
