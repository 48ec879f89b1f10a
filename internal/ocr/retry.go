package ocr

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/slidelens/deck-analyzer/internal/domain"
)

const (
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: initialBackoff,
		MaxBackoff:     maxBackoff,
	}
}

// shouldRetry determines if a status code is worth another attempt.
func shouldRetry(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusInternalServerError:
		return true
	case http.StatusBadGateway:
		return true
	case http.StatusServiceUnavailable:
		return true
	case http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// calculateBackoff calculates exponential backoff duration, capped.
func calculateBackoff(attempt int, config *RetryConfig) time.Duration {
	backoff := float64(config.InitialBackoff) * math.Pow(2, float64(attempt))
	if backoff > float64(config.MaxBackoff) {
		backoff = float64(config.MaxBackoff)
	}
	return time.Duration(backoff)
}

// retryWithBackoff wraps an HTTP request with retry logic. Non-retryable
// statuses return immediately; waits honor context cancellation.
func (c *Client) retryWithBackoff(ctx context.Context, reqFunc func() (*http.Response, error)) (*http.Response, error) {
	config := c.retry
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := reqFunc()

		if err == nil && resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else if resp != nil {
			lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)

			if !shouldRetry(resp.StatusCode) {
				return resp, nil
			}

			if resp.Body != nil {
				resp.Body.Close()
			}
		}

		if attempt == config.MaxRetries {
			break
		}

		backoff := calculateBackoff(attempt, config)
		c.logger.Warn().
			Int("attempt", attempt+1).
			Int("max_retries", config.MaxRetries).
			Dur("backoff", backoff).
			Err(lastErr).
			Msg("ocr request failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, domain.RetryableAPIError(
		fmt.Sprintf("ocr request failed after %d retries", config.MaxRetries), lastErr)
}
