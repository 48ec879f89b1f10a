package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidelens/deck-analyzer/internal/domain"
	"github.com/slidelens/deck-analyzer/internal/observability"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "gemini-1.5-flash-latest",
		time.Minute, observability.Nop())
	require.Error(t, err)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrorTypeConfig, de.Type)
}

func TestNewClientThreadsTimeout(t *testing.T) {
	c, err := NewClient(context.Background(), "test-key", "gemini-1.5-flash-latest",
		42*time.Second, observability.Nop())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 42*time.Second, c.timeout)
}

func TestAnalyzeDeadlineIsFatalAnalysisError(t *testing.T) {
	c, err := NewClient(context.Background(), "test-key", "gemini-1.5-flash-latest",
		time.Minute, observability.Nop())
	require.NoError(t, err)
	defer c.Close()

	// An already-expired deadline must fail the operation immediately
	// instead of hanging or passing through as a bare context error.
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	start := time.Now()
	_, err = c.Analyze(ctx, []domain.ExtractedSlideText{{Index: 1, Text: "[Body]:\nx"}})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrorTypeAPI, de.Type)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, domain.IsRetryable(err))
}

func TestContextErrorPassesThroughCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := contextError(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	var de *domain.DomainError
	assert.False(t, errors.As(err, &de), "cancellation is not an API failure")
}
