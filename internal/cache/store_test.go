package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidelens/deck-analyzer/internal/domain"
	"github.com/slidelens/deck-analyzer/internal/observability"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "reports.db"), observability.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleReport() *domain.Report {
	return &domain.Report{
		SourceFile: "deck.pptx",
		Issues: []domain.Issue{{
			Category: domain.CategoryNumerical,
			Conflict: "Slide 1 claims $2M but slide 2 claims $3M",
			Evidence: []string{`Slide 1: "$2M Impact"`, `Slide 2: "$3M saved"`},
		}},
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestFingerprintDeterminism(t *testing.T) {
	data := []byte("same deck bytes")

	fp1 := FingerprintBytes(data)
	fp2 := FingerprintBytes(data)
	assert.Equal(t, fp1, fp2)
	assert.Len(t, string(fp1), 64)

	changed := FingerprintBytes([]byte("same deck bytez"))
	assert.NotEqual(t, fp1, changed)
}

func TestFingerprintFileIgnoresName(t *testing.T) {
	dir := t.TempDir()
	content := []byte("identical content")

	a := filepath.Join(dir, "a.pptx")
	b := filepath.Join(dir, "renamed.pptx")
	require.NoError(t, os.WriteFile(a, content, 0o644))
	require.NoError(t, os.WriteFile(b, content, 0o644))

	fpA, err := FingerprintFile(a)
	require.NoError(t, err)
	fpB, err := FingerprintFile(b)
	require.NoError(t, err)
	assert.Equal(t, fpA, fpB)
}

func TestFingerprintFileMissing(t *testing.T) {
	_, err := FingerprintFile(filepath.Join(t.TempDir(), "absent.pptx"))
	require.Error(t, err)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrorTypeIO, de.Type)
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	fp := FingerprintBytes([]byte("deck"))
	report := sampleReport()

	require.NoError(t, store.Store(ctx, fp, report))

	got, err := store.Lookup(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, report.SourceFile, got.SourceFile)
	assert.Equal(t, report.Issues, got.Issues)
	assert.True(t, report.GeneratedAt.Equal(got.GeneratedAt))
}

func TestLookupMiss(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Lookup(context.Background(), FingerprintBytes([]byte("never stored")))
	require.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestStoreOverwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	fp := FingerprintBytes([]byte("deck"))

	first := sampleReport()
	require.NoError(t, store.Store(ctx, fp, first))

	second := &domain.Report{
		SourceFile:  "deck.pptx",
		Issues:      nil,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Store(ctx, fp, second))

	got, err := store.Lookup(ctx, fp)
	require.NoError(t, err)
	assert.Zero(t, got.Count())
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.db")
	ctx := context.Background()
	fp := FingerprintBytes([]byte("deck"))

	store, err := NewSQLiteStore(path, observability.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Store(ctx, fp, sampleReport()))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path, observability.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Lookup(ctx, fp)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count())
}
