// Package pipeline wires the analyzer's stages together: fingerprint,
// cache lookup, deck load, text consolidation, remote analysis, and
// cache write-back.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slidelens/deck-analyzer/internal/cache"
	"github.com/slidelens/deck-analyzer/internal/domain"
	"github.com/slidelens/deck-analyzer/internal/observability"
)

// Extractor consolidates loaded slides into analyzable text.
type Extractor interface {
	Extract(ctx context.Context, slides []domain.SlideRecord, onSlide func(index int)) ([]domain.ExtractedSlideText, error)
}

// Hooks lets the CLI surface progress without the pipeline knowing about
// terminals. Every field is optional.
type Hooks struct {
	OnLoadDone       func(slideCount int)
	OnSlideExtracted func(index, total int)
	OnAnalysisStart  func()
	OnAnalysisDone   func()
}

// Result is one pipeline run's outcome.
type Result struct {
	Report    *domain.Report
	FromCache bool
}

// Pipeline runs the full deck analysis flow.
type Pipeline struct {
	loader    domain.Loader
	extractor Extractor
	analyzer  domain.Analyzer
	store     domain.CacheStore // nil disables caching entirely
	logger    *observability.Logger
}

// New creates a pipeline. A nil store disables caching.
func New(loader domain.Loader, extractor Extractor, analyzer domain.Analyzer, store domain.CacheStore, logger *observability.Logger) *Pipeline {
	return &Pipeline{
		loader:    loader,
		extractor: extractor,
		analyzer:  analyzer,
		store:     store,
		logger:    logger.WithComponent("pipeline"),
	}
}

// Run analyzes the deck at path. bypassCache skips the cache lookup but
// still stores the fresh result, so a forced re-analysis refreshes the
// cache instead of orphaning it.
func (p *Pipeline) Run(ctx context.Context, path string, bypassCache bool, hooks *Hooks) (*Result, error) {
	logger := p.logger.WithRun(uuid.NewString())

	if !strings.EqualFold(filepath.Ext(path), ".pptx") {
		return nil, domain.ValidationError(
			fmt.Sprintf("unsupported file type %q, expected .pptx", filepath.Ext(path)), nil)
	}

	fp, err := cache.FingerprintFile(path)
	if err != nil {
		return nil, err
	}

	if p.store != nil && !bypassCache {
		cached, err := p.store.Lookup(ctx, fp)
		if err == nil {
			logger.Info().Str("fingerprint", string(fp)).Msg("cache hit, skipping analysis")
			return &Result{Report: cached, FromCache: true}, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			// A broken cache degrades to a fresh analysis, never a failure.
			logger.Warn().Err(err).Msg("cache lookup failed, continuing without it")
		}
	}

	slides, err := p.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(slides) == 0 {
		return nil, domain.ValidationError("deck contains no slides", nil)
	}
	if hooks != nil && hooks.OnLoadDone != nil {
		hooks.OnLoadDone(len(slides))
	}

	total := len(slides)
	extracted, err := p.extractor.Extract(ctx, slides, func(index int) {
		if hooks != nil && hooks.OnSlideExtracted != nil {
			hooks.OnSlideExtracted(index, total)
		}
	})
	if err != nil {
		return nil, err
	}

	if allEmpty(extracted) {
		return nil, domain.ValidationError("deck contains no extractable text", nil)
	}

	if hooks != nil && hooks.OnAnalysisStart != nil {
		hooks.OnAnalysisStart()
	}
	issues, err := p.analyzer.Analyze(ctx, extracted)
	if hooks != nil && hooks.OnAnalysisDone != nil {
		hooks.OnAnalysisDone()
	}
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		SourceFile:  filepath.Base(path),
		Issues:      issues,
		GeneratedAt: time.Now().UTC(),
	}

	if p.store != nil {
		if err := p.store.Store(ctx, fp, report); err != nil {
			// A failed write costs the next run a cache hit, nothing more.
			logger.Warn().Err(err).Msg("cache write failed, result not persisted")
		}
	}

	logger.Info().Int("issues", report.Count()).Int("slides", total).Msg("analysis complete")
	return &Result{Report: report}, nil
}

func allEmpty(extracted []domain.ExtractedSlideText) bool {
	for _, e := range extracted {
		if !e.IsEmpty() {
			return false
		}
	}
	return true
}
