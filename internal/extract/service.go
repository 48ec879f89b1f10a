// Package extract consolidates a loaded deck into per-slide text the
// analysis model can reason over: native fragments in source order,
// followed by OCR output for every embedded image.
package extract

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/slidelens/deck-analyzer/internal/domain"
	"github.com/slidelens/deck-analyzer/internal/observability"
)

// Service runs the consolidation workflow.
type Service struct {
	recognizer  domain.Recognizer
	concurrency int
	logger      *observability.Logger
}

// NewService creates an extraction service. concurrency bounds how many
// images are OCR'd in flight at once.
func NewService(recognizer domain.Recognizer, concurrency int, logger *observability.Logger) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		recognizer:  recognizer,
		concurrency: concurrency,
		logger:      logger.WithComponent("extract"),
	}
}

// Extract consolidates every slide. Output is index-aligned with the
// input: slide k's text is element k, empty when the slide has no
// content. onSlide, when non-nil, is called once per completed slide.
func (s *Service) Extract(ctx context.Context, slides []domain.SlideRecord, onSlide func(index int)) ([]domain.ExtractedSlideText, error) {
	results := make([]domain.ExtractedSlideText, len(slides))

	for i, slide := range slides {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		extracted, err := s.extractSlide(ctx, slide)
		if err != nil {
			return nil, domain.ExtractionError(
				fmt.Sprintf("slide %d extraction failed", slide.Index), err)
		}
		results[i] = extracted

		if onSlide != nil {
			onSlide(slide.Index)
		}
	}

	return results, nil
}

// extractSlide consolidates one slide: native fragments first in the order
// the loader produced them, then OCR text per image in shape order.
func (s *Service) extractSlide(ctx context.Context, slide domain.SlideRecord) (domain.ExtractedSlideText, error) {
	var parts []string
	var sources []domain.FragmentKind

	for _, frag := range slide.Fragments {
		if strings.TrimSpace(frag.Text) == "" {
			continue
		}
		parts = append(parts, frag.Kind.Label()+":\n"+frag.Text)
		sources = append(sources, frag.Kind)
	}

	ocrTexts, err := s.recognizeAll(ctx, slide)
	if err != nil {
		return domain.ExtractedSlideText{}, err
	}
	for _, text := range ocrTexts {
		if text == "" {
			continue
		}
		parts = append(parts, domain.FragmentImage.Label()+":\n"+text)
		sources = append(sources, domain.FragmentImage)
	}

	return domain.ExtractedSlideText{
		Index:   slide.Index,
		Text:    strings.Join(parts, "\n\n"),
		Sources: sources,
	}, nil
}

// recognizeAll OCRs the slide's images with bounded concurrency and
// returns the texts in shape order. A failed image contributes an empty
// string; only context cancellation aborts the slide.
func (s *Service) recognizeAll(ctx context.Context, slide domain.SlideRecord) ([]string, error) {
	if len(slide.Images) == 0 {
		return nil, nil
	}

	texts := make([]string, len(slide.Images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, image := range slide.Images {
		i, image := i, image
		g.Go(func() error {
			text, err := s.recognizer.Recognize(gctx, image)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn().
					Int("slide", slide.Index).
					Int("image", i+1).
					Err(err).
					Msg("image unreadable, continuing without its text")
				return nil
			}
			texts[i] = strings.TrimSpace(text)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}
