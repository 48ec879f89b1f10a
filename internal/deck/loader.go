// Package deck opens PowerPoint (.pptx) containers and yields their
// slides in presentation order. A pptx file is an OPC zip of XML parts;
// the loader walks the archive directly and never writes to it.
package deck

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/slidelens/deck-analyzer/internal/domain"
	"github.com/slidelens/deck-analyzer/internal/observability"
)

const (
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"
)

// PPTXLoader implements domain.Loader for .pptx documents.
type PPTXLoader struct {
	logger *observability.Logger
}

// NewPPTXLoader creates a loader.
func NewPPTXLoader(logger *observability.Logger) *PPTXLoader {
	return &PPTXLoader{logger: logger.WithComponent("deck")}
}

// Load opens the deck at path and returns its slides in presentation
// order. Missing or unreadable files and containers without the expected
// presentation parts are load errors; a deck with zero slides is not.
func (l *PPTXLoader) Load(ctx context.Context, deckPath string) ([]domain.SlideRecord, error) {
	data, err := os.ReadFile(deckPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.LoadError(fmt.Sprintf("file not found: %s", deckPath), err)
		}
		return nil, domain.LoadError(fmt.Sprintf("cannot read file: %s", deckPath), err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, domain.LoadError("not a valid pptx container", err)
	}

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	if _, ok := parts[presentationPart]; !ok {
		return nil, domain.LoadError("container has no presentation part", nil)
	}

	rels, err := parseRelationships(parts, presentationRels)
	if err != nil {
		return nil, domain.LoadError("presentation relationships unreadable", err)
	}

	presXML, err := readPart(parts, presentationPart)
	if err != nil {
		return nil, domain.LoadError("presentation part unreadable", err)
	}

	slideIDs, err := slideRelationshipIDs(presXML)
	if err != nil {
		return nil, domain.LoadError("presentation part malformed", err)
	}

	slides := make([]domain.SlideRecord, 0, len(slideIDs))
	for i, relID := range slideIDs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rel, ok := rels[relID]
		if !ok {
			l.logger.Warn().Str("rel_id", relID).Msg("slide relationship missing, skipping")
			continue
		}

		slidePart := path.Join("ppt", rel.Target)
		record, err := l.loadSlide(parts, slidePart, i+1)
		if err != nil {
			return nil, domain.LoadError(fmt.Sprintf("slide %d unreadable", i+1), err)
		}
		slides = append(slides, record)
	}

	l.logger.Debug().Int("slides", len(slides)).Str("path", deckPath).Msg("deck loaded")
	return slides, nil
}

// loadSlide reads one slide part plus its relationships: native text
// fragments in title/body order, speaker notes, and embedded image bytes
// in shape order.
func (l *PPTXLoader) loadSlide(parts map[string]*zip.File, slidePart string, index int) (domain.SlideRecord, error) {
	slideXML, err := readPart(parts, slidePart)
	if err != nil {
		return domain.SlideRecord{}, err
	}

	content, err := parseShapeTree(slideXML)
	if err != nil {
		return domain.SlideRecord{}, err
	}

	relsPart := path.Join(path.Dir(slidePart), "_rels", path.Base(slidePart)+".rels")
	rels, err := parseRelationships(parts, relsPart)
	if err != nil {
		// A slide without relationships has no images and no notes.
		rels = map[string]relationship{}
	}

	record := domain.SlideRecord{Index: index}

	// Title fragments first, body fragments second, reading order kept
	// within each group.
	for _, frag := range content.fragments {
		if frag.Kind == domain.FragmentTitle {
			record.Fragments = append(record.Fragments, frag)
		}
	}
	for _, frag := range content.fragments {
		if frag.Kind == domain.FragmentBody {
			record.Fragments = append(record.Fragments, frag)
		}
	}

	// Speaker notes, when the slide links a notes part.
	if notes := l.loadNotes(parts, slidePart, rels); notes != "" {
		record.Fragments = append(record.Fragments, domain.TextFragment{
			Kind: domain.FragmentNotes,
			Text: notes,
		})
	}

	// Embedded images, in shape order. A broken media reference costs the
	// image, not the slide.
	for _, embedID := range content.imageRels {
		rel, ok := rels[embedID]
		if !ok {
			l.logger.Warn().Int("slide", index).Str("rel_id", embedID).
				Msg("image relationship missing, skipping")
			continue
		}
		mediaPart := path.Join(path.Dir(slidePart), rel.Target)
		img, err := readPart(parts, mediaPart)
		if err != nil {
			l.logger.Warn().Int("slide", index).Str("part", mediaPart).
				Msg("image part unreadable, skipping")
			continue
		}
		record.Images = append(record.Images, img)
	}

	return record, nil
}

// loadNotes resolves the slide's notes relationship and extracts the notes
// placeholder text. Absent or unreadable notes contribute nothing.
func (l *PPTXLoader) loadNotes(parts map[string]*zip.File, slidePart string, rels map[string]relationship) string {
	var notesTarget string
	for _, rel := range relsOfType(rels, "notesSlide") {
		notesTarget = rel
		break
	}
	if notesTarget == "" {
		return ""
	}

	notesPart := path.Join(path.Dir(slidePart), notesTarget)
	notesXML, err := readPart(parts, notesPart)
	if err != nil {
		l.logger.Warn().Str("part", notesPart).Msg("notes part unreadable, skipping")
		return ""
	}

	content, err := parseShapeTree(notesXML)
	if err != nil {
		l.logger.Warn().Str("part", notesPart).Msg("notes part malformed, skipping")
		return ""
	}

	// Notes pages carry slide-number and header placeholders as well; only
	// the body placeholder holds the speaker's text.
	var sb strings.Builder
	for _, frag := range content.fragments {
		if frag.Kind != domain.FragmentBody {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(frag.Text)
	}
	return strings.TrimSpace(sb.String())
}

// readPart extracts one archive entry fully into memory.
func readPart(parts map[string]*zip.File, name string) ([]byte, error) {
	f, ok := parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s not in container", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
