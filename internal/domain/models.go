package domain

import (
	"strings"
	"time"
)

// FragmentKind identifies where a piece of slide text came from.
type FragmentKind string

const (
	FragmentTitle FragmentKind = "title"
	FragmentBody  FragmentKind = "body"
	FragmentNotes FragmentKind = "notes"
	FragmentImage FragmentKind = "image" // recovered via OCR, not native
)

// Label returns the origin prefix used in consolidated slide text so the
// analysis model can attribute evidence back to a source.
func (k FragmentKind) Label() string {
	switch k {
	case FragmentTitle:
		return "[Title]"
	case FragmentBody:
		return "[Body]"
	case FragmentNotes:
		return "[Speaker Notes]"
	case FragmentImage:
		return "[Image OCR]"
	default:
		return "[Text]"
	}
}

// TextFragment is one native text element pulled from a slide.
type TextFragment struct {
	Kind FragmentKind
	Text string
}

// SlideRecord is one slide as loaded from the deck container. Index is
// 1-based and follows the presentation's slide order. Immutable after load.
type SlideRecord struct {
	Index     int
	Fragments []TextFragment
	Images    [][]byte // raw embedded image bytes, in shape order
}

// ExtractedSlideText is the consolidated text for one slide: native
// fragments in title/body/notes order followed by per-image OCR output,
// each fragment prefixed with its origin label.
type ExtractedSlideText struct {
	Index   int
	Text    string
	Sources []FragmentKind
}

// IsEmpty reports whether the slide yielded no text at all.
func (e ExtractedSlideText) IsEmpty() bool {
	return strings.TrimSpace(e.Text) == ""
}

// Category is the closed set of inconsistency classes the analyzer reports.
type Category string

const (
	CategoryNumerical     Category = "numerical"
	CategoryContradiction Category = "contradiction"
	CategoryTimeline      Category = "timeline"
	CategoryMissingData   Category = "missing-data"
	CategoryOther         Category = "other"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryNumerical,
	CategoryContradiction,
	CategoryTimeline,
	CategoryMissingData,
	CategoryOther,
}

// Display returns the human-readable category title used in reports.
func (c Category) Display() string {
	switch c {
	case CategoryNumerical:
		return "Numerical Inconsistency"
	case CategoryContradiction:
		return "Contradictory Claims"
	case CategoryTimeline:
		return "Timeline Mismatch"
	case CategoryMissingData:
		return "Missing Data"
	default:
		return "Other"
	}
}

// Valid reports whether c is one of the closed enumeration values.
func (c Category) Valid() bool {
	switch c {
	case CategoryNumerical, CategoryContradiction, CategoryTimeline,
		CategoryMissingData, CategoryOther:
		return true
	}
	return false
}

// ParseCategory maps a free-form label from the analysis model onto the
// closed category set. Unrecognized labels fold into CategoryOther.
func ParseCategory(s string) Category {
	l := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(l, "numer"), strings.Contains(l, "math"),
		strings.Contains(l, "sum"):
		return CategoryNumerical
	case strings.Contains(l, "contradict"), strings.Contains(l, "claim"),
		strings.Contains(l, "logic"):
		return CategoryContradiction
	case strings.Contains(l, "time"), strings.Contains(l, "date"),
		strings.Contains(l, "chrono"):
		return CategoryTimeline
	case strings.Contains(l, "missing"), strings.Contains(l, "placeholder"),
		strings.Contains(l, "incomplete"):
		return CategoryMissingData
	default:
		return CategoryOther
	}
}

// Issue is one detected inconsistency. Evidence is never empty for a valid
// issue; each entry quotes deck content with its slide attribution.
type Issue struct {
	Category Category `json:"category"`
	Conflict string   `json:"conflict"`
	Evidence []string `json:"evidence"`
}

// Valid reports whether the issue satisfies the model invariants.
func (i Issue) Valid() bool {
	return i.Category.Valid() && len(i.Evidence) > 0
}

// Report is the immutable analysis result for one deck.
type Report struct {
	SourceFile  string    `json:"source_file"`
	Issues      []Issue   `json:"issues"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Count returns the number of issues.
func (r *Report) Count() int {
	return len(r.Issues)
}

// Fingerprint is a deterministic digest of the deck's file bytes used as
// the cache key. Identical input bytes always produce the same value.
type Fingerprint string
