package analysis

import (
	"fmt"
	"strings"

	"github.com/slidelens/deck-analyzer/internal/domain"
)

// buildPrompt assembles the cross-slide consistency prompt. Slides are
// delimited so the model can attribute evidence to slide numbers; slides
// with no text still get a section so numbering stays aligned with the
// deck.
func buildPrompt(slides []domain.ExtractedSlideText) string {
	var sb strings.Builder

	sb.WriteString(`You are a meticulous presentation reviewer. Analyze the following slide deck content for cross-slide inconsistencies.

Look for:
- Numerical inconsistencies: figures, totals, or percentages that disagree between slides
- Contradictory claims: statements on one slide that conflict with another
- Timeline mismatches: dates, quarters, or sequences that do not line up
- Missing data: placeholders, TBDs, or references to content that is not present

Slide text is labeled by origin: [Title], [Body], [Speaker Notes], and [Image OCR] for text recovered from embedded images. Treat all origins as deck content.

Return ONLY a valid JSON object with this exact structure:

{
  "issues": [
    {
      "type": "short category, e.g. Numerical Inconsistency",
      "conflict": "one-sentence description of the inconsistency",
      "evidence": ["Slide N: \"quoted text\"", "Slide M: \"quoted text\""]
    }
  ]
}

RULES:
- Every issue MUST cite at least two pieces of evidence, each attributed to its slide number
- Quote deck text verbatim in evidence entries
- If the deck is fully consistent, return {"issues": []}
- Do NOT wrap the JSON in markdown code fences
- Do NOT include any text outside the JSON object

DECK CONTENT:
`)

	for _, slide := range slides {
		sb.WriteString(fmt.Sprintf("\n--- Slide %d ---\n", slide.Index))
		if slide.IsEmpty() {
			sb.WriteString("(no text content)\n")
			continue
		}
		sb.WriteString(slide.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}
