package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
	}{
		{"numerical label", "Numerical Inconsistency", CategoryNumerical},
		{"math error", "Mathematical Error", CategoryNumerical},
		{"contradiction", "Contradictory Claims", CategoryContradiction},
		{"logical", "Logical Inconsistency", CategoryContradiction},
		{"timeline", "Timeline Mismatch", CategoryTimeline},
		{"dates", "Date Conflict", CategoryTimeline},
		{"missing", "Missing Data", CategoryMissingData},
		{"placeholder", "Placeholder Value", CategoryMissingData},
		{"unknown", "Something Else Entirely", CategoryOther},
		{"empty", "", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.input))
		})
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), "category %q should be valid", c)
	}
	assert.False(t, Category("typo").Valid())
	assert.False(t, Category("").Valid())
}

func TestCategoryDisplay(t *testing.T) {
	assert.Equal(t, "Numerical Inconsistency", CategoryNumerical.Display())
	assert.Equal(t, "Contradictory Claims", CategoryContradiction.Display())
	assert.Equal(t, "Timeline Mismatch", CategoryTimeline.Display())
	assert.Equal(t, "Missing Data", CategoryMissingData.Display())
	assert.Equal(t, "Other", CategoryOther.Display())
}

func TestIssueValid(t *testing.T) {
	valid := Issue{
		Category: CategoryNumerical,
		Conflict: "totals disagree",
		Evidence: []string{"Slide 1: $2M", "Slide 2: $3M"},
	}
	assert.True(t, valid.Valid())

	noEvidence := Issue{Category: CategoryNumerical, Conflict: "x"}
	assert.False(t, noEvidence.Valid(), "evidence list must be non-empty")

	badCategory := Issue{Category: "surprise", Evidence: []string{"e"}}
	assert.False(t, badCategory.Valid())
}

func TestFragmentKindLabel(t *testing.T) {
	assert.Equal(t, "[Title]", FragmentTitle.Label())
	assert.Equal(t, "[Body]", FragmentBody.Label())
	assert.Equal(t, "[Speaker Notes]", FragmentNotes.Label())
	assert.Equal(t, "[Image OCR]", FragmentImage.Label())
}

func TestExtractedSlideTextIsEmpty(t *testing.T) {
	assert.True(t, ExtractedSlideText{Index: 1}.IsEmpty())
	assert.True(t, ExtractedSlideText{Index: 1, Text: "  \n\t"}.IsEmpty())
	assert.False(t, ExtractedSlideText{Index: 1, Text: "x"}.IsEmpty())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(RetryableAPIError("rate limited", nil)))
	assert.False(t, IsRetryable(APIError("bad key", nil)))
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(ErrCacheMiss))

	// Retryable signal survives wrapping.
	wrapped := ExtractionError("analysis failed",
		RetryableAPIError("upstream 503", nil))
	assert.True(t, IsRetryable(wrapped))
}
