package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidelens/deck-analyzer/internal/domain"
)

func TestParseIssues(t *testing.T) {
	raw := `{
		"issues": [
			{
				"type": "Numerical Inconsistency",
				"conflict": "Slide 1 claims $2M but slide 2 claims $3M",
				"evidence": ["Slide 1: \"$2M Impact\"", "Slide 2: \"$3M saved\""]
			}
		]
	}`

	issues, err := parseIssues(raw)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.CategoryNumerical, issues[0].Category)
	assert.Equal(t, "Slide 1 claims $2M but slide 2 claims $3M", issues[0].Conflict)
	assert.Len(t, issues[0].Evidence, 2)
}

func TestParseIssuesEmptyIsClean(t *testing.T) {
	issues, err := parseIssues(`{"issues": []}`)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestParseIssuesStripsFences(t *testing.T) {
	raw := "```json\n{\"issues\": [{\"type\": \"timeline\", \"conflict\": \"dates disagree\", \"evidence\": [\"Slide 3: \\\"Q2 launch\\\"\"]}]}\n```"

	issues, err := parseIssues(raw)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.CategoryTimeline, issues[0].Category)
}

func TestParseIssuesEmptyResponse(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		_, err := parseIssues(raw)
		require.ErrorIs(t, err, domain.ErrEmptyResponse)
	}
}

func TestParseIssuesMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "the deck looks fine to me"},
		{"truncated", `{"issues": [{"type": "num`},
		{"missing issues field", `{"findings": []}`},
		{"issue without evidence", `{"issues": [{"type": "numerical", "conflict": "x", "evidence": []}]}`},
		{"issue with blank evidence", `{"issues": [{"type": "numerical", "conflict": "x", "evidence": ["  "]}]}`},
		{"issue without conflict", `{"issues": [{"type": "numerical", "conflict": "", "evidence": ["Slide 1: \"x\""]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseIssues(tt.raw)
			require.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestParseIssuesUnknownCategoryFoldsToOther(t *testing.T) {
	raw := `{"issues": [{"type": "weird novel label", "conflict": "x", "evidence": ["Slide 1: \"x\""]}]}`

	issues, err := parseIssues(raw)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.CategoryOther, issues[0].Category)
}

func TestBuildPromptSections(t *testing.T) {
	slides := []domain.ExtractedSlideText{
		{Index: 1, Text: "[Title]:\nQ3 Results\n\n[Body]:\n$2M Impact"},
		{Index: 2},
		{Index: 3, Text: "[Image OCR]:\nChart total: $3M"},
	}

	prompt := buildPrompt(slides)

	assert.Contains(t, prompt, "--- Slide 1 ---")
	assert.Contains(t, prompt, "--- Slide 2 ---")
	assert.Contains(t, prompt, "--- Slide 3 ---")
	assert.Contains(t, prompt, "$2M Impact")
	assert.Contains(t, prompt, "(no text content)")
	assert.Contains(t, prompt, `"issues"`)

	// Slide sections follow deck order.
	assert.Less(t,
		strings.Index(prompt, "--- Slide 1 ---"),
		strings.Index(prompt, "--- Slide 2 ---"))
	assert.Less(t,
		strings.Index(prompt, "--- Slide 2 ---"),
		strings.Index(prompt, "--- Slide 3 ---"))
}
