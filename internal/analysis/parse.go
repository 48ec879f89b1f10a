package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/slidelens/deck-analyzer/internal/domain"
)

// issueEnvelope is the wire shape the model is asked to produce.
type issueEnvelope struct {
	Issues []issueJSON `json:"issues"`
}

type issueJSON struct {
	Type     string   `json:"type"`
	Conflict string   `json:"conflict"`
	Evidence []string `json:"evidence"`
}

// parseIssues validates the raw model output against the expected
// contract. Empty output and structurally invalid output are distinct
// failures; a well-formed response with zero issues is a clean result.
func parseIssues(raw string) ([]domain.Issue, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return nil, domain.ErrEmptyResponse
	}

	// Models occasionally fence the JSON despite instructions.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in output", domain.ErrMalformedResponse)
	}

	var envelope issueEnvelope
	if err := json.Unmarshal([]byte(content[start:end+1]), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if envelope.Issues == nil {
		return nil, fmt.Errorf("%w: missing issues field", domain.ErrMalformedResponse)
	}

	issues := make([]domain.Issue, 0, len(envelope.Issues))
	for i, wire := range envelope.Issues {
		if strings.TrimSpace(wire.Conflict) == "" {
			return nil, fmt.Errorf("%w: issue %d has no conflict description",
				domain.ErrMalformedResponse, i)
		}

		evidence := make([]string, 0, len(wire.Evidence))
		for _, e := range wire.Evidence {
			if strings.TrimSpace(e) != "" {
				evidence = append(evidence, e)
			}
		}
		if len(evidence) == 0 {
			return nil, fmt.Errorf("%w: issue %d has no evidence",
				domain.ErrMalformedResponse, i)
		}

		issues = append(issues, domain.Issue{
			Category: domain.ParseCategory(wire.Type),
			Conflict: strings.TrimSpace(wire.Conflict),
			Evidence: evidence,
		})
	}

	return issues, nil
}
