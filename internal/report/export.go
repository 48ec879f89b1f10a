package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slidelens/deck-analyzer/internal/domain"
)

// Export formats.
const (
	FormatAuto     = ""         // pick by file extension
	FormatText     = "text"     // plain boxed text
	FormatMarkdown = "markdown" // boxed text inside a fenced block
)

// Export writes the report to path. With FormatAuto the extension picks
// the format: .md wraps the boxed layout in a fenced code block so the
// frame survives markdown rendering; anything else gets the plain boxed
// text. Both share the terminal renderer's wrapping.
func Export(rep *domain.Report, path string, width int, format string) error {
	renderer := NewRenderer(width, PlainStyle())
	body := renderer.Render(rep)

	markdown := false
	switch format {
	case FormatMarkdown, "md":
		markdown = true
	case FormatText, "txt", "plain":
	case FormatAuto:
		markdown = strings.EqualFold(filepath.Ext(path), ".md")
	default:
		return domain.ValidationError(fmt.Sprintf("unknown export format %q", format), nil)
	}

	var content string
	if markdown {
		content = fmt.Sprintf("# Deck Consistency Analysis\n\nSource: `%s`\n\n```text\n%s```\n",
			rep.SourceFile, body)
	} else {
		content = body
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return domain.IOError(fmt.Sprintf("cannot write report to %s", path), err)
	}
	return nil
}
