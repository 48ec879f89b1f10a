package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/slidelens/deck-analyzer/internal/domain"
)

// Box drawing characters for the report frame.
const (
	topLeft     = "╔"
	topRight    = "╗"
	bottomLeft  = "╚"
	bottomRight = "╝"
	horizontal  = "═"
	vertical    = "║"
)

// Style maps semantic text roles to render functions. The terminal style
// colorizes; the plain style is the identity, which keeps exported files
// free of escape sequences.
type Style struct {
	Border   func(a ...interface{}) string
	Title    func(a ...interface{}) string
	Subtitle func(a ...interface{}) string
	Good     func(a ...interface{}) string
	Label    func(a ...interface{}) string
	Heading  func(a ...interface{}) string
}

// TerminalStyle returns the colorized style for interactive output.
func TerminalStyle() *Style {
	return &Style{
		Border:   color.New(color.FgCyan).SprintFunc(),
		Title:    color.New(color.Bold).SprintFunc(),
		Subtitle: color.New(color.FgYellow).SprintFunc(),
		Good:     color.New(color.FgGreen).SprintFunc(),
		Label:    color.New(color.FgRed, color.Bold).SprintFunc(),
		Heading:  color.New(color.FgCyan, color.Bold).SprintFunc(),
	}
}

// PlainStyle returns the colorless style used for file export.
func PlainStyle() *Style {
	plain := fmt.Sprint
	return &Style{
		Border:   plain,
		Title:    plain,
		Subtitle: plain,
		Good:     plain,
		Label:    plain,
		Heading:  plain,
	}
}

// Renderer produces the boxed report at a fixed outer width. Every
// border and centered line is exactly width runes; wrapped content may
// only exceed it when a single word is longer than the wrap field.
type Renderer struct {
	width int
	style *Style
}

// NewRenderer creates a renderer. Width is the outer box width.
func NewRenderer(width int, style *Style) *Renderer {
	if width < 30 {
		width = 30
	}
	return &Renderer{width: width, style: style}
}

// Render produces the full report text.
func (r *Renderer) Render(rep *domain.Report) string {
	var sb strings.Builder

	r.renderHeader(&sb, rep)

	if rep.Count() == 0 {
		sb.WriteString(r.style.Good("No inconsistencies were found in the presentation."))
		sb.WriteString("\n")
		return sb.String()
	}

	for i, issue := range rep.Issues {
		r.renderIssue(&sb, i+1, issue)
	}

	sb.WriteString(r.style.Border(strings.Repeat("=", r.width)))
	sb.WriteString("\n")
	return sb.String()
}

// renderHeader draws the double-line box with the report title, source
// file, and issue count.
func (r *Renderer) renderHeader(sb *strings.Builder, rep *domain.Report) {
	inner := r.width - 2

	sb.WriteString(r.style.Border(topLeft + strings.Repeat(horizontal, inner) + topRight))
	sb.WriteString("\n")

	r.boxLine(sb, r.style.Title(padCenter("Deck Consistency Analysis Report", inner)))
	r.boxLine(sb, r.style.Subtitle(padCenter(rep.SourceFile, inner)))

	// A clean deck goes straight to the all-clear banner; the count
	// subtitle only appears when there is something to review.
	if rep.Count() > 0 {
		subtitle := fmt.Sprintf("Found %d potential issues to review.", rep.Count())
		if rep.Count() == 1 {
			subtitle = "Found 1 potential issue to review."
		}
		r.boxLine(sb, r.style.Subtitle(padCenter(subtitle, inner)))
	}

	sb.WriteString(r.style.Border(bottomLeft + strings.Repeat(horizontal, inner) + bottomRight))
	sb.WriteString("\n\n")
}

// boxLine writes one bordered content line.
func (r *Renderer) boxLine(sb *strings.Builder, content string) {
	sb.WriteString(r.style.Border(vertical))
	sb.WriteString(content)
	sb.WriteString(r.style.Border(vertical))
	sb.WriteString("\n")
}

// renderIssue draws one issue block: dashed header, type, wrapped
// conflict with hanging indent, and bulleted evidence.
func (r *Renderer) renderIssue(sb *strings.Builder, n int, issue domain.Issue) {
	header := fmt.Sprintf(" ISSUE #%d ", n)
	fill := r.width - utf8.RuneCountInString(header)
	left := fill / 2
	right := fill - left
	sb.WriteString(r.style.Heading(
		strings.Repeat("-", left) + header + strings.Repeat("-", right)))
	sb.WriteString("\n")

	sb.WriteString(r.style.Label("TYPE: "))
	sb.WriteString(issue.Category.Display())
	sb.WriteString("\n")

	const conflictPrefix = "CONFLICT: "
	wrapped := wrapWords(issue.Conflict, r.width-len(conflictPrefix))
	sb.WriteString(r.style.Label(conflictPrefix))
	if len(wrapped) > 0 {
		sb.WriteString(wrapped[0])
	}
	sb.WriteString("\n")
	for _, line := range wrapped[1:] {
		sb.WriteString(strings.Repeat(" ", len(conflictPrefix)))
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString(r.style.Label("EVIDENCE:"))
	sb.WriteString("\n")
	for _, ev := range issue.Evidence {
		lines := wrapWords(ev, r.width-4)
		if len(lines) == 0 {
			continue
		}
		sb.WriteString("  - ")
		sb.WriteString(lines[0])
		sb.WriteString("\n")
		for _, line := range lines[1:] {
			sb.WriteString("    ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
}
