// Package render provides the output renderers for chatscribe.
// This file implements the Markdown renderer: a title line, an export
// metadata line, then one section per turn. User content is emitted as
// a block quote; assistant content is already linear markup (fences
// included) and passes through verbatim.
package render

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/chatscribe/core"
)

// MarkdownRenderer writes the transcript as Markdown text.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts the transcript into Markdown bytes.
func (r *MarkdownRenderer) Render(t *core.Transcript) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# " + t.Title + "\n\n")
	fmt.Fprintf(&b, "*Exported %s | %d turns*\n\n",
		t.ExportedAt.Format("2006-01-02 15:04"), len(t.Turns))
	b.WriteString("---\n\n")

	for _, turn := range t.Turns {
		b.WriteString("## " + turn.Role.Label() + "\n\n")
		if turn.Role == core.RoleUser {
			for _, line := range strings.Split(turn.Content, "\n") {
				b.WriteString("> " + line + "\n")
			}
			b.WriteString("\n")
		} else {
			b.WriteString(turn.Content + "\n\n")
		}
	}

	if t.Report != nil {
		b.WriteString("---\n\n")
		b.WriteString("## Report: " + t.Report.Title + "\n\n")
		b.WriteString(t.Report.Content + "\n")
	}

	return []byte(b.String()), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
