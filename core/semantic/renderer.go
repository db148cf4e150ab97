// Package semantic converts a DOM subtree into linear markup text.
// It is the single place conversation HTML is reduced to text, by:
//  1. Walking the tree with per-tag dispatch (headings, lists, tables,
//     code fences, emphasis, block quotes)
//  2. Suppressing presentation-only artifacts (screen-reader-only
//     labels, injected control UI)
//
// Render is a pure function over the tree: no side effects, and
// identical trees always produce identical output.
package semantic

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// skipTags are elements excluded entirely, subtree included.
// These carry control UI or non-content payloads.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"button":   true,
	"mat-icon": true,
}

// skipClassTokens mark accessibility-only labels and injected controls.
var skipClassTokens = map[string]bool{
	"sr-only":             true,
	"visually-hidden":     true,
	"cdk-visually-hidden": true,
	"message-actions":     true,
}

// blockTags get a leading and trailing newline around their children.
var blockTags = map[string]bool{
	"p":       true,
	"div":     true,
	"section": true,
	"article": true,
	"header":  true,
	"footer":  true,
	"main":    true,
}

// codeContainerTags are treated as fenced code blocks.
var codeContainerTags = map[string]bool{
	"pre":        true,
	"code-block": true,
}

// ImagePlaceholder stands in for image content, which is never extracted.
const ImagePlaceholder = "[Image]"

// Renderer reduces DOM subtrees to linear markup text.
type Renderer struct{}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render converts the subtree rooted at n into markup text,
// trimmed of leading and trailing whitespace.
func (r *Renderer) Render(n *html.Node) string {
	return strings.TrimSpace(r.walk(n))
}

// walk dispatches on node type. Comments and doctypes emit nothing.
func (r *Renderer) walk(n *html.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.ElementNode:
		return r.element(n)
	case html.DocumentNode:
		return r.children(n)
	default:
		return ""
	}
}

// element dispatches on tag, in the priority order that matters:
// skip checks first, then code containers before inline code.
func (r *Renderer) element(n *html.Node) string {
	if skip(n) {
		return ""
	}
	tag := n.Data
	switch {
	case codeContainerTags[tag]:
		return r.codeBlock(n)
	case tag == "code":
		return "`" + rawText(n) + "`"
	case tag == "img":
		return ImagePlaceholder
	case tag == "ul":
		return r.list(n, false)
	case tag == "ol":
		return r.list(n, true)
	case tag == "table":
		return r.table(n)
	case tag == "strong" || tag == "b":
		return "**" + r.children(n) + "**"
	case tag == "em" || tag == "i":
		return "*" + r.children(n) + "*"
	case tag == "br":
		return "\n"
	case tag == "hr":
		return "\n---\n"
	case headingLevel(tag) > 0:
		level := headingLevel(tag)
		return "\n" + strings.Repeat("#", level) + " " + strings.TrimSpace(r.children(n)) + "\n"
	case tag == "blockquote":
		return "\n> " + strings.TrimSpace(r.children(n)) + "\n"
	case blockTags[tag]:
		return "\n" + r.children(n) + "\n"
	default:
		// Inline containers are transparent.
		return r.children(n)
	}
}

// children concatenates the rendering of all child nodes.
func (r *Renderer) children(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(r.walk(c))
	}
	return b.String()
}

// codeBlock emits a fenced block. The code text is the raw text of the
// inner <code> element when present, otherwise of the whole container.
func (r *Renderer) codeBlock(n *html.Node) string {
	body := n
	if inner := findDescendant(n, "code"); inner != nil {
		body = inner
	}
	code := strings.TrimSpace(rawText(body))
	lang := resolveLanguage(n)
	return "\n```" + lang + "\n" + code + "\n```\n"
}

// list renders each direct <li> child as one line. Item content is
// rendered inline and trimmed so nested blocks do not duplicate
// leading newlines.
func (r *Renderer) list(n *html.Node, ordered bool) string {
	var b strings.Builder
	b.WriteString("\n")
	idx := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		idx++
		item := strings.TrimSpace(r.children(c))
		if ordered {
			fmt.Fprintf(&b, "%d. %s\n", idx, item)
		} else {
			b.WriteString("- " + item + "\n")
		}
	}
	return b.String()
}

// table renders each row as a pipe-delimited line. A header row (one
// containing <th> cells) is followed by a --- separator line with one
// column per cell. A table with zero rows emits nothing.
func (r *Renderer) table(n *html.Node) string {
	rows := collectDescendants(n, "tr")
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for i, row := range rows {
		cells := collectDescendants(row, "th")
		header := len(cells) > 0
		cells = append(cells, collectDescendants(row, "td")...)
		texts := make([]string, 0, len(cells))
		for _, cell := range cells {
			texts = append(texts, collapseSpace(r.children(cell)))
		}
		b.WriteString("| " + strings.Join(texts, " | ") + " |\n")
		if i == 0 && header {
			b.WriteString("|" + strings.Repeat(" --- |", len(cells)) + "\n")
		}
	}
	return b.String()
}

// skip reports whether the node's entire subtree must be excluded.
func skip(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if skipTags[n.Data] {
		return true
	}
	for _, token := range classTokens(n) {
		if skipClassTokens[token] {
			return true
		}
	}
	return false
}

// headingLevel returns 1..6 for h1..h6, 0 otherwise.
func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// rawText concatenates the literal text of a subtree, honoring skip.
func rawText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(m *html.Node) {
		if m.Type == html.TextNode {
			b.WriteString(m.Data)
			return
		}
		if m.Type == html.ElementNode && skip(m) {
			return
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

// findDescendant returns the first descendant element with the given tag.
func findDescendant(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findDescendant(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// collectDescendants returns all descendant elements with the given
// tag, in document order.
func collectDescendants(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var visit func(*html.Node)
	visit = func(m *html.Node) {
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, c)
				continue
			}
			visit(c)
		}
	}
	visit(n)
	return out
}

// classTokens splits the class attribute into tokens.
func classTokens(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// collapseSpace turns all runs of whitespace into single spaces so a
// table cell stays on one line.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
