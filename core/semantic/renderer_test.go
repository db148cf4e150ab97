package semantic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// parseBody parses an HTML fragment and returns its <body> node, the
// root the renderer sees in tests.
func parseBody(t *testing.T, fragment string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(fragment))
	require.NoError(t, err)
	body := findElement(doc, "body")
	require.NotNil(t, body)
	return body
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func render(t *testing.T, fragment string) string {
	t.Helper()
	return New().Render(parseBody(t, fragment))
}

func TestRenderBasicBlocks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"paragraph", `<p>Hello world</p>`, "Hello world"},
		{"bold", `<p>a <strong>b</strong> c</p>`, "a **b** c"},
		{"italic", `<p>a <em>b</em> c</p>`, "a *b* c"},
		{"inline code", `<p>run <code>go vet</code> now</p>`, "run `go vet` now"},
		{"heading", `<h2>Title</h2>`, "## Title"},
		{"heading six", `<h6>Deep</h6>`, "###### Deep"},
		{"blockquote", `<blockquote>wise words</blockquote>`, "> wise words"},
		{"line break", `<p>a<br>b</p>`, "a\nb"},
		{"image placeholder", `<p><img src="x.png"></p>`, "[Image]"},
		{"unordered list", `<ul><li>one</li><li>two</li></ul>`, "- one\n- two"},
		{"ordered list", `<ol><li>first</li><li>second</li></ol>`, "1. first\n2. second"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.in))
		})
	}
}

func TestRenderHorizontalRule(t *testing.T) {
	out := render(t, `<p>a</p><hr><p>b</p>`)
	assert.Contains(t, out, "\n---\n")
	assert.True(t, strings.HasPrefix(out, "a"))
	assert.True(t, strings.HasSuffix(out, "b"))
}

func TestRenderNestedList(t *testing.T) {
	out := render(t, `<ul><li>outer<ul><li>inner</li></ul></li></ul>`)
	assert.Contains(t, out, "- outer")
	assert.Contains(t, out, "- inner")
	// No duplicated blank lines from the nested list's leading newline.
	assert.NotContains(t, out, "\n\n\n")
}

func TestRenderTableWithHeader(t *testing.T) {
	out := render(t, `<table>
		<tr><th>Name</th><th>Age</th></tr>
		<tr><td>Ada</td><td>36</td></tr>
	</table>`)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| Name | Age |", lines[0])
	assert.Equal(t, "| --- | --- |", lines[1])
	assert.Equal(t, "| Ada | 36 |", lines[2])
}

func TestRenderTableWithoutHeader(t *testing.T) {
	out := render(t, `<table><tr><td>a</td><td>b</td></tr></table>`)
	assert.Equal(t, "| a | b |", out)
}

func TestRenderEmptyTable(t *testing.T) {
	assert.Equal(t, "", render(t, `<table></table>`))
}

func TestRenderCodeBlockWithClassToken(t *testing.T) {
	out := render(t, `<pre class="language-python"><code>print(1)</code></pre>`)
	assert.Equal(t, "```python\nprint(1)\n```", out)
}

func TestRenderCodeBlockWithInnerClassToken(t *testing.T) {
	out := render(t, `<pre><code class="language-go">fmt.Println(1)</code></pre>`)
	assert.Equal(t, "```go\nfmt.Println(1)\n```", out)
}

func TestRenderCodeBlockWithDataAttribute(t *testing.T) {
	out := render(t, `<pre data-language="Rust"><code>fn main() {}</code></pre>`)
	assert.True(t, strings.HasPrefix(out, "```rust\n"), out)
}

func TestRenderCodeBlockSiblingFallback(t *testing.T) {
	// No class or data hint; the short preceding sibling line names the
	// language, matched case-insensitively against the allow-list.
	out := render(t, `<div>Python</div><pre><code>print(1)</code></pre>`)
	assert.Contains(t, out, "```python\nprint(1)\n```")
}

func TestRenderCodeBlockSiblingTooLongIgnored(t *testing.T) {
	out := render(t, `<div>This whole sentence mentions Python but is not a label</div><pre><code>x = 1</code></pre>`)
	assert.Contains(t, out, "```\nx = 1\n```")
}

func TestRenderCodeBlockNoLanguage(t *testing.T) {
	// Still a fence, just with an empty language tag.
	out := render(t, `<pre><code>x = 1</code></pre>`)
	assert.Equal(t, "```\nx = 1\n```", out)
}

func TestRenderSkipsAccessibilityLabels(t *testing.T) {
	out := render(t, `<p>visible<span class="sr-only">hidden label</span></p>`)
	assert.Equal(t, "visible", out)
}

func TestRenderSkipsControlUI(t *testing.T) {
	out := render(t, `<div>answer<button>Copy</button><mat-icon>edit</mat-icon></div>`)
	assert.Equal(t, "answer", out)
}

func TestRenderDeterministic(t *testing.T) {
	const fragment = `<h1>Doc</h1><p>Some <strong>rich</strong> text</p>
		<ul><li>a</li><li>b</li></ul>
		<pre class="language-python"><code>print(1)</code></pre>`

	node := parseBody(t, fragment)
	r := New()
	first := r.Render(node)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Render(node))
	}
	// A freshly parsed identical tree renders identically too.
	assert.Equal(t, first, render(t, fragment))
}

func TestRenderTrimsResult(t *testing.T) {
	out := render(t, `<div><p>content</p></div>`)
	assert.Equal(t, "content", out)
}
