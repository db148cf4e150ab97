package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/chatscribe/core"
)

func TestPDFRenderProducesDocument(t *testing.T) {
	data, err := NewPDFRenderer().Render(demoTranscript())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
	assert.Greater(t, len(data), 1000)
}

func TestPDFRenderLongContentPaginates(t *testing.T) {
	// Enough prose to overflow several pages; the writer must not error
	// and must emit more output than the single-page case.
	long := strings.Repeat("A reasonably long paragraph of body text. ", 400)
	transcript := &core.Transcript{
		Title: "Long",
		Turns: []core.Turn{
			{Role: core.RoleUser, Content: "Tell me everything"},
			{Role: core.RoleAssistant, Content: long},
		},
		ExportedAt: time.Now(),
	}

	short, err := NewPDFRenderer().Render(demoTranscript())
	require.NoError(t, err)
	data, err := NewPDFRenderer().Render(transcript)
	require.NoError(t, err)
	assert.Greater(t, len(data), len(short))
}

func TestPDFRenderCodeBlockSpanningPages(t *testing.T) {
	var code strings.Builder
	for i := 0; i < 300; i++ {
		code.WriteString("value = compute(step)\n")
	}
	transcript := &core.Transcript{
		Title: "Code",
		Turns: []core.Turn{
			{Role: core.RoleAssistant, Content: "```python\n" + code.String() + "```"},
		},
		ExportedAt: time.Now(),
	}

	data, err := NewPDFRenderer().Render(transcript)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestPDFRenderWithReport(t *testing.T) {
	transcript := demoTranscript()
	transcript.Report = &core.Report{
		Title:   "Findings",
		Content: "A long-form generated artifact with its own page.",
	}
	data, err := NewPDFRenderer().Render(transcript)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestPDFExtension(t *testing.T) {
	assert.Equal(t, ".pdf", NewPDFRenderer().Extension())
}

func TestSplitSegments(t *testing.T) {
	content := "intro text\n```python\nprint(1)\nprint(2)\n```\noutro"
	segs := splitSegments(content)
	require.Len(t, segs, 3)

	assert.False(t, segs[0].code)
	assert.Equal(t, "intro text", segs[0].text)

	assert.True(t, segs[1].code)
	assert.Equal(t, "python", segs[1].lang)
	assert.Equal(t, "print(1)\nprint(2)", segs[1].text)

	assert.False(t, segs[2].code)
	assert.Equal(t, "outro", segs[2].text)
}

func TestSplitSegmentsUnterminatedFence(t *testing.T) {
	segs := splitSegments("before\n```\ncode that never closes")
	require.Len(t, segs, 2)
	assert.True(t, segs[1].code)
	assert.Equal(t, "code that never closes", segs[1].text)
}

func TestSplitSegmentsNoCode(t *testing.T) {
	segs := splitSegments("just a paragraph")
	require.Len(t, segs, 1)
	assert.False(t, segs[0].code)
}
