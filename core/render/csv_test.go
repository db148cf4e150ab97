package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/chatscribe/core"
)

func csvOutput(t *testing.T, transcript *core.Transcript) string {
	t.Helper()
	data, err := NewCSVRenderer().Render(transcript)
	require.NoError(t, err)
	return string(data)
}

func TestCSVHeaderAndBOM(t *testing.T) {
	out := csvOutput(t, demoTranscript())
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"))
	lines := strings.Split(strings.TrimPrefix(out, "\xEF\xBB\xBF"), "\n")
	assert.Equal(t, "Turn,Role,Content,Timestamp", lines[0])
}

func TestCSVQuotingRule(t *testing.T) {
	transcript := &core.Transcript{
		Title: "T",
		Turns: []core.Turn{
			{Role: core.RoleUser, Content: `He said "hi", then left`},
		},
		ExportedAt: time.Now(),
	}
	out := csvOutput(t, transcript)
	assert.Contains(t, out, `"He said ""hi"", then left"`)
}

func TestCSVBareFieldsUnquoted(t *testing.T) {
	transcript := &core.Transcript{
		Title:      "T",
		Turns:      []core.Turn{{Role: core.RoleUser, Content: "plain", Timestamp: "noonish"}},
		ExportedAt: time.Now(),
	}
	out := csvOutput(t, transcript)
	assert.Contains(t, out, "1,You,plain,noonish\n")
}

func TestCSVRowNumbersAndLabels(t *testing.T) {
	out := csvOutput(t, demoTranscript())
	assert.Contains(t, out, "1,You,")
	assert.Contains(t, out, "2,Gemini,")
}

func TestCSVReportRow(t *testing.T) {
	transcript := demoTranscript()
	transcript.Report = &core.Report{Title: "Findings", Content: "Body text."}

	out := csvOutput(t, transcript)
	assert.Contains(t, out, "3,Report,")
	assert.Contains(t, out, "Findings")
}

func TestCSVMultilineContentQuoted(t *testing.T) {
	transcript := &core.Transcript{
		Title:      "T",
		Turns:      []core.Turn{{Role: core.RoleAssistant, Content: "line1\nline2"}},
		ExportedAt: time.Now(),
	}
	out := csvOutput(t, transcript)
	assert.Contains(t, out, "\"line1\nline2\"")
}

func TestCSVExtension(t *testing.T) {
	assert.Equal(t, ".csv", NewCSVRenderer().Extension())
}
