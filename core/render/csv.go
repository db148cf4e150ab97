// Package render — CSV renderer.
// Emits a UTF-8 BOM (so spreadsheet apps detect the encoding), a header
// row, then one row per turn. Escaping follows RFC 4180: a field is
// quoted iff it contains a double quote, comma, or line break, with
// internal double quotes doubled. encoding/csv is deliberately not
// used: it also quotes leading-space fields and owns record
// termination, which breaks the exact field contract here.
package render

import (
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/chatscribe/core"
)

const utf8BOM = "\xEF\xBB\xBF"

// reportRoleLabel is the fixed role label for the appended report row.
const reportRoleLabel = "Report"

// CSVRenderer writes the transcript as a delimited-text table.
type CSVRenderer struct{}

// NewCSVRenderer creates a CSVRenderer.
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

// Render converts the transcript into CSV bytes.
func (r *CSVRenderer) Render(t *core.Transcript) ([]byte, error) {
	var b strings.Builder
	b.WriteString(utf8BOM)
	b.WriteString("Turn,Role,Content,Timestamp\n")

	for i, turn := range t.Turns {
		writeRow(&b,
			strconv.Itoa(i+1),
			turn.Role.Label(),
			turn.Content,
			turn.Timestamp)
	}

	if t.Report != nil {
		content := t.Report.Content
		if t.Report.Title != "" {
			content = t.Report.Title + "\n\n" + content
		}
		writeRow(&b, strconv.Itoa(len(t.Turns)+1), reportRoleLabel, content, "")
	}

	return []byte(b.String()), nil
}

// Extension returns the file extension for CSV output.
func (r *CSVRenderer) Extension() string {
	return ".csv"
}

func writeRow(b *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(f))
	}
	b.WriteByte('\n')
}

// escapeField quotes a field iff it contains a double quote, comma,
// newline, or carriage return; internal double quotes are doubled.
func escapeField(s string) string {
	if !strings.ContainsAny(s, "\",\n\r") {
		return s
	}
	return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
}
