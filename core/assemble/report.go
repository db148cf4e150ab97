// Package assemble — report artifact detection.
// The host page can expose a long-form generated document in a side
// panel, independent of the turn sequence. Finding it is best effort:
// any failure simply omits the report from the transcript.
package assemble

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/chatscribe/core"
)

// detectReport probes for the artifact panel. Content below the
// configured noise floor is treated as absent.
func (a *Assembler) detectReport(doc *goquery.Document) (report *core.Report) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Warn("report detection failed", zap.Any("cause", r))
			report = nil
		}
	}()

	panel := doc.Find(a.cfg.Selectors.Report).First()
	if panel.Length() == 0 {
		return nil
	}

	content := a.renderSelection(panel)
	if len(strings.TrimSpace(content)) < a.cfg.Extraction.ReportMinChars {
		return nil
	}

	return &core.Report{
		Title:   a.reportTitle(panel, content),
		Content: content,
	}
}

// reportTitle prefers an explicit toolbar title, then the first heading
// inside the panel, then the first line of the rendered text.
func (a *Assembler) reportTitle(panel *goquery.Selection, content string) string {
	if t := strings.TrimSpace(panel.Find(a.cfg.Selectors.ReportTitle).First().Text()); t != "" {
		return truncate(t, a.cfg.Extraction.TitleMaxChars)
	}
	if t := strings.TrimSpace(panel.Find("h1, h2, h3, h4, h5, h6").First().Text()); t != "" {
		return truncate(t, a.cfg.Extraction.TitleMaxChars)
	}
	for _, line := range strings.Split(content, "\n") {
		if t := strings.TrimSpace(strings.TrimLeft(line, "# ")); t != "" {
			return truncate(t, a.cfg.Extraction.TitleMaxChars)
		}
	}
	return "Report"
}

// truncate caps s at max characters.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
