// Package render — PDF renderer.
// Produces a paginated document: a centered title page, then content
// pages with role-colored turn headers. Turn content is split into
// code and prose segments; prose is wrapped to the content width in a
// proportional font, code is wrapped in a fixed-width font over a
// shaded rectangle sized to the wrapped line count. Page breaks are
// managed manually so a projected overflow finalizes the page (footer
// page number) before drawing continues at the top margin.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/chatscribe/core"
)

// Page geometry in millimeters (A4 portrait).
const (
	pageWidth     = 210.0
	pageHeight    = 297.0
	pageMargin    = 20.0
	contentWidth  = pageWidth - 2*pageMargin
	contentBottom = pageHeight - pageMargin
)

// Font sizes in points.
const (
	titleFontSize   = 22.0
	headingFontSize = 16.0
	headerFontSize  = 12.0
	bodyFontSize    = 11.0
	codeFontSize    = 10.0
	footerFontSize  = 9.0
)

// Line heights in millimeters.
const (
	bodyLineHeight = 5.5
	codeLineHeight = 4.8
	codePadding    = 2.0
)

// Role header colors: blue for the user, neutral gray for the model.
var (
	userColor      = [3]int{26, 115, 232}
	assistantColor = [3]int{95, 99, 104}
	codeFill       = [3]int{245, 245, 245}
)

// PDFRenderer renders the transcript as a paginated PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the transcript into PDF bytes.
func (r *PDFRenderer) Render(t *core.Transcript) ([]byte, error) {
	doc := newPDFDoc()
	if err := doc.pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrRenderDependency, err)
	}

	doc.titlePage(t)

	doc.newPage()
	for _, turn := range t.Turns {
		doc.turnHeader(turn)
		doc.segments(turn.Content)
		doc.y += 4
	}

	if t.Report != nil {
		doc.newPage()
		doc.reportHeading(t.Report.Title)
		doc.segments(t.Report.Content)
	}

	var buf bytes.Buffer
	if err := doc.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// pdfDoc tracks the cursor while drawing; all pagination decisions go
// through ensure().
type pdfDoc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
	y   float64
}

func newPDFDoc() *pdfDoc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", footerFontSize)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return &pdfDoc{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// titlePage draws the centered title, generation timestamp, and counts.
func (d *pdfDoc) titlePage(t *core.Transcript) {
	d.pdf.AddPage()

	d.pdf.SetY(100)
	d.pdf.SetFont("Helvetica", "B", titleFontSize)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.MultiCell(0, 10, d.tr(t.Title), "", "C", false)
	d.pdf.Ln(8)

	d.pdf.SetFont("Helvetica", "", bodyFontSize)
	d.pdf.SetTextColor(95, 99, 104)
	d.pdf.MultiCell(0, 6, t.ExportedAt.Format("January 2, 2006 15:04"), "", "C", false)

	counts := fmt.Sprintf("%d turns", len(t.Turns))
	if t.Report != nil {
		counts += ", 1 report"
	}
	d.pdf.MultiCell(0, 6, counts, "", "C", false)
}

// newPage finalizes the current page and starts a fresh one.
func (d *pdfDoc) newPage() {
	d.pdf.AddPage()
	d.y = pageMargin
}

// ensure breaks the page if the next block of the given height would
// not fit in the usable vertical extent.
func (d *pdfDoc) ensure(height float64) {
	if d.y+height > contentBottom {
		d.newPage()
	}
}

// turnHeader draws the role-colored header label for a turn.
func (d *pdfDoc) turnHeader(turn core.Turn) {
	d.ensure(10)
	color := assistantColor
	if turn.Role == core.RoleUser {
		color = userColor
	}
	label := turn.Role.Label()
	if turn.Timestamp != "" {
		label += "  (" + turn.Timestamp + ")"
	}
	d.pdf.SetFont("Helvetica", "B", headerFontSize)
	d.pdf.SetTextColor(color[0], color[1], color[2])
	d.pdf.SetXY(pageMargin, d.y)
	d.pdf.CellFormat(contentWidth, 7, d.tr(label), "", 0, "L", false, 0, "")
	d.y += 9
}

// reportHeading draws the elevated heading that opens the report page.
func (d *pdfDoc) reportHeading(title string) {
	d.pdf.SetFont("Helvetica", "B", headingFontSize)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetXY(pageMargin, d.y)
	d.pdf.MultiCell(contentWidth, 8, d.tr(title), "", "L", false)
	d.y = d.pdf.GetY() + 4
}

// segments splits content by the fenced-code-block pattern and draws
// prose and code with their respective styles.
func (d *pdfDoc) segments(content string) {
	for _, seg := range splitSegments(content) {
		if seg.code {
			d.codeSegment(seg.text)
		} else {
			d.proseSegment(seg.text)
		}
	}
}

// proseSegment wraps text to the content width and draws it line by line.
func (d *pdfDoc) proseSegment(text string) {
	d.pdf.SetFont("Helvetica", "", bodyFontSize)
	d.pdf.SetTextColor(0, 0, 0)
	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			d.y += bodyLineHeight / 2
			continue
		}
		for _, line := range d.pdf.SplitText(d.tr(raw), contentWidth) {
			d.ensure(bodyLineHeight)
			d.pdf.SetXY(pageMargin, d.y)
			d.pdf.CellFormat(contentWidth, bodyLineHeight, line, "", 0, "L", false, 0, "")
			d.y += bodyLineHeight
		}
	}
}

// codeSegment wraps code in the fixed-width font and draws it over a
// shaded rectangle. A block taller than the remaining extent is drawn
// in per-page chunks, each with its own background.
func (d *pdfDoc) codeSegment(text string) {
	d.pdf.SetFont("Courier", "", codeFontSize)
	d.pdf.SetTextColor(33, 33, 33)
	d.pdf.SetFillColor(codeFill[0], codeFill[1], codeFill[2])

	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if raw == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, d.pdf.SplitText(d.tr(raw), contentWidth-2*codePadding)...)
	}

	d.y += 2
	for len(lines) > 0 {
		available := contentBottom - d.y
		fit := int(available / codeLineHeight)
		if fit < 1 {
			d.newPage()
			continue
		}
		chunk := lines
		if fit < len(chunk) {
			chunk = chunk[:fit]
		}
		lines = lines[len(chunk):]

		height := float64(len(chunk)) * codeLineHeight
		d.pdf.Rect(pageMargin, d.y, contentWidth, height+codePadding, "F")
		for _, line := range chunk {
			d.pdf.SetXY(pageMargin+codePadding, d.y)
			d.pdf.CellFormat(contentWidth-2*codePadding, codeLineHeight, line, "", 0, "L", false, 0, "")
			d.y += codeLineHeight
		}
		d.y += codePadding
	}
	d.y += 2
}

// segment is one prose or code run of a turn's content.
type segment struct {
	code bool
	lang string
	text string
}

// splitSegments scans content line by line, toggling on fence markers.
// An unterminated fence swallows the rest of the content as code.
func splitSegments(content string) []segment {
	var segs []segment
	var cur []string
	inCode := false
	lang := ""

	flush := func(code bool) {
		text := strings.Join(cur, "\n")
		if strings.TrimSpace(text) != "" {
			segs = append(segs, segment{code: code, lang: lang, text: text})
		}
		cur = nil
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				flush(true)
				lang = ""
			} else {
				flush(false)
				lang = strings.TrimPrefix(trimmed, "```")
			}
			inCode = !inCode
			continue
		}
		cur = append(cur, line)
	}
	flush(inCode)
	return segs
}
