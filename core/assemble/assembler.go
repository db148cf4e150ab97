// Package assemble builds a Transcript from the stabilized document.
// It walks turn containers in document order, reduces each side of an
// exchange through the semantic renderer, deduplicates overlapping
// captures, and probes for the optional long-form report artifact.
// Assembly runs only after convergence: the tree it reads is no longer
// being mutated.
package assemble

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/chatscribe/core"
	"github.com/gaurav-prasanna/chatscribe/core/config"
	"github.com/gaurav-prasanna/chatscribe/core/semantic"
)

// brandSuffixes are stripped from the host page title before use.
var brandSuffixes = []string{" - Gemini", " | Gemini", " – Gemini"}

// Assembler extracts a Transcript from a parsed document snapshot.
type Assembler struct {
	sem *semantic.Renderer
	cfg config.Config
	log *zap.Logger
}

// New creates an Assembler.
func New(cfg config.Config, log *zap.Logger) *Assembler {
	return &Assembler{
		sem: semantic.New(),
		cfg: cfg,
		log: log,
	}
}

// Assemble extracts all turns and the optional report from doc.
// pageTitle is the raw host page title; branding-only titles fall back
// to the configured default. Returns ErrEmptyTranscript when nothing
// was extracted.
func (a *Assembler) Assemble(doc *goquery.Document, pageTitle string) (*core.Transcript, error) {
	containers := doc.Find(a.cfg.Selectors.TurnContainer)
	var turns []core.Turn
	containers.Each(func(i int, sel *goquery.Selection) {
		turns = append(turns, a.extractContainer(i, sel)...)
	})

	turns = Dedup(turns, a.cfg.Extraction.DedupPrefix)
	report := a.detectReport(doc)

	t := &core.Transcript{
		Title:      a.cleanTitle(pageTitle),
		Turns:      turns,
		Report:     report,
		ExportedAt: time.Now(),
	}
	if t.Empty() {
		return nil, fmt.Errorf("%w: no turns or report found", core.ErrEmptyTranscript)
	}
	a.log.Info("transcript assembled",
		zap.Int("turns", len(turns)),
		zap.Bool("report", report != nil))
	return t, nil
}

// extractContainer pulls the user and model sides of one exchange.
// A failure here is isolated: it is logged and the container skipped,
// never aborting the rest of assembly.
func (a *Assembler) extractContainer(idx int, sel *goquery.Selection) (turns []core.Turn) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Warn("turn extraction failed",
				zap.Int("container", idx),
				zap.Any("cause", r))
			turns = nil
		}
	}()

	timestamp := strings.TrimSpace(sel.Find(a.cfg.Selectors.Timestamp).First().Text())

	if user := a.renderSelection(sel.Find(a.cfg.Selectors.UserQuery).First()); user != "" {
		turns = append(turns, core.Turn{Role: core.RoleUser, Content: user, Timestamp: timestamp})
	}
	if model := a.renderSelection(sel.Find(a.cfg.Selectors.ModelResponse).First()); model != "" {
		turns = append(turns, core.Turn{Role: core.RoleAssistant, Content: model, Timestamp: timestamp})
	}
	return turns
}

// renderSelection reduces a selection through the semantic renderer.
// Empty selections and whitespace-only content yield "".
func (a *Assembler) renderSelection(sel *goquery.Selection) string {
	var parts []string
	for _, node := range sel.Nodes {
		if out := a.sem.Render(node); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// cleanTitle derives the transcript title from the host page title,
// falling back to the default when it is absent or only carries the
// host application's own branding.
func (a *Assembler) cleanTitle(pageTitle string) string {
	title := strings.TrimSpace(pageTitle)
	for _, suffix := range brandSuffixes {
		title = strings.TrimSuffix(title, suffix)
	}
	title = strings.TrimSpace(title)
	if title == "" || strings.EqualFold(title, "gemini") || strings.EqualFold(title, "google gemini") {
		return a.cfg.DefaultTitle
	}
	return title
}
