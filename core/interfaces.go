// Package core defines the pipeline types and interfaces for chatscribe.
// Each stage of the export pipeline is a clean, testable interface:
// a Scroller/Prober pair drives history materialization, an assembler
// produces a Transcript, and a Renderer turns it into a byte payload.
package core

import (
	"context"
	"time"
)

// Role classifies who authored a turn. Turns that cannot be classified
// as one of these two values are dropped during assembly.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label returns the display name used in rendered output.
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Gemini"
	default:
		return string(r)
	}
}

// Turn is one exchange unit of the conversation.
type Turn struct {
	Role    Role
	Content string
	// Timestamp is author-supplied and opaque; empty when the host page
	// does not expose one. It is never synthesized.
	Timestamp string
}

// Report is an optional secondary long-form artifact co-located on the
// page, with a lifecycle independent from the turn sequence.
type Report struct {
	Title   string
	Content string
}

// Transcript is the full ordered conversation, ready for rendering.
// Turns are in document order after convergence (oldest first) and are
// not mutated after assembly; renderers receive it read-only.
type Transcript struct {
	Title      string
	Turns      []Turn
	Report     *Report
	ExportedAt time.Time
}

// Empty reports whether there is nothing worth exporting.
func (t *Transcript) Empty() bool {
	return len(t.Turns) == 0 && t.Report == nil
}

// Phase identifies a stage of the export for progress reporting.
type Phase string

const (
	PhaseStarting    Phase = "starting"
	PhaseScrollingUp Phase = "scrolling_up"
	PhaseDone        Phase = "done"
)

// Progress is one event on the progress channel. Collected is the
// number of turn containers materialized so far.
type Progress struct {
	Phase     Phase
	Collected int
}

// Scroller mutates the scroll position of the conversation container.
type Scroller interface {
	ScrollToTop(ctx context.Context) error
	ScrollToBottom(ctx context.Context) error
}

// Prober measures how many turn containers are currently materialized
// in the document.
type Prober interface {
	TurnCount(ctx context.Context) (int, error)
}

// Renderer converts a Transcript into a final output format.
type Renderer interface {
	Render(t *Transcript) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
