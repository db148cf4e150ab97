// Package core — error taxonomy for the export pipeline.
// Each sentinel maps to one user-visible failure class; callers wrap
// them with context via fmt.Errorf and test with errors.Is.
package core

import "errors"

var (
	// ErrContainerNotFound means the scrollable conversation root or its
	// turn containers could not be located. Fatal to the export.
	ErrContainerNotFound = errors.New("conversation container not found")

	// ErrEmptyTranscript means assembly yielded zero turns and no report.
	// Fatal to the export action, but not a crash: there is simply
	// nothing to export.
	ErrEmptyTranscript = errors.New("nothing to export")

	// ErrUnsupportedFormat rejects an export request naming a format
	// outside {markdown, csv, pdf} before any extraction work begins.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrRenderDependency means the chosen output format's rendering
	// engine is unavailable. Fatal to that export attempt only.
	ErrRenderDependency = errors.New("render engine unavailable")
)
