// Package output handles file naming and writing for chatscribe
// exports. Filenames are derived from the conversation title plus a
// timestamp so repeated exports never overwrite each other.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Writer writes rendered payloads to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write persists one rendered payload. The filename is the sanitized
// title, the export time, and the renderer's extension.
// Example: "Trip planning" → trip_planning_20260829_154210.md
func (w *Writer) Write(title string, at time.Time, data []byte, ext string) (string, error) {
	name := fmt.Sprintf("%s_%s%s", sanitize(title), at.Format("20060102_150405"), ext)
	path := filepath.Join(w.OutputDir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// sanitize lowercases the title and replaces non-alphanumeric runs
// with single underscores.
func sanitize(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, ch := range strings.ToLower(s) {
		switch {
		case (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9'):
			b.WriteRune(ch)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "conversation"
	}
	const maxLen = 60
	if len(name) > maxLen {
		name = name[:maxLen]
	}
	return name
}
