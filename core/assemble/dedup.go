// Package assemble — duplicate turn elimination.
// Convergence can observe the same turn in two consecutive probes
// before stabilization, so the raw capture may contain repeats.
package assemble

import (
	"strings"

	"github.com/gaurav-prasanna/chatscribe/core"
)

// Dedup keeps the first occurrence of each fingerprint and discards
// later turns with a repeated one. The input order is preserved; the
// operation is idempotent.
func Dedup(turns []core.Turn, prefixLen int) []core.Turn {
	seen := make(map[string]bool, len(turns))
	out := make([]core.Turn, 0, len(turns))
	for _, t := range turns {
		fp := Fingerprint(t, prefixLen)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		out = append(out, t)
	}
	return out
}

// Fingerprint keys a turn by its role and the first prefixLen
// characters of its trimmed content.
func Fingerprint(t core.Turn, prefixLen int) string {
	content := strings.TrimSpace(t.Content)
	runes := []rune(content)
	if len(runes) > prefixLen {
		content = string(runes[:prefixLen])
	}
	return string(t.Role) + ":" + content
}
