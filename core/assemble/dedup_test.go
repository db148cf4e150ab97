package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gaurav-prasanna/chatscribe/core"
)

func TestDedupKeepsFirstOccurrence(t *testing.T) {
	turns := []core.Turn{
		{Role: core.RoleUser, Content: "Hello", Timestamp: "first"},
		{Role: core.RoleAssistant, Content: "Hi"},
		{Role: core.RoleUser, Content: "Hello", Timestamp: "second"},
	}

	out := Dedup(turns, 200)
	assert.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Timestamp)
}

func TestDedupSameRoleRequired(t *testing.T) {
	turns := []core.Turn{
		{Role: core.RoleUser, Content: "ok"},
		{Role: core.RoleAssistant, Content: "ok"},
	}
	assert.Len(t, Dedup(turns, 200), 2)
}

func TestDedupPrefixOnly(t *testing.T) {
	// Contents that agree on the first 200 characters share a
	// fingerprint even when they diverge later.
	base := strings.Repeat("a", 200)
	turns := []core.Turn{
		{Role: core.RoleUser, Content: base + "X"},
		{Role: core.RoleUser, Content: base + "Y"},
	}
	assert.Len(t, Dedup(turns, 200), 1)
}

func TestDedupIdempotent(t *testing.T) {
	turns := []core.Turn{
		{Role: core.RoleUser, Content: "a"},
		{Role: core.RoleUser, Content: "a"},
		{Role: core.RoleAssistant, Content: "b"},
		{Role: core.RoleUser, Content: "c"},
		{Role: core.RoleAssistant, Content: "b"},
	}

	once := Dedup(turns, 200)
	twice := Dedup(once, 200)
	assert.Equal(t, once, twice)
	assert.LessOrEqual(t, len(once), len(turns))

	seen := map[string]bool{}
	for _, turn := range once {
		fp := Fingerprint(turn, 200)
		assert.False(t, seen[fp], "fingerprint repeated: %s", fp)
		seen[fp] = true
	}
}

func TestFingerprintTrimsContent(t *testing.T) {
	a := Fingerprint(core.Turn{Role: core.RoleUser, Content: "  hi  "}, 200)
	b := Fingerprint(core.Turn{Role: core.RoleUser, Content: "hi"}, 200)
	assert.Equal(t, a, b)
}
