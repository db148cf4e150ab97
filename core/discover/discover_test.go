package discover

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sidebarPage = `<html><body>
<div class="conversation-items-container">
	<div class="conversation" data-conversation-id="c_1">Trip planning</div>
	<div class="conversation" data-conversation-id="c_2">Weekly sync</div>
	<div class="conversation" data-conversation-id="c_1">Trip planning</div>
	<div class="conversation"></div>
</div>
</body></html>`

func TestSidebarDiscovery(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sidebarPage))
	require.NoError(t, err)

	entries := Sidebar(doc, ".conversation-items-container .conversation")
	require.Len(t, entries, 2)
	assert.Equal(t, "Trip planning", entries[0].Title)
	assert.Equal(t, "c_1", entries[0].ID)
	assert.Equal(t, 0, entries[0].Index)
	assert.Equal(t, "Weekly sync", entries[1].Title)
	assert.Equal(t, 1, entries[1].Index)
}

func TestSidebarFallsBackToTitleID(t *testing.T) {
	page := `<html><body><div class="conversation">Untagged chat</div></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	entries := Sidebar(doc, ".conversation")
	require.Len(t, entries, 1)
	assert.Equal(t, "Untagged chat", entries[0].ID)
}

func TestQueueDeduplicates(t *testing.T) {
	q := NewQueue()
	q.Add(Entry{ID: "a", Title: "first"})
	q.Add(Entry{ID: "b", Title: "second"})
	q.Add(Entry{ID: "a", Title: "repeat"})

	assert.Equal(t, 2, q.Len())
	all := q.All()
	assert.Equal(t, "first", all[0].Title)
	assert.Equal(t, "second", all[1].Title)
}
