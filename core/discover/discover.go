// Package discover finds conversations in the host page sidebar for
// list and export-all modes, keeping discovery logic separate from the
// export pipeline.
package discover

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Entry is one conversation found in the sidebar. Index is its
// position among sidebar items, used to open it by clicking.
type Entry struct {
	Index int
	ID    string
	Title string
}

// idAttrs are checked in order for a stable conversation identifier.
var idAttrs = []string{"data-conversation-id", "data-test-id", "id", "jslog"}

// Sidebar scans the document for conversation entries matching the
// selector, deduplicated by identifier (pinned items repeat in the
// recents list).
func Sidebar(doc *goquery.Document, selector string) []Entry {
	queue := NewQueue()
	doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
		title := strings.Join(strings.Fields(sel.Text()), " ")
		if title == "" {
			return
		}
		queue.Add(Entry{
			Index: i,
			ID:    entryID(sel, title),
			Title: title,
		})
	})
	return queue.All()
}

// entryID derives a dedup key from the first identifying attribute
// present, falling back to the title itself.
func entryID(sel *goquery.Selection, title string) string {
	for _, name := range idAttrs {
		if v, ok := sel.Attr(name); ok && v != "" {
			return v
		}
	}
	return title
}
