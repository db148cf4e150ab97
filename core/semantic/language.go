// Package semantic — code fence language resolution.
// A code block's language is resolved by, in order:
//  1. An explicit language-* class token on the block or its inner <code>
//  2. A data-language / data-lang attribute hint
//  3. A short preceding sibling line naming a known language
//
// A block with no detectable language still gets a fence with an empty
// language tag.
package semantic

import (
	"strings"

	"golang.org/x/net/html"
)

// maxLanguageLabelLen bounds sibling-line matching: a real language
// label is a short word, not a sentence.
const maxLanguageLabelLen = 30

// knownLanguages maps lowercase display names to fence identifiers.
var knownLanguages = map[string]string{
	"python":       "python",
	"javascript":   "javascript",
	"typescript":   "typescript",
	"java":         "java",
	"c":            "c",
	"c++":          "cpp",
	"cpp":          "cpp",
	"c#":           "csharp",
	"csharp":       "csharp",
	"go":           "go",
	"golang":       "go",
	"rust":         "rust",
	"ruby":         "ruby",
	"php":          "php",
	"swift":        "swift",
	"kotlin":       "kotlin",
	"scala":        "scala",
	"dart":         "dart",
	"r":            "r",
	"perl":         "perl",
	"lua":          "lua",
	"haskell":      "haskell",
	"html":         "html",
	"css":          "css",
	"sql":          "sql",
	"bash":         "bash",
	"shell":        "bash",
	"shell script": "bash",
	"sh":           "bash",
	"powershell":   "powershell",
	"json":         "json",
	"yaml":         "yaml",
	"toml":         "toml",
	"xml":          "xml",
	"markdown":     "markdown",
	"dockerfile":   "dockerfile",
	"makefile":     "makefile",
	"objective-c":  "objectivec",
}

// resolveLanguage applies the three-step fallback chain. Returns ""
// when nothing matches.
func resolveLanguage(block *html.Node) string {
	candidates := []*html.Node{block}
	if inner := findDescendant(block, "code"); inner != nil {
		candidates = append(candidates, inner)
	}

	for _, el := range candidates {
		for _, token := range classTokens(el) {
			if lang, ok := strings.CutPrefix(token, "language-"); ok && lang != "" {
				return strings.ToLower(lang)
			}
		}
	}

	for _, el := range candidates {
		if v := attr(el, "data-language"); v != "" {
			return strings.ToLower(v)
		}
		if v := attr(el, "data-lang"); v != "" {
			return strings.ToLower(v)
		}
	}

	if label := precedingLabel(block); label != "" {
		if lang, ok := knownLanguages[strings.ToLower(label)]; ok {
			return lang
		}
	}
	return ""
}

// precedingLabel returns the trimmed text of the nearest meaningful
// preceding sibling, if it is short enough to be a language label.
func precedingLabel(n *html.Node) string {
	for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
		var text string
		switch prev.Type {
		case html.TextNode:
			text = strings.TrimSpace(prev.Data)
		case html.ElementNode:
			text = strings.TrimSpace(rawText(prev))
		default:
			continue
		}
		if text == "" {
			continue
		}
		if len(text) < maxLanguageLabelLen {
			return text
		}
		return ""
	}
	return ""
}
