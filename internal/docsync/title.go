package docsync

import (
	"strings"

	"github.com/rivo/uniseg"
)

// DefaultTitle is the surface label used when no usable first line exists.
const DefaultTitle = "Untitled"

// DefaultTitleBudget bounds the title length in grapheme clusters.
const DefaultTitleBudget = 80

const headingMarker = "# "

// Title derives the surface label from the document text.
//
// The trimmed first line wins: a level-1 heading contributes its remainder,
// any other non-empty line within the budget stands as-is, and everything
// else falls back to DefaultTitle. Pure and idempotent; budget <= 0 means
// DefaultTitleBudget.
func Title(text string, budget int) string {
	if budget <= 0 {
		budget = DefaultTitleBudget
	}

	line := text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)

	if rest, ok := strings.CutPrefix(line, headingMarker); ok {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return DefaultTitle
		}
		return rest
	}

	if line == "" || uniseg.GraphemeClusterCount(line) > budget {
		return DefaultTitle
	}
	return line
}
