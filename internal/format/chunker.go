package format

import (
	"strings"
	"unicode/utf8"
)

// DefaultBudget is the per-chunk size limit in bytes, kept below Telegram's
// 4096 hard cap so markers and parse overhead never push a send over it.
const DefaultBudget = 4000

// Continuation markers tie consecutive chunks together. Stripping the suffix
// from one chunk and the prefix from the next and concatenating reproduces
// the original text exactly.
const (
	ContinuationSuffix = "(bersambung…)"
	ContinuationPrefix = "(sambungan)\n\n"
)

// Chunk splits text into ordered pieces, each at most budget bytes. Break
// points prefer a blank-line boundary, then a sentence end, then a hard cut.
// A chunk never splits a tag pair: when the preferred cut would leave a tag
// open, the cut moves back to just before the unclosed opener. Any non-empty
// input yields at least one chunk; input within budget is returned verbatim.
func Chunk(text string, budget int) []string {
	if text == "" {
		return nil
	}
	if budget <= 0 {
		budget = DefaultBudget
	}

	var chunks []string
	rest := text
	for len(rest) > budget {
		limit := budget - len(ContinuationSuffix)
		cut := findBreak(rest, limit)
		cut = balanceCut(rest, cut)
		chunks = append(chunks, rest[:cut]+ContinuationSuffix)
		rest = ContinuationPrefix + rest[cut:]
	}
	return append(chunks, rest)
}

// findBreak returns the best cut position at or before limit. Boundaries in
// the first half of the window are ignored, matching how oversized sends are
// split at the transport layer.
func findBreak(s string, limit int) int {
	if idx := strings.LastIndex(s[:limit], "\n\n"); idx >= limit/2 {
		return idx + 2
	}
	if idx := strings.LastIndex(s[:limit], ". "); idx >= limit/2 {
		return idx + 2
	}
	// Hard cut, backed up to a rune boundary.
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return cut
}

// balanceCut moves the cut back to just before the earliest tag still open
// at the proposed position, so both sides of the split remain independently
// valid. A tag span larger than the whole window keeps the original cut;
// that only happens with degenerate input.
func balanceCut(s string, cut int) int {
	var stack []int
	for _, loc := range tagToken.FindAllStringIndex(s[:cut], -1) {
		if strings.HasPrefix(s[loc[0]:loc[1]], "</") {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		}
		stack = append(stack, loc[0])
	}
	if len(stack) == 0 || stack[0] <= len(ContinuationPrefix) {
		return cut
	}
	return stack[0]
}
