// Package format converts generated text into the transport's safe markup
// subset and splits oversized replies into bounded, independently valid
// chunks.
package format

import (
	"fmt"
	"regexp"
	"strings"
)

// The transport accepts only this closed tag alphabet. Everything else is
// escaped as plain text.
var allowedTags = map[string]bool{"b": true, "i": true, "blockquote": true}

var (
	headerLine  = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	quoteLine   = regexp.MustCompile(`(?m)^&gt;\s?(.*)$`)
	bulletLine  = regexp.MustCompile(`(?m)^\s*[-*]\s+`)
	numberLine  = regexp.MustCompile(`(?m)^\s*(\d+)[.)]\s+`)
	boldSpan    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicStar  = regexp.MustCompile(`(^|[\s(])\*([^*\n]+)\*($|[\s).,!?:;])`)
	italicUnder = regexp.MustCompile(`(^|[\s(])_([^_\n]+)_($|[\s).,!?:;])`)
	blankRun    = regexp.MustCompile(`\n{3,}`)
	tagToken    = regexp.MustCompile(`</?[a-z]+>`)

	closeThenWord = regexp.MustCompile(`(</(?:b|i|blockquote)>)(\w)`)
	wordThenOpen  = regexp.MustCompile(`(\w)(<(?:b|i|blockquote)>)`)
)

// Format rewrites the markdown-like subset emitted by the generation step
// into transport tags, then validates tag nesting. Input is treated as
// untrusted plain text: literal angle brackets are escaped before any tag is
// introduced. On any nesting violation the rewrite is discarded and a
// tag-free plain rendering is returned instead, so the result is always
// valid transport markup.
func Format(raw string) string {
	rewritten := rewrite(raw)
	if err := ValidateTags(rewritten); err != nil {
		return Plain(raw)
	}
	return rewritten
}

func rewrite(raw string) string {
	s := escape(raw)

	s = headerLine.ReplaceAllString(s, "<b>$1</b>")
	s = quoteLine.ReplaceAllString(s, "<blockquote>$1</blockquote>")
	s = bulletLine.ReplaceAllString(s, "• ")
	s = numberLine.ReplaceAllString(s, "$1. ")

	s = boldSpan.ReplaceAllString(s, "<b>$1</b>")
	s = italicStar.ReplaceAllString(s, "$1<i>$2</i>$3")
	s = italicUnder.ReplaceAllString(s, "$1<i>$2</i>$3")

	s = blankRun.ReplaceAllString(s, "\n\n")

	// Breathing room between tags and adjacent words.
	s = closeThenWord.ReplaceAllString(s, "$1 $2")
	s = wordThenOpen.ReplaceAllString(s, "$1 $2")

	return strings.TrimSpace(s)
}

// Plain renders the same markdown-like subset without any tags, substituting
// visual markers. It cannot produce invalid markup because it emits none.
func Plain(raw string) string {
	s := escape(raw)

	s = headerLine.ReplaceAllString(s, "► $1")
	s = quoteLine.ReplaceAllString(s, "» $1")
	s = bulletLine.ReplaceAllString(s, "• ")
	s = numberLine.ReplaceAllString(s, "$1. ")

	s = boldSpan.ReplaceAllString(s, "«$1»")
	s = italicStar.ReplaceAllString(s, "$1$2$3")
	s = italicUnder.ReplaceAllString(s, "$1$2$3")

	s = blankRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// ValidateTags scans the tag sequence with a stack discipline: every opening
// tag must be closed by a matching close tag before any enclosing tag
// closes. Unknown tags, unmatched closers, and unclosed openers are all
// errors. The caller recovers by falling back to Plain; this error is never
// surfaced to users.
func ValidateTags(s string) error {
	var stack []string
	for _, tok := range tagToken.FindAllString(s, -1) {
		name := strings.Trim(tok, "</>")
		if !allowedTags[name] {
			return fmt.Errorf("disallowed tag %s", tok)
		}
		if strings.HasPrefix(tok, "</") {
			if len(stack) == 0 {
				return fmt.Errorf("unmatched closing tag %s", tok)
			}
			top := stack[len(stack)-1]
			if top != name {
				return fmt.Errorf("mismatched nesting: got %s, want </%s>", tok, top)
			}
			stack = stack[:len(stack)-1]
			continue
		}
		stack = append(stack, name)
	}
	if len(stack) != 0 {
		return fmt.Errorf("unclosed tag <%s>", stack[len(stack)-1])
	}
	return nil
}
