// Package mention decides whether inbound text addresses the bot and strips
// the address phrase, leaving the residual question.
package mention

import (
	"regexp"
	"strings"
)

// aliasSpellings are the colloquial names users call the bot by, including
// common spelling variants. Multi-word aliases tolerate repeated spaces.
var aliasSpellings = []string{
	"tok ayah",
	"tokayah",
	"tok ayoh",
	"tokayoh",
	"tok aya",
	"tuk ayah",
}

// Detector matches the configured bot handle and the fixed alias spellings.
// All methods are pure; a Detector is safe for concurrent use once built.
type Detector struct {
	handle   string
	patterns []*regexp.Regexp
}

var spaceRun = regexp.MustCompile(`\s+`)

// New builds a Detector for the given bot handle (username without the @
// sigil). The handle is resolved once at startup, before the message loop.
func New(handle string) *Detector {
	d := &Detector{handle: strings.ToLower(strings.TrimPrefix(handle, "@"))}

	add := func(expr string) {
		d.patterns = append(d.patterns, regexp.MustCompile(`(?i)@?\b`+expr+`\b`))
	}
	if d.handle != "" {
		add(regexp.QuoteMeta(d.handle))
	}
	for _, alias := range aliasSpellings {
		words := strings.Fields(alias)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		add(strings.Join(words, `\s+`))
	}
	return d
}

// Handle returns the configured handle without the @ sigil.
func (d *Detector) Handle() string { return d.handle }

// IsAddressed reports whether text contains the bot handle (with or without
// a leading @) or any alias spelling, case-insensitively.
func (d *Detector) IsAddressed(text string) bool {
	for _, p := range d.patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Strip removes every handle/alias occurrence using word-boundary matching,
// drops the separator run left behind, and returns the trimmed residual.
// Stripping is idempotent once no alias remains. An empty result means the
// bot was addressed with no question attached.
func (d *Detector) Strip(text string) string {
	for _, p := range d.patterns {
		text = p.ReplaceAllString(text, " ")
	}
	text = spaceRun.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = strings.TrimLeft(text, ",.!:;")
	return strings.TrimSpace(text)
}
