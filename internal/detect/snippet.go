package detect

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// snippetBefore and snippetAfter define the evidence window around a
	// cue match, in bytes of the source body.
	snippetBefore = 40
	snippetAfter  = 80
)

// snippet extracts an evidence window around the match at [start, end),
// collapsing newlines and capping at maxLen. The window is cut directly
// from the body, never paraphrased. Window edges and the cap snap back to
// rune boundaries so a multibyte character is never split.
func snippet(body string, start, end, maxLen int) string {
	from := start - snippetBefore
	if from < 0 {
		from = 0
	}
	for from > 0 && !utf8.RuneStart(body[from]) {
		from--
	}
	to := end + snippetAfter
	if to > len(body) {
		to = len(body)
	}
	for to < len(body) && !utf8.RuneStart(body[to]) {
		to--
	}
	s := strings.TrimSpace(strings.ReplaceAll(body[from:to], "\n", " "))
	if maxLen > 0 && len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimSpace(s[:cut])
	}
	return s
}

// conditionalRe matches the "if there" framing that turns a cue into an
// open door rather than a stated issue ("if there's any blocker, let me
// know" must not flag).
var conditionalRe = regexp.MustCompile(`(?i)\bif there\b`)

// conditionalLookback is how far before a match conditional framing is
// searched for.
const conditionalLookback = 40

// isConditional reports whether the cue match starting at start is
// neutralized by conditional framing immediately before it.
func isConditional(body string, start int) bool {
	from := start - conditionalLookback
	if from < 0 {
		from = 0
	}
	return conditionalRe.MatchString(body[from:start])
}

// stopWords are common short words excluded from topic-overlap checks so
// shared fluff like "the" or "please" never counts as a topical match.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "it": true, "to": true,
	"in": true, "on": true, "for": true, "and": true, "or": true, "but": true,
	"of": true, "with": true, "this": true, "that": true, "we": true,
	"i": true, "you": true, "he": true, "she": true, "hi": true,
	"thanks": true, "please": true, "thank": true, "ok": true, "okay": true,
	"yes": true, "no": true, "regards": true, "best": true, "sorry": true,
	"sure": true, "also": true, "as": true, "at": true, "by": true,
	"do": true, "if": true, "my": true, "not": true, "so": true, "up": true,
	"can": true, "will": true, "would": true, "could": true, "should": true,
	"have": true, "has": true, "had": true, "been": true, "be": true,
	"are": true, "was": true, "were": true, "get": true, "got": true,
	"just": true, "now": true, "then": true, "there": true, "here": true,
	"what": true, "how": true, "when": true, "which": true, "who": true,
	"its": true, "our": true, "your": true, "their": true, "me": true,
	"him": true, "her": true, "them": true, "us": true,
}

var wordRe = regexp.MustCompile(`[a-záéíóöőúüű]+`)

// keywords pulls meaningful lowercase words from text for overlap checks.
func keywords(text string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if len(w) > 2 && !stopWords[w] {
			out[w] = true
		}
	}
	return out
}

// sharedKeywords counts words present in both sets.
func sharedKeywords(a, b map[string]bool) int {
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return n
}
