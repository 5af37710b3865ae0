package detect

import (
	"regexp"
	"unicode/utf8"

	"github.com/fyrsmithlabs/threadscan/internal/config"
	"github.com/fyrsmithlabs/threadscan/internal/flags"
	"github.com/fyrsmithlabs/threadscan/internal/mail"
)

// Extractor scans retained emails for action and risk cues and produces
// candidate flags with verbatim evidence snippets.
//
// The match is purely syntactic: a cue inside quoted example text flags
// exactly like a genuine request. That ambiguity is deferred to the
// enrichment overlay, which exists to filter such false positives — the
// deterministic path never guesses.
type Extractor struct {
	action     []*regexp.Regexp
	risk       []*regexp.Regexp
	snippetLen int
}

// NewExtractor builds an extractor from validated configuration.
func NewExtractor(cfg *config.Config) *Extractor {
	return &Extractor{
		action:     cfg.Cues.ActionPatterns(),
		risk:       cfg.Cues.RiskPatterns(),
		snippetLen: cfg.Detection.SnippetLength,
	}
}

// Extract returns zero or more candidate flags for one email. Each
// distinct matching cue produces one flag; repeated matches of the same
// cue collapse to the first occurrence. Cue matches neutralized by
// conditional framing ("if there's any blocker...") do not flag.
func (x *Extractor) Extract(e mail.Email, project string) []*flags.Flag {
	var out []*flags.Flag
	out = append(out, x.scan(e, project, flags.ActionItem, x.action)...)
	out = append(out, x.scan(e, project, flags.Risk, x.risk)...)
	return out
}

func (x *Extractor) scan(e mail.Email, project string, t flags.Type, cues []*regexp.Regexp) []*flags.Flag {
	var out []*flags.Flag
	for _, re := range cues {
		loc := firstUnconditionalMatch(re, e.Body)
		if loc == nil {
			continue
		}
		out = append(out, flags.New(
			t,
			project,
			e.SourceFile,
			e.Seq,
			e.Date,
			snippet(e.Body, loc[0], loc[1], x.snippetLen),
			re.String(),
		))
	}
	return out
}

// firstUnconditionalMatch returns the first match of re in body that is
// not neutralized by conditional framing, or nil.
func firstUnconditionalMatch(re *regexp.Regexp, body string) []int {
	offset := 0
	rest := body
	for {
		loc := re.FindStringIndex(rest)
		if loc == nil {
			return nil
		}
		start, end := loc[0]+offset, loc[1]+offset
		if !isConditional(body, start) {
			return []int{start, end}
		}
		offset = end
		// A zero-width match must still advance the scan, or a cue like
		// `x*` or `$` would loop forever on a conditional position.
		if loc[0] == loc[1] {
			_, size := utf8.DecodeRuneInString(body[offset:])
			if size == 0 {
				return nil
			}
			offset += size
		}
		rest = body[offset:]
	}
}
