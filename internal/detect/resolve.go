package detect

import (
	"regexp"

	"github.com/fyrsmithlabs/threadscan/internal/config"
	"github.com/fyrsmithlabs/threadscan/internal/flags"
	"github.com/fyrsmithlabs/threadscan/internal/mail"
)

// minSharedKeywords is how many meaningful words a cross-file resolution
// candidate must share with the trigger snippet to plausibly be about the
// same topic. Same-file candidates skip this check — one thread is one
// conversation.
const minSharedKeywords = 2

// Resolver determines OPEN vs RESOLVED for each candidate flag by scanning
// strictly-later emails in the same project, across every thread file.
//
// Scanning proceeds in chronological order and stops at the first
// resolution-cue match. It does not verify that the resolution covers
// every item of a multi-item request; that scope-matching weakness is a
// known source of false RESOLVED classifications and the first limitation
// the enrichment overlay exists to correct. Preserve it as-is.
type Resolver struct {
	resolution []*regexp.Regexp
	correction []*regexp.Regexp
	snippetLen int
}

// NewResolver builds a resolver from validated configuration.
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{
		resolution: cfg.Cues.ResolutionPatterns(),
		correction: cfg.Cues.CorrectionPatterns(),
		snippetLen: cfg.Detection.SnippetLength,
	}
}

// ResolveAll runs resolution detection for every flag in the store.
// projects must be the same thread sets the flags were extracted from.
func (r *Resolver) ResolveAll(store *flags.Store, projects mail.ProjectThreads) {
	for _, f := range store.All() {
		if !f.IsOpen() {
			continue
		}
		if res, ok := r.findResolution(f, projects[f.Project]); ok {
			// Resolve only fails on a non-open flag; guarded above.
			_ = f.Resolve(res)
		}
	}
}

// findResolution scans the project's chronological sequence for the first
// valid resolution of f.
func (r *Resolver) findResolution(f *flags.Flag, emails []mail.Email) (flags.Resolution, bool) {
	trigger := keywords(f.TriggerSnippet)

	for _, e := range emails {
		// A flag can never resolve to its own trigger email, and only
		// strictly later messages count. Seq is the project-wide total
		// order, so one comparison covers both dates and ties.
		if e.Seq <= f.SourceSeq {
			continue
		}

		// Cross-file candidate: require topical overlap so a generic
		// "I'll do it" in an unrelated thread cannot resolve this flag.
		if e.SourceFile != f.SourceFile {
			if sharedKeywords(trigger, keywords(e.Body)) < minSharedKeywords {
				continue
			}
		}

		loc := r.matchResolution(e.Body)
		if loc == nil {
			continue
		}

		// A later correction in the same thread overrides this reply
		// ("STOP, that's wrong") — the candidate is invalidated and
		// scanning continues.
		if r.isCorrected(e, emails) {
			continue
		}

		return flags.Resolution{
			Snippet:    snippet(e.Body, loc[0], loc[1], r.snippetLen),
			SourceFile: e.SourceFile,
			SourceSeq:  e.Seq,
		}, true
	}
	return flags.Resolution{}, false
}

// matchResolution returns the location of the first resolution-cue match
// in body, or nil.
func (r *Resolver) matchResolution(body string) []int {
	for _, re := range r.resolution {
		if loc := re.FindStringIndex(body); loc != nil {
			return loc
		}
	}
	return nil
}

// isCorrected reports whether a later email in the same thread file
// contains a correction cue, overriding the candidate's intent.
func (r *Resolver) isCorrected(candidate mail.Email, emails []mail.Email) bool {
	for _, e := range emails {
		if e.SourceFile != candidate.SourceFile || e.Seq <= candidate.Seq {
			continue
		}
		for _, re := range r.correction {
			if re.MatchString(e.Body) {
				return true
			}
		}
	}
	return false
}
