// Package detect implements the deterministic three-stage classifier:
// noise filtering, candidate signal extraction, and cross-thread
// resolution detection. All matching is syntactic — configured cue
// patterns over email bodies — with zero external calls, so two runs over
// identical input always produce identical flag sets.
package detect

import (
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/threadscan/internal/config"
	"github.com/fyrsmithlabs/threadscan/internal/mail"
)

// NoiseFilter decides which messages are worth scanning for signal.
//
// It is deliberately conservative: a message is dropped only when it
// matches at least MinNoiseHits noise cues AND is shorter than
// MaxNoiseWords words. Either condition alone never drops — a work email
// that mentions lunch in passing must survive, because a dropped signal is
// unrecoverable while retained noise merely costs one extraction pass.
type NoiseFilter struct {
	patterns []*regexp.Regexp
	minHits  int
	maxWords int
}

// NewNoiseFilter builds a filter from validated configuration.
func NewNoiseFilter(cfg *config.Config) *NoiseFilter {
	return &NoiseFilter{
		patterns: cfg.Cues.NoisePatterns(),
		minHits:  cfg.Detection.MinNoiseHits,
		maxWords: cfg.Detection.MaxNoiseWords,
	}
}

// Retain reports whether the email should continue through the pipeline.
func (f *NoiseFilter) Retain(e mail.Email) bool {
	hits := 0
	for _, re := range f.patterns {
		if re.MatchString(e.Body) {
			hits++
		}
	}
	words := len(strings.Fields(e.Body))
	return !(hits >= f.minHits && words < f.maxWords)
}

// Filter partitions emails into retained messages and a dropped count.
func (f *NoiseFilter) Filter(emails []mail.Email) ([]mail.Email, int) {
	retained := make([]mail.Email, 0, len(emails))
	dropped := 0
	for _, e := range emails {
		if f.Retain(e) {
			retained = append(retained, e)
		} else {
			dropped++
		}
	}
	return retained, dropped
}
