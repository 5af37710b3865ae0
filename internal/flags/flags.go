// Package flags defines the candidate flag model shared by every pipeline
// stage: the flag types, the status state machine, and the per-run store.
//
// A flag is created once by signal extraction and never destroyed. Only the
// resolution resolver and the enrichment overlay mutate it, and every
// transition goes through a method on Flag so illegal moves are rejected
// instead of silently applied.
package flags

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type identifies what kind of signal a flag represents.
type Type string

const (
	// ActionItem is an unanswered request, question, or task.
	ActionItem Type = "ACTION_ITEM"

	// Risk is a blocker, scope change, or other delivery risk.
	Risk Type = "RISK"
)

// Status is the flag lifecycle state.
type Status string

const (
	// Open means no later email resolved the flag.
	Open Status = "OPEN"

	// Resolved means a strictly later email in the same project matched a
	// resolution cue. Terminal; set only by the deterministic resolver.
	Resolved Status = "RESOLVED"

	// FalsePositive means enrichment judged the flag not genuine.
	// Terminal; set only by the enrichment overlay.
	FalsePositive Status = "FALSE_POSITIVE"
)

// Level is a three-step scale used for both priority and confidence.
type Level string

const (
	High   Level = "HIGH"
	Medium Level = "MEDIUM"
	Low    Level = "LOW"
)

// ValidLevel reports whether l is one of the three allowed values.
func ValidLevel(l Level) bool {
	switch l {
	case High, Medium, Low:
		return true
	}
	return false
}

// Tier records which enrichment pass last wrote a flag's fields.
type Tier string

const (
	// TierNone means enrichment never touched the flag.
	TierNone Tier = "NONE"

	// Tier1 is the cheap high-volume classification pass.
	Tier1 Tier = "TIER1"

	// Tier2 is the accurate low-volume re-classification pass.
	Tier2 Tier = "TIER2"
)

// Transition errors.
var (
	// ErrNotOpen indicates a mutation that is only legal on an OPEN flag.
	ErrNotOpen = errors.New("flag is not open")

	// ErrEmptyEvidence indicates an attempt to attach empty evidence.
	ErrEmptyEvidence = errors.New("evidence snippet cannot be empty")
)

// Resolution is the evidence attached when a flag transitions to RESOLVED.
// Snippet is a verbatim quote from the resolving email; SourceFile and
// SourceSeq point back at that email.
type Resolution struct {
	Snippet    string `json:"snippet"`
	SourceFile string `json:"source_file"`
	SourceSeq  int    `json:"source_seq"`
}

// Classification is a validated enrichment verdict for one flag.
type Classification struct {
	IsGenuine  bool   `json:"is_genuine"`
	Owner      string `json:"owner"`
	Priority   Level  `json:"priority"`
	Summary    string `json:"summary"`
	Confidence Level  `json:"confidence"`
}

// Flag is one detected action item or risk with its evidence trail.
//
// TriggerSnippet is derived verbatim from the source email body — it is
// never paraphrased. Owner, Priority, Summary, Confidence and EnrichedBy
// stay at their zero values until (and unless) enrichment runs.
type Flag struct {
	ID      string `json:"id"`
	Type    Type   `json:"type"`
	Project string `json:"project"`

	SourceFile  string    `json:"source_file"`
	SourceSeq   int       `json:"source_seq"`
	TriggerDate time.Time `json:"trigger_date,omitempty"`

	TriggerSnippet string `json:"trigger_snippet"`
	MatchedCue     string `json:"matched_cue"`

	Status     Status      `json:"status"`
	Resolution *Resolution `json:"resolution,omitempty"`

	Owner      string `json:"owner,omitempty"`
	Priority   Level  `json:"priority,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Confidence Level  `json:"confidence,omitempty"`
	EnrichedBy Tier   `json:"enriched_by"`
}

// New creates an OPEN flag for the given trigger evidence.
func New(t Type, project, sourceFile string, sourceSeq int, date time.Time, snippet, cue string) *Flag {
	return &Flag{
		ID:             uuid.NewString(),
		Type:           t,
		Project:        project,
		SourceFile:     sourceFile,
		SourceSeq:      sourceSeq,
		TriggerDate:    date,
		TriggerSnippet: snippet,
		MatchedCue:     cue,
		Status:         Open,
		EnrichedBy:     TierNone,
	}
}

// IsOpen reports whether the flag is still awaiting resolution.
func (f *Flag) IsOpen() bool { return f.Status == Open }

// Resolve transitions OPEN → RESOLVED with the given evidence.
// Resolving a non-open flag or attaching empty evidence is an error.
func (f *Flag) Resolve(r Resolution) error {
	if f.Status != Open {
		return fmt.Errorf("resolve %s: %w", f.ID, ErrNotOpen)
	}
	if r.Snippet == "" {
		return fmt.Errorf("resolve %s: %w", f.ID, ErrEmptyEvidence)
	}
	f.Status = Resolved
	f.Resolution = &r
	return nil
}

// ApplyClassification applies an enrichment verdict in place.
//
// A not-genuine verdict moves the flag to FALSE_POSITIVE and clears nothing
// (the deterministic evidence trail stays for auditability). A genuine
// verdict keeps the flag OPEN and populates the enrichment fields,
// overwriting whatever an earlier tier wrote.
func (f *Flag) ApplyClassification(c Classification, tier Tier) error {
	if f.Status != Open {
		return fmt.Errorf("classify %s: %w", f.ID, ErrNotOpen)
	}
	if !c.IsGenuine {
		f.Status = FalsePositive
		f.EnrichedBy = tier
		return nil
	}
	f.Owner = c.Owner
	f.Priority = c.Priority
	f.Summary = c.Summary
	f.Confidence = c.Confidence
	f.EnrichedBy = tier
	return nil
}
