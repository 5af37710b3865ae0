// Package enrich implements the optional two-tier LLM overlay that
// re-classifies OPEN flags: Tier 1 (cheap model) judges every open flag,
// Tier 2 (accurate model) re-judges only the flags Tier 1 rated HIGH.
//
// The overlay is guard-railed end to end: evidence snippets pass a
// sensitive-data gate and a prompt-injection sanitizer before
// transmission, model output must satisfy a strict schema, and any
// failure — transport, timeout, malformed output — leaves the flag
// exactly as the deterministic pipeline classified it. Enrichment can
// refine a flag; it can never remove or corrupt one.
package enrich

import (
	"context"

	"github.com/fyrsmithlabs/threadscan/internal/flags"
	"github.com/fyrsmithlabs/threadscan/internal/mail"
)

// Request carries the only flag context a classification call may see:
// the flag type, the source file identifier, the (sanitized) evidence
// snippet, and any known colleague roles matching the snippet. Calls
// share no state — each flag is judged independently.
type Request struct {
	FlagType   flags.Type
	SourceFile string
	Snippet    string
	Roles      []mail.Colleague
}

// Classifier is the narrow interface the overlay depends on. Concrete
// implementations exist per model tier, plus a deterministic stub for
// tests — the core never couples to a specific provider.
type Classifier interface {
	// Classify judges one flag. The returned classification is already
	// schema-validated; any error means the caller must fall back to the
	// flag's pre-call state.
	Classify(ctx context.Context, req Request) (flags.Classification, error)

	// Model identifies the underlying model, for logs and metrics.
	Model() string
}

// Stub is a deterministic Classifier for tests and dry runs.
type Stub struct {
	// Name is reported by Model().
	Name string

	// Result is returned for every call when Err is nil.
	Result flags.Classification

	// Err, when set, makes every call fail.
	Err error

	// Calls counts invocations. Not safe for concurrent use unless the
	// test serializes calls.
	Calls int
}

// Classify returns the configured result or error.
func (s *Stub) Classify(_ context.Context, _ Request) (flags.Classification, error) {
	s.Calls++
	if s.Err != nil {
		return flags.Classification{}, s.Err
	}
	return s.Result, nil
}

// Model returns the stub's name.
func (s *Stub) Model() string {
	if s.Name == "" {
		return "stub"
	}
	return s.Name
}

var _ Classifier = (*Stub)(nil)
