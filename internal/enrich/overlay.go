package enrich

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/threadscan/internal/config"
	"github.com/fyrsmithlabs/threadscan/internal/flags"
	"github.com/fyrsmithlabs/threadscan/internal/logging"
	"github.com/fyrsmithlabs/threadscan/internal/mail"
	"github.com/fyrsmithlabs/threadscan/internal/sanitize"
	"github.com/fyrsmithlabs/threadscan/internal/secrets"
)

// RedactionNotice replaces an evidence snippet that the sensitive-data
// gate refused to transmit. The model still judges the flag, but sees
// only this marker instead of the raw evidence.
const RedactionNotice = "[REDACTED: evidence withheld, potential credential or secret detected]"

// Stats is the overlay's observational output. It never alters control
// flow.
type Stats struct {
	Tier1Calls     int `json:"tier1_calls"`
	Tier2Calls     int `json:"tier2_calls"`
	Failures       int `json:"failures"`
	FalsePositives int `json:"false_positives"`
	Redacted       int `json:"redacted"`
	Sanitized      int `json:"sanitized"`
}

// Overlay runs the two-tier re-classification over a store's OPEN flags.
// It writes through the store's open view in place and never deletes or
// reorders flags. RESOLVED flags are never seen here, which is the cost
// control: only OPEN flags incur model cost.
type Overlay struct {
	tier1    Classifier
	tier2    Classifier
	detector secrets.Detector

	limiter       *rate.Limiter
	timeout       time.Duration
	maxConcurrent int

	log *logging.Logger

	mu    sync.Mutex
	stats Stats
}

// New wires an overlay from its collaborators.
func New(cfg config.EnrichmentConfig, tier1, tier2 Classifier, detector secrets.Detector, log *logging.Logger) *Overlay {
	limit := rate.Inf
	if interval := cfg.CallInterval.Duration(); interval > 0 {
		limit = rate.Every(interval)
	}
	return &Overlay{
		tier1:         tier1,
		tier2:         tier2,
		detector:      detector,
		limiter:       rate.NewLimiter(limit, 1),
		timeout:       cfg.CallTimeout.Duration(),
		maxConcurrent: cfg.MaxConcurrent,
		log:           log,
	}
}

// NewFromConfig builds the production overlay: one langchaingo classifier
// per tier and the default sensitive-data detector.
func NewFromConfig(cfg config.EnrichmentConfig, log *logging.Logger) (*Overlay, error) {
	tier1, err := NewLLMClassifier(cfg.Tier1Model, cfg.APIKey, cfg.MaxTokens)
	if err != nil {
		return nil, err
	}
	tier2, err := NewLLMClassifier(cfg.Tier2Model, cfg.APIKey, cfg.MaxTokens)
	if err != nil {
		return nil, err
	}
	detector, err := secrets.New(nil)
	if err != nil {
		return nil, err
	}
	return New(cfg, tier1, tier2, detector, log), nil
}

// Run executes Tier 1 over every OPEN flag, then Tier 2 over the flags
// Tier 1 left OPEN with HIGH priority. Tier 2 for a flag is a hard
// dependency on that flag's Tier 1 verdict, so the second pass only
// starts after the first completes. Every per-flag failure is isolated:
// the flag keeps its pre-call state and the run continues.
//
// roster may be nil; known roles only add prompt context and never alter
// classification flow.
func (o *Overlay) Run(ctx context.Context, store *flags.Store, roster mail.Roster) Stats {
	open := store.OpenFlags()
	o.log.Info(ctx, "enrichment tier 1 starting",
		zap.String("model", o.tier1.Model()),
		zap.Int("open_flags", len(open)),
	)
	o.runTier(ctx, open, o.tier1, flags.Tier1, roster)

	var high []*flags.Flag
	for _, f := range open {
		if f.IsOpen() && f.EnrichedBy == flags.Tier1 && f.Priority == flags.High {
			high = append(high, f)
		}
	}

	o.log.Info(ctx, "enrichment tier 2 starting",
		zap.String("model", o.tier2.Model()),
		zap.Int("high_priority_flags", len(high)),
	)
	o.runTier(ctx, high, o.tier2, flags.Tier2, roster)

	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

// runTier classifies each flag with bounded concurrency. Each goroutine
// owns exactly one flag, so no flag is ever mutated by two in-flight
// calls.
func (o *Overlay) runTier(ctx context.Context, list []*flags.Flag, c Classifier, tier flags.Tier, roster mail.Roster) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxConcurrent)

	for _, f := range list {
		f := f
		g.Go(func() error {
			o.classifyOne(ctx, f, c, tier, roster)
			return nil
		})
	}
	// Goroutines never return errors; per-flag failures are isolated.
	_ = g.Wait()
}

// classifyOne runs the full guarded call for a single flag.
func (o *Overlay) classifyOne(ctx context.Context, f *flags.Flag, c Classifier, tier flags.Tier, roster mail.Roster) {
	if err := o.limiter.Wait(ctx); err != nil {
		o.recordFailure(ctx, f, tier, err)
		return
	}

	req := Request{
		FlagType:   f.Type,
		SourceFile: f.SourceFile,
		Snippet:    o.prepareSnippet(ctx, f),
	}
	if roster != nil {
		req.Roles = roster.MatchesSnippet(f.TriggerSnippet)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	verdict, err := c.Classify(callCtx, req)
	if err != nil {
		o.recordFailure(ctx, f, tier, err)
		return
	}

	if err := f.ApplyClassification(verdict, tier); err != nil {
		o.recordFailure(ctx, f, tier, err)
		return
	}

	o.mu.Lock()
	switch tier {
	case flags.Tier1:
		o.stats.Tier1Calls++
	case flags.Tier2:
		o.stats.Tier2Calls++
	}
	if f.Status == flags.FalsePositive {
		o.stats.FalsePositives++
	}
	o.mu.Unlock()
}

// prepareSnippet applies the transmission guard rails: the sensitive-data
// gate first (a finding substitutes the redaction notice for the whole
// snippet), then injection neutralization.
func (o *Overlay) prepareSnippet(ctx context.Context, f *flags.Flag) string {
	if result := o.detector.Check(f.TriggerSnippet); result.HasFindings() {
		o.log.Warn(ctx, "sensitive data in evidence, withholding snippet",
			zap.String("flag", f.ID),
			zap.String("source_file", f.SourceFile),
			zap.Strings("rules", result.RuleIDs()),
		)
		o.mu.Lock()
		o.stats.Redacted++
		o.mu.Unlock()
		return RedactionNotice
	}

	safe, replaced := sanitize.NeutralizeInstructions(f.TriggerSnippet)
	if replaced > 0 {
		o.log.Warn(ctx, "instruction-like phrases neutralized in evidence",
			zap.String("flag", f.ID),
			zap.Int("replacements", replaced),
		)
		o.mu.Lock()
		o.stats.Sanitized += replaced
		o.mu.Unlock()
	}
	return safe
}

// recordFailure logs a per-flag failure. The flag keeps its pre-call
// state; the worst case of any enrichment failure is "behaves as if
// enrichment were absent" for that one flag.
func (o *Overlay) recordFailure(ctx context.Context, f *flags.Flag, tier flags.Tier, err error) {
	o.log.Warn(ctx, "enrichment call failed, keeping deterministic classification",
		zap.String("flag", f.ID),
		zap.String("tier", string(tier)),
		zap.Error(err),
	)
	o.mu.Lock()
	o.stats.Failures++
	o.mu.Unlock()
}
