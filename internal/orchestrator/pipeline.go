// Package orchestrator connects the pipeline stages in order. No
// detection or enrichment logic lives here — it owns the flag store,
// sequences the stages, and collects run metrics.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/threadscan/internal/config"
	"github.com/fyrsmithlabs/threadscan/internal/detect"
	"github.com/fyrsmithlabs/threadscan/internal/enrich"
	"github.com/fyrsmithlabs/threadscan/internal/flags"
	"github.com/fyrsmithlabs/threadscan/internal/logging"
	"github.com/fyrsmithlabs/threadscan/internal/mail"
)

// Pipeline runs one complete analysis pass. It exclusively owns the flag
// store for the duration of the run; every invocation starts from an
// empty store.
type Pipeline struct {
	cfg *config.Config
	log *logging.Logger

	// overlay, when non-nil, replaces the config-built overlay. Used by
	// tests to inject stub classifiers.
	overlay *enrich.Overlay
}

// Result is everything a run produced, handed read-only to the report
// layer.
type Result struct {
	Store *flags.Store

	// Projects holds the per-project retained email sequences, after the
	// noise filter. The report's analysed counts come from here.
	Projects mail.ProjectThreads

	Roster  mail.Roster
	Metrics Metrics
}

// New creates a pipeline from validated configuration.
func New(cfg *config.Config, log *logging.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log}
}

// WithOverlay injects a pre-built enrichment overlay, bypassing the
// config-built one. Enrichment still only runs when the config enables it.
func (p *Pipeline) WithOverlay(o *enrich.Overlay) *Pipeline {
	p.overlay = o
	return p
}

// Run executes the full pipeline over the thread files in emailDir.
func (p *Pipeline) Run(ctx context.Context, emailDir string) (*Result, error) {
	start := time.Now()
	result := &Result{Store: flags.NewStore()}

	// 1. Ingest.
	parser := mail.NewParser(p.cfg.Detection.MaxBodyLength)
	loaded, err := parser.LoadDirectory(emailDir)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	result.Metrics.EmailsLoaded = len(loaded.Emails)
	result.Metrics.EmailsSkipped = loaded.Skipped
	result.Metrics.FilesBlocked = loaded.Blocked
	p.log.Info(ctx, "emails loaded",
		zap.Int("count", len(loaded.Emails)),
		zap.Int("skipped", loaded.Skipped),
	)

	if len(loaded.Emails) == 0 {
		result.Metrics.EnrichmentEnabled = p.cfg.Enrichment.Enabled()
		result.Metrics.DurationSeconds = time.Since(start).Seconds()
		return result, nil
	}

	// 2. Group by project. Establishes the total, stable per-project
	// ordering every later-than comparison depends on.
	grouped := mail.GroupByProject(loaded.Emails)
	result.Metrics.Projects = len(grouped)

	// 3. Per project: noise filter, then signal extraction over the
	// retained messages. Projects are visited in sorted key order so
	// repeated runs fill the store identically.
	noiseFilter := detect.NewNoiseFilter(p.cfg)
	extractor := detect.NewExtractor(p.cfg)
	result.Projects = make(mail.ProjectThreads, len(grouped))

	for _, key := range grouped.Keys() {
		projCtx := logging.WithProject(ctx, key)
		clean, dropped := noiseFilter.Filter(grouped[key])
		result.Metrics.NoiseFiltered += dropped
		result.Projects[key] = clean

		for _, e := range clean {
			for _, f := range extractor.Extract(e, key) {
				result.Store.Add(f)
			}
		}
		p.log.Debug(projCtx, "project scanned",
			zap.Int("emails", len(clean)),
			zap.Int("noise_dropped", dropped),
		)
	}
	result.Metrics.CandidateFlags = result.Store.Len()

	// 4. Cross-thread resolution detection over the retained sequences.
	detect.NewResolver(p.cfg).ResolveAll(result.Store, result.Projects)
	result.Metrics.OpenFlags = result.Store.CountByStatus(flags.Open)
	result.Metrics.ResolvedFlags = result.Store.CountByStatus(flags.Resolved)
	p.log.Info(ctx, "resolution detection complete",
		zap.Int("open", result.Metrics.OpenFlags),
		zap.Int("resolved", result.Metrics.ResolvedFlags),
	)

	// 5. Optional enrichment. The deterministic result above is final
	// when no credential is configured.
	result.Metrics.EnrichmentEnabled = p.cfg.Enrichment.Enabled()
	if result.Metrics.EnrichmentEnabled {
		if err := p.enrich(ctx, emailDir, result); err != nil {
			return nil, err
		}
	}

	result.Metrics.DurationSeconds = time.Since(start).Seconds()
	return result, nil
}

// enrich runs the two-tier overlay over the store's open flags. Overlay
// construction failure is a configuration-level problem and aborts the
// run; anything after that is isolated per flag inside the overlay.
func (p *Pipeline) enrich(ctx context.Context, emailDir string, result *Result) error {
	overlay := p.overlay
	if overlay == nil {
		var err error
		overlay, err = enrich.NewFromConfig(p.cfg.Enrichment, p.log.Named("enrich"))
		if err != nil {
			return fmt.Errorf("enrichment setup: %w", err)
		}
	}

	result.Roster = mail.LoadRoster(emailDir)
	result.Metrics.ColleaguesLoaded = len(result.Roster)

	stats := overlay.Run(ctx, result.Store, result.Roster)
	result.Metrics.Enrichment = &stats
	result.Metrics.OpenFlags = result.Store.CountByStatus(flags.Open)
	result.Metrics.FalsePositives = result.Store.CountByStatus(flags.FalsePositive)
	return nil
}
