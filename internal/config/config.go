// Package config provides configuration loading for threadscan.
//
// Precedence (highest to lowest): environment variables (THREADSCAN_*),
// YAML config file, hardcoded defaults. Cue lists are compiled during
// validation so malformed patterns are fatal before any processing begins.
package config

import (
	"fmt"
	"regexp"
)

// Config is the full threadscan configuration surface.
type Config struct {
	Cues       CuesConfig       `koanf:"cues"`
	Detection  DetectionConfig  `koanf:"detection"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// CuesConfig holds the user-tunable keyword/pattern lists. Patterns are
// regular expressions matched case-insensitively against email bodies.
type CuesConfig struct {
	// Noise marks social / off-topic content for the noise filter.
	Noise []string `koanf:"noise"`

	// Action signals a request, question, or task.
	Action []string `koanf:"action"`

	// Risk signals blockers, scope changes, and delivery risks.
	Risk []string `koanf:"risk"`

	// Resolution signals that an issue was addressed.
	Resolution []string `koanf:"resolution"`

	// Correction signals that an earlier reply was wrong or overridden;
	// a later correction invalidates a resolution candidate.
	Correction []string `koanf:"correction"`

	// compiled pattern sets (populated by Validate)
	noise      []*regexp.Regexp
	action     []*regexp.Regexp
	risk       []*regexp.Regexp
	resolution []*regexp.Regexp
	correction []*regexp.Regexp
}

// DetectionConfig holds the deterministic pipeline thresholds.
type DetectionConfig struct {
	// MinNoiseHits is the minimum noise-cue matches before a message can
	// be considered noise. Both this and MaxNoiseWords must hold.
	MinNoiseHits int `koanf:"min_noise_hits"`

	// MaxNoiseWords is the word count a message must stay under to be
	// considered noise.
	MaxNoiseWords int `koanf:"max_noise_words"`

	// SnippetLength caps evidence snippets in characters.
	SnippetLength int `koanf:"snippet_length"`

	// MaxBodyLength caps email bodies at parse time.
	MaxBodyLength int `koanf:"max_body_length"`
}

// EnrichmentConfig controls the optional two-tier LLM overlay.
type EnrichmentConfig struct {
	// APIKey enables enrichment when set. Populated from OPENAI_API_KEY;
	// never logged or serialized in clear.
	APIKey Secret `koanf:"api_key"`

	// Tier1Model is the cheap model run over every open flag.
	Tier1Model string `koanf:"tier1_model"`

	// Tier2Model is the accurate model run over Tier-1 HIGH flags only.
	Tier2Model string `koanf:"tier2_model"`

	// MaxTokens bounds each completion.
	MaxTokens int `koanf:"max_tokens"`

	// CallTimeout is the per-call deadline.
	CallTimeout Duration `koanf:"call_timeout"`

	// MaxConcurrent bounds in-flight calls within a tier.
	MaxConcurrent int `koanf:"max_concurrent"`

	// CallInterval is the minimum spacing between call starts, shared
	// across the whole overlay to respect provider rate limits.
	CallInterval Duration `koanf:"call_interval"`
}

// Enabled reports whether enrichment should run. Resolved once at load
// time from credential presence and threaded through the pipeline.
func (e *EnrichmentConfig) Enabled() bool {
	return e.APIKey.IsSet()
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is "json" or "console".
	Format string `koanf:"format"`
}

// Validate checks thresholds and compiles every cue list. Any malformed
// pattern is a configuration error and aborts the run before processing.
func (c *Config) Validate() error {
	if c.Detection.MinNoiseHits < 1 {
		return fmt.Errorf("detection.min_noise_hits must be >= 1, got %d", c.Detection.MinNoiseHits)
	}
	if c.Detection.MaxNoiseWords < 1 {
		return fmt.Errorf("detection.max_noise_words must be >= 1, got %d", c.Detection.MaxNoiseWords)
	}
	if c.Detection.SnippetLength < 1 {
		return fmt.Errorf("detection.snippet_length must be >= 1, got %d", c.Detection.SnippetLength)
	}
	if c.Detection.MaxBodyLength < 1 {
		return fmt.Errorf("detection.max_body_length must be >= 1, got %d", c.Detection.MaxBodyLength)
	}

	if len(c.Cues.Action) == 0 {
		return fmt.Errorf("cues.action cannot be empty")
	}
	if len(c.Cues.Risk) == 0 {
		return fmt.Errorf("cues.risk cannot be empty")
	}
	if len(c.Cues.Resolution) == 0 {
		return fmt.Errorf("cues.resolution cannot be empty")
	}

	var err error
	if c.Cues.noise, err = compileCues("cues.noise", c.Cues.Noise); err != nil {
		return err
	}
	if c.Cues.action, err = compileCues("cues.action", c.Cues.Action); err != nil {
		return err
	}
	if c.Cues.risk, err = compileCues("cues.risk", c.Cues.Risk); err != nil {
		return err
	}
	if c.Cues.resolution, err = compileCues("cues.resolution", c.Cues.Resolution); err != nil {
		return err
	}
	if c.Cues.correction, err = compileCues("cues.correction", c.Cues.Correction); err != nil {
		return err
	}

	if c.Enrichment.Enabled() {
		if c.Enrichment.Tier1Model == "" {
			return fmt.Errorf("enrichment.tier1_model is required when enrichment is enabled")
		}
		if c.Enrichment.Tier2Model == "" {
			return fmt.Errorf("enrichment.tier2_model is required when enrichment is enabled")
		}
		if c.Enrichment.CallTimeout.Duration() <= 0 {
			return fmt.Errorf("enrichment.call_timeout must be positive")
		}
		if c.Enrichment.MaxConcurrent < 1 {
			return fmt.Errorf("enrichment.max_concurrent must be >= 1, got %d", c.Enrichment.MaxConcurrent)
		}
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}

// compileCues compiles a cue list case-insensitively, failing fast with
// the list name and offending pattern.
func compileCues(name string, patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: invalid pattern %q: %w", name, i, p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Compiled cue accessors. Valid only after Validate succeeds.

// NoisePatterns returns the compiled noise cues.
func (c *CuesConfig) NoisePatterns() []*regexp.Regexp { return c.noise }

// ActionPatterns returns the compiled action cues.
func (c *CuesConfig) ActionPatterns() []*regexp.Regexp { return c.action }

// RiskPatterns returns the compiled risk cues.
func (c *CuesConfig) RiskPatterns() []*regexp.Regexp { return c.risk }

// ResolutionPatterns returns the compiled resolution cues.
func (c *CuesConfig) ResolutionPatterns() []*regexp.Regexp { return c.resolution }

// CorrectionPatterns returns the compiled correction cues.
func (c *CuesConfig) CorrectionPatterns() []*regexp.Regexp { return c.correction }
