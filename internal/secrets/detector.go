// Package secrets detects credentials and other sensitive data in evidence
// snippets before they are transmitted to an external model.
//
// Detection is a policy gate, not an error: on findings the caller
// substitutes a redaction notice for the raw snippet and proceeds.
package secrets

import (
	"fmt"
	"regexp"
)

// Detector checks content for sensitive data.
type Detector interface {
	// Check scans content and reports findings without modifying it.
	Check(content string) *Result

	// IsEnabled returns whether detection is active.
	IsEnabled() bool
}

// Config configures the detector.
type Config struct {
	// Enabled controls whether detection is active (default: true).
	Enabled bool `koanf:"enabled"`

	// Rules defines the detection rules.
	Rules []Rule `koanf:"rules"`

	// AllowList contains patterns to skip during detection.
	AllowList []string `koanf:"allow_list"`

	// compiled patterns (populated by Validate)
	compiledRules     []*compiledRule
	compiledAllowList []*regexp.Regexp
}

// Rule defines one sensitive-data pattern.
type Rule struct {
	// ID is the unique identifier for this rule.
	ID string `koanf:"id"`

	// Description explains what this rule detects.
	Description string `koanf:"description"`

	// Pattern is the regex pattern to match.
	Pattern string `koanf:"pattern"`

	// Severity indicates the importance (high, medium, low).
	Severity string `koanf:"severity"`
}

type compiledRule struct {
	Rule
	pattern *regexp.Regexp
}

// DefaultConfig returns a configuration with the standard rules.
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Rules:   DefaultRules(),
	}
}

// Validate validates and compiles the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	c.compiledRules = make([]*compiledRule, 0, len(c.Rules))
	for i, rule := range c.Rules {
		if rule.ID == "" {
			return fmt.Errorf("rule %d: ID is required", i)
		}
		if rule.Pattern == "" {
			return fmt.Errorf("rule %s: pattern is required", rule.ID)
		}
		pattern, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("rule %s: invalid pattern: %w", rule.ID, err)
		}
		c.compiledRules = append(c.compiledRules, &compiledRule{Rule: rule, pattern: pattern})
	}

	c.compiledAllowList = make([]*regexp.Regexp, 0, len(c.AllowList))
	for i, pattern := range c.AllowList {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("allow_list %d: invalid pattern: %w", i, err)
		}
		c.compiledAllowList = append(c.compiledAllowList, compiled)
	}

	return nil
}

// detector is the default implementation using regexp rules.
type detector struct {
	config *Config
}

// New creates a Detector with the given configuration.
// If config is nil, DefaultConfig() is used.
func New(cfg *Config) (Detector, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &detector{config: cfg}, nil
}

// MustNew creates a Detector, panicking on error.
func MustNew(cfg *Config) Detector {
	d, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return d
}

// Check scans content against every rule, skipping allow-listed matches.
func (d *detector) Check(content string) *Result {
	result := &Result{ByRule: make(map[string]int)}
	if !d.config.Enabled {
		return result
	}

	for _, rule := range d.config.compiledRules {
		matches := rule.pattern.FindAllStringIndex(content, -1)
		for _, match := range matches {
			if d.isAllowed(content[match[0]:match[1]]) {
				continue
			}
			result.Findings = append(result.Findings, Finding{
				RuleID:      rule.ID,
				Description: rule.Description,
				Severity:    rule.Severity,
				StartIndex:  match[0],
				EndIndex:    match[1],
			})
			result.ByRule[rule.ID]++
		}
	}
	result.TotalFindings = len(result.Findings)
	return result
}

// IsEnabled returns whether detection is active.
func (d *detector) IsEnabled() bool {
	return d.config.Enabled
}

func (d *detector) isAllowed(match string) bool {
	for _, pattern := range d.config.compiledAllowList {
		if pattern.MatchString(match) {
			return true
		}
	}
	return false
}

// NoopDetector reports nothing (for testing or disabled mode).
type NoopDetector struct{}

// Check returns an empty result.
func (n *NoopDetector) Check(content string) *Result {
	return &Result{ByRule: make(map[string]int)}
}

// IsEnabled returns false.
func (n *NoopDetector) IsEnabled() bool { return false }

// Compile-time checks that implementations satisfy Detector.
var _ Detector = (*detector)(nil)
var _ Detector = (*NoopDetector)(nil)
