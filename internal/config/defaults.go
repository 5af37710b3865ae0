package config

import "time"

// DefaultConfig returns the built-in cue lists and thresholds. The cue
// lists are tuned for project status threads in English; override any of
// them via the YAML config file.
func DefaultConfig() *Config {
	return &Config{
		Cues: CuesConfig{
			Action:     defaultActionCues(),
			Risk:       defaultRiskCues(),
			Resolution: defaultResolutionCues(),
			Correction: defaultCorrectionCues(),
			Noise:      defaultNoiseCues(),
		},
		Detection: DetectionConfig{
			MinNoiseHits:  2,
			MaxNoiseWords: 80,
			SnippetLength: 150,
			MaxBodyLength: 5000,
		},
		Enrichment: EnrichmentConfig{
			Tier1Model:    "gpt-4o-mini",
			Tier2Model:    "gpt-4o",
			MaxTokens:     300,
			CallTimeout:   Duration(30 * time.Second),
			MaxConcurrent: 4,
			CallInterval:  Duration(time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// defaultActionCues signal a request, question, or task.
func defaultActionCues() []string {
	return []string{
		`\bplease\b.*[\?!]`,
		`\bcan you\b`,
		`\bcould you\b`,
		`\bwe need\b`,
		`\bwhat.s the status\b`,
		`\bstill pending\b`,
		`\bany progress\b`,
		`\bany feedback\b`,
		`\bplease estimate\b`,
		`\bplease review\b`,
		`\bplease look into\b`,
		`\bplease investigate\b`,
		`\bplease take a look\b`,
		`\bplease help\b`,
		`\bplease create\b`,
		`\bplease ask\b`,
		`\blet me know\b`,
		`\bhas this been confirmed\b`,
		`\bwhat do you think\b`,
		`\bcan we\b.*\?`,
		`\bdo we need\b`,
		`\bhow should we\b`,
		`\bwhat should\b`,
		`\bstill open\b`,
	}
}

// defaultRiskCues signal blockers, scope changes, and delivery risks.
func defaultRiskCues() []string {
	return []string{
		`\bnot included in the estimate\b`,
		`\bre-plan\b`,
		`\bextra effort\b`,
		`\bnot in the.*spec`,
		`\bnew requirement\b`,
		`\bscope\b`,
		`\bblocked\b|\bblocker\b`,
		`\bcan.t proceed\b`,
		`\bstuck\b`,
		`\burgent\b`,
		`\bgdpr\b`,
		`\bproduction\b.*\bfix\b`,
		`\bwrong environment variable\b`,
		`\bfaulty\b`,
		`\bplaceholder\b`,
		`\bnice to have\b`,
		`\bextra development\b`,
		`\bsidelined\b`,
	}
}

// defaultResolutionCues signal that an issue was addressed: acknowledgement,
// commitment, completion, or explicit scope removal.
func defaultResolutionCues() []string {
	return []string{
		`\bfixed\b`,
		`\bresolved\b`,
		`\bdone\b`,
		`\bcompleted\b`,
		`\bworking (again|now)\b`,
		`\bit works\b`,
		`\bremoved from.*scope\b`,
		`\bwe can remove\b`,
		`\bcan go live\b`,
		`\bi.ll (fix|check|do|handle|implement|update|continue)\b`,
		`\bi.ve (fixed|pushed|enlarged|updated|closed)\b`,
		`\bsure,? i can\b`,
		`\bokay.*i.ll\b`,
		`\bthat.s clear\b`,
		`\bget it done\b`,
	}
}

// defaultCorrectionCues signal that a previous reply was wrong or
// overridden, invalidating it as resolution evidence.
func defaultCorrectionCues() []string {
	return []string{
		`\bstop\b`,
		`\bno,\s`,
		`\bwait\b`,
		`\bnot what\b`,
		`\bthat.s wrong\b`,
		`\bonly modify\b`,
		`\bonly mentioned\b`,
		`\bthat.s not\b`,
		`\bdo not\b`,
		`\bdon.t\b`,
	}
}

// defaultNoiseCues mark social / off-topic content.
func defaultNoiseCues() []string {
	return []string{
		`\blunch\b`,
		`\brestaurant\b`,
		`\bpizza\b`,
		`\bmexican\b`,
		`\bfried chicken\b`,
		`\bmarzipan\b`,
		`\bcake\b`,
		`\bbirthday\b`,
		`\bchip in\b`,
		`\bsurprise\b`,
		`\bnot meant for here\b`,
		`\bwasn.t meant for\b`,
		`\bwrong.*thread\b`,
	}
}
