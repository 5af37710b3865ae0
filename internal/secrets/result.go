package secrets

// Result contains the detection result for one piece of content.
type Result struct {
	// Findings contains the detected items (without the matched values).
	Findings []Finding `json:"findings,omitempty"`

	// TotalFindings is the count of items found.
	TotalFindings int `json:"total_findings"`

	// ByRule maps rule IDs to finding counts.
	ByRule map[string]int `json:"by_rule,omitempty"`
}

// Finding represents one detected sensitive item.
type Finding struct {
	// RuleID identifies which rule matched.
	RuleID string `json:"rule_id"`

	// Description explains what was found.
	Description string `json:"description"`

	// Severity indicates the importance.
	Severity string `json:"severity"`

	// StartIndex is the start position in the content.
	StartIndex int `json:"start_index"`

	// EndIndex is the end position in the content.
	EndIndex int `json:"end_index"`

	// The matched text is never included, to avoid leaking the secret.
}

// HasFindings returns true if anything was detected.
func (r *Result) HasFindings() bool {
	return r.TotalFindings > 0
}

// RuleIDs returns the unique rule IDs that matched.
func (r *Result) RuleIDs() []string {
	ids := make([]string, 0, len(r.ByRule))
	for id := range r.ByRule {
		ids = append(ids, id)
	}
	return ids
}
