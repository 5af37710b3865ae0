package orchestrator

import (
	"encoding/json"
	"os"

	"github.com/fyrsmithlabs/threadscan/internal/enrich"
)

// Metrics is the run's observational output. Nothing here alters control
// flow; the final report and metrics always reflect a complete run.
type Metrics struct {
	EmailsLoaded  int `json:"emails_loaded"`
	EmailsSkipped int `json:"emails_skipped"`
	FilesBlocked  int `json:"files_blocked"`
	Projects      int `json:"projects"`

	NoiseFiltered  int `json:"noise_filtered"`
	CandidateFlags int `json:"candidate_flags"`
	OpenFlags      int `json:"open_flags"`
	ResolvedFlags  int `json:"resolved_flags"`
	FalsePositives int `json:"false_positives"`

	EnrichmentEnabled bool          `json:"enrichment_enabled"`
	Enrichment        *enrich.Stats `json:"enrichment,omitempty"`
	ColleaguesLoaded  int           `json:"colleagues_loaded,omitempty"`

	DurationSeconds float64 `json:"duration_seconds"`
}

// WriteJSON writes the metrics as indented JSON to path.
func (m *Metrics) WriteJSON(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
