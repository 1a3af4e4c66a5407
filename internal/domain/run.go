package domain

import "time"

// RunRecord is the persisted summary of one propertize run. Entries carry the
// same information as the printed report, so re-encrypted and decrypted-only
// secrets appear as lengths.
type RunRecord struct {
	RunID        string              `json:"run_id"`
	StartedAt    time.Time           `json:"started_at"`
	EndedAt      time.Time           `json:"ended_at"`
	WorkingDir   string              `json:"working_dir"`
	Discarded    []string            `json:"discarded"`
	Destinations []DestinationRecord `json:"destinations"`
}

type DestinationRecord struct {
	Destination string        `json:"destination"`
	Input       string        `json:"input,omitempty"`
	Output      string        `json:"output,omitempty"`
	Skipped     bool          `json:"skipped"`
	Keys        int           `json:"keys"`
	Error       string        `json:"error,omitempty"`
	Entries     []ReportEntry `json:"entries"`
}

// Failed reports whether any destination recorded an error.
func (r RunRecord) Failed() bool {
	for _, d := range r.Destinations {
		if d.Error != "" {
			return true
		}
	}
	return false
}
