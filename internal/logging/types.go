package logging

import "time"

// #region provenance-entry
// ProvenanceEntry is a single row in the provenance_log table.
type ProvenanceEntry struct {
	ID              string    `json:"id"`
	Pose            string    `json:"pose"`
	Source          string    `json:"source"` // file path, "stdin" or "estimator:<addr>"
	Language        string    `json:"language"`
	ObservationJSON string    `json:"observation,omitempty"`
	Decision        string    `json:"decision"` // "correct" | "incorrect" | "gated"
	Confidence      float64   `json:"confidence"`
	Feedback        string    `json:"feedback"`
	CreatedAt       time.Time `json:"created_at"`
}

// #endregion provenance-entry

// #region decisions
const (
	DecisionCorrect   = "correct"
	DecisionIncorrect = "incorrect"
	DecisionGated     = "gated"
)

// #endregion decisions
