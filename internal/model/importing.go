package model

import "github.com/shopspring/decimal"

// JobStatus indicates where a statement-analysis job is in its lifecycle.
type JobStatus string

// Job status constants, as reported by the backend.
const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobReady      JobStatus = "ready"
	JobFailed     JobStatus = "failed"
)

// ImportJob is a server-side statement-analysis job observed via polling.
type ImportJob struct {
	ID           string    `json:"job_id"`
	Status       JobStatus `json:"status"`
	IsReady      bool      `json:"is_ready"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// CandidateStatus tags a detected candidate as new or already known.
type CandidateStatus string

// Candidate status constants.
const (
	CandidateNew       CandidateStatus = "new"
	CandidateDuplicate CandidateStatus = "duplicate"
)

// ConfidenceBand buckets a confidence score for display purposes.
type ConfidenceBand string

// Confidence bands.
const (
	ConfidenceHigh   ConfidenceBand = "high"
	ConfidenceMedium ConfidenceBand = "medium"
	ConfidenceLow    ConfidenceBand = "low"
)

// DetectedCandidate is a not-yet-confirmed recurring payment produced by
// the backend's statement-analysis job.
type DetectedCandidate struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Currency           string           `json:"currency"`
	Frequency          PaymentFrequency `json:"frequency"`
	PaymentType        string           `json:"payment_type"`
	Status             CandidateStatus  `json:"status"`
	SampleDescriptions []string         `json:"sample_descriptions,omitempty"`
	Amount             decimal.Decimal  `json:"amount"`
	Confidence         float64          `json:"confidence"`
	TransactionCount   int              `json:"transaction_count"`
	IsSelected         bool             `json:"is_selected"`
}

// ConfidenceBand classifies the candidate's confidence score for display.
// The thresholds are UI policy, not business logic.
func (c DetectedCandidate) ConfidenceBand() ConfidenceBand {
	switch {
	case c.Confidence >= 0.8:
		return ConfidenceHigh
	case c.Confidence >= 0.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// IsDuplicate reports whether the candidate matched an existing record and
// is therefore ineligible for import.
func (c DetectedCandidate) IsDuplicate() bool {
	return c.Status == CandidateDuplicate
}

// ImportSummary holds the preview's aggregate counters.
type ImportSummary struct {
	TotalMonthly   decimal.Decimal `json:"total_monthly_amount"`
	TotalDetected  int             `json:"total_detected"`
	SelectedCount  int             `json:"selected_count"`
	DuplicateCount int             `json:"duplicate_count"`
}

// ImportPreview is the reviewable result of a ready import job.
type ImportPreview struct {
	Detected []DetectedCandidate `json:"detected_subscriptions"`
	Summary  ImportSummary       `json:"summary"`
}

// ImportResult holds the final counts of a confirmed import. It is
// immutable and terminal for the flow that produced it.
type ImportResult struct {
	ImportedCount  int `json:"imported_count"`
	SkippedCount   int `json:"skipped_count"`
	DuplicateCount int `json:"duplicate_count"`
}
