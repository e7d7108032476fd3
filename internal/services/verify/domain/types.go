// Package domain defines the types and interfaces for snapshot verification
package domain

import "time"

// Status classifies one snapshot's verification outcome
type Status string

// Verification statuses
const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusNew     Status = "new"
	StatusMissing Status = "missing"
	StatusError   Status = "error"
)

// ComparisonResult is one snapshot's verification outcome. It is derived
// entirely from the filesystem at comparison time and holds no state
type ComparisonResult struct {
	Name           string  `json:"name"`
	Status         Status  `json:"status"`
	DiffPixelRatio float64 `json:"diffPixelRatio"`
	DiffPixelCount int     `json:"diffPixelCount"`
	TotalPixels    int     `json:"totalPixels"`
	Threshold      float64 `json:"threshold"`
	BaselinePath   string  `json:"baselinePath,omitempty"`
	CurrentPath    string  `json:"currentPath,omitempty"`
	DiffPath       string  `json:"diffPath,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// VerificationSummary aggregates one verification pass.
// Counts always equal the tally of Results by status and
// Total equals len(Results)
type VerificationSummary struct {
	Total     int                `json:"total"`
	Passed    int                `json:"passed"`
	Failed    int                `json:"failed"`
	New       int                `json:"new"`
	Missing   int                `json:"missing"`
	Errors    int                `json:"errors"`
	Results   []ComparisonResult `json:"results"`
	Timestamp time.Time          `json:"timestamp"`
}

// HasRegressions reports whether any result needs human attention
func (s VerificationSummary) HasRegressions() bool {
	return s.Failed > 0 || s.Missing > 0 || s.Errors > 0
}
