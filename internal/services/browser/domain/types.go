// Package domain defines the types and ports for browser capture runs
package domain

// Target is one page×viewport capture unit of a run
type Target struct {
	PageID string
	URL    string
	Label  string // viewport label, "1280x720"
	Width  int
	Height int
	Name   string // normalized snapshot name, "<page>-<label>"
}

// RunStats summarizes a capture run
type RunStats struct {
	Captured int
	Failed   int
}

// Total returns the number of targets the run attempted
func (s RunStats) Total() int { return s.Captured + s.Failed }
