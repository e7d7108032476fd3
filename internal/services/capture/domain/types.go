// Package domain defines the types and interfaces for the capture log
package domain

import "time"

// Viewport records the browser dimensions a capture was taken at
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Capture is one observed UI state during a test run.
// Records live only in memory until the log is flushed into a RunPayload
type Capture struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ScreenshotPath string    `json:"screenshotPath"`
	DOMSnippet     string    `json:"domSnippet,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Environment    string    `json:"environment,omitempty"`
	Viewport       *Viewport `json:"viewport,omitempty"`
	TestFile       string    `json:"testFile,omitempty"`
	TestTitle      string    `json:"testTitle,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// RunPayload is the flushed form of the log, ready for upload
type RunPayload struct {
	RunID       string     `json:"runId"`
	Project     string     `json:"project,omitempty"`
	Environment string     `json:"environment,omitempty"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
	Captures    []Capture  `json:"captures"`
}
