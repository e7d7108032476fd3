package domain

import "context"

// CapturerPort drives a headless browser over the configured pages.
// The returned error covers run-level failures (no pages, launch, connect);
// per-target failures land on the appended Capture records instead
type CapturerPort interface {
	Run(ctx context.Context) (RunStats, error)
}
