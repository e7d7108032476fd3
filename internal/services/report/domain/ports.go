package domain

import (
	verifydom "snapgate/internal/services/verify/domain"
)

// BuilderPort renders verification output into the report directory
type BuilderPort interface {
	// Write produces index.html, summary.json and the copied image assets.
	// It succeeds even when individual comparisons errored; only a total
	// inability to produce the artifact is an error
	Write(sum verifydom.VerificationSummary) error
}
