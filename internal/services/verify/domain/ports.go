package domain

import "context"

// RunnerPort executes one verification pass over the artifact directories
type RunnerPort interface {
	Run(ctx context.Context) (VerificationSummary, error)
}
