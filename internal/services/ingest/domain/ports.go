// Package domain defines the ports for the run payload uploader
package domain

import (
	"context"

	capdom "snapgate/internal/services/capture/domain"
)

// SenderPort uploads a flushed run payload to the configured collector
type SenderPort interface {
	// Send posts the payload as JSON. A blank collector URL is a no-op
	Send(ctx context.Context, run capdom.RunPayload) error
}
