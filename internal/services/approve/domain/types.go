// Package domain holds the approval vertical's result types and port
package domain

// ErrorKind classifies why an approval failed. The strings are stable:
// the report page and CLI switch on them
type ErrorKind string

const (
	ErrFileNotFound     ErrorKind = "FILE_NOT_FOUND"
	ErrPermissionDenied ErrorKind = "PERMISSION_DENIED"
	ErrNoSpace          ErrorKind = "NO_SPACE"
	ErrUnknown          ErrorKind = "UNKNOWN_ERROR"
)

// ApprovalResult is the outcome of promoting one snapshot to baseline.
// Failures ride inside the result, they are never raised past the service
type ApprovalResult struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	SnapshotName string    `json:"snapshotName,omitempty"`
	Error        ErrorKind `json:"error,omitempty"`
}
