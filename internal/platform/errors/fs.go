package errors

// Filesystem-specific helpers for mapping os/io errors to project ErrorCode, extracting paths, and retry semantics

import (
	"context"
	stderrs "errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"
)

// ExtractPathError returns (*fs.PathError, true) if the cause chain holds a PathError.
// As walks the chain itself; PathError unwraps to its errno, so Root would skip past it
func ExtractPathError(err error) (*fs.PathError, bool) {
	var pathErr *fs.PathError
	if stderrs.As(err, &pathErr) {
		return pathErr, true
	}
	return nil, false
}

// Human-friendly predicates for common filesystem failure classes.

// IsNotExist reports whether the error means a file or directory does not exist
func IsNotExist(err error) bool { return stderrs.Is(err, fs.ErrNotExist) }

// IsPermission reports whether the error is a permission failure
func IsPermission(err error) bool { return stderrs.Is(err, fs.ErrPermission) }

// IsNoSpace reports whether the error means the disk or quota is exhausted
func IsNoSpace(err error) bool {
	return stderrs.Is(err, syscall.ENOSPC) || stderrs.Is(err, syscall.EDQUOT)
}

// FSErrorCode maps a filesystem error to an ErrorCode with an ok flag
// !ok means err wasn't recognizably filesystem-shaped; caller may fall back to generic handling
func FSErrorCode(err error) (ErrorCode, bool) {
	if err == nil {
		return ErrorCodeUnknown, false
	}

	switch {
	case stderrs.Is(err, fs.ErrNotExist):
		return ErrorCodeNotFound, true

	case stderrs.Is(err, fs.ErrPermission):
		return ErrorCodePermission, true

	case stderrs.Is(err, syscall.ENOSPC), stderrs.Is(err, syscall.EDQUOT):
		return ErrorCodeNoSpace, true

	case stderrs.Is(err, syscall.EROFS):
		// Read-only filesystem behaves like a permission failure for writers
		return ErrorCodePermission, true
	}

	// Any other PathError or raw errno is still an IO error
	var pathErr *fs.PathError
	var errno syscall.Errno
	if stderrs.As(err, &pathErr) || stderrs.As(err, &errno) {
		return ErrorCodeIO, true
	}

	return ErrorCodeUnknown, false
}

// FromFS wraps a filesystem error with a mapped ErrorCode and message.
// If err is nil, returns nil
func FromFS(err error, msg string) error {
	if err == nil {
		return nil
	}
	if code, ok := FSErrorCode(err); ok {
		return Wrap(err, code, msg)
	}
	return Wrap(err, ErrorCodeIO, msg)
}

// FromFSf is the formatted variant of FromFS
func FromFSf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	if code, ok := FSErrorCode(err); ok {
		return Wrap(err, code, fmt.Sprintf(format, a...))
	}
	return Wrap(err, ErrorCodeIO, fmt.Sprintf(format, a...))
}

// AttachPathFromFS tries to enrich an error with the offending path derived from a PathError.
// Returns the original error if no path can be inferred
func AttachPathFromFS(err error) error {
	pathErr, ok := ExtractPathError(err)
	if !ok {
		return err
	}
	if p := strings.TrimSpace(pathErr.Path); p != "" {
		return WithField(err, p)
	}
	return err
}

// FromFSWithPath wraps the error (like FromFS) and then attempts to
// attach the offending path if discoverable from the PathError metadata
func FromFSWithPath(err error, msg string) error {
	return AttachPathFromFS(FromFS(err, msg))
}

// IsRetryable reports whether an error represents a transient condition worth
// retrying. It handles both our Unavailable code and the generic text seen on
// flaky network/filesystem operations
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Do not retry local cancellations/timeouts; let the caller decide higher-level retries
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}

	if IsCode(err, ErrorCodeUnavailable) {
		return true
	}

	// Unwrap to the root cause so we can see either an errno or driver text
	root := Root(err)

	switch {
	case stderrs.Is(root, syscall.EAGAIN),
		stderrs.Is(root, syscall.EINTR),
		stderrs.Is(root, syscall.EBUSY):
		return true
	}

	// Fallback: text patterns emitted by net/http and the OS on transient failures
	s := strings.ToLower(root.Error())
	switch {
	case strings.Contains(s, "connection refused"),
		strings.Contains(s, "connection reset"),
		strings.Contains(s, "broken pipe"),
		strings.Contains(s, "temporary failure"),
		strings.Contains(s, "i/o timeout"):
		return true
	default:
		return false
	}
}
