// Package service implements baseline promotion: copy the current
// screenshot over the baseline, then drop the now-stale diff.
// Every failure comes back as a structured ApprovalResult, callers never
// see a raw error from the promotion path
package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	perr "snapgate/internal/platform/errors"
	"snapgate/internal/platform/logger"
	dom "snapgate/internal/services/approve/domain"
)

// Config for the approver
type Config struct {
	BaselineDir string
	CurrentDir  string
	DiffDir     string
}

// Approver implements domain.ApproverPort.
// A single mutex serializes promotions so concurrent approvals cannot
// interleave their temp-file writes
type Approver struct {
	mu  sync.Mutex
	cfg Config
	log *logger.Logger
}

// New constructs an approver over the artifact directories
func New(cfg Config) *Approver {
	return &Approver{cfg: cfg, log: logger.Named("approve")}
}

// ApproveOne implements domain.ApproverPort
func (a *Approver) ApproveOne(name string) dom.ApprovalResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	currentPath := filepath.Join(a.cfg.CurrentDir, name+".png")
	baselinePath := filepath.Join(a.cfg.BaselineDir, name+".png")
	diffPath := filepath.Join(a.cfg.DiffDir, name+".png")

	if info, err := os.Stat(currentPath); err != nil || info.IsDir() {
		return a.failure(name, dom.ErrFileNotFound,
			fmt.Sprintf("no current screenshot for %q", name))
	}

	if err := os.MkdirAll(a.cfg.BaselineDir, 0o755); err != nil {
		return a.failureFromErr(name, err)
	}
	if err := replaceFile(currentPath, baselinePath); err != nil {
		return a.failureFromErr(name, err)
	}

	// stale diff cleanup, absence is fine
	if err := os.Remove(diffPath); err != nil && !perr.IsNotExist(err) {
		return a.failureFromErr(name, err)
	}

	a.log.Info().Str("name", name).Msg("baseline approved")
	return dom.ApprovalResult{
		Success:      true,
		Message:      fmt.Sprintf("baseline updated for %q", name),
		SnapshotName: name,
	}
}

// ApproveMany implements domain.ApproverPort
func (a *Approver) ApproveMany(names []string) []dom.ApprovalResult {
	out := make([]dom.ApprovalResult, len(names))
	for i, name := range names {
		out[i] = a.ApproveOne(name)
	}
	return out
}

// ListApprovable implements domain.ApproverPort
func (a *Approver) ListApprovable() ([]string, error) {
	entries, err := os.ReadDir(a.cfg.CurrentDir)
	if err != nil {
		if perr.IsNotExist(err) {
			return nil, nil
		}
		return nil, perr.FromFS(err, "list current screenshots")
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (a *Approver) failure(name string, kind dom.ErrorKind, msg string) dom.ApprovalResult {
	a.log.Warn().Str("name", name).Str("kind", string(kind)).Msg(msg)
	return dom.ApprovalResult{
		Success:      false,
		Message:      msg,
		SnapshotName: name,
		Error:        kind,
	}
}

func (a *Approver) failureFromErr(name string, err error) dom.ApprovalResult {
	return a.failure(name, errorKind(err), err.Error())
}

// errorKind maps a filesystem error onto the wire taxonomy
func errorKind(err error) dom.ErrorKind {
	switch {
	case perr.IsNotExist(err):
		return dom.ErrFileNotFound
	case perr.IsPermission(err):
		return dom.ErrPermissionDenied
	case perr.IsNoSpace(err):
		return dom.ErrNoSpace
	default:
		return dom.ErrUnknown
	}
}

// replaceFile copies src over dst through a temp file in dst's directory
// plus a rename, so a concurrent reader of dst never observes a partial
// write
func replaceFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".approve-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name()) // no-op once renamed
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
