package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"
)

func pathErr(op, path string, errno syscall.Errno) error {
	return &fs.PathError{Op: op, Path: path, Err: errno}
}

func TestExtractPathError(t *testing.T) {
	src := pathErr("open", "/tmp/baseline/home.png", syscall.ENOENT)
	wrapped := fmt.Errorf("promote: %w", src)

	pe, ok := ExtractPathError(wrapped)
	if !ok || pe.Path != "/tmp/baseline/home.png" {
		t.Fatalf("ExtractPathError failed: %v %v", pe, ok)
	}

	if _, ok := ExtractPathError(stderrs.New("plain")); ok {
		t.Fatalf("ExtractPathError true for non-path error")
	}
}

func TestPredicates(t *testing.T) {
	if !IsNotExist(pathErr("open", "x", syscall.ENOENT)) {
		t.Fatalf("IsNotExist(ENOENT) = false")
	}
	if !IsPermission(pathErr("open", "x", syscall.EACCES)) {
		t.Fatalf("IsPermission(EACCES) = false")
	}
	if !IsNoSpace(pathErr("write", "x", syscall.ENOSPC)) {
		t.Fatalf("IsNoSpace(ENOSPC) = false")
	}
	if !IsNoSpace(pathErr("write", "x", syscall.EDQUOT)) {
		t.Fatalf("IsNoSpace(EDQUOT) = false")
	}
	if IsNoSpace(pathErr("open", "x", syscall.ENOENT)) {
		t.Fatalf("IsNoSpace(ENOENT) = true")
	}
}

func TestFSErrorCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want ErrorCode
		ok   bool
	}{
		{"nil", nil, ErrorCodeUnknown, false},
		{"enoent", pathErr("open", "a", syscall.ENOENT), ErrorCodeNotFound, true},
		{"eacces", pathErr("rename", "b", syscall.EACCES), ErrorCodePermission, true},
		{"eperm", pathErr("rename", "b", syscall.EPERM), ErrorCodePermission, true},
		{"enospc", pathErr("write", "c", syscall.ENOSPC), ErrorCodeNoSpace, true},
		{"edquot", pathErr("write", "c", syscall.EDQUOT), ErrorCodeNoSpace, true},
		{"erofs", pathErr("create", "d", syscall.EROFS), ErrorCodePermission, true},
		{"other-patherr", pathErr("read", "e", syscall.EIO), ErrorCodeIO, true},
		{"bare-errno", syscall.EIO, ErrorCodeIO, true},
		{"foreign", stderrs.New("nope"), ErrorCodeUnknown, false},
		{"wrapped-enoent", fmt.Errorf("ctx: %w", pathErr("open", "a", syscall.ENOENT)), ErrorCodeNotFound, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, ok := FSErrorCode(c.err)
			if code != c.want || ok != c.ok {
				t.Fatalf("FSErrorCode(%v) = (%v, %v), want (%v, %v)", c.err, code, ok, c.want, c.ok)
			}
		})
	}
}

func TestFromFSAndVariants(t *testing.T) {
	if FromFS(nil, "ignored") != nil {
		t.Fatalf("FromFS(nil) should be nil")
	}
	if FromFSf(nil, "ignored %d", 1) != nil {
		t.Fatalf("FromFSf(nil) should be nil")
	}

	src := pathErr("rename", "/tmp/baseline/home.png", syscall.EACCES)
	err := FromFS(src, "promote baseline")
	if !IsCode(err, ErrorCodePermission) {
		t.Fatalf("FromFS code = %v, want Permission", CodeOf(err))
	}
	if stderrs.Unwrap(err) == nil {
		t.Fatalf("FromFS lost the cause")
	}

	errf := FromFSf(pathErr("write", "x", syscall.ENOSPC), "flush %q", "home")
	if !IsCode(errf, ErrorCodeNoSpace) {
		t.Fatalf("FromFSf code = %v, want NoSpace", CodeOf(errf))
	}

	// Foreign error falls back to IO
	if got := FromFS(stderrs.New("weird"), "op"); !IsCode(got, ErrorCodeIO) {
		t.Fatalf("FromFS(foreign) code = %v, want IO", CodeOf(got))
	}
}

func TestAttachPathFromFS(t *testing.T) {
	src := pathErr("open", "/srv/current/login.png", syscall.ENOENT)
	err := FromFSWithPath(src, "read current")

	e, ok := As(err)
	if !ok || e.Field() != "/srv/current/login.png" {
		t.Fatalf("FromFSWithPath field = %q", e.Field())
	}

	// No path to attach: error passes through unchanged
	plain := New(ErrorCodeIO, "no path here")
	if got := AttachPathFromFS(plain); got != plain {
		t.Fatalf("AttachPathFromFS should not touch non-path errors")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"unavailable-code", Unavailablef("flaky"), true},
		{"eagain", pathErr("read", "x", syscall.EAGAIN), true},
		{"eintr", pathErr("read", "x", syscall.EINTR), true},
		{"ebusy", pathErr("rename", "x", syscall.EBUSY), true},
		{"enoent", pathErr("open", "x", syscall.ENOENT), false},
		{"conn-refused", stderrs.New("dial tcp 127.0.0.1:9999: connect: connection refused"), true},
		{"conn-reset", stderrs.New("read tcp: connection reset by peer"), true},
		{"io-timeout", stderrs.New("read tcp: i/o timeout"), true},
		{"plain", stderrs.New("nope"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsRetryable(c.err); got != c.want {
				t.Fatalf("IsRetryable(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}
