package httpkit

import (
	"net/http"
	"testing"

	phttp "snapgate/internal/platform/net/http"
)

type fakeRouterAPI struct {
	prefixes  []string
	useCalls  int
	lastMWLen int
	mountHits int
}

func (f *fakeRouterAPI) Route(prefix string, fn func(Router)) {
	f.prefixes = append(f.prefixes, prefix)
	fn(f) // pass itself as subrouter
}

func (f *fakeRouterAPI) Group(fn func(Router)) { fn(f) }
func (f *fakeRouterAPI) Use(mw ...func(http.Handler) http.Handler) {
	f.useCalls++
	f.lastMWLen = len(mw)
}

// required to satisfy the interface, not exercised here
func (f *fakeRouterAPI) Handle(string, http.Handler) {}
func (f *fakeRouterAPI) Get(string, phttp.Handler)   {}
func (f *fakeRouterAPI) Post(string, phttp.Handler)  {}
func (f *fakeRouterAPI) Mux() http.Handler           { return http.NewServeMux() }

func TestMountAPI_MountsPrefixAndAppliesMiddleware(t *testing.T) {
	r := &fakeRouterAPI{}

	mwA := func(next http.Handler) http.Handler { return next }
	mwB := func(next http.Handler) http.Handler { return next }

	MountAPI(r, []func(http.Handler) http.Handler{mwA, mwB}, func(api Router) {
		r.mountHits++
	})

	if got, want := len(r.prefixes), 1; got != want {
		t.Fatalf("expected 1 Route call, got %d", got)
	}
	if got, want := r.prefixes[0], "/api"; got != want {
		t.Fatalf("expected prefix %q, got %q", want, got)
	}
	if r.useCalls != 1 || r.lastMWLen != 2 {
		t.Fatalf("expected Use once with 2 middleware, got calls=%d len=%d", r.useCalls, r.lastMWLen)
	}
	if r.mountHits != 1 {
		t.Fatalf("expected mount closure to be invoked once, got %d", r.mountHits)
	}
}

func TestMountAPI_NoMiddleware_SkipsUse(t *testing.T) {
	r := &fakeRouterAPI{}
	MountAPI(r, nil, func(api Router) { r.mountHits++ })

	if got, want := r.prefixes[0], "/api"; got != want {
		t.Fatalf("expected prefix %q, got %q", want, got)
	}
	if r.useCalls != 0 {
		t.Fatalf("expected Use not called for empty middleware, got %d", r.useCalls)
	}
	if r.mountHits != 1 {
		t.Fatalf("expected mount closure to be invoked once, got %d", r.mountHits)
	}
}
