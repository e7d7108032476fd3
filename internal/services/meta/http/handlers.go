// Package http provides the liveness endpoint the report gate probes
package http

import (
	"net/http"
	"time"

	"snapgate/internal/core/version"
	"snapgate/internal/modkit/httpkit"
)

// Deps are the handler dependencies
type Deps struct {
	Project   string
	StartedAt time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the status route
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}
	httpkit.Get(r, "/", h.status)
}

// StatusResponse is the liveness payload. Ok=true is the whole contract
// for the gate; the rest is operator garnish
type StatusResponse struct {
	OK      bool   `json:"ok"`
	Project string `json:"project,omitempty"`
	Version string `json:"version"`
	Started string `json:"started"`
	Now     string `json:"now"`
	Uptime  int64  `json:"uptime"`
}

// status answers the probe with no side effects
func (h *handlers) status(_ *http.Request) (any, error) {
	now := time.Now()
	return StatusResponse{
		OK:      true,
		Project: h.deps.Project,
		Version: version.Info().Version,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     now.UTC().Format(time.RFC3339),
		Uptime:  int64(now.Sub(h.deps.StartedAt) / time.Second),
	}, nil
}
