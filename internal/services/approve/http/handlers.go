// Package http exposes baseline approval over the local API
package http

import (
	"net/http"

	"snapgate/internal/modkit/httpkit"
	dom "snapgate/internal/services/approve/domain"
)

// Deps are the handler dependencies
type Deps struct {
	Approver dom.ApproverPort
}

type handlers struct {
	deps Deps
}

// Register mounts the approval route
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}
	httpkit.PostJSON(r, "/", h.acceptBaseline)
}

// AcceptBaselineRequest is the approval request body
type AcceptBaselineRequest struct {
	SnapshotName string `json:"snapshotName" validate:"required"`
}

// acceptBaseline promotes one snapshot. A failed promotion keeps the
// structured result as the body and signals via the 500 status
func (h *handlers) acceptBaseline(_ *http.Request, req AcceptBaselineRequest) (any, error) {
	res := h.deps.Approver.ApproveOne(req.SnapshotName)
	if !res.Success {
		return httpkit.With(http.StatusInternalServerError, res), nil
	}
	return res, nil
}
