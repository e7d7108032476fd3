// Package module wires the approval endpoint into the API
package module

import (
	"net/http"

	modkit "snapgate/internal/modkit"
	"snapgate/internal/modkit/httpkit"
	str "snapgate/internal/platform/strings"

	dom "snapgate/internal/services/approve/domain"
	approvehttp "snapgate/internal/services/approve/http"
	svc "snapgate/internal/services/approve/service"
)

// Ports is the cross-module surface of the approval vertical
type Ports struct {
	Approver dom.ApproverPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs an approval module. Without injected ports the approver
// is built from the configured artifact directories
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("approve"),
		modkit.WithPrefix("/accept-baseline"),
	}, opts...)...)

	var approver dom.ApproverPort
	if p, ok := b.Ports.(Ports); ok && p.Approver != nil {
		approver = p.Approver
	} else if deps.Cfg != nil {
		approver = svc.New(svc.Config{
			BaselineDir: deps.Cfg.Paths.Baseline,
			CurrentDir:  deps.Cfg.Paths.Current,
			DiffDir:     deps.Cfg.Paths.Diff,
		})
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		ports:     Ports{Approver: approver},
		subrouter: b.Subrouter,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		approvehttp.Register(r, approvehttp.Deps{Approver: approver})
		if external != nil {
			external(r)
		}
	}

	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "approve") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
