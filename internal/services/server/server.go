// Package server assembles the local report server: the status and
// approval endpoints under /api plus static serving of the report tree
package server

import (
	"context"

	snapcfg "snapgate/internal/config"
	phttp "snapgate/internal/platform/net/http"

	"snapgate/internal/modkit"
	"snapgate/internal/modkit/httpkit"
	"snapgate/internal/modkit/module"

	approvedom "snapgate/internal/services/approve/domain"
	approvemod "snapgate/internal/services/approve/module"
	metamod "snapgate/internal/services/meta/module"
)

// Options are the server options
type Options struct {
	Config *snapcfg.Config
	// Approver overrides the config-built approval service (tests, CLI reuse)
	Approver       approvedom.ApproverPort
	EnableProfiler bool
}

// Mount mounts the API and the report file tree onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{Cfg: opt.Config}

	var approveOpts []modkit.Option
	if opt.Approver != nil {
		approveOpts = append(approveOpts, modkit.WithPorts(approvemod.Ports{Approver: opt.Approver}))
	}

	mods := []module.Module{
		metamod.New(deps),
		approvemod.New(deps, approveOpts...),
	}

	// the two API endpoints with the common middleware stack
	httpkit.MountAPI(r, httpkit.CommonStack(), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			m.MountRoutes(api)
		}
	})

	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	// everything else is the report tree, traversal-checked
	r.Handle("/*", phttp.StaticDir(opt.Config.Paths.Report))
}

// New builds a server bound per config with everything mounted
func New(opt Options) *phttp.Server {
	srv := phttp.NewServer(phttp.Options{
		Host: opt.Config.Server.Host,
		Port: opt.Config.Server.Port,
	})
	Mount(srv.Router(), opt)
	return srv
}

// Run serves until ctx is canceled, walking ports upward from the
// configured one when taken
func Run(ctx context.Context, opt Options) error {
	return New(opt).Run(ctx)
}
