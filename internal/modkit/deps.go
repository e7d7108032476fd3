// Package modkit provides module wiring and core deps
package modkit

import (
	snapcfg "snapgate/internal/config"
	"snapgate/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg *snapcfg.Config
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check the config when it is optional
func (d Deps) ZeroOK() bool { return true }
