// Package domain holds the report vertical's display model: what the
// dashboard template renders, not what the engine computed
package domain

import (
	"time"

	verifydom "snapgate/internal/services/verify/domain"
)

// Item is one snapshot's display unit. Image fields hold report-relative
// paths and are empty when the status has no use for that image
type Item struct {
	Name        string
	Status      verifydom.Status
	DiffPercent string // formatted, passed/failed only
	Message     string // error text or the missing-current warning
	Baseline    string
	Current     string
	Diff        string
	// Approvable marks failed/new items. The template still emits the
	// control disabled; only the liveness gate may activate it
	Approvable bool
}

// Category is a status chip. Zero-count categories are never materialized
type Category struct {
	Status verifydom.Status
	Count  int
}

// Page is the full dashboard model handed to the template
type Page struct {
	Project     string
	Environment string
	GeneratedAt time.Time
	Total       int
	Categories  []Category
	Items       []Item
}
