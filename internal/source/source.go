// Package source defines the adapter contract every job feed implements.
package source

import (
	"context"

	"jobscout/internal/domain"
)

// Criteria is the search every adapter runs on a cycle.
type Criteria struct {
	Keywords   string
	Location   string
	MaxAgeDays int
	Industry   string
}

// Adapter is one pluggable feed of postings (board API, careers-page
// scrape, mail alerts). Adapters own their timeouts; the poll controller
// calls Fetch once per cycle and isolates failures.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, c Criteria) ([]domain.Posting, error)
}
