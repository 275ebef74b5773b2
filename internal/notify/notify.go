// Package notify delivers new-posting alerts. Delivery is best-effort:
// the monitor logs failures and keeps polling.
package notify

import (
	"context"
	"log"

	"jobscout/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, postings []domain.Posting) error
}

// Log prints one line per posting. The default notifier.
type Log struct{}

func (Log) Notify(_ context.Context, postings []domain.Posting) error {
	for _, p := range postings {
		log.Printf("[new] %s at %s (%s) %s", p.Title, p.Company, p.Source, p.URL)
	}
	return nil
}
