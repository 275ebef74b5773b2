// Package poll orchestrates fetch-dedup-flush cycles over the configured
// source adapters.
package poll

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"jobscout/internal/domain"
	"jobscout/internal/identity"
	"jobscout/internal/source"
	"jobscout/internal/store"
)

// CycleResult is what one cycle surfaced: postings never seen before, and
// the adapters that failed this time around.
type CycleResult struct {
	New    []domain.Posting
	Errors []domain.AdapterError
}

type Controller struct {
	resolver *identity.Resolver
}

func NewController(resolver *identity.Resolver) *Controller {
	return &Controller{resolver: resolver}
}

// RunCycle fetches from every adapter, joins all results, dedups within
// the batch, filters against the seen set and flushes it exactly once.
// Adapter failures land in the result; only a flush failure fails the
// cycle itself.
func (c *Controller) RunCycle(ctx context.Context, criteria source.Criteria, adapters []source.Adapter, seen *store.SeenSet) (CycleResult, error) {
	// one slot per adapter so the join is complete before any dedup and
	// output order follows adapter registration order
	batches := make([][]domain.Posting, len(adapters))
	failures := make([]*domain.AdapterError, len(adapters))

	var g errgroup.Group
	for i, ad := range adapters {
		i, ad := i, ad
		g.Go(func() error {
			postings, err := ad.Fetch(ctx, criteria)
			if err != nil {
				log.Printf("[cycle] %s: %v", ad.Name(), err)
				failures[i] = &domain.AdapterError{Source: ad.Name(), Err: err}
				return nil
			}
			batches[i] = postings
			return nil
		})
	}
	_ = g.Wait()

	var res CycleResult
	for _, f := range failures {
		if f != nil {
			res.Errors = append(res.Errors, *f)
		}
	}

	inBatch := make(map[domain.Fingerprint]bool)
	for _, batch := range batches {
		for _, p := range batch {
			fp := c.resolver.Resolve(p)
			if inBatch[fp] || seen.Contains(fp) {
				continue
			}
			inBatch[fp] = true
			seen.Add(fp)
			res.New = append(res.New, p)
		}
	}

	if err := seen.Flush(); err != nil {
		return res, err
	}
	return res, nil
}
