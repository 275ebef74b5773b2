package poll

import (
	"context"
	"log"
	"time"

	"jobscout/internal/notify"
	"jobscout/internal/source"
	"jobscout/internal/store"
)

// Monitor runs cycles on an interval until the context is cancelled. A
// cancellation takes effect at the next cycle boundary; a cycle already in
// flight is not interrupted.
type Monitor struct {
	Controller *Controller
	Criteria   source.Criteria
	Adapters   []source.Adapter
	Seen       *store.SeenSet
	Interval   time.Duration
	Notifier   notify.Notifier
	AutoSave   *store.Records // when set, new finds are tracked automatically
}

func (m *Monitor) Run(ctx context.Context) error {
	log.Printf("[monitor] started interval=%s adapters=%d", m.Interval, len(m.Adapters))

	// first check runs immediately
	m.cycle(ctx)

	t := time.NewTicker(m.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[monitor] stopped")
			return ctx.Err()
		case <-t.C:
			m.cycle(ctx)
		}
	}
}

func (m *Monitor) cycle(ctx context.Context) {
	res, err := m.Controller.RunCycle(ctx, m.Criteria, m.Adapters, m.Seen)
	if err != nil {
		log.Printf("[monitor] cycle error: %v", err)
		return
	}
	log.Printf("[monitor] cycle ok new=%d errors=%d", len(res.New), len(res.Errors))

	if len(res.New) == 0 {
		return
	}

	if m.AutoSave != nil {
		for _, p := range res.New {
			if _, err := m.AutoSave.Upsert(p); err != nil {
				log.Printf("[monitor] save %q at %q: %v", p.Title, p.Company, err)
			}
		}
	}

	if m.Notifier != nil {
		if err := m.Notifier.Notify(ctx, res.New); err != nil {
			// best-effort; a broken notifier must not stop monitoring
			log.Printf("[monitor] notify: %v", err)
		}
	}
}
