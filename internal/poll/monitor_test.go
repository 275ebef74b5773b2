package poll

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/domain"
	"jobscout/internal/identity"
	"jobscout/internal/source"
	"jobscout/internal/store"
)

type captureNotifier struct {
	mu      sync.Mutex
	batches [][]domain.Posting
}

func (c *captureNotifier) Notify(_ context.Context, postings []domain.Posting) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, postings)
	return nil
}

func (c *captureNotifier) all() [][]domain.Posting {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]domain.Posting(nil), c.batches...)
}

func TestMonitorNotifiesOnlyNewItems(t *testing.T) {
	ad := &fakeAdapter{name: "a", postings: []domain.Posting{{
		Title: "Backend Engineer", Company: "Acme", URL: "https://acme.com/jobs/42", Source: "a",
	}}}
	notifier := &captureNotifier{}

	m := &Monitor{
		Controller: NewController(identity.NewResolver(identity.DefaultRules())),
		Adapters:   []source.Adapter{ad},
		Seen:       newSeen(t),
		Interval:   10 * time.Millisecond,
		Notifier:   notifier,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// wait for at least two cycles
	require.Eventually(t, func() bool { return adapterCalls(ad) >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop after cancellation")
	}

	// only the first cycle had anything new
	batches := notifier.all()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 1)
}

func TestMonitorAutoSave(t *testing.T) {
	ad := &fakeAdapter{name: "a", postings: []domain.Posting{{
		Title: "SRE", Company: "Initech", URL: "https://initech.example/jobs/1", Source: "a",
	}}}
	resolver := identity.NewResolver(identity.DefaultRules())
	records := store.NewRecords(filepath.Join(t.TempDir(), "saved_jobs.json"), resolver)

	m := &Monitor{
		Controller: NewController(resolver),
		Adapters:   []source.Adapter{ad},
		Seen:       newSeen(t),
		Interval:   time.Hour,
		Notifier:   &captureNotifier{},
		AutoSave:   records,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return adapterCalls(ad) >= 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	recs := records.List(store.Filter{})
	require.Len(t, recs, 1)
	assert.Equal(t, "SRE", recs[0].Title)
	assert.Equal(t, domain.StatusSaved, recs[0].Status)
}

func adapterCalls(f *fakeAdapter) int {
	return int(f.calls.Load())
}
