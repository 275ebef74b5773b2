package poll

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/domain"
	"jobscout/internal/identity"
	"jobscout/internal/source"
	"jobscout/internal/store"
)

// fakeAdapter returns canned postings or a canned error.
type fakeAdapter struct {
	name     string
	postings []domain.Posting
	err      error
	calls    atomic.Int32
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Fetch(_ context.Context, _ source.Criteria) ([]domain.Posting, error) {
	f.calls.Add(1)
	return f.postings, f.err
}

func newSeen(t *testing.T) *store.SeenSet {
	t.Helper()
	return store.LoadSeenSet(filepath.Join(t.TempDir(), "seen_jobs.json"))
}

func TestRunCycleDedupsAcrossAdapters(t *testing.T) {
	// the same posting from two sources, one with a tracking query param
	a := &fakeAdapter{name: "a", postings: []domain.Posting{{
		Title: "Backend Engineer", Company: "Acme",
		URL: "https://acme.com/jobs/42?ref=x", Source: "a",
	}}}
	b := &fakeAdapter{name: "b", postings: []domain.Posting{{
		Title: "Backend Engineer", Company: "Acme",
		URL: "https://acme.com/jobs/42", Source: "b",
	}}}

	ctrl := NewController(identity.NewResolver(identity.DefaultRules()))
	seen := newSeen(t)

	res, err := ctrl.RunCycle(context.Background(), source.Criteria{}, []source.Adapter{a, b}, seen)
	require.NoError(t, err)
	assert.Len(t, res.New, 1)
	assert.Empty(t, res.Errors)

	// identical adapter output on the next cycle surfaces nothing
	res, err = ctrl.RunCycle(context.Background(), source.Criteria{}, []source.Adapter{a, b}, seen)
	require.NoError(t, err)
	assert.Empty(t, res.New)
}

func TestRunCycleSeenSetSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_jobs.json")
	ad := &fakeAdapter{name: "a", postings: []domain.Posting{{
		Title: "SRE", Company: "Initech", URL: "https://initech.example/jobs/1", Source: "a",
	}}}
	ctrl := NewController(identity.NewResolver(identity.DefaultRules()))

	res, err := ctrl.RunCycle(context.Background(), source.Criteria{}, []source.Adapter{ad}, store.LoadSeenSet(path))
	require.NoError(t, err)
	require.Len(t, res.New, 1)

	// fresh process, same storage: already seen
	res, err = ctrl.RunCycle(context.Background(), source.Criteria{}, []source.Adapter{ad}, store.LoadSeenSet(path))
	require.NoError(t, err)
	assert.Empty(t, res.New)
}

func TestRunCyclePartialFailure(t *testing.T) {
	broken := &fakeAdapter{name: "broken", err: errors.New("rate limited")}
	healthy := &fakeAdapter{name: "healthy", postings: []domain.Posting{{
		Title: "Data Engineer", Company: "Globex", URL: "https://globex.example/jobs/7", Source: "healthy",
	}}}

	ctrl := NewController(identity.NewResolver(identity.DefaultRules()))
	res, err := ctrl.RunCycle(context.Background(), source.Criteria{}, []source.Adapter{broken, healthy}, newSeen(t))
	require.NoError(t, err)

	assert.Len(t, res.New, 1, "healthy source results must survive a broken source")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "broken", res.Errors[0].Source)
	assert.ErrorContains(t, &res.Errors[0], "rate limited")
}

func TestRunCycleSingleAttemptPerAdapter(t *testing.T) {
	broken := &fakeAdapter{name: "broken", err: errors.New("boom")}
	ctrl := NewController(identity.NewResolver(identity.DefaultRules()))

	_, err := ctrl.RunCycle(context.Background(), source.Criteria{}, []source.Adapter{broken}, newSeen(t))
	require.NoError(t, err)
	assert.Equal(t, int32(1), broken.calls.Load())
}

func TestRunCycleInBatchDedup(t *testing.T) {
	// one adapter repeating itself still counts once
	ad := &fakeAdapter{name: "a", postings: []domain.Posting{
		{Title: "SRE", Company: "Initech", URL: "https://initech.example/jobs/1"},
		{Title: "SRE", Company: "Initech", URL: "https://initech.example/jobs/1/"},
	}}
	ctrl := NewController(identity.NewResolver(identity.DefaultRules()))

	res, err := ctrl.RunCycle(context.Background(), source.Criteria{}, []source.Adapter{ad}, newSeen(t))
	require.NoError(t, err)
	assert.Len(t, res.New, 1)
}

func TestRunCycleFlushFailureSurfaces(t *testing.T) {
	// a directory at the storage path makes the flush rename fail
	dir := t.TempDir()
	path := filepath.Join(dir, "seen_jobs.json")
	require.NoError(t, ensureDir(path))

	ad := &fakeAdapter{name: "a", postings: []domain.Posting{{
		Title: "SRE", Company: "Initech", URL: "https://initech.example/jobs/1",
	}}}
	ctrl := NewController(identity.NewResolver(identity.DefaultRules()))

	_, err := ctrl.RunCycle(context.Background(), source.Criteria{}, []source.Adapter{ad}, store.LoadSeenSet(path))
	require.Error(t, err)

	var serr *domain.StorageError
	assert.ErrorAs(t, err, &serr)
}

// ensureDir plants a directory where the seen-set file should go, so the
// flush rename cannot succeed.
func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
