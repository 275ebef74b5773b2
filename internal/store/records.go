package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"jobscout/internal/domain"
	"jobscout/internal/identity"
)

// Records is the store of user-tracked jobs. Every mutation reloads the
// file, applies the change and persists before returning, so a restart
// after any call sees its effect.
type Records struct {
	path     string
	resolver *identity.Resolver

	now func() time.Time
}

func NewRecords(path string, resolver *identity.Resolver) *Records {
	return &Records{path: path, resolver: resolver, now: time.Now}
}

func (r *Records) load() []domain.JobRecord {
	var recs []domain.JobRecord
	if err := readJSONFile(r.path, &recs); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[records] load %s: %v (starting empty)", r.path, err)
		}
		return nil
	}
	return recs
}

func (r *Records) persist(recs []domain.JobRecord) error {
	if recs == nil {
		recs = []domain.JobRecord{}
	}
	if err := writeJSONFile(r.path, recs); err != nil {
		return &domain.StorageError{Op: "flush", Path: r.path, Err: err}
	}
	return nil
}

// Upsert tracks a posting. A fingerprint already tracked has its non-empty
// incoming fields merged in; status, notes and history are never touched.
// A new fingerprint starts at saved with one history entry.
func (r *Records) Upsert(p domain.Posting) (domain.JobRecord, error) {
	fp := r.resolver.Resolve(p)
	recs := r.load()

	for i := range recs {
		if recs[i].Fingerprint != fp {
			continue
		}
		mergeField(&recs[i].Title, p.Title)
		mergeField(&recs[i].Company, p.Company)
		mergeField(&recs[i].Location, p.Location)
		mergeField(&recs[i].URL, p.URL)
		mergeField(&recs[i].Source, p.Source)
		if err := r.persist(recs); err != nil {
			return domain.JobRecord{}, err
		}
		return recs[i], nil
	}

	now := r.now()
	rec := domain.JobRecord{
		Fingerprint: fp,
		Title:       p.Title,
		Company:     p.Company,
		Location:    p.Location,
		URL:         p.URL,
		Source:      p.Source,
		CapturedAt:  now,
		Status:      domain.StatusSaved,
		History:     []domain.StatusChange{{Status: domain.StatusSaved, At: now}},
	}
	recs = append(recs, rec)
	if err := r.persist(recs); err != nil {
		return domain.JobRecord{}, err
	}
	return rec, nil
}

func mergeField(dst *string, src string) {
	if strings.TrimSpace(src) != "" {
		*dst = src
	}
}

// Get returns the tracked record for fp, or ErrNotFound.
func (r *Records) Get(fp domain.Fingerprint) (domain.JobRecord, error) {
	for _, rec := range r.load() {
		if rec.Fingerprint == fp {
			return rec, nil
		}
	}
	return domain.JobRecord{}, fmt.Errorf("%s: %w", fp, domain.ErrNotFound)
}

// SetStatus updates the status and appends a history entry. History is an
// append log of transitions, so re-setting the current status still
// records an entry. AppliedAt is stamped on the first move to applied.
func (r *Records) SetStatus(fp domain.Fingerprint, status domain.Status) (domain.JobRecord, error) {
	recs := r.load()
	for i := range recs {
		if recs[i].Fingerprint != fp {
			continue
		}
		now := r.now()
		recs[i].Status = status
		recs[i].History = append(recs[i].History, domain.StatusChange{Status: status, At: now})
		if status == domain.StatusApplied && recs[i].AppliedAt == nil {
			recs[i].AppliedAt = &now
		}
		if err := r.persist(recs); err != nil {
			return domain.JobRecord{}, err
		}
		return recs[i], nil
	}
	return domain.JobRecord{}, fmt.Errorf("%s: %w", fp, domain.ErrNotFound)
}

// SetNotes replaces the free-text notes.
func (r *Records) SetNotes(fp domain.Fingerprint, text string) (domain.JobRecord, error) {
	recs := r.load()
	for i := range recs {
		if recs[i].Fingerprint != fp {
			continue
		}
		recs[i].Notes = text
		if err := r.persist(recs); err != nil {
			return domain.JobRecord{}, err
		}
		return recs[i], nil
	}
	return domain.JobRecord{}, fmt.Errorf("%s: %w", fp, domain.ErrNotFound)
}

// Delete is idempotent; deleting an absent fingerprint is not an error.
func (r *Records) Delete(fp domain.Fingerprint) error {
	recs := r.load()
	kept := recs[:0]
	for _, rec := range recs {
		if rec.Fingerprint != fp {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(recs) {
		return nil
	}
	return r.persist(kept)
}

// Filter narrows List output. Zero-value fields are ignored; provided
// predicates AND together.
type Filter struct {
	Status  *domain.Status
	Keyword string // case-insensitive over title/company/notes
}

// List returns matching records ordered by captured-at descending, with a
// stable fingerprint tiebreak.
func (r *Records) List(f Filter) []domain.JobRecord {
	var out []domain.JobRecord
	kw := strings.ToLower(strings.TrimSpace(f.Keyword))

	for _, rec := range r.load() {
		if f.Status != nil && rec.Status != *f.Status {
			continue
		}
		if kw != "" && !matchesKeyword(rec, kw) {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CapturedAt.Equal(out[j].CapturedAt) {
			return out[i].CapturedAt.After(out[j].CapturedAt)
		}
		return out[i].Fingerprint < out[j].Fingerprint
	})
	return out
}

func matchesKeyword(rec domain.JobRecord, kw string) bool {
	return strings.Contains(strings.ToLower(rec.Title), kw) ||
		strings.Contains(strings.ToLower(rec.Company), kw) ||
		strings.Contains(strings.ToLower(rec.Notes), kw)
}

// Action is one bulk mutation: either a status transition or a deletion.
type Action struct {
	Status *domain.Status
	Delete bool
}

func BulkSetStatus(s domain.Status) Action { return Action{Status: &s} }
func BulkDelete() Action                   { return Action{Delete: true} }

// Skip reports one fingerprint a bulk action could not apply to.
type Skip struct {
	Fingerprint domain.Fingerprint
	Reason      string
}

type BulkResult struct {
	Applied int
	Skipped []Skip
}

// BulkApply applies one action across many fingerprints. Each record's
// mutation is independent: an unknown fingerprint is recorded and skipped,
// never fatal to the batch. Only storage failures abort.
func (r *Records) BulkApply(fps []domain.Fingerprint, action Action) (BulkResult, error) {
	recs := r.load()
	byFP := make(map[domain.Fingerprint]int, len(recs))
	for i, rec := range recs {
		byFP[rec.Fingerprint] = i
	}

	var res BulkResult
	drop := make(map[domain.Fingerprint]bool)

	for _, fp := range fps {
		i, ok := byFP[fp]
		if !ok {
			res.Skipped = append(res.Skipped, Skip{Fingerprint: fp, Reason: "not found"})
			continue
		}
		switch {
		case action.Delete:
			drop[fp] = true
		case action.Status != nil:
			now := r.now()
			recs[i].Status = *action.Status
			recs[i].History = append(recs[i].History, domain.StatusChange{Status: *action.Status, At: now})
			if *action.Status == domain.StatusApplied && recs[i].AppliedAt == nil {
				recs[i].AppliedAt = &now
			}
		default:
			res.Skipped = append(res.Skipped, Skip{Fingerprint: fp, Reason: "empty action"})
			continue
		}
		res.Applied++
	}

	if len(drop) > 0 {
		kept := recs[:0]
		for _, rec := range recs {
			if !drop[rec.Fingerprint] {
				kept = append(kept, rec)
			}
		}
		recs = kept
	}

	if err := r.persist(recs); err != nil {
		return BulkResult{}, err
	}
	return res, nil
}

// Stats summarizes the store for the dashboard command.
type Stats struct {
	Total     int
	ByStatus  map[domain.Status]int
	BySource  map[string]int
	Companies map[string]int
}

func (r *Records) Stats() Stats {
	st := Stats{
		ByStatus:  make(map[domain.Status]int),
		BySource:  make(map[string]int),
		Companies: make(map[string]int),
	}
	for _, rec := range r.load() {
		st.Total++
		st.ByStatus[rec.Status]++
		src := rec.Source
		if src == "" {
			src = "unknown"
		}
		st.BySource[src]++
		if rec.Company != "" {
			st.Companies[rec.Company]++
		}
	}
	return st
}
