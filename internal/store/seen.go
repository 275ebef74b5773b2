package store

import (
	"errors"
	"log"
	"os"
	"sort"

	"jobscout/internal/domain"
)

// SeenSet is the monotonic set of fingerprints already surfaced to the
// user. It grows in memory during a poll cycle and is flushed once per
// cycle; a crash before flush may re-surface one cycle's items, which is
// acceptable. Hiding a genuinely new item is not.
type SeenSet struct {
	path string
	fps  map[domain.Fingerprint]struct{}
}

// LoadSeenSet reads the persisted set. Missing or corrupt storage is not
// fatal: it logs and starts empty.
func LoadSeenSet(path string) *SeenSet {
	s := &SeenSet{path: path, fps: make(map[domain.Fingerprint]struct{})}

	var raw []string
	if err := readJSONFile(path, &raw); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[seenset] load %s: %v (starting empty)", path, err)
		}
		return s
	}
	for _, f := range raw {
		s.fps[domain.Fingerprint(f)] = struct{}{}
	}
	return s
}

func (s *SeenSet) Contains(fp domain.Fingerprint) bool {
	_, ok := s.fps[fp]
	return ok
}

// Add is idempotent.
func (s *SeenSet) Add(fp domain.Fingerprint) {
	s.fps[fp] = struct{}{}
}

func (s *SeenSet) Len() int { return len(s.fps) }

// Flush overwrites the persisted set with the full in-memory state. Errors
// surface as StorageError: losing durability silently would break the
// monotonicity guarantee.
func (s *SeenSet) Flush() error {
	raw := make([]string, 0, len(s.fps))
	for fp := range s.fps {
		raw = append(raw, string(fp))
	}
	sort.Strings(raw)

	if err := writeJSONFile(s.path, raw); err != nil {
		return &domain.StorageError{Op: "flush", Path: s.path, Err: err}
	}
	return nil
}

// Purge empties the set, in memory and on disk. The only way it shrinks.
func (s *SeenSet) Purge() error {
	s.fps = make(map[domain.Fingerprint]struct{})
	return s.Flush()
}
