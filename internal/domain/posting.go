package domain

import "time"

// Posting is one job posting as returned by a source adapter. It carries no
// identity of its own; the identity resolver derives a fingerprint from it.
type Posting struct {
	Title    string
	Company  string
	Location string
	URL      string
	Source   string // adzuna/remoteok/hn/careers/mailalert/manual
	PostedAt *time.Time
	Snippet  string
}

// Fingerprint is the normalized identity key for a posting, stable across
// sources and polling cycles.
type Fingerprint string
