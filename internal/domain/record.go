package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle stage of a tracked job.
type Status string

const (
	StatusSaved      Status = "saved"
	StatusApplied    Status = "applied"
	StatusInterview  Status = "interview"
	StatusOffer      Status = "offer"
	StatusRejected   Status = "rejected"
	StatusNoResponse Status = "no_response"
)

// Statuses lists every valid status in display order.
func Statuses() []Status {
	return []Status{
		StatusSaved, StatusApplied, StatusInterview,
		StatusOffer, StatusRejected, StatusNoResponse,
	}
}

// ParseStatus accepts the canonical names plus a few spellings users type
// ("no response", "No_Response").
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	norm = strings.ReplaceAll(norm, "-", "_")
	for _, st := range Statuses() {
		if norm == string(st) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (valid: saved, applied, interview, offer, rejected, no_response)", s)
}

// StatusChange is one entry in a record's audit history.
type StatusChange struct {
	Status Status    `json:"status"`
	At     time.Time `json:"timestamp"`
}

// JobRecord is a user-tracked posting with its lifecycle state. Fingerprint
// is unique within the record store.
type JobRecord struct {
	Fingerprint Fingerprint    `json:"fingerprint"`
	Title       string         `json:"title"`
	Company     string         `json:"company"`
	Location    string         `json:"location"`
	URL         string         `json:"url"`
	Source      string         `json:"source"`
	CapturedAt  time.Time      `json:"captured_at"`
	Status      Status         `json:"status"`
	Notes       string         `json:"notes"`
	AppliedAt   *time.Time     `json:"applied_at,omitempty"`
	History     []StatusChange `json:"status_history"`
}
