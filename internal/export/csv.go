// Package export writes tracked records to flat formats.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"jobscout/internal/domain"
)

// csvHeader lists every JobRecord field except the status history, which
// has no place in a flat row.
var csvHeader = []string{
	"fingerprint", "title", "company", "location", "url",
	"source", "captured_at", "status", "notes", "applied_at",
}

// CSV writes one row per record, preserving the order given.
func CSV(w io.Writer, recs []domain.JobRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range recs {
		applied := ""
		if r.AppliedAt != nil {
			applied = r.AppliedAt.Format(time.RFC3339)
		}
		row := []string{
			string(r.Fingerprint), r.Title, r.Company, r.Location, r.URL,
			r.Source, r.CapturedAt.Format(time.RFC3339), string(r.Status), r.Notes, applied,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
