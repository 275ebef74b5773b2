package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jobscout/internal/domain"
	"jobscout/internal/store"
)

var (
	listStatus  string
	listKeyword string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked jobs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}

		var f store.Filter
		if listStatus != "" {
			st, err := domain.ParseStatus(listStatus)
			if err != nil {
				return err
			}
			f.Status = &st
		}
		f.Keyword = listKeyword

		recs := a.records.List(f)
		if len(recs) == 0 {
			fmt.Println("no jobs found")
			return nil
		}
		printRecords(recs)
		return nil
	},
}

func printRecords(recs []domain.JobRecord) {
	fmt.Printf("%-30.30s  %-20.20s  %-14.14s  %-11s  %-10s  %s\n",
		"TITLE", "COMPANY", "LOCATION", "STATUS", "CAPTURED", "FINGERPRINT")
	for _, r := range recs {
		note := ""
		if r.Notes != "" {
			note = " *"
		}
		fmt.Printf("%-30.30s  %-20.20s  %-14.14s  %-11s  %-10s  %s%s\n",
			r.Title, r.Company, orDash(r.Location), r.Status,
			r.CapturedAt.Format("2006-01-02"), r.Fingerprint, note)
	}
	fmt.Printf("total: %d job(s)\n", len(recs))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var showCmd = &cobra.Command{
	Use:   "show <fingerprint>",
	Short: "Show one tracked job in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		rec, err := a.records.Get(domain.Fingerprint(args[0]))
		if err != nil {
			return friendlyNotFound(err, args[0])
		}

		fmt.Printf("Title:      %s\n", rec.Title)
		fmt.Printf("Company:    %s\n", rec.Company)
		fmt.Printf("Location:   %s\n", orDash(rec.Location))
		fmt.Printf("Source:     %s\n", rec.Source)
		fmt.Printf("Status:     %s\n", rec.Status)
		fmt.Printf("Captured:   %s\n", rec.CapturedAt.Format(time.RFC3339))
		if rec.AppliedAt != nil {
			fmt.Printf("Applied:    %s\n", rec.AppliedAt.Format(time.RFC3339))
		}
		if rec.URL != "" {
			fmt.Printf("Link:       %s\n", rec.URL)
		}
		if rec.Notes != "" {
			fmt.Printf("Notes:      %s\n", rec.Notes)
		}
		fmt.Println("History:")
		for _, h := range rec.History {
			fmt.Printf("  %s  %s\n", h.At.Format(time.RFC3339), h.Status)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <fingerprint> <status>",
	Short: "Move a tracked job to a new lifecycle status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		st, err := domain.ParseStatus(args[1])
		if err != nil {
			return err
		}
		rec, err := a.records.SetStatus(domain.Fingerprint(args[0]), st)
		if err != nil {
			return friendlyNotFound(err, args[0])
		}
		fmt.Printf("%s at %s is now %s\n", rec.Title, rec.Company, rec.Status)
		return nil
	},
}

var noteCmd = &cobra.Command{
	Use:   "note <fingerprint> <text...>",
	Short: "Replace the notes on a tracked job (empty text clears)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		text := strings.Join(args[1:], " ")
		rec, err := a.records.SetNotes(domain.Fingerprint(args[0]), text)
		if err != nil {
			return friendlyNotFound(err, args[0])
		}
		fmt.Printf("notes saved for %s at %s\n", rec.Title, rec.Company)
		return nil
	},
}

var (
	addTitle    string
	addCompany  string
	addLocation string
	addURL      string
	addNotes    string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Track a job found elsewhere (referral, LinkedIn, etc.)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addTitle == "" || addCompany == "" {
			return errors.New("--title and --company are required")
		}
		a, err := loadApp()
		if err != nil {
			return err
		}
		rec, err := a.records.Upsert(domain.Posting{
			Title:    addTitle,
			Company:  addCompany,
			Location: addLocation,
			URL:      addURL,
			Source:   "manual",
		})
		if err != nil {
			return err
		}
		if addNotes != "" {
			if rec, err = a.records.SetNotes(rec.Fingerprint, addNotes); err != nil {
				return err
			}
		}
		fmt.Printf("saved: %s at %s\nfingerprint: %s\n", rec.Title, rec.Company, rec.Fingerprint)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <fingerprint>",
	Short: "Stop tracking a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		if err := a.records.Delete(domain.Fingerprint(args[0])); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	},
}

var (
	bulkStatus string
	bulkDelete bool
)

var bulkCmd = &cobra.Command{
	Use:   "bulk <fingerprint>...",
	Short: "Apply one status change or deletion to many jobs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if bulkDelete == (bulkStatus != "") {
			return errors.New("pass exactly one of --status or --delete")
		}
		a, err := loadApp()
		if err != nil {
			return err
		}

		var action store.Action
		if bulkDelete {
			action = store.BulkDelete()
		} else {
			st, err := domain.ParseStatus(bulkStatus)
			if err != nil {
				return err
			}
			action = store.BulkSetStatus(st)
		}

		fps := make([]domain.Fingerprint, 0, len(args))
		for _, arg := range args {
			fps = append(fps, domain.Fingerprint(arg))
		}

		res, err := a.records.BulkApply(fps, action)
		if err != nil {
			return err
		}
		fmt.Printf("applied: %d\n", res.Applied)
		for _, sk := range res.Skipped {
			fmt.Printf("skipped %s: %s\n", sk.Fingerprint, sk.Reason)
		}
		return nil
	},
}

func friendlyNotFound(err error, fp string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no tracked job with fingerprint %q (try: jobscout list)", fp)
	}
	return err
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (saved/applied/interview/offer/rejected/no_response)")
	listCmd.Flags().StringVar(&listKeyword, "keyword", "", "filter by keyword over title/company/notes")

	addCmd.Flags().StringVar(&addTitle, "title", "", "job title (required)")
	addCmd.Flags().StringVar(&addCompany, "company", "", "company name (required)")
	addCmd.Flags().StringVar(&addLocation, "location", "", "location")
	addCmd.Flags().StringVar(&addURL, "url", "", "job URL")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "notes")

	bulkCmd.Flags().StringVar(&bulkStatus, "status", "", "status to apply")
	bulkCmd.Flags().BoolVar(&bulkDelete, "delete", false, "delete instead of changing status")
}
