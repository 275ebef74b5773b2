package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"jobscout/internal/domain"
	"jobscout/internal/export"
	"jobscout/internal/secrets"
	"jobscout/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Job-search dashboard: counts by status, source and company",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		st := a.records.Stats()
		if st.Total == 0 {
			fmt.Println("no jobs saved yet")
			return nil
		}

		fmt.Printf("total saved: %d\n\n", st.Total)
		for _, s := range domain.Statuses() {
			fmt.Printf("  %-12s %d\n", s, st.ByStatus[s])
		}

		fmt.Println("\nsources:")
		for _, kv := range sortedCounts(st.BySource) {
			fmt.Printf("  %-20s %d\n", kv.k, kv.v)
		}

		top := sortedCounts(st.Companies)
		if len(top) > 5 {
			top = top[:5]
		}
		if len(top) > 0 {
			fmt.Println("\ntop companies:")
			for _, kv := range top {
				fmt.Printf("  %-20s %d\n", kv.k, kv.v)
			}
		}
		return nil
	},
}

type kv struct {
	k string
	v int
}

func sortedCounts(m map[string]int) []kv {
	out := make([]kv, 0, len(m))
	for k, v := range m {
		out = append(out, kv{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].v != out[j].v {
			return out[i].v > out[j].v
		}
		return out[i].k < out[j].k
	})
	return out
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tracked jobs to CSV (history omitted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		recs := a.records.List(store.Filter{})

		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := export.CSV(f, recs); err != nil {
			return err
		}
		fmt.Printf("exported %d job(s) to %s\n", len(recs), exportOut)
		return nil
	},
}

var remindDays int

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "List applications with no response after a waiting period",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		applied := domain.StatusApplied
		cutoff := time.Now().AddDate(0, 0, -remindDays)

		var due []domain.JobRecord
		for _, rec := range a.records.List(store.Filter{Status: &applied}) {
			if rec.AppliedAt != nil && rec.AppliedAt.Before(cutoff) {
				due = append(due, rec)
			}
		}
		if len(due) == 0 {
			fmt.Printf("nothing waiting longer than %d day(s)\n", remindDays)
			return nil
		}
		fmt.Printf("%d application(s) may need a follow-up:\n", len(due))
		for _, rec := range due {
			days := int(time.Since(*rec.AppliedAt).Hours() / 24)
			fmt.Printf("  %-30.30s  %-20.20s  applied %d day(s) ago  %s\n",
				rec.Title, rec.Company, days, rec.Fingerprint)
		}
		return nil
	},
}

var purgeSeenCmd = &cobra.Command{
	Use:   "purge-seen",
	Short: "Forget every previously surfaced posting so all sources alert fresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		seen := a.seenSet()
		n := seen.Len()
		if err := seen.Purge(); err != nil {
			return err
		}
		fmt.Printf("purged %d fingerprint(s)\n", n)
		return nil
	},
}

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage API keys and mail passwords in the OS keychain",
}

var secretSetCmd = &cobra.Command{
	Use:   "set <account> <value>",
	Short: "Store a secret (e.g. jobscout secret set adzuna <app_key>)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("stored secret %q\n", args[0])
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete <account>",
	Short: "Remove a secret from the keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted secret %q\n", args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "jobs_export.csv", "output file")
	remindCmd.Flags().IntVar(&remindDays, "days", 7, "days to wait before a follow-up is due")

	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretDeleteCmd)
}
