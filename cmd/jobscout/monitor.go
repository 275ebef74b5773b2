package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jobscout/internal/poll"
)

var monitorInterval time.Duration

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Poll all enabled sources on an interval and alert on new postings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		adapters := a.adapters()
		if len(adapters) == 0 {
			return errors.New("no sources enabled; edit config.yml")
		}

		interval := monitorInterval
		if interval == 0 {
			interval = time.Duration(a.cfg.Polling.IntervalMinutes) * time.Minute
		}

		m := &poll.Monitor{
			Controller: poll.NewController(a.resolver),
			Criteria:   a.criteria(),
			Adapters:   adapters,
			Seen:       a.seenSet(),
			Interval:   interval,
			Notifier:   a.notifier(),
		}
		if a.cfg.Polling.AutoSave {
			m.AutoSave = a.records
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

var searchSave bool

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one fetch-dedup cycle and print what is new",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		adapters := a.adapters()
		if len(adapters) == 0 {
			return errors.New("no sources enabled; edit config.yml")
		}

		seen := a.seenSet()
		res, err := poll.NewController(a.resolver).RunCycle(cmd.Context(), a.criteria(), adapters, seen)
		if err != nil {
			return err
		}

		for _, e := range res.Errors {
			fmt.Printf("source %s failed: %v\n", e.Source, e.Err)
		}
		if len(res.New) == 0 {
			fmt.Println("nothing new")
			return nil
		}
		for _, p := range res.New {
			fmt.Printf("%-40.40s  %-24.24s  %-12s  %s\n", p.Title, p.Company, p.Source, p.URL)
			if searchSave {
				if _, err := a.records.Upsert(p); err != nil {
					fmt.Printf("  save failed: %v\n", err)
				}
			}
		}
		fmt.Printf("%d new posting(s)\n", len(res.New))
		return nil
	},
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 0, "override polling interval (e.g. 15m)")
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "track every new posting in the record store")
}
