// Package main implements the jobscout CLI: a polling job-search agent
// with a local tracker for saved applications.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"jobscout/internal/config"
	"jobscout/internal/identity"
	"jobscout/internal/notify"
	"jobscout/internal/secrets"
	"jobscout/internal/source"
	"jobscout/internal/source/adzuna"
	"jobscout/internal/source/careers"
	"jobscout/internal/source/hn"
	"jobscout/internal/source/mailalert"
	"jobscout/internal/source/remoteok"
	"jobscout/internal/source/util"
	"jobscout/internal/store"
)

var dataDir string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "jobscout",
	Short:         "Poll job sources, dedup new postings, track applications",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default $JOBSCOUT_DATA_DIR or .)")

	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(bulkCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(purgeSeenCmd)
	rootCmd.AddCommand(secretCmd)
}

// app bundles everything a command needs.
type app struct {
	dataDir  string
	cfg      config.Config
	resolver *identity.Resolver
	records  *store.Records
}

func loadApp() (*app, error) {
	dir := dataDir
	if dir == "" {
		dir = os.Getenv("JOBSCOUT_DATA_DIR")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	cfgPath, err := config.EnsureUserConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("config bootstrap: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config load (%s): %w", cfgPath, err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	resolver := identity.NewResolver(identity.DefaultRules())
	return &app{
		dataDir:  dir,
		cfg:      cfg,
		resolver: resolver,
		records:  store.NewRecords(filepath.Join(dir, "saved_jobs.json"), resolver),
	}, nil
}

func (a *app) seenSet() *store.SeenSet {
	return store.LoadSeenSet(filepath.Join(a.dataDir, "seen_jobs.json"))
}

func (a *app) criteria() source.Criteria {
	return source.Criteria{
		Keywords:   a.cfg.Search.Keywords,
		Location:   a.cfg.Search.Location,
		MaxAgeDays: a.cfg.Search.MaxAgeDays,
		Industry:   a.cfg.Search.Industry,
	}
}

// adapters assembles the enabled sources. A source that cannot start (for
// example missing credentials) is logged and skipped rather than blocking
// the rest.
func (a *app) adapters() []source.Adapter {
	limiter := util.NewHostLimiter(1.0, 2)
	var out []source.Adapter

	if s := a.cfg.Sources.Adzuna; s.Enabled {
		key, err := secrets.Get(secrets.AccountAdzuna)
		if err != nil {
			log.Printf("[adzuna] disabled: %v (run: jobscout secret set adzuna <app_key>)", err)
		} else {
			out = append(out, adzuna.New(adzuna.Config{
				AppID:          s.AppID,
				AppKey:         key,
				ResultsPerPage: s.ResultsPerPage,
			}, limiter))
		}
	}
	if s := a.cfg.Sources.RemoteOK; s.Enabled {
		out = append(out, remoteok.New(limiter, s.MaxResults))
	}
	if s := a.cfg.Sources.HackerNews; s.Enabled {
		out = append(out, hn.New(limiter, s.MaxResults))
	}
	if s := a.cfg.Sources.Careers; s.Enabled && len(s.Pages) > 0 {
		pages := make([]careers.Page, 0, len(s.Pages))
		for _, pg := range s.Pages {
			pages = append(pages, careers.Page{Company: pg.Company, URL: pg.URL})
		}
		out = append(out, careers.New(careers.Config{Pages: pages}, limiter))
	}
	if s := a.cfg.Sources.MailAlert; s.Enabled {
		account := secrets.IMAPAccount(s.Username, s.IMAPHost)
		pw, err := secrets.Get(account)
		if err != nil {
			log.Printf("[mailalert] disabled: %v (run: jobscout secret set %q <password>)", err, account)
		} else {
			out = append(out, mailalert.New(mailalert.Config{
				Host:     s.IMAPHost,
				Username: s.Username,
				Password: pw,
				MaxMail:  s.MaxMail,
			}))
		}
	}
	return out
}

func (a *app) notifier() notify.Notifier {
	if !a.cfg.Notify.Enabled {
		return notify.Log{}
	}
	pw, err := secrets.Get(secrets.SMTPAccount(a.cfg.Notify.From))
	if err != nil {
		log.Printf("[notify] email disabled: %v, falling back to log", err)
		return notify.Log{}
	}
	n, err := notify.NewSMTP(notify.SMTPConfig{
		Provider: a.cfg.Notify.Provider,
		From:     a.cfg.Notify.From,
		Password: pw,
		To:       a.cfg.Notify.To,
	})
	if err != nil {
		log.Printf("[notify] email disabled: %v, falling back to log", err)
		return notify.Log{}
	}
	return n
}
