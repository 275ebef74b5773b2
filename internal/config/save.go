package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.Polling.IntervalMinutes <= 0 {
		errs = append(errs, "polling.interval_minutes must be > 0")
	}
	if cfg.Search.MaxAgeDays < 0 {
		errs = append(errs, "search.max_age_days must be >= 0")
	}

	if cfg.Sources.Adzuna.Enabled && cfg.Sources.Adzuna.AppID == "" {
		errs = append(errs, "sources.adzuna.app_id is required when adzuna is enabled")
	}
	for i, pg := range cfg.Sources.Careers.Pages {
		if pg.Company == "" {
			errs = append(errs, fmt.Sprintf("sources.careers.pages[%d].company is required", i))
		}
		if pg.URL == "" {
			errs = append(errs, fmt.Sprintf("sources.careers.pages[%d].url is required", i))
		}
	}
	if cfg.Sources.MailAlert.Enabled {
		if cfg.Sources.MailAlert.IMAPHost == "" {
			errs = append(errs, "sources.mailalert.imap_host is required when mailalert is enabled")
		}
		if cfg.Sources.MailAlert.Username == "" {
			errs = append(errs, "sources.mailalert.username is required when mailalert is enabled")
		}
	}
	if cfg.Notify.Enabled {
		if cfg.Notify.From == "" || cfg.Notify.To == "" {
			errs = append(errs, "notify.from and notify.to are required when notify is enabled")
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

func joinLines(lines []string) string {
	out := ""
	for i, s := range lines {
		if i > 0 {
			out += "\n- "
		}
		out += s
	}
	return out
}
