package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type CareersPage struct {
	Company string `yaml:"company"`
	URL     string `yaml:"url"`
}

type Config struct {
	App struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Search struct {
		Keywords   string `yaml:"keywords"`
		Location   string `yaml:"location"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Industry   string `yaml:"industry"`
	} `yaml:"search"`

	Polling struct {
		IntervalMinutes int  `yaml:"interval_minutes"`
		AutoSave        bool `yaml:"auto_save"`
	} `yaml:"polling"`

	Sources struct {
		Adzuna struct {
			Enabled        bool   `yaml:"enabled"`
			AppID          string `yaml:"app_id"`
			ResultsPerPage int    `yaml:"results_per_page"`
		} `yaml:"adzuna"`
		RemoteOK struct {
			Enabled    bool `yaml:"enabled"`
			MaxResults int  `yaml:"max_results"`
		} `yaml:"remoteok"`
		HackerNews struct {
			Enabled    bool `yaml:"enabled"`
			MaxResults int  `yaml:"max_results"`
		} `yaml:"hackernews"`
		Careers struct {
			Enabled bool          `yaml:"enabled"`
			Pages   []CareersPage `yaml:"pages"`
		} `yaml:"careers"`
		MailAlert struct {
			Enabled  bool   `yaml:"enabled"`
			IMAPHost string `yaml:"imap_host"`
			Username string `yaml:"username"`
			MaxMail  int    `yaml:"max_mail"`
		} `yaml:"mailalert"`
	} `yaml:"sources"`

	Notify struct {
		Enabled  bool   `yaml:"enabled"`
		Provider string `yaml:"provider"` // gmail/outlook/hotmail/yahoo
		From     string `yaml:"from"`
		To       string `yaml:"to"`
	} `yaml:"notify"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Default is the starting config written on first run.
func Default() Config {
	var cfg Config
	cfg.App.DataDir = "."
	cfg.Search.Keywords = "software engineer"
	cfg.Search.MaxAgeDays = 1
	cfg.Polling.IntervalMinutes = 30
	cfg.Sources.RemoteOK.Enabled = true
	cfg.Sources.RemoteOK.MaxResults = 15
	cfg.Sources.HackerNews.Enabled = true
	cfg.Sources.HackerNews.MaxResults = 15
	return cfg
}
