// Package adzuna queries the Adzuna job-board API, newest first.
package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobscout/internal/domain"
	"jobscout/internal/source"
	"jobscout/internal/source/util"
)

type Config struct {
	AppID          string
	AppKey         string
	ResultsPerPage int
}

type Adapter struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Adapter {
	if cfg.ResultsPerPage <= 0 {
		cfg.ResultsPerPage = 20
	}
	return &Adapter{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (a *Adapter) Name() string { return "adzuna" }

type searchPayload struct {
	Results []struct {
		Title   string `json:"title"`
		Company struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		Created     string `json:"created"`
		RedirectURL string `json:"redirect_url"`
		Description string `json:"description"`
	} `json:"results"`
}

func (a *Adapter) Fetch(ctx context.Context, c source.Criteria) ([]domain.Posting, error) {
	if a.cfg.AppID == "" || a.cfg.AppKey == "" {
		return nil, fmt.Errorf("adzuna credentials not configured")
	}

	country := detectCountry(c.Location)
	apiURL := fmt.Sprintf("https://api.adzuna.com/v1/api/jobs/%s/search/1", country)

	q := url.Values{}
	q.Set("app_id", a.cfg.AppID)
	q.Set("app_key", a.cfg.AppKey)
	q.Set("results_per_page", strconv.Itoa(a.cfg.ResultsPerPage))
	q.Set("what", c.Keywords)
	q.Set("sort_by", "date")
	if c.MaxAgeDays > 0 {
		q.Set("max_days_old", strconv.Itoa(c.MaxAgeDays))
	}
	if c.Location != "" {
		q.Set("where", c.Location)
	}
	full := apiURL + "?" + q.Encode()

	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, full); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	req.Header.Set("User-Agent", "jobscout/1.0 (+local)")

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adzuna get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("adzuna auth failed (status %d): check app id/key", res.StatusCode)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("adzuna status %d", res.StatusCode)
	}

	var payload searchPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("adzuna decode: %w", err)
	}

	var out []domain.Posting
	for _, r := range payload.Results {
		p := domain.Posting{
			Title:    util.CleanText(r.Title),
			Company:  util.CleanText(r.Company.DisplayName),
			Location: util.CleanText(r.Location.DisplayName),
			URL:      r.RedirectURL,
			Source:   a.Name(),
			Snippet:  util.CleanText(r.Description),
		}
		if t, err := time.Parse(time.RFC3339, r.Created); err == nil {
			p.PostedAt = &t
		}
		out = append(out, p)
	}
	return out, nil
}

// detectCountry maps common locations to Adzuna country codes.
func detectCountry(location string) string {
	l := strings.ToLower(location)
	m := map[string]string{
		"uk": "gb", "united kingdom": "gb", "london": "gb", "manchester": "gb",
		"usa": "us", "united states": "us", "new york": "us",
		"san francisco": "us", "austin": "us", "chicago": "us",
		"canada": "ca", "toronto": "ca", "vancouver": "ca",
		"australia": "au", "sydney": "au", "melbourne": "au",
		"germany": "de", "berlin": "de", "munich": "de",
		"france": "fr", "paris": "fr",
		"india": "in", "bangalore": "in", "mumbai": "in",
		"netherlands": "nl", "amsterdam": "nl",
	}
	for key, code := range m {
		if strings.Contains(l, key) {
			return code
		}
	}
	return "us"
}
