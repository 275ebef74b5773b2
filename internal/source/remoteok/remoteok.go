// Package remoteok pulls the RemoteOK public JSON feed (remote-only jobs).
package remoteok

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobscout/internal/domain"
	"jobscout/internal/source"
	"jobscout/internal/source/util"
)

const feedURL = "https://remoteok.com/api"

type Adapter struct {
	hc      *http.Client
	limiter *util.HostLimiter
	max     int
}

func New(limiter *util.HostLimiter, maxResults int) *Adapter {
	if maxResults <= 0 {
		maxResults = 15
	}
	return &Adapter{
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		max:     maxResults,
	}
}

func (a *Adapter) Name() string { return "remoteok" }

type feedItem struct {
	ID          string   `json:"id"`
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Tags        []string `json:"tags"`
	Date        string   `json:"date"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
}

func (a *Adapter) Fetch(ctx context.Context, c source.Criteria) ([]domain.Posting, error) {
	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, feedURL); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	req.Header.Set("User-Agent", "jobscout/1.0 (+local)")
	req.Header.Set("Accept", "application/json")

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remoteok get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("remoteok status %d", res.StatusCode)
	}

	// The feed's first element is a legal notice, not a job; items without
	// a position are skipped the same way.
	var items []feedItem
	if err := json.NewDecoder(res.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("remoteok decode: %w", err)
	}

	var out []domain.Posting
	for _, it := range items {
		if it.Position == "" {
			continue
		}
		blob := it.Position + " " + it.Description + " " + strings.Join(it.Tags, " ")
		if !util.MatchesKeywords(blob, c.Keywords) {
			continue
		}

		link := it.URL
		if link == "" && it.ID != "" {
			link = "https://remoteok.com/remote-jobs/" + it.ID
		}
		p := domain.Posting{
			Title:    util.CleanText(it.Position),
			Company:  util.CleanText(it.Company),
			Location: util.CleanText(it.Location),
			URL:      link,
			Source:   a.Name(),
			Snippet:  util.CleanText(it.Description),
		}
		if t, err := time.Parse(time.RFC3339, it.Date); err == nil {
			p.PostedAt = &t
		}
		out = append(out, p)
		if len(out) >= a.max {
			break
		}
	}
	return out, nil
}
