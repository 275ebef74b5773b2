// Package hn searches Hacker News "Who is Hiring" posts via the Algolia
// search API. Hits are free-text comments, so postings carry the item URL
// as their identity and a text snippet instead of structured fields.
package hn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"jobscout/internal/domain"
	"jobscout/internal/source"
	"jobscout/internal/source/util"
)

const searchURL = "https://hn.algolia.com/api/v1/search_by_date"

// recency window for hiring threads; they are monthly
const windowDays = 60

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
		hc:      &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
		max:     maxResults,
	}
}

func (a *Adapter) Name() string { return "hn" }

type searchPayload struct {
	Hits []struct {
		ObjectID    string `json:"objectID"`
		Title       string `json:"title"`
		CommentText string `json:"comment_text"`
		CreatedAt   string `json:"created_at"`
	} `json:"hits"`
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

func (a *Adapter) Fetch(ctx context.Context, c source.Criteria) ([]domain.Posting, error) {
	cutoff := time.Now().AddDate(0, 0, -windowDays).Unix()

	q := url.Values{}
	q.Set("query", "who is hiring "+c.Keywords)
	q.Set("tags", "comment,story")
	q.Set("numericFilters", "created_at_i>"+strconv.FormatInt(cutoff, 10))
	q.Set("hitsPerPage", strconv.Itoa(a.max*2))
	full := searchURL + "?" + q.Encode()

	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, full); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	req.Header.Set("User-Agent", "jobscout/1.0 (+local)")

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hn get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("hn status %d", res.StatusCode)
	}

	var payload searchPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("hn decode: %w", err)
	}

	var out []domain.Posting
	for _, h := range payload.Hits {
		text := h.CommentText
		if text == "" {
			text = h.Title
		}
		text = util.CleanText(tagRe.ReplaceAllString(text, " "))
		// short comments are replies, not job posts
		if len(text) < 100 || !util.MatchesKeywords(text, c.Keywords) {
			continue
		}

		title := text
		if len(title) > 120 {
			title = title[:120]
		}
		p := domain.Posting{
			Title:   title,
			URL:     "https://news.ycombinator.com/item?id=" + h.ObjectID,
			Source:  a.Name(),
			Snippet: text,
		}
		if t, err := time.Parse(time.RFC3339, h.CreatedAt); err == nil {
			p.PostedAt = &t
		}
		out = append(out, p)
		if len(out) >= a.max {
			break
		}
	}
	return out, nil
}
