// Package careers scrapes configured company careers pages for postings
// that never reach the boards.
package careers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout/internal/domain"
	"jobscout/internal/source"
	"jobscout/internal/source/util"
)

type Page struct {
	Company string
	URL     string
}

type Config struct {
	Pages []Page
}

type Adapter struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Adapter {
	return &Adapter{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (a *Adapter) Name() string { return "careers" }

func (a *Adapter) Fetch(ctx context.Context, c source.Criteria) ([]domain.Posting, error) {
	var out []domain.Posting
	var lastErr error

	for _, pg := range a.cfg.Pages {
		jobs, err := a.fetchPage(ctx, pg, c)
		if err != nil {
			// one broken page must not sink the others
			log.Printf("[careers] %s (%s): %v", pg.Company, pg.URL, err)
			lastErr = err
			continue
		}
		out = append(out, jobs...)
	}

	if out == nil && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func (a *Adapter) fetchPage(ctx context.Context, pg Page, c source.Criteria) ([]domain.Posting, error) {
	if a.limiter != nil {
		if err := a.limiter.WaitURL(ctx, pg.URL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pg.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "jobscout/1.0 (+local)")

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("careers get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("careers status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("careers parse html: %w", err)
	}

	base, _ := url.Parse(pg.URL)
	seen := map[string]bool{}
	var jobs []domain.Posting

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		abs := resolveHref(base, strings.TrimSpace(href))
		if abs == "" || !looksLikeJobURL(abs) || seen[abs] {
			return
		}

		title := util.CleanText(s.Text())
		if title == "" || looksLikeJunkTitle(title) {
			return
		}
		if c.Keywords != "" && !util.MatchesKeywords(title, c.Keywords) {
			return
		}

		seen[abs] = true
		jobs = append(jobs, domain.Posting{
			Title:   title,
			Company: pg.Company,
			URL:     abs,
			Source:  a.Name(),
		})
	})

	return jobs, nil
}

func resolveHref(base *url.URL, href string) string {
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func looksLikeJobURL(u string) bool {
	lu := strings.ToLower(u)
	for _, marker := range []string{"/job", "/jobs", "/careers/", "/position", "/opening", "/role", "greenhouse.io", "lever.co", "myworkdayjobs"} {
		if strings.Contains(lu, marker) {
			return true
		}
	}
	return false
}

func looksLikeJunkTitle(t string) bool {
	l := strings.ToLower(t)
	return l == "apply" || l == "apply now" || l == "view all" ||
		strings.Contains(l, "learn more") || strings.Contains(l, "see all")
}
