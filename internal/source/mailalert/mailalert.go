// Package mailalert turns job-alert emails (LinkedIn, Indeed digests and
// the like) into postings by polling an IMAP inbox for unseen messages and
// extracting the job links they carry.
package mailalert

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"jobscout/internal/domain"
	"jobscout/internal/source"
	"jobscout/internal/source/util"
)

type Config struct {
	Host     string // e.g. imap.gmail.com:993
	Username string
	Password string
	MaxMail  int
}

type Adapter struct {
	cfg Config
}

func New(cfg Config) *Adapter {
	if cfg.MaxMail <= 0 {
		cfg.MaxMail = 25
	}
	return &Adapter{cfg: cfg}
}

func (a *Adapter) Name() string { return "mailalert" }

func (a *Adapter) Fetch(ctx context.Context, c source.Criteria) ([]domain.Posting, error) {
	if a.cfg.Host == "" || a.cfg.Username == "" || a.cfg.Password == "" {
		return nil, fmt.Errorf("mailalert not configured")
	}

	cl, err := imapclient.DialTLS(a.cfg.Host, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial: %w", err)
	}
	defer func() { _ = cl.Close() }()

	go func() {
		<-ctx.Done()
		_ = cl.Close()
	}()

	if err := cl.Login(a.cfg.Username, a.cfg.Password).Wait(); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	defer func() {
		if err := cl.Logout().Wait(); err != nil {
			log.Printf("[mailalert] logout: %v", err)
		}
	}()

	if _, err := cl.Select("INBOX", &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select: %w", err)
	}

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   time.Now().AddDate(0, -1, 0),
	}
	searchData, err := cl.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	// newest first
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > a.cfg.MaxMail {
		uids = uids[:a.cfg.MaxMail]
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true, // don't flip \Seen; the seen-set dedups anyway
	}
	fetchCmd := cl.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	var out []domain.Posting
	for {
		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch: %w", err)
		}

		subject := ""
		var date *time.Time
		if buf.Envelope != nil {
			subject = buf.Envelope.Subject
			if !buf.Envelope.Date.IsZero() {
				d := buf.Envelope.Date
				date = &d
			}
		}
		if !isJobAlert(subject) {
			continue
		}

		var body []byte
		if b := buf.FindBodySection(bodyAll); b != nil {
			body = b
		}
		for _, link := range extractJobLinks(string(body)) {
			out = append(out, domain.Posting{
				Title:    util.CleanText(subject),
				URL:      link,
				Source:   a.Name(),
				PostedAt: date,
			})
		}
	}
	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return out, nil
}

func isJobAlert(subject string) bool {
	l := strings.ToLower(subject)
	for _, m := range []string{"job alert", "jobs for you", "new jobs", "is hiring", "job matches", "opportunities"} {
		if strings.Contains(l, m) {
			return true
		}
	}
	return false
}

var linkRe = regexp.MustCompile(`https?://[^\s"'<>)\]]+`)

func extractJobLinks(body string) []string {
	seen := map[string]bool{}
	var out []string
	for _, raw := range linkRe.FindAllString(body, -1) {
		u, err := url.Parse(raw)
		if err != nil || isJunkLink(raw) {
			continue
		}
		if !strings.Contains(strings.ToLower(u.Path), "job") &&
			!strings.Contains(strings.ToLower(u.Host), "job") {
			continue
		}
		if seen[raw] {
			continue
		}
		seen[raw] = true
		out = append(out, raw)
	}
	return out
}

func isJunkLink(u string) bool {
	lu := strings.ToLower(u)
	for _, j := range []string{
		"unsubscribe", "preferences", "privacy", "terms",
		"view-in-browser", "tracking", "pixel", "beacon",
		"/alerts", "/settings", "/help", "/legal",
	} {
		if strings.Contains(lu, j) {
			return true
		}
	}
	return false
}
