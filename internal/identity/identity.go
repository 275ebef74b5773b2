// Package identity derives stable fingerprints for postings so the same job
// seen from different sources (or across polling cycles) dedups to one key.
package identity

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"jobscout/internal/domain"
)

// Rules control how postings are normalized before fingerprinting. The
// exact rule set is a design choice, so it is explicit and configurable
// rather than baked in.
type Rules struct {
	FoldCase      bool // lower-case title/company and URL host/scheme
	CollapseSpace bool // trim and collapse internal whitespace
	StripQuery    bool // drop the URL query string
	StripFragment bool // drop the URL fragment
	TrimSlash     bool // drop a trailing slash from the URL path
}

// DefaultRules enables every normalization.
func DefaultRules() Rules {
	return Rules{
		FoldCase:      true,
		CollapseSpace: true,
		StripQuery:    true,
		StripFragment: true,
		TrimSlash:     true,
	}
}

// Resolver computes fingerprints. Resolve is pure and never fails; empty
// fields still combine into a valid (if weak) fingerprint.
type Resolver struct {
	rules Rules
}

func NewResolver(rules Rules) *Resolver {
	return &Resolver{rules: rules}
}

func (r *Resolver) Resolve(p domain.Posting) domain.Fingerprint {
	title := r.normText(p.Title)
	company := r.normText(p.Company)
	u := r.normURL(p.URL)
	return domain.Fingerprint(title + "|" + company + "|" + u)
}

func (r *Resolver) normText(s string) string {
	if r.rules.CollapseSpace {
		s = strings.Join(strings.Fields(s), " ")
	} else {
		s = strings.TrimSpace(s)
	}
	if r.rules.FoldCase {
		s = cases.Lower(language.Und).String(s)
	}
	return s
}

func (r *Resolver) normURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		// unparseable URLs still participate in the key as-is
		return raw
	}

	if r.rules.FoldCase {
		u.Scheme = strings.ToLower(u.Scheme)
		u.Host = strings.ToLower(u.Host)
	}
	if r.rules.StripFragment {
		u.Fragment = ""
	}
	if r.rules.StripQuery {
		u.RawQuery = ""
	}
	if r.rules.TrimSlash && len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
	}
	return u.String()
}
