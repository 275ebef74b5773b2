package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/domain"
)

func TestResolveIgnoresSourceField(t *testing.T) {
	r := NewResolver(DefaultRules())

	a := domain.Posting{Title: "Backend Engineer", Company: "Acme", URL: "https://acme.com/jobs/42", Source: "adzuna"}
	b := a
	b.Source = "remoteok"

	assert.Equal(t, r.Resolve(a), r.Resolve(b))
}

func TestResolveNormalization(t *testing.T) {
	r := NewResolver(DefaultRules())

	cases := []struct {
		name string
		a, b domain.Posting
	}{
		{
			name: "case folding",
			a:    domain.Posting{Title: "Backend Engineer", Company: "Acme"},
			b:    domain.Posting{Title: "BACKEND ENGINEER", Company: "acme"},
		},
		{
			name: "whitespace collapse",
			a:    domain.Posting{Title: "Backend  Engineer ", Company: " Acme"},
			b:    domain.Posting{Title: "Backend Engineer", Company: "Acme"},
		},
		{
			name: "query string stripped",
			a:    domain.Posting{Title: "Backend Engineer", Company: "Acme", URL: "https://acme.com/jobs/42?ref=x&utm_source=mail"},
			b:    domain.Posting{Title: "Backend Engineer", Company: "Acme", URL: "https://acme.com/jobs/42"},
		},
		{
			name: "trailing slash trimmed",
			a:    domain.Posting{Title: "Backend Engineer", Company: "Acme", URL: "https://acme.com/jobs/42/"},
			b:    domain.Posting{Title: "Backend Engineer", Company: "Acme", URL: "https://acme.com/jobs/42"},
		},
		{
			name: "host case folded",
			a:    domain.Posting{Title: "Backend Engineer", Company: "Acme", URL: "HTTPS://ACME.com/jobs/42"},
			b:    domain.Posting{Title: "Backend Engineer", Company: "Acme", URL: "https://acme.com/jobs/42"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, r.Resolve(tc.a), r.Resolve(tc.b))
		})
	}
}

func TestResolveDistinctPostingsDiffer(t *testing.T) {
	r := NewResolver(DefaultRules())

	a := domain.Posting{Title: "Backend Engineer", Company: "Acme", URL: "https://acme.com/jobs/42"}
	b := domain.Posting{Title: "Frontend Engineer", Company: "Acme", URL: "https://acme.com/jobs/43"}

	assert.NotEqual(t, r.Resolve(a), r.Resolve(b))
}

func TestResolveEmptyFields(t *testing.T) {
	r := NewResolver(DefaultRules())

	fp := r.Resolve(domain.Posting{})
	require.NotEmpty(t, string(fp))
	assert.Equal(t, fp, r.Resolve(domain.Posting{Source: "whatever"}))
}

func TestRulesAreConfigurable(t *testing.T) {
	strict := NewResolver(Rules{}) // no normalization at all
	loose := NewResolver(DefaultRules())

	a := domain.Posting{Title: "Backend Engineer", Company: "Acme", URL: "https://acme.com/jobs/42?ref=x"}
	b := domain.Posting{Title: "backend engineer", Company: "Acme", URL: "https://acme.com/jobs/42"}

	assert.Equal(t, loose.Resolve(a), loose.Resolve(b))
	assert.NotEqual(t, strict.Resolve(a), strict.Resolve(b))
}

func TestResolveUnparseableURLKept(t *testing.T) {
	r := NewResolver(DefaultRules())

	p := domain.Posting{Title: "T", Company: "C", URL: "http://bad url %"}
	// must still be deterministic
	assert.Equal(t, r.Resolve(p), r.Resolve(p))
}
