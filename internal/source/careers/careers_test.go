package careers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout/internal/source"
)

const careersPage = `<!doctype html>
<html><body>
<nav><a href="/about">About</a><a href="#top">Top</a></nav>
<ul>
  <li><a href="/jobs/101">Senior Go Engineer</a></li>
  <li><a href="/jobs/102">Frontend Developer</a></li>
  <li><a href="https://boards.greenhouse.io/acme/999">Platform Engineer (Go)</a></li>
  <li><a href="/jobs/101">Senior Go Engineer</a></li>
  <li><a href="/jobs/103">Apply now</a></li>
  <li><a href="mailto:jobs@acme.example">Email us</a></li>
</ul>
</body></html>`

func TestFetchExtractsJobLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(careersPage))
	}))
	defer srv.Close()

	a := New(Config{Pages: []Page{{Company: "Acme", URL: srv.URL + "/careers/"}}}, nil)

	jobs, err := a.Fetch(context.Background(), source.Criteria{Keywords: "go"})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "Senior Go Engineer", jobs[0].Title)
	assert.Equal(t, srv.URL+"/jobs/101", jobs[0].URL)
	assert.Equal(t, "Acme", jobs[0].Company)
	assert.Equal(t, "careers", jobs[0].Source)

	assert.Equal(t, "Platform Engineer (Go)", jobs[1].Title)
	assert.Equal(t, "https://boards.greenhouse.io/acme/999", jobs[1].URL)
}

func TestFetchWithoutKeywordsKeepsAllJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(careersPage))
	}))
	defer srv.Close()

	a := New(Config{Pages: []Page{{Company: "Acme", URL: srv.URL + "/careers/"}}}, nil)

	jobs, err := a.Fetch(context.Background(), source.Criteria{})
	require.NoError(t, err)
	assert.Len(t, jobs, 3) // junk "Apply now" link still dropped
}

func TestFetchBrokenPageDoesNotSinkOthers(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(careersPage))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer bad.Close()

	a := New(Config{Pages: []Page{
		{Company: "Broken", URL: bad.URL},
		{Company: "Acme", URL: good.URL + "/careers/"},
	}}, nil)

	jobs, err := a.Fetch(context.Background(), source.Criteria{Keywords: "go"})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestFetchAllPagesBrokenReturnsError(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusForbidden)
	}))
	defer bad.Close()

	a := New(Config{Pages: []Page{{Company: "Broken", URL: bad.URL}}}, nil)

	_, err := a.Fetch(context.Background(), source.Criteria{})
	assert.Error(t, err)
}
