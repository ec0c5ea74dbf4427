package fetcher

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yellowpages-scraper/config"
)

func TestCollyFetcher_FetchPage(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<html><body>page %s</body></html>", r.URL.Query().Get("page"))
	}))
	defer srv.Close()

	f := NewCollyFetcher("yp-test-agent")
	defer f.Close()

	body, err := f.FetchPage(srv.URL + "/search?page=2")
	require.NoError(t, err)
	assert.Equal(t, "<html><body>page 2</body></html>", body)
	assert.Equal(t, "yp-test-agent", gotUA)
}

func TestCollyFetcher_RevisitsSameURL(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprintf(w, "<p>%d</p>", hits)
	}))
	defer srv.Close()

	f := NewCollyFetcher("yp-test-agent")

	first, err := f.FetchPage(srv.URL)
	require.NoError(t, err)
	second, err := f.FetchPage(srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "<p>1</p>", first)
	assert.Equal(t, "<p>2</p>", second)
}

func TestCollyFetcher_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewCollyFetcher("yp-test-agent")

	_, err := f.FetchPage(srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestCollyFetcher_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewCollyFetcher("yp-test-agent")

	_, err := f.FetchPage(url)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	f, err := New(config.FetcherConfig{Engine: config.EngineColly, UserAgent: "x"})
	require.NoError(t, err)
	assert.IsType(t, &CollyFetcher{}, f)

	_, err = New(config.FetcherConfig{Engine: "wget"})
	assert.Error(t, err)
}
