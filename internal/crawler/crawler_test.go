package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnChood2/grimdark-scholar/internal/config"
)

const articleHTML = `<html><body>
<h1 class="firstHeading">Test Article</h1>
<div id="mw-content-text"><p>The Emperor protects his Space Marines.</p></div>
<a href="/wiki/Category:Space_Marines">Space Marines</a>
</body></html>`

func newTestCrawler(t *testing.T, baseURL string) *Crawler {
	t.Helper()
	c, err := New(config.CrawlerConfig{
		BaseURL:     baseURL,
		UserAgent:   "test-agent",
		TimeoutSecs: 5,
	})
	require.NoError(t, err)
	return c
}

func TestFetch(t *testing.T) {
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		fmt.Fprint(w, articleHTML)
	}))
	defer srv.Close()

	c := newTestCrawler(t, srv.URL)
	sess := NewSession(0)

	entry, err := c.Fetch(context.Background(), sess, srv.URL+"/wiki/Test_Article")
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, "Test Article", entry.Title)
	assert.Equal(t, "The Emperor protects his Space Marines.", entry.Content)
	assert.Equal(t, []string{"Space Marines"}, entry.Categories)
	assert.Equal(t, 6, entry.WordCount)
	assert.False(t, entry.ScrapedAt.IsZero())
	assert.Equal(t, "test-agent", gotUA.Load())

	assert.Equal(t, 1, sess.Attempted())
	assert.Equal(t, 1, sess.Succeeded())
}

func TestFetch_AtMostOncePerSession(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, articleHTML)
	}))
	defer srv.Close()

	c := newTestCrawler(t, srv.URL)
	sess := NewSession(0)
	url := srv.URL + "/wiki/Test_Article"

	first, err := c.Fetch(context.Background(), sess, url)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := c.Fetch(context.Background(), sess, url)
	require.NoError(t, err)
	assert.Nil(t, second)

	assert.Equal(t, int32(1), hits.Load())
	assert.Len(t, sess.Entries(), 1)
}

func TestFetch_FailureIsSkipNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestCrawler(t, srv.URL)
	sess := NewSession(0)
	url := srv.URL + "/wiki/Missing"

	entry, err := c.Fetch(context.Background(), sess, url)
	require.NoError(t, err)
	assert.Nil(t, entry)

	require.Len(t, sess.Outcomes(), 1)
	assert.Equal(t, OutcomeSkipped, sess.Outcomes()[0].Status)
	assert.Contains(t, sess.Outcomes()[0].Reason, "status")

	// The failed URL counts as visited; it is not retried.
	assert.True(t, sess.Seen(url))
	again, err := c.Fetch(context.Background(), sess, url)
	require.NoError(t, err)
	assert.Nil(t, again)
	assert.Equal(t, 1, sess.Attempted())
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML)
	}))
	defer srv.Close()

	c := newTestCrawler(t, srv.URL)
	sess := NewSession(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, sess, srv.URL+"/wiki/Test_Article")
	assert.Error(t, err)
}

func TestCrawlCategory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/Category:Orks", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/wiki/Orks">Orks</a>
			<a href="/wiki/Warboss">Warboss</a>
			<a href="/wiki/Gretchin">Gretchin</a>
			<a href="/wiki/Category:Sub">excluded</a>
		</body></html>`)
	})
	mux.HandleFunc("/wiki/Warboss", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/wiki/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(t, srv.URL)
	sess := NewSession(0)

	entries, err := c.CrawlCategory(context.Background(), sess, srv.URL+"/wiki/Category:Orks", 0)
	require.NoError(t, err)

	// Warboss fails and is skipped; the other two articles come through.
	assert.Len(t, entries, 2)
	assert.Equal(t, 3, sess.Attempted())
	assert.Equal(t, 2, sess.Succeeded())
}

func TestCrawlCategory_MaxPages(t *testing.T) {
	var articleHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/Category:Orks", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/wiki/A">A</a>
			<a href="/wiki/B">B</a>
			<a href="/wiki/C">C</a>
		</body></html>`)
	})
	mux.HandleFunc("/wiki/", func(w http.ResponseWriter, r *http.Request) {
		articleHits.Add(1)
		fmt.Fprint(w, articleHTML)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(t, srv.URL)
	sess := NewSession(0)

	entries, err := c.CrawlCategory(context.Background(), sess, srv.URL+"/wiki/Category:Orks", 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int32(2), articleHits.Load())
}

func TestCrawlCategory_ListingFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestCrawler(t, srv.URL)
	sess := NewSession(0)

	entries, err := c.CrawlCategory(context.Background(), sess, srv.URL+"/wiki/Category:Orks", 0)
	require.NoError(t, err)
	assert.Nil(t, entries)
	assert.Equal(t, 0, sess.Attempted())
}
