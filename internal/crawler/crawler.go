// Package crawler fetches Lexicanum wiki pages and extracts structured
// entries. Fetching is strictly sequential within a session: the session's
// limiter spaces out attempts, each URL is tried at most once, and failures
// are recorded and skipped rather than retried.
package crawler

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/JohnChood2/grimdark-scholar/internal/config"
	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

// maxBodyBytes caps how much of a page body is read. Lexicanum articles are
// well under this.
const maxBodyBytes = 4 << 20

// Crawler fetches wiki pages over HTTP and turns them into raw entries.
type Crawler struct {
	client *http.Client
	cfg    config.CrawlerConfig
	base   *url.URL
}

// New creates a Crawler from config. The HTTP timeout applies per request.
func New(cfg config.CrawlerConfig) (*Crawler, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, eris.Wrapf(err, "crawler: parse base url %s", cfg.BaseURL)
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Crawler{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
		base:   base,
	}, nil
}

// Delay returns the configured politeness delay between fetch attempts.
func (c *Crawler) Delay() time.Duration {
	return time.Duration(c.cfg.DelayMs) * time.Millisecond
}

// Fetch retrieves one page and extracts its structured fields. Transport
// errors, non-2xx statuses, and already-visited URLs all yield (nil, nil)
// with a skip outcome recorded on the session; a non-nil error is returned
// only when the context is cancelled. The visited set is updated on every
// attempt, success or failure.
func (c *Crawler) Fetch(ctx context.Context, sess *Session, rawURL string) (*model.Entry, error) {
	if sess.Seen(rawURL) {
		return nil, nil
	}

	// The limiter wait doubles as the cooperative cancellation point
	// between attempts.
	if err := sess.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "crawler: limiter wait")
	}

	sess.mark(rawURL)

	doc, skipReason := c.get(ctx, rawURL)
	if skipReason != "" {
		zap.L().Warn("fetch skipped",
			zap.String("url", rawURL),
			zap.String("reason", skipReason),
		)
		sess.record(Outcome{URL: rawURL, Status: OutcomeSkipped, Reason: skipReason})
		return nil, nil
	}

	content := extractContent(doc)
	infobox := extractInfobox(doc)
	entry := model.Entry{
		URL:        rawURL,
		Title:      extractTitle(doc),
		Content:    content,
		Categories: extractCategories(doc),
		Links:      extractInternalLinks(doc, c.base),
		Images:     extractImages(doc, c.base),
		Infobox:    infobox,
		HasInfobox: infobox != nil,
		WordCount:  len(strings.Fields(content)),
		ScrapedAt:  time.Now().UTC(),
	}

	sess.record(Outcome{URL: rawURL, Status: OutcomeOK})
	sess.add(entry)

	zap.L().Info("fetched page",
		zap.String("url", rawURL),
		zap.String("title", entry.Title),
		zap.Int("word_count", entry.WordCount),
	)

	return &entry, nil
}

// CrawlCategory expands a category listing into up to maxPages article
// fetches, preserving link order. Individual fetch failures are skipped and
// never abort the loop; the loop stops early on context cancellation.
func (c *Crawler) CrawlCategory(ctx context.Context, sess *Session, categoryURL string, maxPages int) ([]model.Entry, error) {
	doc, skipReason := c.get(ctx, categoryURL)
	if skipReason != "" {
		zap.L().Warn("category listing fetch failed",
			zap.String("url", categoryURL),
			zap.String("reason", skipReason),
		)
		return nil, nil
	}

	links := extractArticleLinks(doc, c.base)
	if maxPages > 0 && len(links) > maxPages {
		links = links[:maxPages]
	}

	var entries []model.Entry
	for i, link := range links {
		entry, err := c.Fetch(ctx, sess, link)
		if err != nil {
			return entries, err
		}
		if entry != nil {
			entries = append(entries, *entry)
		}
		zap.L().Debug("category progress",
			zap.String("category", categoryURL),
			zap.Int("done", i+1),
			zap.Int("total", len(links)),
		)
	}

	return entries, nil
}

// get performs one GET and parses the body. Returns a non-empty skip reason
// instead of an error; all fetch failures are local and non-fatal.
func (c *Crawler) get(ctx context.Context, rawURL string) (*html.Node, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "bad url: " + err.Error()
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "transport: " + err.Error()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "status " + resp.Status
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "read body: " + err.Error()
	}

	doc, err := html.Parse(strings.NewReader(decodeBody(body, resp.Header.Get("Content-Type"))))
	if err != nil {
		return nil, "parse html: " + err.Error()
	}
	return doc, ""
}

// decodeBody converts the body to UTF-8 using the charset declared in the
// Content-Type header. Unknown or missing charsets fall through to the raw
// bytes; html.Parse tolerates them.
func decodeBody(body []byte, contentType string) string {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(body)
	}
	charset, ok := params["charset"]
	if !ok || strings.EqualFold(charset, "utf-8") {
		return string(body)
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
