package crawler

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

// OutcomeStatus classifies the result of one fetch attempt.
type OutcomeStatus string

const (
	OutcomeOK      OutcomeStatus = "ok"
	OutcomeSkipped OutcomeStatus = "skipped"
)

// Outcome records one fetch attempt so callers can report attempted vs.
// succeeded counts instead of relying on logs.
type Outcome struct {
	URL    string        `json:"url"`
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

// Session scopes one crawl invocation. It owns the visited-URL set, the
// entries produced so far, and the politeness limiter that spaces out fetch
// attempts. Sessions are not shared across runs and are discarded once the
// batch is processed.
type Session struct {
	ID       string
	limiter  *rate.Limiter
	visited  map[string]struct{}
	entries  []model.Entry
	outcomes []Outcome
}

// NewSession creates a crawl session enforcing the given delay between
// consecutive fetch attempts. A zero delay disables pacing (tests).
func NewSession(delay time.Duration) *Session {
	lim := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		lim = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &Session{
		ID:      uuid.New().String(),
		limiter: lim,
		visited: make(map[string]struct{}),
	}
}

// Seen reports whether the URL was already attempted in this session.
func (s *Session) Seen(url string) bool {
	_, ok := s.visited[url]
	return ok
}

// mark records a URL as attempted. Both successes and failures are marked so
// each URL is fetched at most once per session.
func (s *Session) mark(url string) {
	s.visited[url] = struct{}{}
}

func (s *Session) record(o Outcome) {
	s.outcomes = append(s.outcomes, o)
}

func (s *Session) add(e model.Entry) {
	s.entries = append(s.entries, e)
}

// Entries returns the entries collected so far, in scrape order.
func (s *Session) Entries() []model.Entry {
	return s.entries
}

// Outcomes returns the per-attempt record for this session.
func (s *Session) Outcomes() []Outcome {
	return s.outcomes
}

// Attempted returns the number of fetch attempts recorded.
func (s *Session) Attempted() int {
	return len(s.outcomes)
}

// Succeeded returns the number of attempts that produced an entry.
func (s *Session) Succeeded() int {
	n := 0
	for _, o := range s.outcomes {
		if o.Status == OutcomeOK {
			n++
		}
	}
	return n
}
