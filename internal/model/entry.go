package model

import "time"

// Bucket is a fixed main-category label assigned to exactly one Entry by the
// classifier. The set of buckets is defined by the processor rule table; the
// fallback is BucketGeneral.
type Bucket string

// BucketGeneral is the fallback bucket when no rule matches.
const BucketGeneral Bucket = "General"

// Entry is one scraped wiki page with derived metadata. The Crawler fills the
// raw fields; the Processor enriches it with cleaned content, key terms and a
// main category.
type Entry struct {
	URL           string            `json:"url"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	Categories    []string          `json:"categories,omitempty"`
	Links         []string          `json:"links,omitempty"`
	Images        []string          `json:"images,omitempty"`
	Infobox       map[string]string `json:"infobox_data,omitempty"`
	HasInfobox    bool              `json:"has_infobox"`
	WordCount     int               `json:"word_count"`
	KeyTerms      []string          `json:"key_terms,omitempty"`
	MainCategory  Bucket            `json:"main_category,omitempty"`
	ContentLength int               `json:"content_length"`
	ScrapedAt     time.Time         `json:"scraped_at"`
	ProcessedAt   time.Time         `json:"processed_at,omitempty"`
}

// Corpus is the ordered collection of entries produced by one processing run.
// Insertion order is scrape order and is the tie-breaker for ranking and
// statistics, so it must be preserved by every operation that touches it.
type Corpus []Entry

// SearchResult pairs an entry with its search score and the fields the query
// matched. Key-term matches contribute to the score but are not reported as a
// matched field.
type SearchResult struct {
	Entry         Entry    `json:"entry"`
	Score         int      `json:"score"`
	MatchedFields []string `json:"matched_fields"`
}

// Stats aggregates a corpus. TopTerms is sorted by count descending, ties
// broken by vocabulary order, and truncated to the requested length.
type Stats struct {
	TotalEntries         int            `json:"total_entries"`
	TotalContentLength   int            `json:"total_content_length"`
	AvgContentLength     float64        `json:"avg_content_length"`
	CategoryDistribution map[Bucket]int `json:"category_distribution"`
	TopTerms             []TermCount    `json:"top_terms"`
	EntriesWithInfobox   int            `json:"entries_with_infobox"`
}

// TermCount is one vocabulary term with its corpus-wide frequency.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Answer is the result of a question-answering run: generated prose, a
// heuristic confidence in [0, 0.9], and up to three source URLs.
type Answer struct {
	Answer     string   `json:"answer"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

// Question is a logged question/answer pair, persisted by the store.
type Question struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Confidence float64   `json:"confidence"`
	Sources    []string  `json:"sources"`
	AskedAt    time.Time `json:"asked_at"`
}
