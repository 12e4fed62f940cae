package stats

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

// WriteXLSX renders a corpus statistics report as a spreadsheet with a
// summary sheet, the category distribution, and the top-term ranking.
func WriteXLSX(s model.Stats, path string) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "stats: add summary sheet")
	}
	addRow(summary, "Metric", "Value")
	addRow(summary, "Total entries", fmt.Sprintf("%d", s.TotalEntries))
	addRow(summary, "Total content length", fmt.Sprintf("%d", s.TotalContentLength))
	addRow(summary, "Average content length", fmt.Sprintf("%.0f", s.AvgContentLength))
	addRow(summary, "Entries with infobox", fmt.Sprintf("%d", s.EntriesWithInfobox))

	cats, err := f.AddSheet("Categories")
	if err != nil {
		return eris.Wrap(err, "stats: add categories sheet")
	}
	addRow(cats, "Category", "Entries")
	for _, bucket := range sortedBuckets(s.CategoryDistribution) {
		addRow(cats, string(bucket), fmt.Sprintf("%d", s.CategoryDistribution[bucket]))
	}

	terms, err := f.AddSheet("Top Terms")
	if err != nil {
		return eris.Wrap(err, "stats: add top terms sheet")
	}
	addRow(terms, "Term", "Count")
	for _, tc := range s.TopTerms {
		addRow(terms, tc.Term, fmt.Sprintf("%d", tc.Count))
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "stats: save %s", path)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}

// sortedBuckets orders buckets by count descending, name ascending on ties,
// so the report is stable run to run.
func sortedBuckets(dist map[model.Bucket]int) []model.Bucket {
	buckets := make([]model.Bucket, 0, len(dist))
	for b := range dist {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if dist[buckets[i]] != dist[buckets[j]] {
			return dist[buckets[i]] > dist[buckets[j]]
		}
		return buckets[i] < buckets[j]
	})
	return buckets
}
