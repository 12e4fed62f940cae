package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

func TestCategorize(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name       string
		title      string
		content    string
		categories []string
		want       model.Bucket
	}{
		{
			name:    "content keyword",
			title:   "Forge World Alpha",
			content: "A tech-priest oversees production.",
			want:    "Adeptus Mechanicus",
		},
		{
			name:       "source category wins over content",
			title:      "Some Article",
			content:    "Mentions a warboss in passing.",
			categories: []string{"Category:Eldar"},
			want:       "Eldar",
		},
		{
			name:    "table order breaks overlap",
			title:   "Primarch",
			content: "A primarch corrupted by chaos.",
			want:    "Space Marines",
		},
		{
			name:    "title keyword",
			title:   "Commissar Yarrick",
			content: "A hero of the Imperium.",
			want:    "Imperial Guard",
		},
		{
			name:    "no match falls back to general",
			title:   "Pict Recorder",
			content: "A device for capturing images.",
			want:    model.BucketGeneral,
		},
		{
			name: "empty everything",
			want: model.BucketGeneral,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.Categorize(tt.title, tt.content, tt.categories)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategorize_CaseInsensitive(t *testing.T) {
	rules := DefaultRules()
	assert.Equal(t, model.Bucket("Orks"), rules.Categorize("WARBOSS GHAZGHKULL", "", nil))
	assert.Equal(t, model.Bucket("Orks"), rules.Categorize("warboss ghazghkull", "", nil))
}

func TestBuckets_TableOrder(t *testing.T) {
	buckets := DefaultRules().Buckets()
	require.Len(t, buckets, 8)
	assert.Equal(t, model.Bucket("Space Marines"), buckets[0])
	assert.Equal(t, model.Bucket("Inquisition"), buckets[7])
	assert.NotContains(t, buckets, model.BucketGeneral)
}
