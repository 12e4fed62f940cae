package processor

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/JohnChood2/grimdark-scholar/internal/model"
)

// BucketRule maps one bucket to the keyword phrases that select it. Rules
// are an ordered table: the first bucket whose keyword matches wins, so
// classification is total and deterministic with no ties.
type BucketRule struct {
	Bucket   model.Bucket `yaml:"bucket"`
	Keywords []string     `yaml:"keywords"`
}

// Rules is the ordered bucket rule table.
type Rules []BucketRule

// DefaultRules returns the built-in faction rule table, in priority order.
func DefaultRules() Rules {
	return Rules{
		{"Space Marines", []string{"space marine", "adeptus astartes", "chapter", "primarch"}},
		{"Chaos", []string{"chaos", "daemon", "warp", "heretic", "chaos space marine"}},
		{"Eldar", []string{"eldar", "aeldari", "craftworld", "aspect warrior"}},
		{"Orks", []string{"ork", "orkz", "warboss", "gretchin", "squig"}},
		{"Tau", []string{"tau", "tau empire", "fire caste", "ethereal"}},
		{"Imperial Guard", []string{"imperial guard", "astra militarum", "regiment", "commissar"}},
		{"Adeptus Mechanicus", []string{"adeptus mechanicus", "tech-priest", "machine spirit", "forge world"}},
		{"Inquisition", []string{"inquisition", "inquisitor", "grey knight", "daemonhunter"}},
	}
}

// LoadRules reads an ordered rule table from a YAML file.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "processor: read rules %s", path)
	}
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrapf(err, "processor: parse rules %s", path)
	}
	if len(r) == 0 {
		return nil, eris.Errorf("processor: rules %s is empty", path)
	}
	return r, nil
}

// Categorize resolves exactly one bucket for an entry. Source categories are
// checked first; then title and content are scanned. First match in table
// order wins; no match falls back to BucketGeneral.
func (r Rules) Categorize(title, content string, categories []string) model.Bucket {
	for _, cat := range categories {
		catLower := strings.ToLower(cat)
		for _, rule := range r {
			for _, kw := range rule.Keywords {
				if strings.Contains(catLower, kw) {
					return rule.Bucket
				}
			}
		}
	}

	titleLower := strings.ToLower(title)
	contentLower := strings.ToLower(content)
	for _, rule := range r {
		for _, kw := range rule.Keywords {
			if strings.Contains(contentLower, kw) || strings.Contains(titleLower, kw) {
				return rule.Bucket
			}
		}
	}

	return model.BucketGeneral
}

// Buckets returns the buckets in table order, without the fallback.
func (r Rules) Buckets() []model.Bucket {
	out := make([]model.Bucket, len(r))
	for i, rule := range r {
		out[i] = rule.Bucket
	}
	return out
}
