package processor

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Vocabulary is the ordered list of domain terms scanned for during key-term
// extraction. Order matters: extracted terms are reported in vocabulary
// order, and statistics break frequency ties by it.
type Vocabulary []string

// DefaultVocabulary returns the built-in Warhammer 40K term list.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"Space Marine", "Chaos", "Eldar", "Ork", "Tau", "Imperial Guard",
		"Adeptus Astartes", "Adeptus Mechanicus", "Inquisition", "Emperor",
		"Horus Heresy", "Primarch", "Chapter", "Legion", "Warp", "Psyker",
		"Bolter", "Chainsword", "Power Armour", "Terminator", "Dreadnought",
		"Titan", "Knight", "Baneblade", "Leman Russ", "Rhino", "Land Raider",
	}
}

// LoadVocabulary reads an ordered term list from a YAML file.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "processor: read vocabulary %s", path)
	}
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, eris.Wrapf(err, "processor: parse vocabulary %s", path)
	}
	if len(v) == 0 {
		return nil, eris.Errorf("processor: vocabulary %s is empty", path)
	}
	return v, nil
}

// ExtractKeyTerms returns the vocabulary terms present in content as
// case-insensitive substrings, in vocabulary order rather than order of
// appearance.
func (v Vocabulary) ExtractKeyTerms(content string) []string {
	lower := strings.ToLower(content)
	var found []string
	for _, term := range v {
		if strings.Contains(lower, strings.ToLower(term)) {
			found = append(found, term)
		}
	}
	return found
}

// Index returns the position of a term in the vocabulary, or len(v) for
// unknown terms so they sort last.
func (v Vocabulary) Index(term string) int {
	for i, t := range v {
		if t == term {
			return i
		}
	}
	return len(v)
}
