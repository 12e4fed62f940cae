package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidence_HedgingShortCircuits(t *testing.T) {
	context := "the emperor protects the imperium"

	tests := []struct {
		name   string
		answer string
	}{
		{"dont know", "I don't know the answer to that."},
		{"not enough information", "There is not enough information in the context."},
		{"hedge beats overlap", "I don't know, but the emperor protects the imperium."},
		{"empty answer", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0.3, Confidence(tt.answer, context, "who protects?"))
		})
	}
}

func TestConfidence_BaseWithNoOverlap(t *testing.T) {
	got := Confidence("xyzzy plugh", "completely different words", "q")
	assert.InDelta(t, 0.4, got, 1e-9)
}

func TestConfidence_OverlapAndIndicators(t *testing.T) {
	context := "the emperor protects humanity from the warp"

	// Four distinct overlapping words (the, emperor, protects, humanity)
	// and one indicator phrase: 0.4 + 4*0.05 + 0.1 = 0.7.
	answer := "According to the lore the emperor protects humanity"
	got := Confidence(answer, context, "who protects humanity?")
	assert.InDelta(t, 0.7, got, 1e-9)
}

func TestConfidence_RepeatedWordsCountOnce(t *testing.T) {
	context := "warp warp warp"
	answer := "warp warp warp warp"
	// One distinct overlapping word: 0.4 + 0.05.
	assert.InDelta(t, 0.45, Confidence(answer, context, "q"), 1e-9)
}

func TestConfidence_ClippedAtMax(t *testing.T) {
	context := strings.Repeat("alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu ", 2)
	answer := "according to specifically in particular " + context
	got := Confidence(answer, context, "q")
	assert.Equal(t, 0.9, got)
}

func TestConfidence_Monotonic(t *testing.T) {
	context := "alpha beta gamma delta"

	low := Confidence("alpha", context, "q")
	high := Confidence("alpha beta gamma", context, "q")
	assert.Greater(t, high, low)
}
