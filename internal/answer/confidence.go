package answer

import "strings"

// Confidence heuristic constants. The score is a trust signal for callers,
// not a calibrated probability.
const (
	hedgeConfidence  = 0.3
	baseConfidence   = 0.4
	overlapWeight    = 0.05
	indicatorWeight  = 0.1
	maxConfidence    = 0.9
	emptyCorpusConf  = 0.1
	emptyContextConf = 0.2
)

// hedgePhrases short-circuit the estimate: an answer that hedges gets the
// fixed low score regardless of overlap.
var hedgePhrases = []string{
	"don't know",
	"not enough information",
}

// confidenceIndicators are phrases that signal the answer is grounded in the
// provided context; each occurrence adds a fixed boost.
var confidenceIndicators = []string{
	"according to", "as mentioned", "specifically", "in particular",
	"the lore states", "it is known that", "can be found",
}

// Confidence estimates how trustworthy an answer is, purely from the answer
// text, the context it was generated from, and the question. The result is
// in [0, 0.9]: hedging answers score 0.3, everything else starts at 0.4 and
// grows with answer/context word overlap and indicator phrases, clipped at
// 0.9. No external calls; computable entirely offline.
func Confidence(answerText, context, question string) float64 {
	answerLower := strings.ToLower(answerText)
	if answerText == "" {
		return hedgeConfidence
	}
	for _, phrase := range hedgePhrases {
		if strings.Contains(answerLower, phrase) {
			return hedgeConfidence
		}
	}

	boost := 0
	for _, indicator := range confidenceIndicators {
		if strings.Contains(answerLower, indicator) {
			boost++
		}
	}

	contextWords := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(context)) {
		contextWords[w] = struct{}{}
	}
	overlap := 0
	seen := make(map[string]struct{})
	for _, w := range strings.Fields(answerLower) {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		if _, ok := contextWords[w]; ok {
			overlap++
		}
	}

	confidence := baseConfidence + float64(overlap)*overlapWeight + float64(boost)*indicatorWeight
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	return confidence
}
