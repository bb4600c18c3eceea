package aidetect

import (
	"fmt"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

const (
	uniformityPenalty       = 30.0
	complexityPenalty       = 25.0
	youngComplexityPenalty  = 40.0
	formalConnectivePenalty = 10.0
	cannedTransitionPenalty = 8.0
	uniformitySDThreshold   = 3.0
	uniformityMeanThreshold = 12.0
	youngComplexityMaxAge   = 10
)

// analyzeLinguistic scores sentence-length uniformity, vocabulary complexity
// against age expectations and formal/canned connective density. Children
// write unevenly; machine prose is level.
func analyzeLinguistic(doc textutil.Doc, age int, kb *knowledge.Base) Signal {
	score := 0.0
	indicators := []string{}
	seen := map[string]struct{}{}

	mean, sd := textutil.SentenceLengthStats(doc.Normalized)
	if len(doc.Sentences) >= 3 && sd < uniformitySDThreshold && mean > uniformityMeanThreshold {
		score += uniformityPenalty
		indicators = addIndicator(indicators, seen,
			fmt.Sprintf("sentence lengths are unusually uniform (mean %.1f, sd %.1f)", mean, sd))
	}

	band := kb.BandFor(age)
	complexRatio := textutil.ComplexWordRatio(doc.Words)
	if complexRatio > band.MaxComplexRatio {
		penalty := complexityPenalty
		if age <= youngComplexityMaxAge {
			penalty = youngComplexityPenalty
		}
		score += penalty
		indicators = addIndicator(indicators, seen,
			fmt.Sprintf("vocabulary complexity %.0f%% exceeds the expectation for age %d", complexRatio*100, age))
	}

	formal := 0
	canned := 0
	for _, w := range doc.Words {
		if _, ok := kb.FormalConnectives[w]; ok {
			formal++
		}
		if _, ok := kb.NarrativeTransitions[w]; ok {
			canned++
		}
	}
	if formal > 0 {
		score += formalConnectivePenalty * float64(formal)
		indicators = addIndicator(indicators, seen,
			fmt.Sprintf("formal connectives appear %d time(s)", formal))
	}
	if canned > 0 {
		score += cannedTransitionPenalty * float64(canned)
		indicators = addIndicator(indicators, seen,
			fmt.Sprintf("canned narrative transitions appear %d time(s)", canned))
	}

	return Signal{Method: MethodLinguistic, Score: score, Indicators: indicators}
}
