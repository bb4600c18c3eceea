package aidetect

import (
	"fmt"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

// Penalty schedule for the pattern detector. Matched phrase instances stack;
// the distinct-match bonus keeps a single scattered hit from reading as noise
// while several different patterns read as a fingerprint.
const (
	patternMatchPenalty   = 30.0
	distinctMatchBonus    = 25.0
	advancedVocabPenalty  = 35.0
	sentenceLengthPenalty = 20.0
	tooPerfectPenalty     = 20.0

	youngWriterMaxAge     = 12
	informalCheckMinWords = 40
)

func analyzePatterns(doc textutil.Doc, age int, kb *knowledge.Base) Signal {
	score := 0.0
	indicators := []string{}
	seen := map[string]struct{}{}

	distinct := 0
	for _, p := range kb.AIPatterns {
		matches := p.Regex.FindAllStringIndex(doc.Normalized, -1)
		if len(matches) == 0 {
			continue
		}
		distinct++
		score += patternMatchPenalty * float64(len(matches))
		indicators = addIndicator(indicators, seen, p.Label)
	}
	if distinct > 0 {
		// Flat bonus so trickling one pattern at a time does not evade the
		// per-match penalty.
		score += distinctMatchBonus
	}

	if age <= youngWriterMaxAge {
		for _, w := range doc.Words {
			if _, ok := kb.AdvancedVocabulary[w]; ok {
				score += advancedVocabPenalty
				indicators = addIndicator(indicators, seen,
					fmt.Sprintf("advanced vocabulary (%q) unusual for age %d", w, age))
				break
			}
		}
	}

	band := kb.BandFor(age)
	mean, _ := textutil.SentenceLengthStats(doc.Normalized)
	if mean > band.MaxAvgSentenceLen {
		score += sentenceLengthPenalty
		indicators = addIndicator(indicators, seen,
			fmt.Sprintf("average sentence length %.1f exceeds the %.0f-word ceiling for age %d", mean, band.MaxAvgSentenceLen, age))
	}

	if len(doc.Words) >= informalCheckMinWords && textutil.InformalMarkerCount(doc.Normalized) == 0 {
		score += tooPerfectPenalty
		indicators = addIndicator(indicators, seen,
			"no informal markers (contractions, ellipses, exclamations) in a non-trivial text")
	}

	return Signal{Method: MethodPattern, Score: score, Indicators: indicators}
}
