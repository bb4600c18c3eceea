package aidetect

import (
	"fmt"
	"sort"
	"strings"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

const (
	favoredVocabPenalty  = 20.0
	multipleFavoredBonus = 15.0
	statSentencePenalty  = 20.0
	statLongWordPenalty  = 15.0
	tooCleanPenalty      = 15.0
	tooCleanMinWords     = 50
)

// analyzeStatistical works from the word-frequency table: matches against the
// curated AI-favored vocabulary, re-checks age/sentence complexity (the
// overlap with the linguistic pass is deliberate redundancy) and looks for
// the absence of natural writing artifacts.
func analyzeStatistical(doc textutil.Doc, age int, kb *knowledge.Base) Signal {
	score := 0.0
	indicators := []string{}
	seen := map[string]struct{}{}

	freq := map[string]int{}
	for _, w := range doc.Words {
		freq[w]++
	}

	matched := make([]string, 0, 4)
	for w := range freq {
		if _, ok := kb.AIFavoredVocabulary[w]; ok {
			matched = append(matched, w)
		}
	}
	sort.Strings(matched)
	for _, w := range matched {
		score += favoredVocabPenalty * float64(freq[w])
	}
	if len(matched) > 0 {
		indicators = addIndicator(indicators, seen,
			fmt.Sprintf("AI-favored vocabulary: %s", strings.Join(matched, ", ")))
	}
	if len(matched) > 1 {
		score += multipleFavoredBonus
	}

	band := kb.BandFor(age)
	mean, _ := textutil.SentenceLengthStats(doc.Normalized)
	if mean > band.MaxAvgSentenceLen {
		score += statSentencePenalty
		indicators = addIndicator(indicators, seen,
			fmt.Sprintf("sentence complexity above the norm for age %d", age))
	}
	if textutil.LongWordRatio(doc.Words, 8) > band.MaxLongWordRatio {
		score += statLongWordPenalty
		indicators = addIndicator(indicators, seen,
			fmt.Sprintf("long-word ratio above the norm for age %d", age))
	}

	if len(doc.Words) >= tooCleanMinWords &&
		textutil.ContractionCount(doc.Normalized) == 0 &&
		textutil.RepeatedPunctCount(doc.Normalized) == 0 {
		score += tooCleanPenalty
		indicators = addIndicator(indicators, seen,
			"text is suspiciously clean: no contractions or repeated punctuation")
	}

	return Signal{Method: MethodStatistical, Score: score, Indicators: indicators}
}
