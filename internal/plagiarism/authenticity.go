package plagiarism

import (
	"fmt"
	"math"
	"strings"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

const (
	authenticityBar      = 60.0
	authenticityMinWords = 30
)

// analyzeAuthenticity checks whether the text reads like one consistent
// child wrote it: stable voice across paragraphs, expectations for the
// stated age, a single set of cultural markers and a dominant tense.
// A patchwork of borrowed passages tends to fail at least one of these.
func analyzeAuthenticity(doc textutil.Doc, age int, kb *knowledge.Base) subResult {
	out := subResult{}
	if len(doc.Words) < authenticityMinWords {
		return out
	}

	checks := []struct {
		name  string
		score float64
	}{
		{"personality consistency", personalityConsistency(doc, kb)},
		{"age appropriateness", ageAppropriateness(doc, age, kb)},
		{"cultural marker consistency", culturalConsistency(doc, kb)},
		{"temporal consistency", temporalConsistency(doc)},
	}

	for _, c := range checks {
		if c.score >= authenticityBar {
			continue
		}
		out.Deduction += (authenticityBar - c.score) * 0.5
		out.Findings = append(out.Findings, Finding{
			Type:       FindingConcept,
			Severity:   SeverityModerate,
			Confidence: int(clampScore(authenticityBar - c.score + 45)),
			Source:     "content authenticity analysis",
			Explanation: fmt.Sprintf("%s scored %.0f/100; the text does not read like one consistent author",
				c.name, c.score),
		})
	}
	return out
}

// paragraphTraits capture the voice of one paragraph on four axes.
type paragraphTraits struct {
	formality  float64
	tone       float64
	vocabulary float64
	complexity float64
}

func personalityConsistency(doc textutil.Doc, kb *knowledge.Base) float64 {
	if len(doc.Paragraphs) < 2 {
		return 100
	}
	traits := make([]paragraphTraits, 0, len(doc.Paragraphs))
	for _, p := range doc.Paragraphs {
		words := textutil.Words(p)
		if len(words) < 5 {
			continue
		}
		formal := 0
		totalLen := 0
		for _, w := range words {
			if _, ok := kb.FormalConnectives[w]; ok {
				formal++
			}
			totalLen += len(w)
		}
		traits = append(traits, paragraphTraits{
			formality:  float64(formal) / float64(len(words)),
			tone:       float64(textutil.ExclamationCount(p)) / float64(len(words)),
			vocabulary: textutil.TypeTokenRatio(words),
			complexity: float64(totalLen) / float64(len(words)) / 10.0,
		})
	}
	if len(traits) < 2 {
		return 100
	}

	totalDist := 0.0
	pairs := 0
	for i := 0; i < len(traits); i++ {
		for j := i + 1; j < len(traits); j++ {
			totalDist += traitDistance(traits[i], traits[j])
			pairs++
		}
	}
	meanDist := totalDist / float64(pairs)
	return clampScore(100 - meanDist*220)
}

func traitDistance(a, b paragraphTraits) float64 {
	return math.Sqrt(
		sq(a.formality-b.formality) +
			sq(a.tone-b.tone) +
			sq(a.vocabulary-b.vocabulary) +
			sq(a.complexity-b.complexity))
}

func sq(v float64) float64 { return v * v }

func ageAppropriateness(doc textutil.Doc, age int, kb *knowledge.Base) float64 {
	band := kb.BandFor(age)
	score := 100.0

	if ratio := textutil.ComplexWordRatio(doc.Words); ratio > band.MaxComplexRatio {
		score -= math.Min(30, (ratio-band.MaxComplexRatio)*250)
	}
	if mean, _ := textutil.SentenceLengthStats(doc.Normalized); mean > band.MaxAvgSentenceLen {
		score -= math.Min(25, (mean-band.MaxAvgSentenceLen)*3)
	}
	if !topicMatchesBand(doc, band) {
		score -= 10
	}
	// Grammar axis: flawless long text from a young writer is itself odd.
	if age <= 9 && len(doc.Words) > 120 && textutil.RepeatedPunctCount(doc.Normalized) == 0 &&
		textutil.ContractionCount(doc.Normalized) == 0 {
		score -= 15
	}
	return clampScore(score)
}

func topicMatchesBand(doc textutil.Doc, band knowledge.AgeBand) bool {
	if len(band.TypicalTopics) == 0 {
		return true
	}
	lower := strings.ToLower(doc.Normalized)
	for _, topic := range band.TypicalTopics {
		if strings.Contains(lower, topic) {
			return true
		}
	}
	// Absence of typical topics is weak evidence; only treat clearly adult
	// subject matter as a mismatch.
	for w := range adultTopics {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}

var adultTopics = map[string]struct{}{
	"mortgage": {}, "taxes": {}, "divorce": {}, "bureaucracy": {}, "existential": {},
}

func culturalConsistency(doc textutil.Doc, kb *knowledge.Base) float64 {
	counts := map[string]int{}
	total := 0
	freq := map[string]int{}
	for _, w := range doc.Words {
		freq[w]++
	}
	for culture, markers := range kb.CulturalMarkers {
		for _, m := range markers {
			if n := freq[m]; n > 0 {
				counts[culture] += n
				total += n
			}
		}
	}
	if total < 2 {
		return 100
	}
	dominant := 0
	for _, n := range counts {
		if n > dominant {
			dominant = n
		}
	}
	return clampScore(float64(dominant) / float64(total) * 100)
}

var pastTenseMarkers = []string{"was", "were", "had", "said", "went", "saw", "found", "looked", "ran", "walked", "did"}
var presentTenseMarkers = []string{"is", "are", "has", "says", "goes", "sees", "finds", "looks", "runs", "walks", "does"}

func temporalConsistency(doc textutil.Doc) float64 {
	freq := map[string]int{}
	for _, w := range doc.Words {
		freq[w]++
	}
	past, present := 0, 0
	for _, m := range pastTenseMarkers {
		past += freq[m]
	}
	for _, m := range presentTenseMarkers {
		present += freq[m]
	}
	total := past + present
	if total < 3 {
		return 100
	}
	dominant := past
	if present > dominant {
		dominant = present
	}
	return clampScore(float64(dominant) / float64(total) * 100)
}
