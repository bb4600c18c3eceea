package plagiarism

import (
	"fmt"
	"strings"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

const (
	fingerprintMinWords      = 30
	semicolonDeduct          = 12.0
	sentenceLengthDeduct     = 10.0
	complexSentenceDeduct    = 8.0
	complexSentenceThreshold = 0.5
)

// analyzeFingerprint builds a stylometric feature vector (function-word
// frequencies, punctuation rates, sentence statistics) and flags features
// that do not fit the stated age. A nine-year-old deploying semicolons is a
// louder signal than any single vocabulary choice.
func analyzeFingerprint(doc textutil.Doc, age int, kb *knowledge.Base) subResult {
	out := subResult{}
	if len(doc.Words) < fingerprintMinWords {
		return out
	}

	fp := fingerprintOf(doc, kb)
	band := kb.BandFor(age)

	if fp.semicolonsPerSentence > 0 && !band.SemicolonsExpected {
		out.Deduction += semicolonDeduct
		out.Findings = append(out.Findings, Finding{
			Type:       FindingConcept,
			Severity:   SeverityModerate,
			Confidence: 70,
			Source:     "linguistic fingerprint analysis",
			Explanation: fmt.Sprintf("semicolon use (%.2f per sentence) is inconsistent with a %d-year-old's writing",
				fp.semicolonsPerSentence, age),
		})
	}

	if fp.avgSentenceLen > band.MaxAvgSentenceLen*1.3 {
		out.Deduction += sentenceLengthDeduct
		out.Findings = append(out.Findings, Finding{
			Type:       FindingConcept,
			Severity:   SeverityModerate,
			Confidence: 65,
			Source:     "linguistic fingerprint analysis",
			Explanation: fmt.Sprintf("average sentence length %.1f is far beyond the %.0f-word norm for age %d",
				fp.avgSentenceLen, band.MaxAvgSentenceLen, age),
		})
	}

	if fp.complexSentenceRatio > complexSentenceThreshold && age <= 12 {
		out.Deduction += complexSentenceDeduct
		out.Findings = append(out.Findings, Finding{
			Type:       FindingConcept,
			Severity:   SeverityMinor,
			Confidence: 55,
			Source:     "linguistic fingerprint analysis",
			Explanation: fmt.Sprintf("%.0f%% of sentences are multi-clause constructions, unusual for age %d",
				fp.complexSentenceRatio*100, age),
		})
	}

	return out
}

type fingerprint struct {
	functionWordFreq      []float64
	commasPerSentence     float64
	semicolonsPerSentence float64
	avgSentenceLen        float64
	complexSentenceRatio  float64
}

var clauseMarkers = []string{",", " because ", " although ", " while ", " which ", " that ", " when "}

func fingerprintOf(doc textutil.Doc, kb *knowledge.Base) fingerprint {
	freq := map[string]int{}
	for _, w := range doc.Words {
		freq[w]++
	}
	perThousand := make([]float64, len(kb.FunctionWords))
	for i, fw := range kb.FunctionWords {
		perThousand[i] = float64(freq[fw]) * 1000.0 / float64(len(doc.Words))
	}

	sentenceCount := len(doc.Sentences)
	if sentenceCount == 0 {
		sentenceCount = 1
	}
	mean, _ := textutil.SentenceLengthStats(doc.Normalized)

	complexCount := 0
	for _, s := range doc.Sentences {
		lower := strings.ToLower(s)
		markers := 0
		for _, m := range clauseMarkers {
			markers += strings.Count(lower, m)
		}
		if markers >= 2 {
			complexCount++
		}
	}

	return fingerprint{
		functionWordFreq:      perThousand,
		commasPerSentence:     float64(strings.Count(doc.Normalized, ",")) / float64(sentenceCount),
		semicolonsPerSentence: float64(strings.Count(doc.Normalized, ";")) / float64(sentenceCount),
		avgSentenceLen:        mean,
		complexSentenceRatio:  float64(complexCount) / float64(sentenceCount),
	}
}
