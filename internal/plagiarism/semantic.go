package plagiarism

import (
	"fmt"
	"math"
	"strings"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

const (
	semanticWindowSentences = 3
	semanticWindowStep      = 1
	semanticMinWindowWords  = 8
	semanticFlagThreshold   = 70.0
	semanticMaxDeduction    = 30.0
)

// analyzeSemanticChunks slides overlapping three-sentence windows over the
// text and scores each by a blend of concept density, lexical diversity,
// information entropy and age fit. Low-information windows read like
// paraphrased boilerplate rather than a child telling a story.
func analyzeSemanticChunks(doc textutil.Doc, age int, kb *knowledge.Base) subResult {
	out := subResult{}
	windows := textutil.SlidingSentenceWindows(doc.Sentences, semanticWindowSentences, semanticWindowStep)
	band := kb.BandFor(age)

	totalDeduction := 0.0
	for _, w := range windows {
		words := textutil.Words(w.Text)
		if len(words) < semanticMinWindowWords {
			continue
		}
		score := windowBlendScore(words, band)
		if score >= semanticFlagThreshold {
			continue
		}
		totalDeduction += (semanticFlagThreshold - score) * 0.5
		out.Findings = append(out.Findings, Finding{
			Type:       FindingParaphrase,
			Severity:   SeverityModerate,
			Confidence: int(clampScore(semanticFlagThreshold - score + 40)),
			Source:     "semantic chunk analysis",
			Span:       spanForText(doc.Normalized, w.Text),
			Explanation: fmt.Sprintf("sentences %d-%d score %.0f/100 on originality blend (low concept density or repetitive wording)",
				w.StartSentence+1, w.EndSentence, score),
		})
	}
	if totalDeduction > semanticMaxDeduction {
		totalDeduction = semanticMaxDeduction
	}
	out.Deduction = totalDeduction
	return out
}

func windowBlendScore(words []string, band knowledge.AgeBand) float64 {
	unique := map[string]struct{}{}
	for _, w := range words {
		unique[w] = struct{}{}
	}
	conceptDensity := float64(len(unique)) / float64(len(words))

	// Type-token ratio decays with length; normalize so longer windows are
	// not punished just for being longer.
	ttr := textutil.TypeTokenRatio(words)
	lengthAdj := math.Sqrt(float64(len(words)) / 20.0)
	lexDiversity := clamp01(ttr * lengthAdj)

	maxEntropy := math.Log2(float64(len(words)))
	entropyNorm := 1.0
	if maxEntropy > 0 {
		entropyNorm = textutil.Entropy(words) / maxEntropy
	}

	ageFit := 1.0
	if ratio := textutil.ComplexWordRatio(words); ratio > band.MaxComplexRatio {
		ageFit = clamp01(1.0 - (ratio-band.MaxComplexRatio)*4)
	}

	return 100 * (0.30*conceptDensity + 0.30*lexDiversity + 0.25*entropyNorm + 0.15*ageFit)
}

// spanForText locates a window's first sentence inside the normalized
// content. Windows joined with synthetic separators will not match verbatim,
// so anchor on the leading fragment.
func spanForText(content, windowText string) Span {
	anchor := windowText
	if cut := strings.IndexByte(anchor, '.'); cut > 0 {
		anchor = anchor[:cut]
	}
	anchor = strings.TrimSpace(anchor)
	if anchor == "" {
		return Span{}
	}
	idx := strings.Index(content, anchor)
	if idx < 0 {
		return Span{}
	}
	return Span{Start: idx, End: idx + len(windowText)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
