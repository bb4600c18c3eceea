package plagiarism

import (
	"fmt"
	"math"
	"strings"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

const (
	structuralMinSentences  = 5
	structuralUniformSD     = 2.5
	structuralUniformDeduct = 10.0
	structuralSimilarityBar = 0.90
	structuralSimilarDeduct = 8.0
	structuralMinParagraphs = 3
)

var transitionMarkers = []string{"then", "next", "after", "later", "meanwhile", "suddenly"}
var conclusionMarkers = []string{"finally", "in the end", "at last", "ever after", "the end"}

// analyzeStructure flags template-like shape: sentence lengths that barely
// vary across the whole text, and paragraphs that all share the same
// structural profile.
func analyzeStructure(doc textutil.Doc, _ int, _ *knowledge.Base) subResult {
	out := subResult{}

	lengths := textutil.SentenceLengths(doc.Normalized)
	if len(lengths) >= structuralMinSentences {
		mean, sd := textutil.MeanStd(lengths)
		if sd < structuralUniformSD {
			out.Deduction += structuralUniformDeduct
			out.Findings = append(out.Findings, Finding{
				Type:       FindingStructure,
				Severity:   SeverityMinor,
				Confidence: 60,
				Source:     "structural pattern analysis",
				Explanation: fmt.Sprintf("sentence lengths are unnaturally uniform across the text (mean %.1f, sd %.1f)",
					mean, sd),
			})
		}
	}

	if len(doc.Paragraphs) >= structuralMinParagraphs {
		shapes := make([]paragraphShape, len(doc.Paragraphs))
		for i, p := range doc.Paragraphs {
			shapes[i] = shapeOf(p)
		}
		similarPairs := 0
		pairs := 0
		for i := 0; i < len(shapes); i++ {
			for j := i + 1; j < len(shapes); j++ {
				pairs++
				if shapeSimilarity(shapes[i], shapes[j]) >= structuralSimilarityBar {
					similarPairs++
				}
			}
		}
		if pairs > 0 && float64(similarPairs)/float64(pairs) > 0.5 {
			out.Deduction += structuralSimilarDeduct
			out.Findings = append(out.Findings, Finding{
				Type:       FindingStructure,
				Severity:   SeverityModerate,
				Confidence: 65,
				Source:     "structural pattern analysis",
				Explanation: fmt.Sprintf("%d of %d paragraph pairs share nearly identical shape (sentence count, length, markers)",
					similarPairs, pairs),
			})
		}
	}

	return out
}

type paragraphShape struct {
	sentenceCount float64
	avgLength     float64
	hasTransition bool
	hasConclusion bool
}

func shapeOf(paragraph string) paragraphShape {
	lengths := textutil.SentenceLengths(paragraph)
	mean, _ := textutil.MeanStd(lengths)
	lower := strings.ToLower(paragraph)
	return paragraphShape{
		sentenceCount: float64(len(lengths)),
		avgLength:     mean,
		hasTransition: containsAny(lower, transitionMarkers),
		hasConclusion: containsAny(lower, conclusionMarkers),
	}
}

func shapeSimilarity(a, b paragraphShape) float64 {
	countDiff := relDiff(a.sentenceCount, b.sentenceCount)
	lengthDiff := relDiff(a.avgLength, b.avgLength)
	markerMatch := 0.0
	if a.hasTransition == b.hasTransition {
		markerMatch += 0.5
	}
	if a.hasConclusion == b.hasConclusion {
		markerMatch += 0.5
	}
	return 0.4*(1-countDiff) + 0.4*(1-lengthDiff) + 0.2*markerMatch
}

func relDiff(a, b float64) float64 {
	larger := math.Max(math.Abs(a), math.Abs(b))
	if larger == 0 {
		return 0
	}
	return clamp01(math.Abs(a-b) / larger)
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
