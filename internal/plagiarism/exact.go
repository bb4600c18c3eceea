package plagiarism

import (
	"fmt"
	"strings"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

// analyzeExactMatches scans the content against the curated phrase-to-source
// lookup. Each distinct source hit deducts in proportion to how often that
// source is known to be lifted.
func analyzeExactMatches(doc textutil.Doc, _ int, kb *knowledge.Base) subResult {
	lower := strings.ToLower(doc.Normalized)
	out := subResult{}
	for _, src := range kb.KnownSources {
		idx := strings.Index(lower, src.Phrase)
		if idx < 0 {
			continue
		}
		out.Deduction += float64(src.ReuseRisk) * 0.3
		out.Findings = append(out.Findings, Finding{
			Type:       FindingExactMatch,
			Severity:   severityForReuseRisk(src.ReuseRisk),
			Confidence: src.ReuseRisk,
			Source:     src.Source,
			Span:       Span{Start: idx, End: idx + len(src.Phrase)},
			Explanation: fmt.Sprintf("matches the %s %q from %s",
				strings.ReplaceAll(src.Kind, "_", " "), src.Phrase, src.Source),
		})
	}
	return out
}

func severityForReuseRisk(risk int) Severity {
	switch {
	case risk >= 90:
		return SeverityCritical
	case risk >= 75:
		return SeveritySevere
	case risk >= 55:
		return SeverityModerate
	default:
		return SeverityMinor
	}
}
