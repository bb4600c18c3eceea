package aidetect

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

// Generator is the single injected external text-generation capability. The
// core never depends on any provider shape beyond this signature.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	advisoryFallbackScore   = 85.0
	advisoryShortCircuit    = 95.0
	advisoryAmbiguousFloor  = 60.0
	advisoryPrecheckMatches = 2
	advisorySampleWords     = 400
)

var (
	firstIntPattern = regexp.MustCompile(`\b\d{1,3}\b`)
	bareIntPattern  = regexp.MustCompile(`^\d{1,3}$`)
)

// AdvisoryScorer wraps a Generator with a local fast path and a
// timeout-bounded deterministic fallback. It never fails: a dead or
// malformed provider degrades to a fixed high-suspicion score.
type AdvisoryScorer struct {
	Gen     Generator
	Timeout time.Duration
	Logger  Logger
}

const advisoryPromptTemplate = `SYSTEM: You are a strict examiner of children's writing.
TASK: Rate the following text 0-100 for the likelihood it was machine-generated rather than written by a %d-year-old child.
Be strict about vocabulary or sentence complexity that does not match the stated age.
OUTPUT: a single integer, nothing else.

TEXT:
%s`

func (a *AdvisoryScorer) Score(ctx context.Context, doc textutil.Doc, age int, kb *knowledge.Base) Signal {
	lower := strings.ToLower(doc.Normalized)
	obvious := []string{}
	for _, phrase := range kb.ObviousAIPhrases {
		if strings.Contains(lower, phrase) {
			obvious = append(obvious, phrase)
		}
	}
	if len(obvious) >= advisoryPrecheckMatches {
		// No point paying for the external opinion.
		return Signal{
			Method:     MethodAdvisory,
			Score:      advisoryShortCircuit,
			Confidence: 0.9,
			Indicators: []string{fmt.Sprintf("obvious AI phrasing: %s", strings.Join(obvious, "; "))},
		}
	}

	if a.Gen == nil {
		return a.fallback("advisory capability not configured")
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := fmt.Sprintf(advisoryPromptTemplate, age, textutil.FirstWords(doc.Normalized, advisorySampleWords))
	response, err := a.Gen.Generate(callCtx, prompt)
	if err != nil {
		return a.fallback("advisory call failed: " + err.Error())
	}

	score, confidence, ok := parseAdvisoryScore(response)
	if !ok {
		return a.fallback("advisory response had no usable score")
	}
	return Signal{
		Method:     MethodAdvisory,
		Score:      clampPercent(score),
		Confidence: confidence,
		Indicators: []string{fmt.Sprintf("advisory model rated AI likelihood at %.0f", clampPercent(score))},
	}
}

// parseAdvisoryScore extracts a 0-100 rating from free text. A bare integer
// is trusted as-is; an integer buried in prose or in a JSON object is
// treated as ambiguous and floored upward to stay cautious.
func parseAdvisoryScore(response string) (score, confidence float64, ok bool) {
	trimmed := strings.TrimSpace(response)
	if bareIntPattern.MatchString(trimmed) {
		v, err := strconv.Atoi(trimmed)
		if err == nil && v >= 0 && v <= 100 {
			return float64(v), 0.8, true
		}
	}

	// Lenient repair: some providers wrap the rating in JSON despite the
	// prompt. Try {"score": n} before scanning for any integer.
	if obj := extractJSONObject(trimmed); obj != "" {
		var parsed struct {
			Score *float64 `json:"score"`
		}
		if err := json.Unmarshal([]byte(obj), &parsed); err == nil && parsed.Score != nil {
			v := *parsed.Score
			if v >= 0 && v <= 100 {
				return maxFloat(v, advisoryAmbiguousFloor), 0.6, true
			}
		}
	}

	if m := firstIntPattern.FindString(trimmed); m != "" {
		v, err := strconv.Atoi(m)
		if err == nil && v >= 0 && v <= 100 {
			return maxFloat(float64(v), advisoryAmbiguousFloor), 0.5, true
		}
	}
	return 0, 0, false
}

func (a *AdvisoryScorer) fallback(reason string) Signal {
	if a.Logger != nil {
		a.Logger.Log("RISK", "ADVISORY", "advisory fallback engaged", reason)
	}
	return Signal{
		Method:     MethodAdvisory,
		Score:      advisoryFallbackScore,
		Confidence: 0.3,
		Indicators: []string{"advisory opinion unavailable; assuming high suspicion"},
	}
}

func extractJSONObject(s string) string {
	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) >= 3 {
			s = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
