package aidetect

// Method names one of the four independent detection heuristics.
type Method string

const (
	MethodPattern     Method = "pattern"
	MethodLinguistic  Method = "linguistic"
	MethodStatistical Method = "statistical"
	MethodAdvisory    Method = "advisory"
)

// Signal is one detector's opinion before combination. Score is 0-100 but
// may exceed 100 internally; the combiner clamps after weighting.
type Signal struct {
	Method     Method   `json:"method"`
	Score      float64  `json:"score"`
	Indicators []string `json:"indicators"`
	Confidence float64  `json:"confidence,omitempty"`
}

// Tier is the ordered AI-likelihood classification.
type Tier string

const (
	TierVeryLow  Tier = "very_low"
	TierLow      Tier = "low"
	TierMedium   Tier = "medium"
	TierHigh     Tier = "high"
	TierVeryHigh Tier = "very_high"
)

var tierRank = map[Tier]int{
	TierVeryLow:  0,
	TierLow:      1,
	TierMedium:   2,
	TierHigh:     3,
	TierVeryHigh: 4,
}

// AtLeast reports whether t is the same tier as other or more severe.
func (t Tier) AtLeast(other Tier) bool {
	return tierRank[t] >= tierRank[other]
}

// Result is the combined AI-detection outcome for one submission.
type Result struct {
	AILikelihoodPercent float64  `json:"aiLikelihoodPercent"`
	HumanLikeScore      float64  `json:"humanLikeScore"`
	Tier                Tier     `json:"tier"`
	Indicators          []string `json:"indicators"`
	Signals             []Signal `json:"signals"`
}

type Logger interface {
	Log(level, stage, message, detail string)
}

func addIndicator(indicators []string, seen map[string]struct{}, text string) []string {
	if _, ok := seen[text]; ok {
		return indicators
	}
	seen[text] = struct{}{}
	return append(indicators, text)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
