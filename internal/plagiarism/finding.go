package plagiarism

// FindingType classifies how a passage appears to be borrowed.
type FindingType string

const (
	FindingExactMatch FindingType = "exact_match"
	FindingParaphrase FindingType = "paraphrase"
	FindingStructure  FindingType = "structure"
	FindingConcept    FindingType = "concept"
)

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityCritical Severity = "critical"
)

// Span points at the offending region as byte offsets into the normalized
// content. A zero span means the finding covers the whole text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type Finding struct {
	Type        FindingType `json:"type"`
	Severity    Severity    `json:"severity"`
	Confidence  int         `json:"confidence"`
	Source      string      `json:"source"`
	Span        Span        `json:"span"`
	Explanation string      `json:"explanation"`
}

// RiskLevel is the plagiarism-side risk classification.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Result is the combined outcome of the five sub-analyses.
type Result struct {
	OriginalityScore float64   `json:"originalityScore"`
	RiskLevel        RiskLevel `json:"riskLevel"`
	Findings         []Finding `json:"findings"`
}

// subResult is one sub-analysis' contribution: a deduction from the
// originality score plus zero or more findings.
type subResult struct {
	Deduction float64
	Findings  []Finding
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
