// Package integrity merges the AI-detection and plagiarism results into one
// risk classification. The child-facing status is governed by an explicit
// PassPolicy: learners always see PASS, and elevated risk is routed to human
// reviewers through admin flags and a mentor note instead.
package integrity

import (
	"fmt"
	"strings"

	"storygrade/internal/aidetect"
	"storygrade/internal/plagiarism"
)

// RiskTier is the overall integrity classification.
type RiskTier string

const (
	RiskLow      RiskTier = "low"
	RiskMedium   RiskTier = "medium"
	RiskHigh     RiskTier = "high"
	RiskCritical RiskTier = "critical"
)

// Admin flag tags consumed by the reviewer surface.
const (
	FlagAIDetectionHigh   = "AI_DETECTION_HIGH"
	FlagIntegrityConcerns = "INTEGRITY_CONCERNS"
	FlagLowOriginality    = "LOW_ORIGINALITY"
	FlagPlagiarismRisk    = "PLAGIARISM_RISK"
)

// PassPolicy names the child-facing verdict rule. BlockOnCritical exists so
// the product decision is a visible switch rather than a buried branch; it
// defaults to false and nothing in this repo enables it.
type PassPolicy struct {
	BlockOnCritical bool `json:"blockOnCritical" yaml:"block_on_critical"`
}

const (
	StatusPass    = "PASS"
	StatusBlocked = "BLOCKED"
)

type Verdict struct {
	OriginalityScore    float64              `json:"originalityScore"`
	AILikelihoodPercent float64              `json:"aiLikelihoodPercent"`
	AILikelihoodTier    aidetect.Tier        `json:"aiLikelihoodTier"`
	PlagiarismRiskTier  plagiarism.RiskLevel `json:"plagiarismRiskTier"`
	OverallRiskTier     RiskTier             `json:"overallRiskTier"`
	ChildFacingStatus   string               `json:"childFacingStatus"`
	AdminFlags          []string             `json:"adminFlags"`
	MentorNote          string               `json:"mentorNote"`
	Recommendation      string               `json:"recommendation"`
}

const suspiciousAIScore = 40.0

// Compose merges the two branches. When the AI-detection side alone is
// already suspicious (human-like score below 40), its weight shifts to 0.7
// so a clean plagiarism pass cannot mask strong AI evidence.
func Compose(ai aidetect.Result, plag plagiarism.Result, policy PassPolicy) Verdict {
	aiWeight, plagWeight := 0.4, 0.6
	if ai.HumanLikeScore < suspiciousAIScore {
		aiWeight, plagWeight = 0.7, 0.3
	}
	originality := clampScore(aiWeight*ai.HumanLikeScore + plagWeight*plag.OriginalityScore)

	overall := overallTier(ai.Tier, plag.RiskLevel, originality)

	flags := []string{}
	if ai.Tier.AtLeast(aidetect.TierHigh) {
		flags = append(flags, FlagAIDetectionHigh)
	}
	if plag.RiskLevel == plagiarism.RiskHigh || plag.RiskLevel == plagiarism.RiskCritical {
		flags = append(flags, FlagPlagiarismRisk)
	}
	if originality < 70 {
		flags = append(flags, FlagLowOriginality)
	}
	if overall == RiskHigh || overall == RiskCritical {
		flags = append(flags, FlagIntegrityConcerns)
	}

	status := StatusPass
	if policy.BlockOnCritical && overall == RiskCritical {
		status = StatusBlocked
	}

	return Verdict{
		OriginalityScore:    originality,
		AILikelihoodPercent: ai.AILikelihoodPercent,
		AILikelihoodTier:    ai.Tier,
		PlagiarismRiskTier:  plag.RiskLevel,
		OverallRiskTier:     overall,
		ChildFacingStatus:   status,
		AdminFlags:          flags,
		MentorNote:          mentorNote(ai, plag, overall, originality),
		Recommendation:      recommendation(overall),
	}
}

// overallTier applies strict precedence: AI evidence first, then plagiarism
// risk, then originality thresholds.
func overallTier(aiTier aidetect.Tier, plagRisk plagiarism.RiskLevel, originality float64) RiskTier {
	switch {
	case aiTier == aidetect.TierVeryHigh:
		return RiskCritical
	case aiTier == aidetect.TierHigh:
		return RiskHigh
	case aiTier == aidetect.TierMedium && originality < 70:
		return RiskHigh
	case plagRisk == plagiarism.RiskCritical:
		return RiskCritical
	case plagRisk == plagiarism.RiskHigh:
		return RiskHigh
	case originality < 50:
		return RiskCritical
	case originality < 70:
		return RiskHigh
	case originality < 85:
		return RiskMedium
	default:
		return RiskLow
	}
}

func mentorNote(ai aidetect.Result, plag plagiarism.Result, overall RiskTier, originality float64) string {
	if overall == RiskLow {
		return "No integrity concerns; the submission reads as original child work."
	}
	parts := []string{fmt.Sprintf("Overall risk %s (originality %.0f/100, AI likelihood %.0f%%).",
		overall, originality, ai.AILikelihoodPercent)}
	if len(ai.Indicators) > 0 {
		limit := min(3, len(ai.Indicators))
		parts = append(parts, "AI signals: "+strings.Join(ai.Indicators[:limit], "; ")+".")
	}
	if len(plag.Findings) > 0 {
		limit := min(2, len(plag.Findings))
		explanations := make([]string, 0, limit)
		for _, f := range plag.Findings[:limit] {
			explanations = append(explanations, f.Explanation)
		}
		parts = append(parts, "Plagiarism findings: "+strings.Join(explanations, "; ")+".")
	}
	parts = append(parts, "Please review before treating scores as a measure of the child's own writing.")
	return strings.Join(parts, " ")
}

func recommendation(overall RiskTier) string {
	switch overall {
	case RiskCritical:
		return "Route to a mentor for a one-on-one conversation about original writing before the next submission."
	case RiskHigh:
		return "Have a mentor review this submission and encourage the writer to describe events in their own words."
	case RiskMedium:
		return "Spot-check the flagged passages; a gentle reminder about original wording may help."
	default:
		return "No action needed."
	}
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

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
