package integrity

import (
	"math"
	"testing"

	"storygrade/internal/aidetect"
	"storygrade/internal/plagiarism"
)

func aiResult(likelihood float64, tier aidetect.Tier) aidetect.Result {
	return aidetect.Result{
		AILikelihoodPercent: likelihood,
		HumanLikeScore:      100 - likelihood,
		Tier:                tier,
		Indicators:          []string{"test indicator"},
	}
}

func plagResult(originality float64, risk plagiarism.RiskLevel) plagiarism.Result {
	return plagiarism.Result{OriginalityScore: originality, RiskLevel: risk}
}

func TestComposeChildFacingStatusAlwaysPass(t *testing.T) {
	worst := Compose(aiResult(95, aidetect.TierVeryHigh), plagResult(5, plagiarism.RiskCritical), PassPolicy{})
	if worst.ChildFacingStatus != StatusPass {
		t.Fatalf("childFacingStatus = %q, want PASS even at critical risk", worst.ChildFacingStatus)
	}
	if len(worst.AdminFlags) == 0 {
		t.Fatal("critical risk must populate adminFlags")
	}
	if worst.MentorNote == "" {
		t.Fatal("critical risk must populate the mentor note")
	}
}

func TestComposeBlockPolicyOptIn(t *testing.T) {
	v := Compose(aiResult(95, aidetect.TierVeryHigh), plagResult(5, plagiarism.RiskCritical), PassPolicy{BlockOnCritical: true})
	if v.ChildFacingStatus != StatusBlocked {
		t.Fatalf("childFacingStatus = %q, want BLOCKED with the opt-in policy", v.ChildFacingStatus)
	}
}

func TestComposeAdaptiveWeighting(t *testing.T) {
	// Suspicious AI branch (human-like 30 < 40): weights shift to 0.7/0.3,
	// so a clean plagiarism pass cannot mask the AI evidence.
	v := Compose(aiResult(70, aidetect.TierVeryHigh), plagResult(100, plagiarism.RiskLow), PassPolicy{})
	want := 0.7*30 + 0.3*100
	if math.Abs(v.OriginalityScore-want) > 1e-9 {
		t.Fatalf("originality = %.1f, want %.1f under shifted weights", v.OriginalityScore, want)
	}

	// Unsuspicious AI branch keeps the default 0.4/0.6 split.
	v = Compose(aiResult(10, aidetect.TierVeryLow), plagResult(80, plagiarism.RiskLow), PassPolicy{})
	want = 0.4*90 + 0.6*80
	if math.Abs(v.OriginalityScore-want) > 1e-9 {
		t.Fatalf("originality = %.1f, want %.1f under default weights", v.OriginalityScore, want)
	}
}

func TestComposeTierPrecedence(t *testing.T) {
	cases := []struct {
		name string
		ai   aidetect.Result
		plag plagiarism.Result
		want RiskTier
	}{
		{"ai very high wins", aiResult(60, aidetect.TierVeryHigh), plagResult(100, plagiarism.RiskLow), RiskCritical},
		{"ai high wins", aiResult(30, aidetect.TierHigh), plagResult(100, plagiarism.RiskLow), RiskHigh},
		{"ai medium with low originality", aiResult(20, aidetect.TierMedium), plagResult(40, plagiarism.RiskLow), RiskHigh},
		{"plagiarism critical passes through", aiResult(2, aidetect.TierVeryLow), plagResult(20, plagiarism.RiskCritical), RiskCritical},
		{"plagiarism high passes through", aiResult(2, aidetect.TierVeryLow), plagResult(55, plagiarism.RiskHigh), RiskHigh},
		{"clean submission", aiResult(2, aidetect.TierVeryLow), plagResult(95, plagiarism.RiskLow), RiskLow},
	}
	for _, tc := range cases {
		v := Compose(tc.ai, tc.plag, PassPolicy{})
		if v.OverallRiskTier != tc.want {
			t.Fatalf("%s: tier = %s, want %s (originality %.1f)", tc.name, v.OverallRiskTier, tc.want, v.OriginalityScore)
		}
	}
}

func TestComposeFlags(t *testing.T) {
	v := Compose(aiResult(30, aidetect.TierHigh), plagResult(40, plagiarism.RiskHigh), PassPolicy{})

	want := map[string]bool{
		FlagAIDetectionHigh:   false,
		FlagPlagiarismRisk:    false,
		FlagLowOriginality:    false,
		FlagIntegrityConcerns: false,
	}
	for _, f := range v.AdminFlags {
		if _, ok := want[f]; !ok {
			t.Fatalf("unexpected flag %q", f)
		}
		want[f] = true
	}
	for f, seen := range want {
		if !seen {
			t.Fatalf("missing flag %q in %v", f, v.AdminFlags)
		}
	}
}

func TestComposeCarriesLikelihoodPercent(t *testing.T) {
	v := Compose(aiResult(42, aidetect.TierVeryHigh), plagResult(90, plagiarism.RiskLow), PassPolicy{})
	if v.AILikelihoodPercent != 42 {
		t.Fatalf("aiLikelihoodPercent = %.1f, want 42", v.AILikelihoodPercent)
	}
}
