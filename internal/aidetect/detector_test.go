package aidetect

import (
	"context"
	"errors"
	"testing"
	"time"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

const childStory = `One day a girl named Mia went into the woods behind her house. She was scared because she was lost and didn't know the way back. She looked for a path but couldn't find one! Then she remembered what her mom taught her about following the stream. She followed the water and learned to stay calm. Finally she found her way home safely and hugged her mom. She felt brave and happy.`

// machineStory reads like model output: curated vocabulary, stock phrases,
// uniformly long formal sentences, no contractions.
const machineStory = `The forest was a rich tapestry of intricate sounds and meticulous patterns of light. She decided to delve into the mysteries that the ancient woodland concealed from view. Furthermore, the profound silence served as a testament to the unwavering majesty of nature. Moreover, every vibrant pathway seemed to resonate with a palpable sense of wonder. In conclusion, the journey through the luminous landscape transformed her perspective on everything completely.`

type stubGen struct {
	response string
	err      error
}

func (s stubGen) Generate(context.Context, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newDetector(t *testing.T, gen Generator) (*Detector, *knowledge.Base) {
	t.Helper()
	kb, err := knowledge.Load()
	if err != nil {
		t.Fatalf("load knowledge base: %v", err)
	}
	return &Detector{
		KB:       kb,
		Advisory: &AdvisoryScorer{Gen: gen, Timeout: time.Second},
	}, kb
}

func TestAnalyzeChildStoryScoresLow(t *testing.T) {
	d, _ := newDetector(t, stubGen{response: "5"})
	res := d.Analyze(context.Background(), textutil.Normalize(childStory), 10)

	if res.Tier.AtLeast(TierMedium) {
		t.Fatalf("child story tier = %s (likelihood %.1f, indicators %v), want below medium",
			res.Tier, res.AILikelihoodPercent, res.Indicators)
	}
	if res.HumanLikeScore != 100-res.AILikelihoodPercent {
		t.Fatalf("humanLikeScore %.1f does not complement likelihood %.1f",
			res.HumanLikeScore, res.AILikelihoodPercent)
	}
}

func TestAnalyzeMachineStoryScoresHigh(t *testing.T) {
	d, _ := newDetector(t, stubGen{response: "95"})
	res := d.Analyze(context.Background(), textutil.Normalize(machineStory), 10)

	if !res.Tier.AtLeast(TierHigh) {
		t.Fatalf("machine story tier = %s (likelihood %.1f), want at least high",
			res.Tier, res.AILikelihoodPercent)
	}
	if len(res.Indicators) == 0 {
		t.Fatal("expected indicators for a flagged text")
	}
	if len(res.Indicators) > 8 {
		t.Fatalf("indicators should be capped at 8, got %d", len(res.Indicators))
	}
}

func TestAnalyzeMonotonicInFavoredVocabulary(t *testing.T) {
	d, _ := newDetector(t, stubGen{response: "50"})

	plain := `The morning weather felt cloudy and the group walked slowly through town. They stopped at the old market and looked at the stalls together.`
	loaded := `The morning tapestry felt intricate and the group embarked meticulously through town. They stopped at the vibrant market and pondered the myriad stalls together.`

	base := d.Analyze(context.Background(), textutil.Normalize(plain), 12)
	more := d.Analyze(context.Background(), textutil.Normalize(loaded), 12)

	if more.AILikelihoodPercent < base.AILikelihoodPercent {
		t.Fatalf("likelihood dropped when AI-favored vocabulary was added: %.1f -> %.1f",
			base.AILikelihoodPercent, more.AILikelihoodPercent)
	}
}

func TestAnalyzeSurvivesProviderFailure(t *testing.T) {
	d, _ := newDetector(t, stubGen{err: errors.New("connection refused")})
	res := d.Analyze(context.Background(), textutil.Normalize(childStory), 10)

	if res.AILikelihoodPercent < 0 || res.AILikelihoodPercent > 100 {
		t.Fatalf("likelihood %.1f out of range", res.AILikelihoodPercent)
	}
	if len(res.Signals) != 4 {
		t.Fatalf("expected 4 signals even with a dead provider, got %d", len(res.Signals))
	}
}

func TestCombineIsOrderIndependent(t *testing.T) {
	signals := []Signal{
		{Method: MethodPattern, Score: 80, Indicators: []string{"a"}, Confidence: 0.9},
		{Method: MethodLinguistic, Score: 40, Indicators: []string{"b"}, Confidence: 0.7},
		{Method: MethodStatistical, Score: 20, Indicators: []string{"c"}, Confidence: 0.6},
		{Method: MethodAdvisory, Score: 90, Indicators: []string{"d"}, Confidence: 0.8},
	}
	reversed := []Signal{signals[3], signals[2], signals[1], signals[0]}

	a := Combine(signals)
	b := Combine(reversed)
	if a.AILikelihoodPercent != b.AILikelihoodPercent || a.Tier != b.Tier {
		t.Fatalf("combine is order dependent: %.1f/%s vs %.1f/%s",
			a.AILikelihoodPercent, a.Tier, b.AILikelihoodPercent, b.Tier)
	}
}

func TestCombineClampsToPercentRange(t *testing.T) {
	over := []Signal{
		{Method: MethodPattern, Score: 500},
		{Method: MethodLinguistic, Score: 500},
		{Method: MethodStatistical, Score: 500},
		{Method: MethodAdvisory, Score: 500},
	}
	res := Combine(over)
	if res.AILikelihoodPercent > 100 || res.AILikelihoodPercent < 0 {
		t.Fatalf("likelihood %.1f not clamped", res.AILikelihoodPercent)
	}
}

func TestTierThresholds(t *testing.T) {
	cases := []struct {
		likelihood float64
		want       Tier
	}{
		{45, TierVeryHigh},
		{40, TierVeryHigh},
		{30, TierHigh},
		{25, TierHigh},
		{15, TierMedium},
		{8, TierLow},
		{3, TierVeryLow},
	}
	for _, tc := range cases {
		if got := tierFor(tc.likelihood); got != tc.want {
			t.Fatalf("tierFor(%.0f) = %s, want %s", tc.likelihood, got, tc.want)
		}
	}
}
