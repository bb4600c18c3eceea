package aidetect

import (
	"context"
	"fmt"
	"sync"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

// Combination weights and tier thresholds. The reduction is commutative, so
// the four signals can be computed in any order.
const (
	weightPattern     = 0.50
	weightLinguistic  = 0.25
	weightAdvisory    = 0.15
	weightStatistical = 0.10

	maxIndicators = 8
)

type Detector struct {
	KB       *knowledge.Base
	Advisory *AdvisoryScorer
	Logger   Logger
}

// Analyze runs the four detection heuristics concurrently, joins them at a
// barrier and reduces them into one likelihood percentage and tier. Only the
// advisory path performs I/O; everything else is pure.
func (d *Detector) Analyze(ctx context.Context, doc textutil.Doc, age int) Result {
	signals := make([]Signal, 4)
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		signals[0] = analyzePatterns(doc, age, d.KB)
	}()
	go func() {
		defer wg.Done()
		signals[1] = analyzeLinguistic(doc, age, d.KB)
	}()
	go func() {
		defer wg.Done()
		signals[2] = analyzeStatistical(doc, age, d.KB)
	}()
	go func() {
		defer wg.Done()
		advisory := d.Advisory
		if advisory == nil {
			advisory = &AdvisoryScorer{Logger: d.Logger}
		}
		signals[3] = advisory.Score(ctx, doc, age, d.KB)
	}()
	wg.Wait()

	result := Combine(signals)
	if d.Logger != nil {
		d.Logger.Log("ANALYSIS", "AIDETECT", "AI detection completed",
			fmt.Sprintf("likelihood=%.1f tier=%s indicators=%d", result.AILikelihoodPercent, result.Tier, len(result.Indicators)))
	}
	return result
}

// Combine is the deterministic weighted reduction over the four signals.
func Combine(signals []Signal) Result {
	var pattern, linguistic, statistical, advisory Signal
	for _, s := range signals {
		switch s.Method {
		case MethodPattern:
			pattern = s
		case MethodLinguistic:
			linguistic = s
		case MethodStatistical:
			statistical = s
		case MethodAdvisory:
			advisory = s
		}
	}

	sum := weightPattern*pattern.Score +
		weightLinguistic*linguistic.Score +
		weightAdvisory*advisory.Score +
		weightStatistical*statistical.Score
	likelihood := clampPercent(sum)

	// Indicator merge favors the heavier-weighted signals.
	merged := []string{}
	seen := map[string]struct{}{}
	for _, s := range []Signal{pattern, linguistic, advisory, statistical} {
		for _, ind := range s.Indicators {
			merged = addIndicator(merged, seen, ind)
		}
	}
	if len(merged) > maxIndicators {
		merged = merged[:maxIndicators]
	}

	return Result{
		AILikelihoodPercent: likelihood,
		HumanLikeScore:      100 - likelihood,
		Tier:                tierFor(likelihood),
		Indicators:          merged,
		Signals:             []Signal{pattern, linguistic, statistical, advisory},
	}
}

func tierFor(likelihood float64) Tier {
	switch {
	case likelihood >= 40:
		return TierVeryHigh
	case likelihood >= 25:
		return TierHigh
	case likelihood >= 15:
		return TierMedium
	case likelihood >= 8:
		return TierLow
	default:
		return TierVeryLow
	}
}
