package plagiarism

import (
	"fmt"
	"sync"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

type Logger interface {
	Log(level, stage, message, detail string)
}

type Detector struct {
	KB     *knowledge.Base
	Logger Logger
}

type subAnalysis struct {
	name string
	run  func(textutil.Doc, int, *knowledge.Base) subResult
}

var subAnalyses = []subAnalysis{
	{"exact_match", analyzeExactMatches},
	{"semantic_chunking", analyzeSemanticChunks},
	{"structural_patterns", analyzeStructure},
	{"linguistic_fingerprint", analyzeFingerprint},
	{"content_authenticity", analyzeAuthenticity},
}

// Analyze fans the five independent sub-analyses out over a small worker
// pool, then sums their deductions into the originality score. Each
// sub-analysis is a pure function of the document and age.
func (d *Detector) Analyze(doc textutil.Doc, age int) Result {
	results := make([]subResult, len(subAnalyses))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := 3
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = subAnalyses[i].run(doc, age, d.KB)
			}
		}()
	}
	for i := range subAnalyses {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	totalDeduction := 0.0
	findings := []Finding{}
	for i, r := range results {
		totalDeduction += r.Deduction
		findings = append(findings, r.Findings...)
		if d.Logger != nil && (r.Deduction > 0 || len(r.Findings) > 0) {
			d.Logger.Log("ANALYSIS", "PLAGIARISM", subAnalyses[i].name+" contributed",
				fmt.Sprintf("deduction=%.1f findings=%d", r.Deduction, len(r.Findings)))
		}
	}

	score := clampScore(100 - totalDeduction)
	return Result{
		OriginalityScore: score,
		RiskLevel:        riskLevelFor(score, findings),
		Findings:         findings,
	}
}

// riskLevelFor combines the severity census with the originality score.
func riskLevelFor(score float64, findings []Finding) RiskLevel {
	critical := 0
	severe := 0
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			critical++
		case SeveritySevere:
			severe++
		}
	}
	switch {
	case critical > 0 || score < 30:
		return RiskCritical
	case severe > 1 || score < 50:
		return RiskHigh
	case len(findings) > 3 || score < 70:
		return RiskMedium
	default:
		return RiskLow
	}
}
