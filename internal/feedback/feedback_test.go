package feedback

import (
	"strings"
	"testing"

	"storygrade/internal/integrity"
	"storygrade/internal/rubric"
)

func scoresWith(base int, overrides map[rubric.Category]int) rubric.Scores {
	categories := map[rubric.Category]rubric.CategoryScore{}
	total := 0
	for _, cat := range rubric.AllCategories {
		score := base
		if v, ok := overrides[cat]; ok {
			score = v
		}
		categories[cat] = rubric.CategoryScore{Category: cat, Score: score, Feedback: "x"}
		total += score
	}
	return rubric.Scores{
		Overall:      total / len(rubric.AllCategories),
		Categories:   categories,
		ReadingLevel: rubric.LevelElementary,
	}
}

func TestSynthesizeBands(t *testing.T) {
	scores := scoresWith(75, map[rubric.Category]int{
		rubric.CategoryCreativity: 92,
		rubric.CategoryGrammar:    55,
	})
	bundle, recs := Synthesizer{}.Synthesize(scores, integrity.Verdict{OverallRiskTier: integrity.RiskLow}, 10)

	found := false
	for _, s := range bundle.Strengths {
		if s == phrasings[rubric.CategoryCreativity].strength {
			found = true
		}
	}
	if !found {
		t.Fatalf("creativity at 92 should appear in strengths, got %v", bundle.Strengths)
	}
	found = false
	for _, s := range bundle.Improvements {
		if s == phrasings[rubric.CategoryGrammar].improve {
			found = true
		}
	}
	if !found {
		t.Fatalf("grammar at 55 should appear in improvements, got %v", bundle.Improvements)
	}
	if bundle.TeacherComment == "" || bundle.Encouragement == "" {
		t.Fatal("teacher comment and encouragement must be populated")
	}
	if len(recs.Immediate) == 0 || len(recs.PracticeExercises) == 0 {
		t.Fatal("recommendations must never be empty")
	}
}

func TestSynthesizeAlwaysNamesAStrength(t *testing.T) {
	scores := scoresWith(45, nil)
	bundle, _ := Synthesizer{}.Synthesize(scores, integrity.Verdict{OverallRiskTier: integrity.RiskLow}, 8)
	if len(bundle.Strengths) == 0 {
		t.Fatal("even a weak submission should have one named strength")
	}
}

func TestSynthesizeHighRiskSubstitutesNarrative(t *testing.T) {
	scores := scoresWith(90, nil)

	normal, _ := Synthesizer{}.Synthesize(scores, integrity.Verdict{OverallRiskTier: integrity.RiskLow}, 10)
	flagged, _ := Synthesizer{}.Synthesize(scores, integrity.Verdict{OverallRiskTier: integrity.RiskHigh}, 10)

	if normal.TeacherComment == flagged.TeacherComment {
		t.Fatal("high-risk verdict should replace the teacher comment")
	}
	if !strings.Contains(flagged.TeacherComment, "own words") {
		t.Fatalf("high-risk narrative should encourage original writing, got %q", flagged.TeacherComment)
	}
	if len(flagged.Strengths) == 0 {
		t.Fatal("rubric strengths should still be reported alongside the substituted narrative")
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	scores := scoresWith(72, map[rubric.Category]int{rubric.CategoryVocabulary: 88})
	verdict := integrity.Verdict{OverallRiskTier: integrity.RiskLow}

	a, ra := Synthesizer{}.Synthesize(scores, verdict, 11)
	b, rb := Synthesizer{}.Synthesize(scores, verdict, 11)

	if a.TeacherComment != b.TeacherComment || a.Encouragement != b.Encouragement {
		t.Fatal("identical inputs must produce identical narrative feedback")
	}
	if strings.Join(a.Strengths, "|") != strings.Join(b.Strengths, "|") {
		t.Fatal("strengths ordering must be stable")
	}
	if strings.Join(ra.LongTerm, "|") != strings.Join(rb.LongTerm, "|") {
		t.Fatal("long-term recommendations must be stable")
	}
}

func TestCannedCopyUsesPlainPunctuation(t *testing.T) {
	var lines []string
	for _, p := range phrasings {
		lines = append(lines, p.strength, p.good, p.improve, p.nextStep, p.exercise)
	}
	for _, variants := range openingClauses {
		lines = append(lines, variants...)
	}
	lines = append(lines, encouragements...)
	lines = append(lines, youngClosings...)
	lines = append(lines, olderClosings...)
	lines = append(lines, integrityNarratives...)

	for _, line := range lines {
		if strings.ContainsAny(line, "—–") {
			t.Fatalf("child-facing line uses a dash character: %q", line)
		}
	}
}

func TestYoungAndOlderClosingsDiffer(t *testing.T) {
	scores := scoresWith(80, nil)
	verdict := integrity.Verdict{OverallRiskTier: integrity.RiskLow}

	young, _ := Synthesizer{}.Synthesize(scores, verdict, 7)
	older, _ := Synthesizer{}.Synthesize(scores, verdict, 14)

	if young.TeacherComment == older.TeacherComment {
		t.Fatal("closing clause should vary with the writer's age")
	}
}
