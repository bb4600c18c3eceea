package rubric

import (
	"fmt"
	"sort"
	"strings"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

func scoreThemeRecognition(doc textutil.Doc, _ int, kb *knowledge.Base) (int, string, error) {
	lower := strings.ToLower(doc.Normalized)

	names := make([]string, 0, len(kb.Themes))
	for name := range kb.Themes {
		names = append(names, name)
	}
	sort.Strings(names)

	present := []string{}
	for _, name := range names {
		hits := 0
		for _, w := range kb.Themes[name] {
			hits += strings.Count(lower, w)
		}
		if hits >= 2 {
			present = append(present, name)
		}
	}

	if len(present) == 0 {
		return 45, "What is your story really about? Weaving in a big idea like friendship or courage gives it heart.", nil
	}
	score := clamp100(min(95, 50+len(present)*15))

	feedback := fmt.Sprintf("The story explores %s in a meaningful way.", present[0])
	if len(present) > 1 {
		feedback = fmt.Sprintf("The story weaves together themes of %s and %s.", present[0], present[1])
	}
	return score, feedback, nil
}

func scoreAgeAppropriateness(doc textutil.Doc, age int, kb *knowledge.Base) (int, string, error) {
	if len(doc.Words) == 0 {
		return 0, "", fmt.Errorf("no words to analyze")
	}

	inappropriate := 0
	for _, w := range doc.Words {
		if _, ok := kb.InappropriateWords[w]; ok {
			inappropriate++
		}
	}

	band := kb.BandFor(age)
	score := 100 - inappropriate*20

	// A mild deduction when the writing sits far above the reader's band,
	// since the rubric rewards writing the writer's own audience can enjoy.
	if band.MaxComplexRatio > 0 {
		ratio := textutil.ComplexWordRatio(doc.Words)
		if ratio > band.MaxComplexRatio*1.5 {
			score -= 10
		}
	}

	feedback := "The language and topics suit the writer's age well."
	if inappropriate > 0 {
		feedback = "Some words here aren't a good fit for a story at this age; choosing different ones keeps every reader comfortable."
	}
	return clamp100(score), feedback, nil
}
