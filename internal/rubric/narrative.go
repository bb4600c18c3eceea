package rubric

import (
	"fmt"
	"strings"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

var imaginativeKeywords = []string{
	"magic", "dragon", "wizard", "spaceship", "robot", "secret", "imagine",
	"invented", "mysterious", "adventure", "treasure", "portal", "talking",
}

var simileMarkers = []string{" like a ", " like the ", " as if ", " as though "}

func scoreCreativity(doc textutil.Doc, _ int, kb *knowledge.Base) (int, string, error) {
	lower := strings.ToLower(doc.Normalized)

	imaginative := 0
	for _, kw := range imaginativeKeywords {
		if strings.Contains(lower, kw) {
			imaginative++
		}
	}
	similes := 0
	for _, m := range simileMarkers {
		similes += strings.Count(lower, m)
	}
	cliches := 0
	for _, c := range kb.Cliches {
		if strings.Contains(lower, c) {
			cliches++
		}
	}

	raw := 60 + imaginative*6 + similes*5 - cliches*10
	if err := checkFinite("creativity", float64(raw)); err != nil {
		return 0, "", err
	}
	score := clamp100(raw)

	feedback := "The story shows original ideas."
	switch {
	case cliches > 1:
		feedback = "Some phrases are well-worn; inventing your own descriptions makes the story yours."
	case imaginative >= 3:
		feedback = "Full of imaginative ideas that make the story stand out."
	case imaginative == 0 && similes == 0:
		feedback = "Try adding an unexpected idea or comparison to surprise the reader."
	}
	return score, feedback, nil
}

var beginningMarkers = []string{
	"once upon", "one day", "one morning", "one night", "there was",
	"there once", "lived", "my name", "when i", "long ago", "last summer",
}

// scoreStructure looks for a beginning, middle and end by splitting the
// sentences into thirds and checking each third for its expected markers.
func scoreStructure(doc textutil.Doc, _ int, kb *knowledge.Base) (int, string, error) {
	sentences := doc.Sentences
	if len(sentences) == 0 {
		return 0, "", fmt.Errorf("no sentences to analyze")
	}

	first, middle, last := splitThirds(sentences)

	hasBeginning := containsAnyMarker(first, beginningMarkers) || len(sentences) >= 3
	hasMiddle := containsWordSet(middle, kb.ConflictWords) || containsWordSet(middle, kb.ProblemWords)
	hasEnd := containsWordSet(last, kb.ResolutionWords)

	score := 40
	missing := []string{}
	if hasBeginning {
		score += 20
	} else {
		missing = append(missing, "an opening that introduces the story")
	}
	if hasMiddle {
		score += 20
	} else {
		missing = append(missing, "a middle where something happens")
	}
	if hasEnd {
		score += 20
	} else {
		missing = append(missing, "an ending that wraps things up")
	}

	feedback := "Clear beginning, middle and end."
	if len(missing) > 0 {
		feedback = "Consider adding " + strings.Join(missing, " and ") + "."
	}
	return clamp100(score), feedback, nil
}

func scoreCharacterDevelopment(doc textutil.Doc, _ int, kb *knowledge.Base) (int, string, error) {
	lower := strings.ToLower(doc.Normalized)

	feelings := 0
	for w := range kb.ConflictWords {
		feelings += strings.Count(lower, w)
	}
	growth := 0
	for w := range kb.GrowthWords {
		growth += strings.Count(lower, w)
	}
	dialogue := strings.Count(doc.Normalized, `"`) / 2

	score := 45
	if feelings > 0 {
		score += 15
	}
	if growth > 0 {
		score += 20
	}
	if dialogue > 0 {
		score += 10
	}
	if feelings > 2 {
		score += 5
	}

	feedback := "Characters come alive through feelings and change."
	switch {
	case growth == 0 && feelings == 0:
		feedback = "Show how your character feels and how they change by the end."
	case dialogue == 0 && growth > 0:
		feedback = "Nice character growth; adding dialogue would let readers hear them too."
	}
	return clamp100(score), feedback, nil
}

func scorePlotDevelopment(doc textutil.Doc, _ int, kb *knowledge.Base) (int, string, error) {
	words := doc.Words
	if len(words) == 0 {
		return 0, "", fmt.Errorf("no words to analyze")
	}

	firstConflict := -1
	firstResolution := -1
	for i, w := range words {
		if _, ok := kb.ConflictWords[w]; ok && firstConflict == -1 {
			firstConflict = i
		}
		if _, ok := kb.ResolutionWords[w]; ok {
			firstResolution = i
		}
	}
	growth := false
	for _, w := range words {
		if _, ok := kb.GrowthWords[w]; ok {
			growth = true
			break
		}
	}

	score := 40
	if firstConflict >= 0 {
		score += 20
	}
	if firstResolution >= 0 {
		score += 20
	}
	if firstConflict >= 0 && firstResolution > firstConflict {
		// Conflict introduced before its resolution: a real arc.
		score += 10
	}
	if growth {
		score += 5
	}

	feedback := "The plot builds to a satisfying resolution."
	switch {
	case firstConflict < 0:
		feedback = "Give your character a problem to face; it makes the story exciting."
	case firstResolution < 0:
		feedback = "The problem is set up well, but the story needs to show how it works out."
	}
	return clamp100(score), feedback, nil
}

func splitThirds(sentences []string) (first, middle, last []string) {
	n := len(sentences)
	a := n / 3
	b := (2 * n) / 3
	if a == 0 {
		a = 1
	}
	if b <= a {
		b = a
	}
	if b > n {
		b = n
	}
	return sentences[:a], sentences[a:b], sentences[b:]
}

func containsAnyMarker(sentences []string, markers []string) bool {
	joined := strings.ToLower(strings.Join(sentences, " "))
	for _, m := range markers {
		if strings.Contains(joined, m) {
			return true
		}
	}
	return false
}

func containsWordSet(sentences []string, set map[string]struct{}) bool {
	for _, w := range textutil.Words(strings.Join(sentences, " ")) {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}
