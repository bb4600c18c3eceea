package rubric

import (
	"fmt"
	"strings"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

var sequenceConnectives = []string{
	"then", "next", "after", "before", "finally", "when", "while", "later",
	"first", "suddenly",
}

var causalPairs = []string{"because", "so ", "since", "as a result", "that's why"}

func scorePlotLogic(doc textutil.Doc, _ int, _ *knowledge.Base) (int, string, error) {
	if len(doc.Sentences) == 0 {
		return 0, "", fmt.Errorf("no sentences to analyze")
	}
	lower := strings.ToLower(doc.Normalized)

	connectives := 0
	for _, c := range sequenceConnectives {
		connectives += countWord(lower, c)
	}

	score := 50 + min(30, connectives*6)
	if len(doc.Sentences) >= 4 && connectives == 0 {
		score -= 10
	}

	feedback := "Events follow each other in a way that makes sense."
	switch {
	case connectives == 0:
		feedback = "Words like 'then', 'next' and 'finally' help readers follow the order of events."
	case connectives >= 4:
		feedback = "The sequence of events is easy to follow from start to finish."
	}
	return clamp100(score), feedback, nil
}

func scoreCauseEffect(doc textutil.Doc, _ int, _ *knowledge.Base) (int, string, error) {
	if len(doc.Words) == 0 {
		return 0, "", fmt.Errorf("no words to analyze")
	}
	lower := strings.ToLower(doc.Normalized)

	pairs := 0
	for _, p := range causalPairs {
		pairs += strings.Count(lower, p)
	}

	if pairs == 0 {
		return 45, "Explaining why things happen ('because...', 'so...') makes the story feel real.", nil
	}
	score := clamp100(min(95, 50+pairs*12))

	feedback := "The story explains why things happen."
	if pairs >= 3 {
		feedback = "Strong cause-and-effect links tie the whole story together."
	}
	return score, feedback, nil
}

func scoreProblemSolving(doc textutil.Doc, _ int, kb *knowledge.Base) (int, string, error) {
	words := doc.Words
	if len(words) == 0 {
		return 0, "", fmt.Errorf("no words to analyze")
	}

	firstProblem := -1
	lastSolution := -1
	for i, w := range words {
		if firstProblem == -1 {
			if _, ok := kb.ProblemWords[w]; ok {
				firstProblem = i
			}
			if _, ok := kb.ConflictWords[w]; ok {
				firstProblem = i
			}
		}
		if _, ok := kb.SolutionWords[w]; ok {
			lastSolution = i
		}
		if _, ok := kb.ResolutionWords[w]; ok {
			lastSolution = i
		}
	}

	score := 45
	if firstProblem >= 0 {
		score += 15
	}
	if lastSolution >= 0 {
		score += 15
	}
	if firstProblem >= 0 && lastSolution > firstProblem {
		score += 15
	}

	feedback := "The character works through a problem to find an answer."
	switch {
	case firstProblem < 0 && lastSolution < 0:
		feedback = "Stories shine when a character faces a problem and figures out what to do."
	case firstProblem >= 0 && lastSolution < 0:
		feedback = "The problem is clear; showing how it gets solved would complete the arc."
	}
	return clamp100(score), feedback, nil
}

func countWord(lower, word string) int {
	count := 0
	for _, w := range textutil.Words(lower) {
		if w == word || w == strings.TrimSpace(word) {
			count++
		}
	}
	return count
}
