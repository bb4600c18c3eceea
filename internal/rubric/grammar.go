package rubric

import (
	"fmt"
	"strings"
	"unicode"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

// grammarPenaltyPerIssue is keyed by age bracket: younger writers get a
// gentler per-issue deduction.
func grammarPenaltyPerIssue(age int) float64 {
	switch {
	case age <= 7:
		return 6
	case age <= 10:
		return 9
	case age <= 12:
		return 12
	default:
		return 15
	}
}

func scoreGrammar(doc textutil.Doc, age int, _ *knowledge.Base) (int, string, error) {
	sentences := strings.FieldsFunc(doc.Normalized, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	issues := 0
	checked := 0
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		checked++
		runes := []rune(s)
		if unicode.IsLower(runes[0]) {
			issues++
		}
		if len(textutil.Words(s)) > 35 {
			issues++
		}
	}
	issues += textutil.RepeatedPunctCount(doc.Normalized)
	if checked == 0 {
		return 0, "", fmt.Errorf("no sentences to check")
	}

	issueRate := float64(issues) / float64(checked)
	raw := 100 - issueRate*grammarPenaltyPerIssue(age)*10
	if err := checkFinite("grammar", raw); err != nil {
		return 0, "", err
	}

	score := clamp100(int(raw))
	feedback := "Sentences are well formed with correct capitalization and punctuation."
	if issues > 0 {
		feedback = fmt.Sprintf("Spotted %d grammar issue(s) across %d sentences; watch capitalization and sentence length.", issues, checked)
	}
	return score, feedback, nil
}

// Overused filler words that weaken vocabulary scores when leaned on.
var weakWords = map[string]struct{}{
	"very": {}, "really": {}, "nice": {}, "good": {}, "bad": {}, "thing": {}, "stuff": {}, "got": {},
}

func scoreVocabulary(doc textutil.Doc, age int, kb *knowledge.Base) (int, string, error) {
	if len(doc.Words) == 0 {
		return 0, "", fmt.Errorf("no words to score")
	}
	ttr := textutil.TypeTokenRatio(doc.Words)
	if err := checkFinite("vocabulary", ttr); err != nil {
		return 0, "", err
	}

	weak := 0
	vivid := 0
	for _, w := range doc.Words {
		if _, ok := weakWords[w]; ok {
			weak++
		}
	}
	for _, words := range kb.SensoryWords {
		for _, sw := range words {
			vivid += strings.Count(" "+strings.Join(doc.Words, " ")+" ", " "+sw+" ")
		}
	}

	raw := 35 + ttr*55 + float64(min(vivid, 5))*3 - float64(weak)*2
	score := clamp100(int(raw))

	feedback := "Good variety of words."
	switch {
	case ttr >= 0.7 && vivid > 2:
		feedback = "Wonderful word variety with vivid, specific choices."
	case weak > 3:
		feedback = "Try swapping words like 'very' and 'nice' for more specific ones."
	case ttr < 0.4:
		feedback = "Many words repeat; experiment with new words to keep readers interested."
	}
	return score, feedback, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
