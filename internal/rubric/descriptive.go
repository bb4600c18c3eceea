package rubric

import (
	"fmt"
	"sort"
	"strings"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

var descriptiveWords = map[string]struct{}{
	"huge": {}, "tiny": {}, "enormous": {}, "sparkling": {}, "dark": {},
	"bright": {}, "cold": {}, "warm": {}, "soft": {}, "rough": {},
	"shiny": {}, "ancient": {}, "crooked": {}, "golden": {}, "silver": {},
	"deep": {}, "tall": {}, "narrow": {}, "silent": {}, "loud": {},
	"gentle": {}, "fierce": {}, "strange": {}, "beautiful": {}, "ugly": {},
	"slimy": {}, "fluffy": {}, "crunchy": {}, "misty": {}, "glowing": {},
}

func scoreDescriptiveWriting(doc textutil.Doc, _ int, _ *knowledge.Base) (int, string, error) {
	if len(doc.Words) == 0 {
		return 0, "", fmt.Errorf("no words to analyze")
	}

	descriptive := 0
	for _, w := range doc.Words {
		if _, ok := descriptiveWords[w]; ok {
			descriptive++
		}
	}
	density := float64(descriptive) / float64(len(doc.Words))

	raw := 45 + int(density*600)
	if err := checkFinite("descriptiveWriting", float64(raw)); err != nil {
		return 0, "", err
	}
	score := clamp100(raw)

	feedback := "Descriptions help readers picture the scene."
	switch {
	case descriptive == 0:
		feedback = "Paint a picture with words: what did things look, sound or feel like?"
	case density > 0.08:
		feedback = "Rich, vivid descriptions throughout."
	}
	return score, feedback, nil
}

func scoreSensoryDetails(doc textutil.Doc, _ int, kb *knowledge.Base) (int, string, error) {
	lower := strings.ToLower(doc.Normalized)

	senses := make([]string, 0, len(kb.SensoryWords))
	for sense := range kb.SensoryWords {
		senses = append(senses, sense)
	}
	sort.Strings(senses)

	sensesUsed := 0
	missing := []string{}
	for _, sense := range senses {
		found := false
		for _, w := range kb.SensoryWords[sense] {
			if strings.Contains(lower, w) {
				found = true
				break
			}
		}
		if found {
			sensesUsed++
		} else {
			missing = append(missing, sense)
		}
	}

	score := clamp100(40 + sensesUsed*12)

	feedback := "Good use of the senses to bring scenes to life."
	switch {
	case sensesUsed == 0:
		feedback = "Try describing what your character sees, hears or smells."
	case sensesUsed >= 4:
		feedback = "Excellent sensory writing across sight, sound and more."
	case len(missing) > 0:
		feedback = "Nice sensory details; you could also describe " + missing[0] + "."
	}
	return score, feedback, nil
}
