package rubric

import (
	"storygrade/internal/textutil"
)

// readingLevel maps a Flesch-Kincaid grade estimate onto the four
// coarse bands reported alongside the category scores.
func readingLevel(doc textutil.Doc) ReadingLevel {
	if len(doc.Words) == 0 || len(doc.Sentences) == 0 {
		return LevelBeginner
	}

	syllables := 0
	for _, w := range doc.Words {
		syllables += textutil.SyllableCount(w)
	}

	wordsPerSentence := float64(len(doc.Words)) / float64(len(doc.Sentences))
	syllablesPerWord := float64(syllables) / float64(len(doc.Words))
	grade := 0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59

	switch {
	case grade < 2:
		return LevelBeginner
	case grade < 5:
		return LevelElementary
	case grade < 8:
		return LevelIntermediate
	default:
		return LevelAdvanced
	}
}
