// Package rubric computes the thirteen educational category scores. Every
// scorer is a pure function of the text and the writer's age; a failure in
// any one fails the whole computation, because a fabricated neutral score
// would silently mask detector bugs in a grading system.
package rubric

import (
	"fmt"
	"math"

	"storygrade/internal/knowledge"
	"storygrade/internal/textutil"
)

type Category string

const (
	CategoryGrammar              Category = "grammar"
	CategoryVocabulary           Category = "vocabulary"
	CategoryCreativity           Category = "creativity"
	CategoryStructure            Category = "structure"
	CategoryCharacterDevelopment Category = "characterDevelopment"
	CategoryPlotDevelopment      Category = "plotDevelopment"
	CategoryDescriptiveWriting   Category = "descriptiveWriting"
	CategorySensoryDetails       Category = "sensoryDetails"
	CategoryPlotLogic            Category = "plotLogic"
	CategoryCauseEffect          Category = "causeEffect"
	CategoryProblemSolving       Category = "problemSolving"
	CategoryThemeRecognition     Category = "themeRecognition"
	CategoryAgeAppropriateness   Category = "ageAppropriateness"
)

// AllCategories is the fixed key set; reports always carry all thirteen.
var AllCategories = []Category{
	CategoryGrammar,
	CategoryVocabulary,
	CategoryCreativity,
	CategoryStructure,
	CategoryCharacterDevelopment,
	CategoryPlotDevelopment,
	CategoryDescriptiveWriting,
	CategorySensoryDetails,
	CategoryPlotLogic,
	CategoryCauseEffect,
	CategoryProblemSolving,
	CategoryThemeRecognition,
	CategoryAgeAppropriateness,
}

// categoryWeights sum to 1.0; grammar, creativity, vocabulary, structure and
// plot development carry the most weight.
var categoryWeights = map[Category]float64{
	CategoryGrammar:              0.12,
	CategoryVocabulary:           0.10,
	CategoryCreativity:           0.12,
	CategoryStructure:            0.10,
	CategoryCharacterDevelopment: 0.07,
	CategoryPlotDevelopment:      0.10,
	CategoryDescriptiveWriting:   0.06,
	CategorySensoryDetails:       0.05,
	CategoryPlotLogic:            0.07,
	CategoryCauseEffect:          0.06,
	CategoryProblemSolving:       0.06,
	CategoryThemeRecognition:     0.04,
	CategoryAgeAppropriateness:   0.05,
}

type CategoryScore struct {
	Category Category `json:"category"`
	Score    int      `json:"score"`
	Feedback string   `json:"feedback"`
}

// ReadingLevel is a derived ordinal, not a 0-100 score.
type ReadingLevel string

const (
	LevelBeginner     ReadingLevel = "Beginner"
	LevelElementary   ReadingLevel = "Elementary"
	LevelIntermediate ReadingLevel = "Intermediate"
	LevelAdvanced     ReadingLevel = "Advanced"
)

type Scores struct {
	Overall      int                        `json:"overallScore"`
	Categories   map[Category]CategoryScore `json:"categoryScores"`
	ReadingLevel ReadingLevel               `json:"readingLevel"`
}

type Scorer struct {
	KB *knowledge.Base
}

type scorerFunc func(doc textutil.Doc, age int, kb *knowledge.Base) (int, string, error)

var scorers = map[Category]scorerFunc{
	CategoryGrammar:              scoreGrammar,
	CategoryVocabulary:           scoreVocabulary,
	CategoryCreativity:           scoreCreativity,
	CategoryStructure:            scoreStructure,
	CategoryCharacterDevelopment: scoreCharacterDevelopment,
	CategoryPlotDevelopment:      scorePlotDevelopment,
	CategoryDescriptiveWriting:   scoreDescriptiveWriting,
	CategorySensoryDetails:       scoreSensoryDetails,
	CategoryPlotLogic:            scorePlotLogic,
	CategoryCauseEffect:          scoreCauseEffect,
	CategoryProblemSolving:       scoreProblemSolving,
	CategoryThemeRecognition:     scoreThemeRecognition,
	CategoryAgeAppropriateness:   scoreAgeAppropriateness,
}

// Score computes all thirteen categories, the reading level and the weighted
// overall score. Any sub-scorer error aborts the whole rubric.
func (s *Scorer) Score(doc textutil.Doc, age int) (Scores, error) {
	categories := make(map[Category]CategoryScore, len(AllCategories))
	weighted := 0.0
	for _, cat := range AllCategories {
		fn, ok := scorers[cat]
		if !ok {
			return Scores{}, fmt.Errorf("no scorer registered for category %q", cat)
		}
		score, feedback, err := fn(doc, age, s.KB)
		if err != nil {
			return Scores{}, fmt.Errorf("score %s: %w", cat, err)
		}
		if score < 0 || score > 100 {
			return Scores{}, fmt.Errorf("score %s: value %d out of range", cat, score)
		}
		categories[cat] = CategoryScore{Category: cat, Score: score, Feedback: feedback}
		weighted += categoryWeights[cat] * float64(score)
	}
	if len(categories) != len(AllCategories) {
		return Scores{}, fmt.Errorf("computed %d of %d categories", len(categories), len(AllCategories))
	}
	if math.IsNaN(weighted) || math.IsInf(weighted, 0) {
		return Scores{}, fmt.Errorf("overall score is not a number")
	}
	return Scores{
		Overall:      clamp100(int(math.Round(weighted))),
		Categories:   categories,
		ReadingLevel: readingLevel(doc),
	}, nil
}

func clamp100(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func checkFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s produced a non-numeric value", name)
	}
	return nil
}
