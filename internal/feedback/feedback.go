// Package feedback turns rubric scores and the integrity verdict into the
// child-facing narrative: strengths, improvements, next steps and a teacher
// comment. All phrasing is selected deterministically so identical inputs
// always produce identical reports.
package feedback

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"storygrade/internal/integrity"
	"storygrade/internal/rubric"
)

const (
	strengthBand = 85
	goodBand     = 70
)

// Bundle is the feedback block of the final report.
type Bundle struct {
	Strengths      []string `json:"strengths"`
	Improvements   []string `json:"improvements"`
	NextSteps      []string `json:"nextSteps"`
	TeacherComment string   `json:"teacherComment"`
	Encouragement  string   `json:"encouragement"`
}

// Recommendations is the actionable-advice block of the final report.
type Recommendations struct {
	Immediate         []string `json:"immediate"`
	LongTerm          []string `json:"longTerm"`
	PracticeExercises []string `json:"practiceExercises"`
}

type phrasing struct {
	strength string
	good     string
	improve  string
	nextStep string
	exercise string
}

var phrasings = map[rubric.Category]phrasing{
	rubric.CategoryGrammar: {
		strength: "Your sentences are polished and easy to read.",
		good:     "Your grammar is solid, with just a few rough edges.",
		improve:  "Reading your story out loud will help you catch sentences that need fixing.",
		nextStep: "Pick one paragraph and check each sentence starts with a capital letter.",
		exercise: "Rewrite three sentences from your story, making each one clearer.",
	},
	rubric.CategoryVocabulary: {
		strength: "You choose words that paint exactly the right picture.",
		good:     "You use a nice mix of words.",
		improve:  "Swapping words like 'very' and 'good' for stronger ones will make your writing pop.",
		nextStep: "Find two plain words in your story and replace them with more exciting ones.",
		exercise: "Make a list of five new words this week and use each in a sentence.",
	},
	rubric.CategoryCreativity: {
		strength: "Your imagination shines through every part of this story.",
		good:     "There are some genuinely creative moments here.",
		improve:  "Try adding one surprising twist or an idea nobody would expect.",
		nextStep: "Brainstorm three 'what if' questions about your story world.",
		exercise: "Write a short scene where something impossible happens.",
	},
	rubric.CategoryStructure: {
		strength: "Your story flows beautifully from beginning to middle to end.",
		good:     "Your story has a clear shape.",
		improve:  "Think about your story as three parts: a start, a problem, and an ending.",
		nextStep: "Write one sentence each for your story's beginning, middle and end.",
		exercise: "Plan your next story with a three-box storyboard before writing.",
	},
	rubric.CategoryCharacterDevelopment: {
		strength: "Your characters feel like real people with real feelings.",
		good:     "Your characters are taking shape nicely.",
		improve:  "Show how your character feels and how they change by the end.",
		nextStep: "Add one sentence about what your main character is feeling.",
		exercise: "Write a diary entry as if you were your main character.",
	},
	rubric.CategoryPlotDevelopment: {
		strength: "Your plot builds excitement all the way to a satisfying ending.",
		good:     "Your plot moves along well.",
		improve:  "Give your character a bigger problem to solve; it raises the stakes.",
		nextStep: "Ask yourself: what is the hardest moment in my story?",
		exercise: "Write the same event twice, once calm and once full of tension.",
	},
	rubric.CategoryDescriptiveWriting: {
		strength: "Your descriptions put the reader right inside the scene.",
		good:     "Your descriptions help the reader picture things.",
		improve:  "Add details about how places and people look, sound and feel.",
		nextStep: "Choose one scene and add two describing words to it.",
		exercise: "Describe your bedroom so vividly a stranger could draw it.",
	},
	rubric.CategorySensoryDetails: {
		strength: "You use all the senses to bring your story to life.",
		good:     "You include some nice sensory moments.",
		improve:  "What did your character hear, smell or touch? Those details pull readers in.",
		nextStep: "Add one sound and one smell to your story.",
		exercise: "Sit somewhere for five minutes and write down everything your senses notice.",
	},
	rubric.CategoryPlotLogic: {
		strength: "Every event in your story makes perfect sense.",
		good:     "Your story mostly hangs together well.",
		improve:  "Check that each event follows from the one before it.",
		nextStep: "Read your story and ask 'why did that happen?' after each event.",
		exercise: "Retell your story in five sentences using 'first, then, next, after, finally'.",
	},
	rubric.CategoryCauseEffect: {
		strength: "You clearly show why things happen in your story.",
		good:     "You connect some causes to their effects.",
		improve:  "Words like 'because' and 'so' show readers why things happen.",
		nextStep: "Add one 'because' sentence explaining a character's choice.",
		exercise: "Write three sentence pairs: something happens, then what it causes.",
	},
	rubric.CategoryProblemSolving: {
		strength: "Your character tackles their problem in a clever, believable way.",
		good:     "Your character works through their problem.",
		improve:  "Show the steps your character takes to solve their problem.",
		nextStep: "Add a moment where your character's first idea doesn't work.",
		exercise: "Write about a character who solves a problem in an unexpected way.",
	},
	rubric.CategoryThemeRecognition: {
		strength: "Your story carries a meaningful message without ever preaching.",
		good:     "There's a nice idea underneath your story.",
		improve:  "Think about what you want readers to feel or learn from your story.",
		nextStep: "Finish this sentence: 'My story is really about...'",
		exercise: "Write a story that shows (not tells) something about friendship or courage.",
	},
	rubric.CategoryAgeAppropriateness: {
		strength: "Your story is a perfect fit for readers your age.",
		good:     "Your story suits its readers well.",
		improve:  "Keep your word choices and topics friendly for readers your age.",
		nextStep: "Reread your story imagining a classmate is the reader.",
		exercise: "Rewrite one paragraph so a younger sibling could enjoy it too.",
	},
}

var openingClauses = map[int][]string{
	2: {
		"What a wonderful story!",
		"This is fantastic work!",
		"What an impressive piece of writing!",
	},
	1: {
		"This is a good story with real promise.",
		"Nice work on this story.",
		"You've written something you can be proud of.",
	},
	0: {
		"Thanks for sharing your story.",
		"You've made a real start here.",
		"Every story is a step forward, and this one is no exception.",
	},
}

var encouragements = []string{
	"Keep writing. Every story makes you stronger.",
	"Your ideas matter. Keep putting them on the page.",
	"Writers grow one story at a time, and you're growing.",
	"Can't wait to read what you write next!",
}

var youngClosings = []string{
	"Keep using your amazing imagination!",
	"You're becoming a great storyteller!",
}

var olderClosings = []string{
	"Keep pushing your writing. You have real skill.",
	"Your voice as a writer is getting stronger with every story.",
}

var integrityNarratives = []string{
	"Thanks for sharing this story. The most exciting stories are the ones only you could tell, in your own words, about things you've seen, imagined or felt. For your next story, try writing every sentence yourself, even if it feels messier. Your own voice is what makes your writing special.",
	"Thanks for submitting your story. What teachers and readers love most is hearing your voice: your ideas, told your way. Next time, start from something only you know: a memory, a dream, a place you love. Write it in your own words from start to finish. That's where real writing begins.",
}

// Synthesizer builds the feedback bundle from scores and the verdict.
type Synthesizer struct{}

// Synthesize produces both the feedback block and the recommendations block.
// When the verdict's internal risk tier is high or critical, the teacher
// comment is replaced by a narrative encouraging original writing, while the
// rest of the rubric-based feedback is still produced.
func (Synthesizer) Synthesize(scores rubric.Scores, verdict integrity.Verdict, age int) (Bundle, Recommendations) {
	ranked := rankCategories(scores)

	var strengths, improvements, nextSteps, exercises []string
	for _, cs := range ranked {
		p := phrasings[cs.Category]
		switch {
		case cs.Score >= strengthBand:
			strengths = append(strengths, p.strength)
		case cs.Score >= goodBand:
			// "Good" lines surface only in the teacher comment; the
			// strengths list stays reserved for standout categories.
		default:
			improvements = append(improvements, p.improve)
			nextSteps = append(nextSteps, p.nextStep)
			exercises = append(exercises, p.exercise)
		}
	}
	if len(strengths) == 0 {
		// The best category is always worth naming, even on a rough draft.
		strengths = append(strengths, phrasings[ranked[0].Category].good)
	}

	seed := feedbackSeed(scores)
	bundle := Bundle{
		Strengths:     capList(strengths, 3),
		Improvements:  capList(improvements, 3),
		NextSteps:     capList(nextSteps, 3),
		Encouragement: pick(encouragements, seed),
	}

	risky := verdict.OverallRiskTier == integrity.RiskHigh || verdict.OverallRiskTier == integrity.RiskCritical
	if risky {
		bundle.TeacherComment = pick(integrityNarratives, seed)
	} else {
		bundle.TeacherComment = teacherComment(scores, ranked, age, seed)
	}

	recs := Recommendations{
		Immediate:         capList(nextSteps, 2),
		LongTerm:          longTermAdvice(ranked),
		PracticeExercises: capList(exercises, 2),
	}
	if len(recs.Immediate) == 0 {
		recs.Immediate = []string{"Share your story with someone and talk about your favorite part."}
	}
	if len(recs.PracticeExercises) == 0 {
		recs.PracticeExercises = []string{"Try writing a story in a genre you've never tried before."}
	}
	return bundle, recs
}

func teacherComment(scores rubric.Scores, ranked []rubric.CategoryScore, age int, seed uint64) string {
	var sb strings.Builder
	sb.WriteString(pick(openingClauses[bandIndex(scores.Overall)], seed))

	top := ranked[:min(2, len(ranked))]
	for i, cs := range top {
		if cs.Score < goodBand {
			top = top[:i]
			break
		}
	}
	if len(top) > 0 {
		sb.WriteString(" ")
		sb.WriteString(phrasings[top[0].Category].strength)
		if len(top) > 1 {
			sb.WriteString(" ")
			sb.WriteString(phrasings[top[1].Category].strength)
		}
	}

	low := lowCategories(ranked, 2)
	if len(low) > 0 {
		sb.WriteString(" ")
		sb.WriteString(phrasings[low[0]].improve)
		if len(low) > 1 {
			sb.WriteString(" ")
			sb.WriteString(phrasings[low[1]].improve)
		}
	}

	sb.WriteString(" ")
	if age <= 10 {
		sb.WriteString(pick(youngClosings, seed))
	} else {
		sb.WriteString(pick(olderClosings, seed))
	}
	return sb.String()
}

func longTermAdvice(ranked []rubric.CategoryScore) []string {
	low := lowCategories(ranked, 2)
	advice := make([]string, 0, 2)
	for _, cat := range low {
		advice = append(advice, fmt.Sprintf("Focus on %s over your next few stories.", readableCategory(cat)))
	}
	if len(advice) == 0 {
		advice = append(advice, "Experiment with longer stories and new points of view.")
	}
	return advice
}

// rankCategories orders scores high to low, breaking ties by category name so
// the ordering is stable across runs.
func rankCategories(scores rubric.Scores) []rubric.CategoryScore {
	ranked := make([]rubric.CategoryScore, 0, len(scores.Categories))
	for _, cat := range rubric.AllCategories {
		ranked = append(ranked, scores.Categories[cat])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Category < ranked[j].Category
	})
	return ranked
}

func lowCategories(ranked []rubric.CategoryScore, n int) []rubric.Category {
	low := []rubric.Category{}
	for i := len(ranked) - 1; i >= 0 && len(low) < n; i-- {
		if ranked[i].Score < goodBand {
			low = append(low, ranked[i].Category)
		}
	}
	return low
}

func bandIndex(overall int) int {
	switch {
	case overall >= strengthBand:
		return 2
	case overall >= goodBand:
		return 1
	default:
		return 0
	}
}

// feedbackSeed hashes the score vector so phrasing variants are stable for a
// given assessment but vary between different submissions.
func feedbackSeed(scores rubric.Scores) uint64 {
	h := fnv.New64a()
	for _, cat := range rubric.AllCategories {
		fmt.Fprintf(h, "%s=%d;", cat, scores.Categories[cat].Score)
	}
	return h.Sum64()
}

func pick(variants []string, seed uint64) string {
	return variants[seed%uint64(len(variants))]
}

func capList(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func readableCategory(cat rubric.Category) string {
	names := map[rubric.Category]string{
		rubric.CategoryGrammar:              "grammar",
		rubric.CategoryVocabulary:           "vocabulary",
		rubric.CategoryCreativity:           "creativity",
		rubric.CategoryStructure:            "story structure",
		rubric.CategoryCharacterDevelopment: "character development",
		rubric.CategoryPlotDevelopment:      "plot development",
		rubric.CategoryDescriptiveWriting:   "descriptive writing",
		rubric.CategorySensoryDetails:       "sensory details",
		rubric.CategoryPlotLogic:            "plot logic",
		rubric.CategoryCauseEffect:          "cause and effect",
		rubric.CategoryProblemSolving:       "problem solving",
		rubric.CategoryThemeRecognition:     "theme",
		rubric.CategoryAgeAppropriateness:   "age-appropriate writing",
	}
	if n, ok := names[cat]; ok {
		return n
	}
	return string(cat)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
