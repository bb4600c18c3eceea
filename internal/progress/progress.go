// Package progress compares a new assessment against a writer's earlier
// attempts.
package progress

import (
	"time"

	"storygrade/internal/rubric"
)

// improvementThreshold is the minimum per-category gain worth calling out.
const improvementThreshold = 5

// HistoryEntry is one prior assessment, as stored by the repository.
type HistoryEntry struct {
	Date           time.Time               `json:"date"`
	OverallScore   int                     `json:"overallScore"`
	CategoryScores map[rubric.Category]int `json:"categoryScores"`
}

// Delta summarizes movement since the most recent prior attempt.
type Delta struct {
	ScoreChange   int               `json:"scoreChange"`
	AreasImproved []rubric.Category `json:"areasImproved"`
	PreviousDate  time.Time         `json:"previousDate"`
	PreviousScore int               `json:"previousScore"`
}

// Compute returns nil when there is no history to compare against. History is
// ordered oldest first; only the most recent entry is compared.
func Compute(scores rubric.Scores, history []HistoryEntry) *Delta {
	if len(history) == 0 {
		return nil
	}
	prev := history[len(history)-1]

	delta := &Delta{
		PreviousDate:  prev.Date,
		PreviousScore: prev.OverallScore,
	}
	for _, cat := range rubric.AllCategories {
		current, ok := scores.Categories[cat]
		if !ok {
			continue
		}
		before, ok := prev.CategoryScores[cat]
		if !ok {
			continue
		}
		change := current.Score - before
		delta.ScoreChange += change
		if change > improvementThreshold {
			delta.AreasImproved = append(delta.AreasImproved, cat)
		}
	}
	return delta
}
