// Package engine orchestrates one assessment: validation, the concurrent
// integrity branches, the rubric, feedback synthesis and persistence.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"storygrade/internal/aidetect"
	"storygrade/internal/feedback"
	"storygrade/internal/integrity"
	"storygrade/internal/knowledge"
	"storygrade/internal/plagiarism"
	"storygrade/internal/progress"
	"storygrade/internal/rubric"
	"storygrade/internal/textutil"
)

// ErrInvalidInput marks submissions rejected before any detector runs. The
// caller should fix the input rather than retry.
var ErrInvalidInput = errors.New("invalid input")

// ErrTransient marks failures worth retrying later, such as a repository
// write that did not go through. The assessment itself succeeded.
var ErrTransient = errors.New("transient failure")

// ErrComputation marks a scoring failure on accepted input. Retrying the same
// submission will fail the same way.
var ErrComputation = errors.New("computation failure")

// Metadata is the light context submitted alongside the story text.
type Metadata struct {
	SubjectID            string                  `json:"subjectId,omitempty"`
	ChildAge             int                     `json:"childAge"`
	StoryTitle           string                  `json:"storyTitle,omitempty"`
	ExpectedGenre        string                  `json:"expectedGenre,omitempty"`
	IsCollaborativeStory bool                    `json:"isCollaborativeStory,omitempty"`
	UserTurns            []string                `json:"userTurns,omitempty"`
	PreviousAttempts     []progress.HistoryEntry `json:"previousAttempts,omitempty"`
}

// Submission is the input contract.
type Submission struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// RunStats records how the assessment went, for reviewers and tuning.
type RunStats struct {
	WordCount     int   `json:"wordCount"`
	SentenceCount int   `json:"sentenceCount"`
	ElapsedMillis int64 `json:"elapsedMillis"`
}

// AssessmentReport is the output contract. Field names are stable; a
// presentation layer renders directly from this shape.
type AssessmentReport struct {
	ID               string                                   `json:"id"`
	CreatedAt        time.Time                                `json:"createdAt"`
	StoryTitle       string                                   `json:"storyTitle,omitempty"`
	OverallScore     int                                      `json:"overallScore"`
	CategoryScores   map[rubric.Category]rubric.CategoryScore `json:"categoryScores"`
	ReadingLevel     rubric.ReadingLevel                      `json:"readingLevel"`
	IntegrityVerdict integrity.Verdict                        `json:"integrityVerdict"`
	Feedback         feedback.Bundle                          `json:"feedback"`
	Recommendations  feedback.Recommendations                 `json:"recommendations"`
	ProgressDelta    *progress.Delta                          `json:"progressDelta,omitempty"`
	Stats            RunStats                                 `json:"stats"`
}

// Repository is the narrow persistence collaborator. Implementations must
// return attempts ordered oldest first.
type Repository interface {
	GetPreviousAttempts(ctx context.Context, subjectID string) ([]progress.HistoryEntry, error)
	SaveReport(ctx context.Context, subjectID string, report AssessmentReport) error
}

// Logger matches the detectors' logging contract.
type Logger interface {
	Log(level, stage, message, detail string)
}

type noopLogger struct{}

func (noopLogger) Log(level, stage, message, detail string) {}

// Engine wires the detectors together. Construct with New; the zero value is
// not usable.
type Engine struct {
	kb     *knowledge.Base
	ai     *aidetect.Detector
	plag   *plagiarism.Detector
	rubric rubric.Scorer
	synth  feedback.Synthesizer
	repo   Repository
	log    Logger

	minContentLength int
	policy           integrity.PassPolicy
}

// Options tune engine construction. Zero values select defaults.
type Options struct {
	Advisory         aidetect.Generator
	AdvisoryTimeout  time.Duration
	Repository       Repository
	Logger           Logger
	MinContentLength int
	Policy           integrity.PassPolicy
}

// New builds an engine around a loaded knowledge base.
func New(kb *knowledge.Base, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = noopLogger{}
	}
	minLen := opts.MinContentLength
	if minLen <= 0 {
		minLen = 50
	}
	return &Engine{
		kb: kb,
		ai: &aidetect.Detector{
			KB: kb,
			Advisory: &aidetect.AdvisoryScorer{
				Gen:     opts.Advisory,
				Timeout: opts.AdvisoryTimeout,
				Logger:  log,
			},
			Logger: log,
		},
		plag:             &plagiarism.Detector{KB: kb, Logger: log},
		rubric:           rubric.Scorer{KB: kb},
		repo:             opts.Repository,
		log:              log,
		minContentLength: minLen,
		policy:           opts.Policy,
	}
}

// Assess runs the full pipeline on one submission.
func (e *Engine) Assess(ctx context.Context, sub Submission) (AssessmentReport, error) {
	start := time.Now()

	if err := e.validate(sub); err != nil {
		return AssessmentReport{}, err
	}
	age := sub.Metadata.ChildAge
	doc := textutil.Normalize(sub.Content)
	e.log.Log("info", "engine", "assessment started", fmt.Sprintf("words=%d age=%d", len(doc.Words), age))

	// The integrity branches and the rubric have no data dependency on one
	// another, so all three run concurrently and join here.
	var (
		wg        sync.WaitGroup
		aiResult  aidetect.Result
		plagRes   plagiarism.Result
		scores    rubric.Scores
		rubricErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		aiResult = e.ai.Analyze(ctx, doc, age)
	}()
	go func() {
		defer wg.Done()
		plagRes = e.plag.Analyze(doc, age)
	}()
	go func() {
		defer wg.Done()
		scores, rubricErr = e.rubric.Score(doc, age)
	}()
	wg.Wait()

	if rubricErr != nil {
		// A fabricated neutral score is worse than an explicit failure.
		return AssessmentReport{}, fmt.Errorf("rubric scoring: %w: %w", ErrComputation, rubricErr)
	}

	verdict := integrity.Compose(aiResult, plagRes, e.policy)
	bundle, recs := e.synth.Synthesize(scores, verdict, age)

	report := AssessmentReport{
		ID:               uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		StoryTitle:       sub.Metadata.StoryTitle,
		OverallScore:     scores.Overall,
		CategoryScores:   scores.Categories,
		ReadingLevel:     scores.ReadingLevel,
		IntegrityVerdict: verdict,
		Feedback:         bundle,
		Recommendations:  recs,
	}

	history, err := e.history(ctx, sub.Metadata)
	if err != nil {
		// History is optional enrichment; a read failure never fails the
		// assessment.
		e.log.Log("warn", "engine", "history lookup failed", err.Error())
	}
	report.ProgressDelta = progress.Compute(scores, history)

	report.Stats = RunStats{
		WordCount:     len(doc.Words),
		SentenceCount: len(doc.Sentences),
		ElapsedMillis: time.Since(start).Milliseconds(),
	}

	if e.repo != nil && sub.Metadata.SubjectID != "" {
		if err := e.repo.SaveReport(ctx, sub.Metadata.SubjectID, report); err != nil {
			return report, fmt.Errorf("save report: %w: %w", ErrTransient, err)
		}
	}

	e.log.Log("info", "engine", "assessment finished",
		fmt.Sprintf("overall=%d tier=%s elapsedMs=%d", report.OverallScore, verdict.OverallRiskTier, report.Stats.ElapsedMillis))
	return report, nil
}

func (e *Engine) validate(sub Submission) error {
	if n := utf8.RuneCountInString(sub.Content); n < e.minContentLength {
		return fmt.Errorf("%w: content length %d below minimum %d", ErrInvalidInput, n, e.minContentLength)
	}
	age := sub.Metadata.ChildAge
	if age < 3 || age > 18 {
		return fmt.Errorf("%w: child age %d outside supported range 3-18", ErrInvalidInput, age)
	}
	return nil
}

// history prefers attempts supplied inline with the submission, falling back
// to the repository when a subject is identified.
func (e *Engine) history(ctx context.Context, md Metadata) ([]progress.HistoryEntry, error) {
	if len(md.PreviousAttempts) > 0 {
		return md.PreviousAttempts, nil
	}
	if e.repo == nil || md.SubjectID == "" {
		return nil, nil
	}
	return e.repo.GetPreviousAttempts(ctx, md.SubjectID)
}
