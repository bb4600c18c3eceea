// Command storygrade assesses a child-authored story from a file and prints
// the assessment report as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"storygrade/internal/advisory"
	"storygrade/internal/aidetect"
	"storygrade/internal/config"
	"storygrade/internal/db"
	"storygrade/internal/engine"
	"storygrade/internal/ingest"
	"storygrade/internal/integrity"
	"storygrade/internal/knowledge"
)

func main() {
	var (
		filePath   = flag.String("file", "", "story file to assess (.txt, .md, .docx, .pdf); reads stdin when omitted")
		age        = flag.Int("age", 10, "the writer's age")
		subjectID  = flag.String("subject", "", "writer id for history and persistence (optional)")
		title      = flag.String("title", "", "story title (defaults to file name)")
		configPath = flag.String("config", "", "path to YAML configuration (optional)")
		verbose    = flag.Bool("v", false, "log pipeline stages to stderr")
	)
	flag.Parse()

	if err := run(*filePath, *age, *subjectID, *title, *configPath, *verbose); err != nil {
		if errors.Is(err, engine.ErrInvalidInput) {
			fmt.Fprintf(os.Stderr, "invalid submission: %v\n", err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "storygrade: %v\n", err)
		os.Exit(1)
	}
}

func run(filePath string, age int, subjectID, title, configPath string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, flush, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer flush()

	content, storyTitle, err := readStory(filePath)
	if err != nil {
		return err
	}
	if title != "" {
		storyTitle = title
	}

	kb, err := knowledge.Load()
	if err != nil {
		return fmt.Errorf("load knowledge base: %w", err)
	}

	var gen aidetect.Generator
	if cfg.Advisory.Endpoint != "" {
		gen = advisory.NewClient(cfg.Advisory.Endpoint, cfg.Advisory.Model, cfg.Advisory.Timeout())
	}

	var repo engine.Repository
	if subjectID != "" {
		store, err := db.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()
		repo = store
	}

	e := engine.New(kb, engine.Options{
		Advisory:         gen,
		AdvisoryTimeout:  cfg.Advisory.Timeout(),
		Repository:       repo,
		Logger:           log,
		MinContentLength: cfg.MinContentLength,
		Policy:           integrity.PassPolicy{BlockOnCritical: cfg.BlockOnCritical},
	})

	report, err := e.Assess(context.Background(), engine.Submission{
		Content: content,
		Metadata: engine.Metadata{
			SubjectID:  subjectID,
			ChildAge:   age,
			StoryTitle: storyTitle,
		},
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func readStory(filePath string) (content, title string, err error) {
	if filePath == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), "", nil
	}
	story, err := ingest.ParseFile(filePath)
	if err != nil {
		return "", "", err
	}
	return story.Text, story.Title, nil
}

// zapLogger adapts a SugaredLogger to the pipeline's Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (z zapLogger) Log(level, stage, message, detail string) {
	l := z.sugar.With("stage", stage, "detail", detail)
	switch level {
	case "error":
		l.Error(message)
	case "warn":
		l.Warn(message)
	case "debug":
		l.Debug(message)
	default:
		l.Info(message)
	}
}

type nopLogger struct{}

func (nopLogger) Log(level, stage, message, detail string) {}

func newLogger(verbose bool) (engine.Logger, func(), error) {
	if !verbose {
		return nopLogger{}, func() {}, nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return zapLogger{sugar: logger.Sugar()}, func() { _ = logger.Sync() }, nil
}
