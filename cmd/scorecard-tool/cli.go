package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"

	"github.com/google/uuid"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr/engine"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/pipeline"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/store"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/training"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/writer"
)

var errUsage = errors.New("usage: scorecard-tool <process|export|courses|approve|reject|accuracy|migrate> [flags]")

type CLI struct {
	out        io.Writer
	configPath string
}

func NewCLI(out io.Writer) *CLI {
	return &CLI{out: out}
}

func (c *CLI) Run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "process":
		return c.process(ctx, rest)
	case "export":
		return c.export(ctx, rest)
	case "courses":
		return c.courses(ctx, rest)
	case "approve", "reject":
		return c.review(ctx, cmd, rest)
	case "accuracy":
		return c.accuracy(ctx, rest)
	case "migrate":
		return c.migrate(ctx, rest)
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}

func (c *CLI) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	fs.StringVar(&c.configPath, "config", "", "Path to a YAML config file")
	return fs
}

// open loads the config and a migrated repository.
func (c *CLI) open(ctx context.Context) (*config.Config, *store.Repository, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, nil, err
	}
	repo, err := store.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := repo.Migrate(ctx); err != nil {
		_ = repo.Close()
		return nil, nil, err
	}
	return cfg, repo, nil
}

func (c *CLI) process(ctx context.Context, args []string) error {
	fs := c.flags("process")
	imagesDir := fs.String("images", "images", "Directory containing scorecard images")
	userID := fs.String("user", "", "User the scans belong to")
	reportPath := fs.String("report", "", "Optional JSON file for the per-image report")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	if *userID == "" {
		return errors.New("process: -user is required")
	}

	cfg, repo, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	provider, err := engine.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	svc := pipeline.NewService(cfg, repo, provider)
	report, err := svc.ProcessDirectory(ctx, *userID, *imagesDir)
	if err != nil {
		return err
	}
	for _, item := range report.Items {
		switch {
		case item.Error != "":
			fmt.Fprintf(c.out, "Skipped %s: %s\n", item.ImagePath, item.Error)
		case item.Report.Status == store.ScanFailed:
			fmt.Fprintf(c.out, "Error processing %s: %v\n", item.ImagePath, item.Report.Errors)
		default:
			fmt.Fprintf(c.out, "Processed %s: scan %s\n", item.ImagePath, item.Report.ScanID)
		}
	}
	if *reportPath != "" {
		if err := writer.WriteJSON(report.Items, *reportPath); err != nil {
			return err
		}
	}
	fmt.Fprintf(c.out, "\nProcessing complete: %s\n", report)
	return nil
}

func (c *CLI) export(ctx context.Context, args []string) error {
	fs := c.flags("export")
	format := fs.String("format", "json", "Export format (json, csv)")
	outPath := fs.String("out", "", "Output file (default training_data.<format>)")
	var f training.Filter
	fs.BoolVar(&f.VerifiedOnly, "verified", false, "Only verified records")
	fs.Float64Var(&f.MinConfidence, "min-confidence", 0, "Minimum confidence score")
	fs.StringVar(&f.OCRProvider, "provider", "", "Only records from this OCR provider")
	fs.BoolVar(&f.EnhancedPromptOnly, "enhanced", false, "Only records from the enhanced prompt")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	ft, err := training.ParseFormat(*format)
	if err != nil {
		return err
	}
	path := *outPath
	if path == "" {
		path = "training_data." + string(ft)
	}

	_, repo, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	n, err := training.NewExporter(repo).Export(ctx, f, ft, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Exported %d records to %s\n", n, filepath.Clean(path))
	return nil
}

func (c *CLI) courses(ctx context.Context, args []string) error {
	fs := c.flags("courses")
	status := fs.String("status", string(store.CoursePending), "Unverified status to list, or \"verified\"")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	_, repo, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	if *status == "verified" {
		courses, err := repo.ListVerifiedCourses(ctx)
		if err != nil {
			return err
		}
		for _, course := range courses {
			fmt.Fprintf(c.out, "%s\t%s\t%s\n", course.ID, course.Name, course.TeeName)
		}
		return nil
	}
	staged, err := repo.ListUnverifiedCourses(ctx, store.CourseStatus(*status))
	if err != nil {
		return err
	}
	for _, uc := range staged {
		fmt.Fprintf(c.out, "%s\t%s\t%s\t%s\t%d\n", uc.ID, uc.Name, uc.TeeName, uc.Status, uc.SubmissionCount)
	}
	return nil
}

func (c *CLI) review(ctx context.Context, cmd string, args []string) error {
	fs := c.flags(cmd)
	idFlag := fs.String("id", "", "Unverified course ID")
	notes := fs.String("notes", "", "Admin notes")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	id, err := uuid.Parse(*idFlag)
	if err != nil {
		return fmt.Errorf("%s: invalid -id %q: %w", cmd, *idFlag, err)
	}

	_, repo, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	if cmd == "reject" {
		if err := repo.RejectUnverifiedCourse(ctx, id, *notes); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Rejected %s\n", id)
		return nil
	}
	course, err := repo.ApproveUnverifiedCourse(ctx, id, *notes)
	if err != nil {
		return err
	}
	logger.Infof("[cli] approved %s as course %s", id, course.ID)
	fmt.Fprintf(c.out, "Approved %s as course %s\n", id, course.ID)
	return nil
}

func (c *CLI) accuracy(ctx context.Context, args []string) error {
	fs := c.flags("accuracy")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	_, repo, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	records, err := repo.ListTrainingRecords(ctx, store.TrainingQuery{VerifiedOnly: true})
	if err != nil {
		return err
	}
	report := training.MeasureAccuracy(records)
	fmt.Fprintf(c.out, "Records: %d\nOverall: %.3f\n", report.Records, report.Overall)
	for _, name := range slices.Sorted(maps.Keys(report.Fields)) {
		fa := report.Fields[name]
		fmt.Fprintf(c.out, "%s\t%d/%d\t%.3f\n", name, fa.Matched, fa.Compared, fa.Rate)
	}
	return nil
}

func (c *CLI) migrate(ctx context.Context, args []string) error {
	fs := c.flags("migrate")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	_, repo, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()
	fmt.Fprintln(c.out, "Migrated")
	return nil
}
