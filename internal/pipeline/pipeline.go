// Package pipeline runs scans end to end: preprocess, OCR, parse, score,
// reconcile, materialise and record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/image"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/reconcile"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/rounds"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/scorecard"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/store"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/training"
)

// Store is the persistence a Service needs. *store.Repository satisfies it.
type Store interface {
	reconcile.CourseStore
	rounds.RoundStore
	CreateScan(ctx context.Context, scan *store.ScanResult) error
	CompleteScan(ctx context.Context, id uuid.UUID, u store.ScanUpdate) error
	FailScan(ctx context.Context, id uuid.UUID, u store.ScanUpdate) error
	CreateTrainingRecord(ctx context.Context, rec *store.TrainingDataRecord) error
}

type Service struct {
	store        Store
	provider     ocr.Provider
	images       *image.ImageProcessor
	parser       *scorecard.Parser
	reconciler   *reconcile.Engine
	materializer *rounds.Materializer
	training     *training.Builder

	enhanced     bool
	workers      int
	maxImageSize int64
}

func NewService(cfg *config.Config, st Store, provider ocr.Provider) *Service {
	return &Service{
		store:        st,
		provider:     provider,
		images:       image.NewImageProcessor(cfg.Image),
		parser:       scorecard.NewParser(),
		reconciler:   reconcile.NewEngine(st, cfg.Reconcile),
		materializer: rounds.NewMaterializer(st),
		training:     training.NewBuilder(cfg.Training),
		enhanced:     cfg.OCR.Enhanced,
		workers:      max(cfg.Pipeline.Workers, 1),
		maxImageSize: cfg.Pipeline.MaxImageSize,
	}
}

type Upload struct {
	UserID    string
	ImagePath string
}

// ScanReport is the per-scan outcome. Errors holds the non-fatal problems of
// a completed scan, or the failure of a failed one.
type ScanReport struct {
	ScanID        uuid.UUID        `json:"scan_id"`
	ImagePath     string           `json:"image_path"`
	Status        store.ScanStatus `json:"status"`
	Provider      string           `json:"provider,omitempty"`
	Enhanced      bool             `json:"enhanced"`
	Confidence    float64          `json:"confidence"`
	Completeness  int              `json:"completeness"`
	CourseID      *uuid.UUID       `json:"course_id,omitempty"`
	CourseCreated bool             `json:"course_created"`
	CourseStaged  bool             `json:"course_staged"`
	RoundID       *uuid.UUID       `json:"round_id,omitempty"`
	Errors        []string         `json:"errors,omitempty"`
	Warnings      []string         `json:"warnings,omitempty"`
}

// ProcessScan runs one upload through every stage in order. Uploads rejected
// at the boundary return an error and create no scan; every later failure is
// recorded on the scan and reported, not returned.
func (s *Service) ProcessScan(ctx context.Context, up Upload) (*ScanReport, error) {
	if err := ValidateUpload(up.ImagePath, s.maxImageSize); err != nil {
		return nil, err
	}

	started := time.Now()
	scan := &store.ScanResult{UserID: up.UserID, OriginalImagePath: up.ImagePath}
	if err := s.store.CreateScan(ctx, scan); err != nil {
		return nil, fmt.Errorf("creating scan for %s: %w", up.ImagePath, err)
	}
	rep := &ScanReport{ScanID: scan.ID, ImagePath: up.ImagePath, Status: store.ScanProcessing}
	logger.DebugLog("[pipeline] scan %s started for %s", scan.ID, up.ImagePath)

	processed, err := s.preprocess(up.ImagePath)
	if err != nil {
		return s.fail(ctx, rep, "", err), nil
	}

	res, err := s.recognize(ctx, processed)
	if err != nil {
		if cleanupErr := s.images.Cleanup(processed); cleanupErr != nil {
			logger.DebugLog("[pipeline] cleanup %s: %v", processed, cleanupErr)
		}
		return s.fail(ctx, rep, "", err), nil
	}
	rep.Provider = res.Provider
	rep.Enhanced = res.Enhanced

	ext, err := s.extract(res)
	if err != nil {
		return s.fail(ctx, rep, processed, err), nil
	}
	rep.Confidence = ext.confidence
	rep.Completeness = ext.completeness

	s.resolve(ctx, up, scan.ID, ext, rep)

	if err := s.complete(ctx, rep, processed, ext); err != nil {
		return s.fail(ctx, rep, processed, err), nil
	}
	s.recordTraining(ctx, scan.ID, res, ext, time.Since(started))

	logger.Infof("[pipeline] scan %s completed: course_created=%t staged=%t round=%t errors=%d",
		scan.ID, rep.CourseCreated, rep.CourseStaged, rep.RoundID != nil, len(rep.Errors))
	return rep, nil
}

// resolve reconciles the course and, when one is resolved, writes the round.
// Problems are added to the report without failing the scan.
func (s *Service) resolve(ctx context.Context, up Upload, scanID uuid.UUID, ext *extraction, rep *ScanReport) {
	out, err := s.reconciler.Reconcile(ctx, reconcile.Request{
		ScanID:     scanID,
		Sources:    ext.sources,
		Confidence: ext.confidence,
	})
	if err != nil {
		if errors.Is(err, reconcile.ErrNoData) {
			rep.Errors = append(rep.Errors, "No course data extracted")
		} else {
			logger.Errorf("[pipeline] scan %s: reconcile: %v", scanID, err)
			rep.Errors = append(rep.Errors, err.Error())
		}
		return
	}

	rep.Errors = append(rep.Errors, out.Errors...)
	rep.Warnings = append(rep.Warnings, out.Warnings...)
	rep.CourseID = out.CourseID
	rep.CourseCreated = out.CourseCreated
	rep.CourseStaged = out.Staged
	if !out.Matched() {
		return
	}

	made, err := s.materializer.Materialize(ctx, rounds.Input{
		UserID: up.UserID,
		ScanID: scanID,
		Course: out.Course,
		Data:   ext.data,
	})
	if err != nil {
		if !errors.Is(err, rounds.ErrNoPlayers) {
			logger.Errorf("[pipeline] scan %s: %v", scanID, err)
		}
		rep.Errors = append(rep.Errors, err.Error())
		return
	}
	id := made.Round.ID
	rep.RoundID = &id
}
