package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/store"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/training"
)

// complete stores the parsed data and scores and marks the scan completed.
func (s *Service) complete(ctx context.Context, rep *ScanReport, processed string, ext *extraction) error {
	raw, err := json.Marshal(ext.payload)
	if err != nil {
		return fmt.Errorf("encoding OCR payload: %w", err)
	}
	parsed, err := json.Marshal(ext.data)
	if err != nil {
		return fmt.Errorf("encoding parsed data: %w", err)
	}
	scores := make(map[string]float64, len(ext.fields)+1)
	for k, v := range ext.fields {
		scores[k] = v
	}
	scores["overall"] = ext.confidence

	if err := s.store.CompleteScan(ctx, rep.ScanID, store.ScanUpdate{
		ProcessedImagePath: processed,
		RawOCRPayload:      raw,
		ParsedData:         parsed,
		ConfidenceScores:   scores,
	}); err != nil {
		return fmt.Errorf("completing scan %s: %w", rep.ScanID, err)
	}
	rep.Status = store.ScanCompleted
	return nil
}

// fail records err on the scan and returns the report.
func (s *Service) fail(ctx context.Context, rep *ScanReport, processed string, err error) *ScanReport {
	logger.Errorf("[pipeline] scan %s failed: %v", rep.ScanID, err)
	rep.Status = store.ScanFailed
	rep.Errors = append(rep.Errors, err.Error())
	if ferr := s.store.FailScan(ctx, rep.ScanID, store.ScanUpdate{
		ProcessedImagePath: processed,
		ErrorMessage:       err.Error(),
	}); ferr != nil {
		logger.Errorf("[pipeline] scan %s: recording failure: %v", rep.ScanID, ferr)
	}
	return rep
}

// recordTraining stores the training record for a completed scan. A failure
// here never affects the scan.
func (s *Service) recordTraining(ctx context.Context, scanID uuid.UUID, res *ocr.Result, ext *extraction, elapsed time.Duration) {
	rec, err := s.training.Build(training.BuildInput{
		ScanID:         scanID,
		Result:         res,
		Data:           ext.data,
		Confidence:     ext.confidence,
		ProcessingTime: elapsed,
	})
	if err == nil {
		err = s.store.CreateTrainingRecord(ctx, rec)
	}
	if err != nil {
		logger.Errorf("[pipeline] scan %s: training record: %v", scanID, err)
	}
}
