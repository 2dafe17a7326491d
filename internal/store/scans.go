package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func (r *Repository) CreateScan(ctx context.Context, scan *ScanResult) error {
	scan.Status = ScanProcessing
	if err := r.db.WithContext(ctx).Create(scan).Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) GetScan(ctx context.Context, id uuid.UUID) (*ScanResult, error) {
	var scan ScanResult
	if err := r.db.WithContext(ctx).First(&scan, "id = ?", id).Error; err != nil {
		return nil, dbError(err)
	}
	return &scan, nil
}

// ScanUpdate carries the fields written when a scan finishes.
type ScanUpdate struct {
	ProcessedImagePath string
	RawOCRPayload      datatypes.JSON
	ParsedData         datatypes.JSON
	ConfidenceScores   map[string]float64
	ErrorMessage       string
}

func (r *Repository) CompleteScan(ctx context.Context, id uuid.UUID, u ScanUpdate) error {
	return r.finishScan(ctx, id, ScanCompleted, u)
}

func (r *Repository) FailScan(ctx context.Context, id uuid.UUID, u ScanUpdate) error {
	return r.finishScan(ctx, id, ScanFailed, u)
}

// finishScan moves a processing scan to a terminal status. Terminal scans
// are never updated again.
func (r *Repository) finishScan(ctx context.Context, id uuid.UUID, status ScanStatus, u ScanUpdate) error {
	values := map[string]any{
		"status":        status,
		"error_message": u.ErrorMessage,
	}
	if u.ProcessedImagePath != "" {
		values["processed_image_path"] = u.ProcessedImagePath
	}
	if len(u.RawOCRPayload) > 0 {
		values["raw_ocr_payload"] = u.RawOCRPayload
	}
	if len(u.ParsedData) > 0 {
		values["parsed_data"] = u.ParsedData
	}
	if u.ConfidenceScores != nil {
		values["confidence_scores"] = datatypes.NewJSONType(u.ConfidenceScores)
	}

	return dbError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ScanResult{}).
			Where("id = ? AND status = ?", id, ScanProcessing).
			Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		var scan ScanResult
		if err := tx.First(&scan, "id = ?", id).Error; err != nil {
			return err
		}
		return &RepositoryError{
			Code:    CodeInvalidState,
			Message: "Scan already finished",
			Detail:  string(scan.Status),
			Err:     ErrInvalidState,
		}
	}))
}

func (r *Repository) ListScans(ctx context.Context, status ScanStatus) ([]ScanResult, error) {
	var out []ScanResult
	q := r.db.WithContext(ctx).Order("created_at, id")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, dbError(err)
	}
	return out, nil
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
