package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TrainingQuery filters training records. Zero values match everything.
type TrainingQuery struct {
	VerifiedOnly       bool
	CandidatesOnly     bool
	MinConfidence      float64
	OCRProvider        string
	EnhancedPromptOnly bool
}

func (r *Repository) CreateTrainingRecord(ctx context.Context, rec *TrainingDataRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) GetTrainingRecord(ctx context.Context, id uuid.UUID) (*TrainingDataRecord, error) {
	var rec TrainingDataRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, dbError(err)
	}
	return &rec, nil
}

func (r *Repository) ListTrainingRecords(ctx context.Context, q TrainingQuery) ([]TrainingDataRecord, error) {
	tx := r.db.WithContext(ctx).Order("created_at, id")
	if q.VerifiedOnly {
		tx = tx.Where("is_verified = ?", true)
	}
	if q.CandidatesOnly {
		tx = tx.Where("is_training_candidate = ?", true)
	}
	if q.MinConfidence > 0 {
		tx = tx.Where("confidence_score >= ?", q.MinConfidence)
	}
	if q.OCRProvider != "" {
		tx = tx.Where("ocr_provider = ?", q.OCRProvider)
	}
	if q.EnhancedPromptOnly {
		tx = tx.Where("used_enhanced_prompt = ?", true)
	}

	var out []TrainingDataRecord
	if err := tx.Find(&out).Error; err != nil {
		return nil, dbError(err)
	}
	return out, nil
}

// VerifyTrainingRecord stores the human-reviewed data for a record.
func (r *Repository) VerifyTrainingRecord(ctx context.Context, id uuid.UUID, verified, corrections datatypes.JSON) error {
	res := r.db.WithContext(ctx).Model(&TrainingDataRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"verified_data": verified,
			"corrections":   corrections,
			"is_verified":   true,
		})
	if res.Error != nil {
		return dbError(res.Error)
	}
	if res.RowsAffected == 0 {
		return &RepositoryError{Code: CodeNotFound, Message: "Training record not found", Detail: id.String(), Err: ErrNotFound}
	}
	return nil
}
