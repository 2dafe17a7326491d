// Package training builds, exports and scores the per-scan records used to
// evaluate OCR quality.
package training

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/confidence"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/store"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/validation"
)

// Builder assembles a TrainingDataRecord once a scan completes. Enhanced
// scans are validated strictly; the rest use the standard policy.
type Builder struct {
	thresholds confidence.Thresholds
	standard   *validation.Validator
	strict     *validation.Validator
}

func NewBuilder(cfg config.TrainingConfig) *Builder {
	return &Builder{
		thresholds: confidence.ThresholdsFrom(cfg),
		standard:   validation.New(validation.Standard),
		strict:     validation.New(validation.Strict),
	}
}

type BuildInput struct {
	ScanID         uuid.UUID
	Result         *ocr.Result
	Data           *golf.CourseData
	Confidence     float64
	ProcessingTime time.Duration
}

func (b *Builder) Build(in BuildInput) (*store.TrainingDataRecord, error) {
	if in.Result == nil {
		return nil, fmt.Errorf("building training record for scan %s: no OCR result", in.ScanID)
	}
	data := in.Data
	if data == nil {
		data = &golf.CourseData{}
	}

	raw, err := json.Marshal(in.Result)
	if err != nil {
		return nil, fmt.Errorf("encoding OCR result: %w", err)
	}
	extracted, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding extracted data: %w", err)
	}

	v := b.standard
	if in.Result.Enhanced {
		v = b.strict
	}
	res := v.Validate(data)
	completeness := confidence.Completeness(data)

	return &store.TrainingDataRecord{
		ScanID:                in.ScanID,
		RawOCRResponse:        datatypes.JSON(raw),
		ExtractedData:         datatypes.JSON(extracted),
		ConfidenceScore:       in.Confidence,
		IsTrainingCandidate:   b.thresholds.IsTrainingCandidate(in.Confidence, completeness, len(res.Errors)),
		OCRProvider:           in.Result.Provider,
		UsedEnhancedPrompt:    in.Result.Enhanced,
		DataCompletenessScore: completeness,
		FieldConfidenceScores: datatypes.NewJSONType(confidence.FieldConfidence(data)),
		ValidationErrors:      datatypes.NewJSONSlice(res.ErrorMessages()),
		ProcessingTimeMs:      in.ProcessingTime.Milliseconds(),
	}, nil
}
