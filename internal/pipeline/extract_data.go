package pipeline

import (
	"fmt"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/confidence"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/scorecard"
)

type extraction struct {
	payload      golf.Payload
	sources      scorecard.Sources
	data         *golf.CourseData
	confidence   float64
	completeness int
	fields       map[string]float64
}

// extract parses both payload shapes and scores the merged record.
func (s *Service) extract(res *ocr.Result) (*extraction, error) {
	payload, err := golf.PayloadFrom(res)
	if err != nil {
		return nil, fmt.Errorf("decoding OCR result: %w", err)
	}
	sources := scorecard.ParseSources(payload)
	data := scorecard.SelectBest(sources)
	if data == nil {
		data = &golf.CourseData{}
	}

	ext := &extraction{
		payload:      payload,
		sources:      sources,
		data:         data,
		confidence:   confidence.Overall(payload),
		completeness: confidence.Completeness(data),
		fields:       confidence.FieldConfidence(data),
	}
	logger.DebugLog("[extract]: course=%q confidence=%.2f completeness=%d", data.CourseName, ext.confidence, ext.completeness)
	return ext, nil
}
