package confidence

import "github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"

type Thresholds struct {
	HighConfidence   float64
	HighCompleteness int
	LowConfidence    float64
	LowCompleteness  int
}

func ThresholdsFrom(cfg config.TrainingConfig) Thresholds {
	return Thresholds{
		HighConfidence:   cfg.HighConfidence,
		HighCompleteness: cfg.HighCompleteness,
		LowConfidence:    cfg.LowConfidence,
		LowCompleteness:  cfg.LowCompleteness,
	}
}

// IsTrainingCandidate keeps clean high-quality records, structured records
// the OCR was unsure about, and every record with validation errors.
func (t Thresholds) IsTrainingCandidate(confidence float64, completeness int, validationErrors int) bool {
	highQuality := confidence >= t.HighConfidence && completeness >= t.HighCompleteness && validationErrors == 0
	ambiguous := confidence < t.LowConfidence && completeness >= t.LowCompleteness
	negative := validationErrors > 0
	return highQuality || ambiguous || negative
}
