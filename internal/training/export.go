package training

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/store"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/writer"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

type Filter struct {
	VerifiedOnly       bool
	MinConfidence      float64
	OCRProvider        string
	EnhancedPromptOnly bool
}

// RecordSource is satisfied by *store.Repository.
type RecordSource interface {
	ListTrainingRecords(ctx context.Context, q store.TrainingQuery) ([]store.TrainingDataRecord, error)
}

// Row is one flattened training record.
type Row struct {
	ID                  string   `json:"id"`
	ScanID              string   `json:"scan_id"`
	OCRProvider         string   `json:"ocr_provider"`
	UsedEnhancedPrompt  bool     `json:"used_enhanced_prompt"`
	ConfidenceScore     float64  `json:"confidence_score"`
	CompletenessScore   int      `json:"data_completeness_score"`
	IsTrainingCandidate bool     `json:"is_training_candidate"`
	IsVerified          bool     `json:"is_verified"`
	CourseName          string   `json:"course_name"`
	TeeName             string   `json:"tee_name"`
	CourseRating        *float64 `json:"course_rating"`
	SlopeRating         *int     `json:"slope_rating"`
	ParValues           []int    `json:"par_values"`
	HandicapValues      []int    `json:"handicap_values"`
	Players             []string `json:"players"`
	ValidationErrors    []string `json:"validation_errors"`
	ProcessingTimeMs    int64    `json:"processing_time_ms"`
	CreatedAt           string   `json:"created_at"`
}

func rowHeader() []string {
	return []string{
		"id", "scan_id", "ocr_provider", "used_enhanced_prompt", "confidence_score",
		"data_completeness_score", "is_training_candidate", "is_verified",
		"course_name", "tee_name", "course_rating", "slope_rating",
		"par_values", "handicap_values", "players", "validation_errors",
		"processing_time_ms", "created_at",
	}
}

func mapRow(r Row) []string {
	rating := ""
	if r.CourseRating != nil {
		rating = strconv.FormatFloat(*r.CourseRating, 'f', 1, 64)
	}
	slope := ""
	if r.SlopeRating != nil {
		slope = strconv.Itoa(*r.SlopeRating)
	}
	return []string{
		r.ID,
		r.ScanID,
		r.OCRProvider,
		strconv.FormatBool(r.UsedEnhancedPrompt),
		strconv.FormatFloat(r.ConfidenceScore, 'f', 4, 64),
		strconv.Itoa(r.CompletenessScore),
		strconv.FormatBool(r.IsTrainingCandidate),
		strconv.FormatBool(r.IsVerified),
		r.CourseName,
		r.TeeName,
		rating,
		slope,
		joinInts(r.ParValues),
		joinInts(r.HandicapValues),
		strings.Join(r.Players, "|"),
		strings.Join(r.ValidationErrors, "; "),
		strconv.FormatInt(r.ProcessingTimeMs, 10),
		r.CreatedAt,
	}
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

// Flatten converts a stored record into an export row.
func Flatten(rec store.TrainingDataRecord) Row {
	row := Row{
		ID:                  rec.ID.String(),
		ScanID:              rec.ScanID.String(),
		OCRProvider:         rec.OCRProvider,
		UsedEnhancedPrompt:  rec.UsedEnhancedPrompt,
		ConfidenceScore:     rec.ConfidenceScore,
		CompletenessScore:   rec.DataCompletenessScore,
		IsTrainingCandidate: rec.IsTrainingCandidate,
		IsVerified:          rec.IsVerified,
		ValidationErrors:    []string(rec.ValidationErrors),
		ProcessingTimeMs:    rec.ProcessingTimeMs,
		CreatedAt:           rec.CreatedAt.UTC().Format(time.RFC3339),
	}
	if d, ok := decodeCourse(rec.ExtractedData); ok {
		row.CourseName = d.CourseName
		row.TeeName = d.TeeName
		row.CourseRating = d.CourseRating
		row.SlopeRating = d.SlopeRating
		row.ParValues = d.ParValues
		row.HandicapValues = d.HandicapValues
		row.Players = d.Players
	}
	return row
}

func decodeCourse(raw []byte) (*golf.CourseData, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var d golf.CourseData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false
	}
	return &d, true
}

type Exporter struct {
	records RecordSource
}

func NewExporter(records RecordSource) *Exporter {
	return &Exporter{records: records}
}

// Export writes the matching records to path and returns how many were
// written.
func (e *Exporter) Export(ctx context.Context, f Filter, format Format, path string) (int, error) {
	recs, err := e.records.ListTrainingRecords(ctx, store.TrainingQuery{
		VerifiedOnly:       f.VerifiedOnly,
		MinConfidence:      f.MinConfidence,
		OCRProvider:        f.OCRProvider,
		EnhancedPromptOnly: f.EnhancedPromptOnly,
	})
	if err != nil {
		return 0, fmt.Errorf("loading training records: %w", err)
	}

	rows := make([]Row, len(recs))
	for i, rec := range recs {
		rows[i] = Flatten(rec)
	}

	switch format {
	case FormatCSV:
		w := writer.NewCSVWriter(mapRow, rowHeader)
		defer w.Close()
		err = w.Write(ctx, rows, path, writer.ModeReplace)
	case FormatJSON:
		err = writer.WriteJSON(rows, path)
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return 0, fmt.Errorf("exporting to %s: %w", path, err)
	}
	logger.Infof("[training] exported %d records to %s", len(rows), path)
	return len(rows), nil
}
