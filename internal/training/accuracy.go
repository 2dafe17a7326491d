package training

import (
	"math"
	"slices"
	"strings"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/store"
)

type FieldAccuracy struct {
	Compared int     `json:"compared"`
	Matched  int     `json:"matched"`
	Rate     float64 `json:"rate"`
}

type AccuracyReport struct {
	// Records counts verified records with decodable data.
	Records int                      `json:"records"`
	Fields  map[string]FieldAccuracy `json:"fields"`
	Overall float64                  `json:"overall"`
}

type fieldComparison struct {
	name    string
	compare func(extracted, verified *golf.CourseData) (compared, matched bool)
}

// Only fields present in the verified data are compared.
var comparisons = []fieldComparison{
	{"course_name", func(e, v *golf.CourseData) (bool, bool) {
		return v.CourseName != "", sameText(e.CourseName, v.CourseName)
	}},
	{"tee_name", func(e, v *golf.CourseData) (bool, bool) {
		return v.TeeName != "", sameText(e.TeeName, v.TeeName)
	}},
	{"course_rating", func(e, v *golf.CourseData) (bool, bool) {
		return v.CourseRating != nil, e.CourseRating != nil && v.CourseRating != nil && math.Abs(*e.CourseRating-*v.CourseRating) < 0.05
	}},
	{"slope_rating", func(e, v *golf.CourseData) (bool, bool) {
		return v.SlopeRating != nil, e.SlopeRating != nil && v.SlopeRating != nil && *e.SlopeRating == *v.SlopeRating
	}},
	{"par_values", func(e, v *golf.CourseData) (bool, bool) {
		return len(v.ParValues) > 0, slices.Equal(e.ParValues, v.ParValues)
	}},
	{"handicap_values", func(e, v *golf.CourseData) (bool, bool) {
		return len(v.HandicapValues) > 0, slices.Equal(e.HandicapValues, v.HandicapValues)
	}},
	{"total_par", func(e, v *golf.CourseData) (bool, bool) {
		return v.TotalPar != nil, e.TotalPar != nil && v.TotalPar != nil && *e.TotalPar == *v.TotalPar
	}},
}

func sameText(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// MeasureAccuracy compares extracted against verified data, field by field,
// over the verified records.
func MeasureAccuracy(records []store.TrainingDataRecord) AccuracyReport {
	report := AccuracyReport{Fields: make(map[string]FieldAccuracy, len(comparisons))}
	var compared, matched int

	for _, rec := range records {
		if !rec.IsVerified {
			continue
		}
		verified, ok := decodeCourse(rec.VerifiedData)
		if !ok {
			continue
		}
		extracted, ok := decodeCourse(rec.ExtractedData)
		if !ok {
			extracted = &golf.CourseData{}
		}
		report.Records++

		for _, c := range comparisons {
			cmp, match := c.compare(extracted, verified)
			if !cmp {
				continue
			}
			fa := report.Fields[c.name]
			fa.Compared++
			compared++
			if match {
				fa.Matched++
				matched++
			}
			report.Fields[c.name] = fa
		}
	}

	for name, fa := range report.Fields {
		fa.Rate = float64(fa.Matched) / float64(fa.Compared)
		report.Fields[name] = fa
	}
	if compared > 0 {
		report.Overall = float64(matched) / float64(compared)
	}
	return report
}
