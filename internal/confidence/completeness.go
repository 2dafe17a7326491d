package confidence

import (
	"math"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
)

type fieldWeight struct {
	name     string
	weight   int
	required bool
	present  func(*golf.CourseData) bool
}

var completenessWeights = []fieldWeight{
	{"course_name", 3, true, func(d *golf.CourseData) bool { return d.CourseName != "" }},
	{"tee_name", 2, true, func(d *golf.CourseData) bool { return d.TeeName != "" }},
	{"course_rating", 2, true, func(d *golf.CourseData) bool { return d.CourseRating != nil }},
	{"slope_rating", 2, true, func(d *golf.CourseData) bool { return d.SlopeRating != nil }},
	{"total_par", 1, false, func(d *golf.CourseData) bool { return d.TotalPar != nil }},
	{"total_yardage", 1, false, func(d *golf.CourseData) bool { return d.TotalYardage != nil }},
	{"par_values", 2, false, func(d *golf.CourseData) bool { return len(d.ParValues) > 0 }},
	{"handicap_values", 1, false, func(d *golf.CourseData) bool { return len(d.HandicapValues) > 0 }},
	{"players", 1, false, func(d *golf.CourseData) bool { return len(d.Players) > 0 }},
	{"date", 1, false, func(d *golf.CourseData) bool { return d.Date != "" }},
	{"location", 1, false, func(d *golf.CourseData) bool { return d.Location != "" }},
}

// Completeness is the weighted share of recognised fields that are present,
// as an integer percentage.
func Completeness(d *golf.CourseData) int {
	if d == nil {
		return 0
	}
	total, achieved := 0, 0
	for _, f := range completenessWeights {
		total += f.weight
		if f.present(d) {
			achieved += f.weight
		}
	}
	return int(math.Round(float64(achieved) / float64(total) * 100))
}

// MissingRequired lists the required fields absent from d.
func MissingRequired(d *golf.CourseData) []string {
	var missing []string
	for _, f := range completenessWeights {
		if f.required && (d == nil || !f.present(d)) {
			missing = append(missing, f.name)
		}
	}
	return missing
}
