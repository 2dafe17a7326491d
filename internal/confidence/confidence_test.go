package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
)

func TestOverall_Precedence(t *testing.T) {
	testCases := []struct {
		name    string
		payload golf.Payload
		want    float64
	}{
		{
			name: "explicit confidence wins",
			payload: golf.Payload{
				"confidence":             0.42,
				"structured_data":        map[string]any{"overall_confidence": 0.9},
				"golf_course_properties": map[string]any{"confidence_score": 0.8},
			},
			want: 0.42,
		},
		{
			name:    "explicit percentage rescaled",
			payload: golf.Payload{"confidence": 87.0},
			want:    0.87,
		},
		{
			name: "structured data",
			payload: golf.Payload{
				"structured_data":        map[string]any{"overall_confidence": 0.9},
				"golf_course_properties": map[string]any{"confidence_score": 0.8},
			},
			want: 0.9,
		},
		{
			name:    "golf course properties",
			payload: golf.Payload{"golf_course_properties": map[string]any{"confidence_score": 0.8}},
			want:    0.8,
		},
		{
			name: "mean word confidence",
			payload: golf.Payload{"words": []any{
				map[string]any{"text": "a", "confidence": 0.6},
				map[string]any{"text": "b", "confidence": 1.0},
			}},
			want: 0.8,
		},
		{
			name:    "neutral default",
			payload: golf.Payload{"raw_text": "hello"},
			want:    Neutral,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Overall(tc.payload), 1e-9)
		})
	}
}

func TestOverall_Bounds(t *testing.T) {
	inputs := []golf.Payload{
		{"confidence": 250.0},
		{"confidence": -4.0},
		{"structured_data": map[string]any{"overall_confidence": 1e9}},
		{"words": []any{map[string]any{"confidence": 180.0}, map[string]any{"confidence": 99.0}}},
		{"golf_course_properties": map[string]any{"confidence_score": "97"}},
		{},
	}
	for _, p := range inputs {
		got := Overall(p)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func fullCourse() *golf.CourseData {
	return &golf.CourseData{
		CourseName:     "Pine Valley Golf Club",
		TeeName:        "Blue",
		CourseRating:   golf.Float(72.1),
		SlopeRating:    golf.Int(131),
		TotalPar:       golf.Int(72),
		TotalYardage:   golf.Int(6700),
		ParValues:      []int{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5, 4, 4, 3, 4, 5},
		HandicapValues: []int{7, 1, 17, 3, 11, 9, 15, 5, 13, 8, 2, 18, 4, 12, 10, 16, 6, 14},
		Players:        []string{"A"},
		Date:           "2024-05-01",
		Location:       "Pine Valley, NJ",
	}
}

func TestCompleteness(t *testing.T) {
	assert.Equal(t, 0, Completeness(nil))
	assert.Equal(t, 0, Completeness(&golf.CourseData{}))
	assert.Equal(t, 100, Completeness(fullCourse()))
	// course_name(3) + tee_name(2) = 5 of 17
	assert.Equal(t, 29, Completeness(&golf.CourseData{CourseName: "X", TeeName: "Blue"}))
}

func TestCompleteness_Monotonic(t *testing.T) {
	additions := []func(*golf.CourseData){
		func(d *golf.CourseData) { d.CourseName = "Oak Hill" },
		func(d *golf.CourseData) { d.TeeName = "White" },
		func(d *golf.CourseData) { d.CourseRating = golf.Float(70) },
		func(d *golf.CourseData) { d.SlopeRating = golf.Int(120) },
		func(d *golf.CourseData) { d.TotalPar = golf.Int(72) },
		func(d *golf.CourseData) { d.TotalYardage = golf.Int(6500) },
		func(d *golf.CourseData) { d.ParValues = []int{4} },
		func(d *golf.CourseData) { d.HandicapValues = []int{1} },
		func(d *golf.CourseData) { d.Players = []string{"A"} },
		func(d *golf.CourseData) { d.Date = "2024-01-01" },
		func(d *golf.CourseData) { d.Location = "Rochester" },
	}

	// Every order prefix: adding one more field never lowers the score.
	d := &golf.CourseData{}
	prev := Completeness(d)
	for i, add := range additions {
		add(d)
		got := Completeness(d)
		assert.GreaterOrEqual(t, got, prev, "after addition %d", i)
		prev = got
	}

	// And each field in isolation from an arbitrary base.
	for i, add := range additions {
		base := &golf.CourseData{CourseName: "Base", Players: []string{"Z"}}
		before := Completeness(base)
		add(base)
		assert.GreaterOrEqual(t, Completeness(base), before, "isolated addition %d", i)
	}
}

func TestMissingRequired(t *testing.T) {
	assert.Equal(t, []string{"tee_name", "course_rating", "slope_rating"}, MissingRequired(&golf.CourseData{CourseName: "X"}))
	assert.Empty(t, MissingRequired(fullCourse()))
}

func TestFieldConfidence(t *testing.T) {
	// Arrange
	d := fullCourse()
	d.FieldConfidence = map[string]float64{"tee_name": 55}

	// Act
	got := FieldConfidence(d)

	// Assert
	assert.InDelta(t, 0.9, got["course_name"], 1e-9)
	assert.InDelta(t, 0.55, got["tee_name"], 1e-9, "explicit value wins and is rescaled")
	assert.InDelta(t, 0.9, got["course_rating"], 1e-9)
	assert.InDelta(t, 0.9, got["slope_rating"], 1e-9)
	assert.InDelta(t, 0.9, got["par_values"], 1e-9)
	assert.InDelta(t, 0.9, got["handicap_values"], 1e-9)
	for k, v := range got {
		assert.LessOrEqual(t, v, 1.0, k)
	}
}

func TestFieldConfidence_Heuristics(t *testing.T) {
	d := &golf.CourseData{
		CourseName:     "Accent Meadows",
		TeeName:        "Purple",
		CourseRating:   golf.Float(80),
		SlopeRating:    golf.Int(160),
		HandicapValues: []int{1, 1, 2},
	}

	got := FieldConfidence(d)

	assert.InDelta(t, 0.6, got["course_name"], 1e-9)
	assert.InDelta(t, 0.6, got["tee_name"], 1e-9)
	assert.InDelta(t, 0.4, got["course_rating"], 1e-9)
	assert.InDelta(t, 0.4, got["slope_rating"], 1e-9)
	assert.InDelta(t, 0.3, got["handicap_values"], 1e-9)
	assert.NotContains(t, got, "par_values")
}

func TestIsTrainingCandidate(t *testing.T) {
	th := Thresholds{HighConfidence: 0.8, HighCompleteness: 70, LowConfidence: 0.7, LowCompleteness: 60}
	testCases := []struct {
		name         string
		confidence   float64
		completeness int
		errors       int
		want         bool
	}{
		{"high quality", 0.9, 80, 0, true},
		{"high confidence incomplete", 0.9, 50, 0, false},
		{"ambiguous structured", 0.5, 65, 0, true},
		{"low confidence unstructured", 0.5, 40, 0, false},
		{"middle band", 0.75, 90, 0, false},
		{"negative example", 0.75, 10, 2, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, th.IsTrainingCandidate(tc.confidence, tc.completeness, tc.errors))
		})
	}
}
