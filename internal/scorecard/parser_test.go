package scorecard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/golf"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

var (
	pars18 = []any{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5, 4, 4, 3, 4, 5}
	hcps18 = []any{7, 1, 17, 3, 11, 9, 15, 5, 13, 8, 2, 18, 4, 12, 10, 16, 6, 14}
)

func TestParse_Flat(t *testing.T) {
	// Arrange
	res := &ocr.Result{
		Provider: "ocrspace",
		GolfCourseProperties: map[string]any{
			"course_name":     "Pine Valley Golf Club",
			"tee":             "Championship",
			"rating":          "74.1",
			"slope_rating":    155,
			"par_values":      pars18,
			"handicap_values": hcps18,
			"total_par":       72,
			"players":         []any{"Alice", "Bob"},
			"player_scores": map[string]any{
				"Bob":   []any{5, 5, 4, 6, 5, 5, 4, 5, 6, 5, 5, 4, 6, 5, 5, 4, 5, 6},
				"Alice": map[string]any{"hole_scores": []any{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5, 4, 4, 3, 4, 5}, "total": 72},
			},
		},
	}

	// Act
	data, err := NewParser().Parse(res)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Pine Valley Golf Club", data.CourseName)
	assert.Equal(t, "Championship", data.TeeName)
	require.NotNil(t, data.CourseRating)
	assert.Equal(t, 74.1, *data.CourseRating)
	require.NotNil(t, data.SlopeRating)
	assert.Equal(t, 155, *data.SlopeRating)
	assert.Len(t, data.ParValues, 18)
	assert.Len(t, data.HandicapValues, 18)
	assert.Equal(t, 72, *data.TotalPar)
	assert.Equal(t, []string{"Alice", "Bob"}, data.Players)
	assert.Equal(t, 72, data.PlayerScores["Alice"].TotalScore())
	assert.Equal(t, 90, data.PlayerScores["Bob"].TotalScore())
}

func TestParse_Enhanced(t *testing.T) {
	// Arrange
	res := &ocr.Result{
		Provider: "vision_chat",
		Enhanced: true,
		StructuredData: map[string]any{
			"course_information": map[string]any{
				"course_name":     "Oak Hill Country Club",
				"location":        "Rochester, NY",
				"tee_name":        "Blue",
				"par_values":      pars18,
				"handicap_values": hcps18,
				"date":            "2024-06-01",
			},
			"tee_boxes": []any{
				map[string]any{"name": "White", "course_rating": 70.2, "slope_rating": 125, "total_yardage": 6400},
				map[string]any{"name": "blue", "course_rating": 73.4, "slope_rating": 135, "total_yardage": 6900},
			},
			"player_scores": []any{
				map[string]any{
					"player_name": "Carol",
					"hole_scores": []any{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5, 4, 4, 3, 4, 5},
					"front_nine":  36,
					"back_nine":   36,
					"total":       72,
				},
				map[string]any{"name": "Dan", "scores": []any{5, 5, 5}},
			},
			"field_confidence": map[string]any{"course_name": 0.95, "tee_name": 90},
		},
	}

	// Act
	data, err := NewParser().Parse(res)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Oak Hill Country Club", data.CourseName)
	assert.Equal(t, "Rochester, NY", data.Location)
	assert.Equal(t, "Blue", data.TeeName)
	assert.Equal(t, 73.4, *data.CourseRating, "rating comes from the matching tee box")
	assert.Equal(t, 135, *data.SlopeRating)
	assert.Equal(t, 6900, *data.TotalYardage)
	assert.Nil(t, data.TotalPar, "parse never derives totals")
	assert.Equal(t, "2024-06-01", data.Date)
	assert.Len(t, data.TeeBoxes, 2)
	assert.Equal(t, []string{"Carol", "Dan"}, data.Players)
	assert.Equal(t, 36, data.PlayerScores["Carol"].FrontNineScore())
	assert.Equal(t, 15, data.PlayerScores["Dan"].TotalScore())
	assert.Equal(t, 0.95, data.FieldConfidence["course_name"])
	assert.Equal(t, 90.0, data.FieldConfidence["tee_name"])
}

func TestParse_EnhancedAtTopLevel(t *testing.T) {
	doc := golf.Payload{
		"course_information": map[string]any{"name": "Bethpage Black"},
		"tee_boxes":          []any{map[string]any{"name": "Black", "rating": 77.5, "slope": 155}},
	}

	s := ParseSources(doc)

	require.NotNil(t, s.Enhanced)
	assert.Nil(t, s.Flat)
	assert.Equal(t, "Bethpage Black", s.Enhanced.CourseName)
	assert.Equal(t, "Black", s.Enhanced.TeeName, "tee name falls back to the first tee box")
	assert.Equal(t, 77.5, *s.Enhanced.CourseRating)
}

func TestParse_NoPars(t *testing.T) {
	res := &ocr.Result{GolfCourseProperties: map[string]any{"course_name": "Short Course Club"}}

	data, err := NewParser().Parse(res)

	require.NoError(t, err)
	assert.Empty(t, data.ParValues)
	assert.Empty(t, data.HandicapValues)
}

func TestParse_PlayerKeysTrimmed(t *testing.T) {
	// Arrange
	res := &ocr.Result{
		GolfCourseProperties: map[string]any{
			"course_name": "Oak Hill Country Club",
			"players":     []any{"Amy"},
			"player_scores": map[string]any{
				" Amy ": []any{4, 5, 3},
				"Amy":   []any{9, 9, 9},
				"  ":    []any{1, 1, 1},
			},
		},
	}

	// Act
	data, err := NewParser().Parse(res)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Amy"}, data.Players)
	require.Len(t, data.PlayerScores, 1)
	assert.Equal(t, 12, data.PlayerScores["Amy"].TotalScore(), "first key in sorted order wins")
}

func TestParse_Nil(t *testing.T) {
	_, err := NewParser().Parse(nil)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestParse_Empty(t *testing.T) {
	data, err := NewParser().Parse(&ocr.Result{Provider: "mock"})

	require.NoError(t, err)
	assert.True(t, data.IsEmpty())
}

func TestSelectBest(t *testing.T) {
	rich := &golf.CourseData{
		CourseName:   "Flat Name",
		TeeName:      "White",
		CourseRating: golf.Float(70),
		SlopeRating:  golf.Int(120),
	}
	poor := &golf.CourseData{CourseName: "Enhanced Name", Date: "2024-01-01"}

	tests := []struct {
		name     string
		sources  Sources
		wantName string
		wantDate string
	}{
		{
			name:     "more complete flat is base",
			sources:  Sources{Enhanced: poor, Flat: rich},
			wantName: "Flat Name",
			wantDate: "2024-01-01",
		},
		{
			name:     "more complete enhanced is base",
			sources:  Sources{Enhanced: rich, Flat: poor},
			wantName: "Flat Name",
			wantDate: "2024-01-01",
		},
		{
			name: "tie favours enhanced",
			sources: Sources{
				Enhanced: &golf.CourseData{CourseName: "A", TeeName: "Blue"},
				Flat:     &golf.CourseData{CourseName: "B", TeeName: "Red"},
			},
			wantName: "A",
		},
		{
			name:     "single source",
			sources:  Sources{Flat: poor},
			wantName: "Enhanced Name",
			wantDate: "2024-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectBest(tt.sources)

			require.NotNil(t, got)
			assert.Equal(t, tt.wantName, got.CourseName)
			assert.Equal(t, tt.wantDate, got.Date)
		})
	}

	assert.Nil(t, SelectBest(Sources{}))
}

func TestParse_RawTextFallback(t *testing.T) {
	// Arrange
	res := &ocr.Result{
		RawText: "SCORECARD\nRiverside Golf Club\nBlue Tees 72.3/131\n" +
			"Par 4 5 3 4 4 5 3 4 4 36 4 4 3 5 4 4 3 5 4 36 72\n" +
			"HCP 5 1 17 9 3 11 15 7 13 8 2 18 4 12 10 16 6 14",
		GolfCourseProperties: map[string]any{"location": "Austin, TX"},
	}

	// Act
	data, err := NewParser().Parse(res)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Riverside Golf Club", data.CourseName)
	assert.Equal(t, "Austin, TX", data.Location)
	assert.Equal(t, "Blue", data.TeeName)
	assert.Equal(t, 72.3, *data.CourseRating)
	assert.Equal(t, 131, *data.SlopeRating)
	assert.Equal(t, []int{4, 5, 3, 4, 4, 5, 3, 4, 4, 4, 4, 3, 5, 4, 4, 3, 5, 4}, data.ParValues)
	assert.Len(t, data.HandicapValues, 18)
}

func TestParse_StructuredNameBeatsText(t *testing.T) {
	res := &ocr.Result{
		RawText:              "Some Other Golf Club",
		GolfCourseProperties: map[string]any{"course_name": "Named Course"},
	}

	data, err := NewParser().Parse(res)

	require.NoError(t, err)
	assert.Equal(t, "Named Course", data.CourseName)
}

func TestHoleRow(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []int
	}{
		{name: "plain 18", line: "Par 4 4 3 5 4 4 3 4 5 4 4 3 5 4 4 3 4 5", want: []int{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5, 4, 4, 3, 4, 5}},
		{name: "out and in", line: "Par 4 4 3 5 4 4 3 4 5 36 4 4 3 5 4 4 3 4 5 36", want: []int{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5, 4, 4, 3, 4, 5}},
		{name: "trailing total", line: "Par 4 4 3 5 4 4 3 4 5 4 4 3 5 4 4 3 4 5 72", want: []int{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5, 4, 4, 3, 4, 5}},
		{name: "nine holes", line: "Par 4 4 3 5 4 4 3 4 5", want: []int{4, 4, 3, 5, 4, 4, 3, 4, 5}},
		{name: "too short", line: "Par 3", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, holeRow(tt.line))
		})
	}
}
