package engine

import (
	"context"
	"strings"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

// Mock returns the same scorecard for every image. It is both a selectable
// provider and the degradation target of Fallback.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Name() string { return ocr.KindMock.String() }

var mockLines = []string{
	"Mock Valley Golf Club",
	"Springfield, IL",
	"White Tees Rating 70.1 Slope 121",
	"Hole 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16 17 18",
	"Par 4 4 3 5 4 4 3 4 5 4 4 3 5 4 4 3 4 5",
	"Handicap 7 1 17 3 11 9 15 5 13 8 2 18 4 12 10 16 6 14",
}

func (m *Mock) ExtractText(ctx context.Context, imagePath string) (*ocr.Result, error) {
	lines := make([]ocr.Line, 0, len(mockLines))
	var words []ocr.Word
	for i, text := range mockLines {
		var lineWords []ocr.Word
		x := 10
		for _, token := range strings.Fields(text) {
			w := ocr.Word{
				Text:       token,
				Confidence: 0.75,
				BBox:       ocr.BBox{X: x, Y: 20 + i*30, Width: 12 * len(token), Height: 24},
			}
			x += w.BBox.Width + 8
			lineWords = append(lineWords, w)
		}
		words = append(words, lineWords...)
		lines = append(lines, ocr.Line{Text: text, Confidence: 0.75, Words: lineWords})
	}

	return &ocr.Result{
		RawText:    strings.Join(mockLines, "\n"),
		Confidence: ocr.WordConfidence(words),
		Words:      words,
		Lines:      lines,
		Provider:   m.Name(),
		GolfCourseProperties: map[string]any{
			"course_name":      "Mock Valley Golf Club",
			"location":         "Springfield, IL",
			"tee_name":         "White",
			"course_rating":    70.1,
			"slope_rating":     121,
			"par_values":       []any{4, 4, 3, 5, 4, 4, 3, 4, 5, 4, 4, 3, 5, 4, 4, 3, 4, 5},
			"handicap_values":  []any{7, 1, 17, 3, 11, 9, 15, 5, 13, 8, 2, 18, 4, 12, 10, 16, 6, 14},
			"total_par":        72,
			"confidence_score": 0.75,
		},
	}, nil
}
