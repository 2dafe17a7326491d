package ocr

import (
	"context"
	"errors"
)

// ErrInvalidFormat is returned when a provider that promises structured
// output returns something that is not valid JSON. It is never replaced by
// mock data.
var ErrInvalidFormat = errors.New("invalid format")

type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	BBox       BBox    `json:"bbox"`
}

type Line struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words,omitempty"`
}

// Result is the common shape every provider returns. A zero Confidence is
// omitted from the serialized payload and treated as "not reported".
type Result struct {
	RawText              string         `json:"raw_text"`
	Confidence           float64        `json:"confidence,omitempty"`
	Words                []Word         `json:"words,omitempty"`
	Lines                []Line         `json:"lines,omitempty"`
	Provider             string         `json:"provider"`
	StructuredData       map[string]any `json:"structured_data,omitempty"`
	GolfCourseProperties map[string]any `json:"golf_course_properties,omitempty"`
	Enhanced             bool           `json:"enhanced,omitempty"`
	Fallback             bool           `json:"fallback,omitempty"`
}

type Provider interface {
	ExtractText(ctx context.Context, imagePath string) (*Result, error)
	Name() string
}

// EnhancedProvider is implemented by providers that can run the structured
// extraction prompt and return course_information, tee_boxes and
// player_scores in StructuredData.
type EnhancedProvider interface {
	Provider
	ExtractEnhanced(ctx context.Context, imagePath string) (*Result, error)
}

// Closer is implemented by providers holding native resources.
type Closer interface {
	Close() error
}
