package image

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Corners holds the four scorecard corners in pixel coordinates, clockwise
// from top-left.
type Corners [4]image.Point

// DetectCorners is a placeholder: it reports the full image frame instead of
// locating the card.
func (ip *ImageProcessor) DetectCorners(path string) (Corners, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return Corners{}, fmt.Errorf("opening image %s: %w", path, err)
	}
	b := img.Bounds()
	return Corners{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Max.Y},
	}, nil
}

// CorrectPerspective is a placeholder that returns path unchanged.
func (ip *ImageProcessor) CorrectPerspective(path string, corners Corners) (string, error) {
	return path, nil
}
