package image

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
)

const (
	originalsSegment = "originals"
	processedSegment = "processed"

	// Images below this size are doubled when upscaling is allowed.
	minDimension = 300
)

type ImageProcessor struct {
	maxWidth     int
	maxHeight    int
	allowUpscale bool
	contrast     float64
	sharpen      float64
}

func NewImageProcessor(cfg config.ImageConfig) *ImageProcessor {
	return &ImageProcessor{
		maxWidth:     cfg.MaxWidth,
		maxHeight:    cfg.MaxHeight,
		allowUpscale: cfg.AllowUpscale,
		contrast:     cfg.Contrast,
		sharpen:      cfg.Sharpen,
	}
}

// Preprocess writes a grayscale, contrast-boosted, sharpened and (if too
// large) downsized copy of the image and returns its path. The original is
// left untouched.
func (ip *ImageProcessor) Preprocess(path string) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("opening image %s: %w", path, err)
	}

	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, ip.contrast)
	out = imaging.Sharpen(out, ip.sharpen)
	out = ip.resize(out)

	target := ProcessedPath(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("creating processed directory: %w", err)
	}
	if err := imaging.Save(out, target); err != nil {
		return "", fmt.Errorf("saving processed image: %w", err)
	}

	logger.DebugLog("[image]: %s -> %s (%dx%d)", path, target, out.Bounds().Dx(), out.Bounds().Dy())
	return target, nil
}

func (ip *ImageProcessor) resize(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if (ip.maxWidth > 0 && w > ip.maxWidth) || (ip.maxHeight > 0 && h > ip.maxHeight) {
		maxW, maxH := ip.maxWidth, ip.maxHeight
		if maxW == 0 {
			maxW = w
		}
		if maxH == 0 {
			maxH = h
		}
		return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	if ip.allowUpscale && (w < minDimension || h < minDimension) {
		return imaging.Resize(img, w*2, h*2, imaging.Lanczos)
	}
	return img
}

// ProcessedPath derives the artifact path: the "originals" directory segment
// becomes "processed", or the file name gets a "_processed" suffix when there
// is no such segment.
func ProcessedPath(path string) string {
	dir, file := filepath.Split(path)
	segments := strings.Split(filepath.ToSlash(filepath.Clean(dir)), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == originalsSegment {
			segments[i] = processedSegment
			return filepath.Join(filepath.FromSlash(strings.Join(segments, "/")), file)
		}
	}

	extension := filepath.Ext(path)
	return path[:len(path)-len(extension)] + "_processed" + extension
}

func (ip *ImageProcessor) Cleanup(filePath string) error {
	return os.Remove(filePath)
}
