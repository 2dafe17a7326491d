package image

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
)

func writeTestImage(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	require.NoError(t, imaging.Save(img, path))
}

func newProcessor(maxW, maxH int, upscale bool) *ImageProcessor {
	return NewImageProcessor(config.ImageConfig{MaxWidth: maxW, MaxHeight: maxH, AllowUpscale: upscale, Contrast: 20, Sharpen: 1})
}

func TestProcessedPath(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"/data/scans/originals/abc.jpg", "/data/scans/processed/abc.jpg"},
		{"/data/originals/user/1/abc.png", "/data/processed/user/1/abc.png"},
		{"uploads/abc.jpg", "uploads/abc_processed.jpg"},
		{"/data/originals-old/abc.jpg", "/data/originals-old/abc_processed.jpg"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tc.want), ProcessedPath(filepath.FromSlash(tc.in)))
		})
	}
}

func TestPreprocess_DownsizesLargeImages(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	src := filepath.Join(dir, "originals", "card.png")
	writeTestImage(t, src, 3000, 1500)
	before, err := os.ReadFile(src)
	require.NoError(t, err)

	// Act
	out, err := newProcessor(2000, 2000, false).Preprocess(src)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "processed", "card.png"), out)
	img, err := imaging.Open(out)
	require.NoError(t, err)
	assert.Equal(t, 2000, img.Bounds().Dx())
	assert.Equal(t, 1000, img.Bounds().Dy())

	after, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, before, after, "original must not change")
}

func TestPreprocess_Grayscale(t *testing.T) {
	src := filepath.Join(t.TempDir(), "card.png")
	writeTestImage(t, src, 50, 40)

	out, err := newProcessor(2000, 2000, false).Preprocess(src)

	require.NoError(t, err)
	img, err := imaging.Open(out)
	require.NoError(t, err)
	c := color.NRGBAModel.Convert(img.At(25, 20)).(color.NRGBA)
	assert.Equal(t, c.R, c.G)
	assert.Equal(t, c.G, c.B)
}

func TestPreprocess_NoUpscaleByDefault(t *testing.T) {
	src := filepath.Join(t.TempDir(), "small.png")
	writeTestImage(t, src, 120, 80)

	out, err := newProcessor(2000, 2000, false).Preprocess(src)

	require.NoError(t, err)
	img, err := imaging.Open(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 120, 80), img.Bounds())
}

func TestPreprocess_UpscaleWhenAllowed(t *testing.T) {
	src := filepath.Join(t.TempDir(), "small.png")
	writeTestImage(t, src, 120, 80)

	out, err := newProcessor(2000, 2000, true).Preprocess(src)

	require.NoError(t, err)
	img, err := imaging.Open(out)
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 160, img.Bounds().Dy())
}

func TestPreprocess_MissingFile(t *testing.T) {
	_, err := newProcessor(2000, 2000, false).Preprocess(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestGeometryPlaceholders(t *testing.T) {
	src := filepath.Join(t.TempDir(), "card.png")
	writeTestImage(t, src, 64, 32)
	ip := newProcessor(0, 0, false)

	corners, err := ip.DetectCorners(src)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(64, 32), corners[2])

	out, err := ip.CorrectPerspective(src, corners)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestCleanup(t *testing.T) {
	src := filepath.Join(t.TempDir(), "card_processed.png")
	writeTestImage(t, src, 10, 10)

	require.NoError(t, newProcessor(0, 0, false).Cleanup(src))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}
