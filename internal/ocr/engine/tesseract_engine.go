//go:build tesseract

package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

const tesseractAvailable = true

type TesseractEngine struct {
	language string
}

func NewTesseractEngine(cfg config.ProviderConfig) (*TesseractEngine, error) {
	language := cfg.Language
	if language == "" {
		language = "eng"
	}
	return &TesseractEngine{language: language}, nil
}

func (t *TesseractEngine) Name() string { return ocr.KindTesseract.String() }

// ExtractText runs tesseract in-process. The cgo call cannot be interrupted,
// so ctx is only checked before starting.
func (t *TesseractEngine) ExtractText(ctx context.Context, imagePath string) (*ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(t.language); err != nil {
		return nil, fmt.Errorf("tesseract: setting language: %w", err)
	}
	client.SetPageSegMode(gosseract.PSM_AUTO)
	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("tesseract: loading image %s: %w", imagePath, err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("tesseract: extracting text from %s: %w", imagePath, err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("tesseract: reading word boxes: %w", err)
	}
	words := make([]ocr.Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, ocr.Word{
			Text:       b.Word,
			Confidence: ocr.NormalizeConfidence(b.Confidence),
			BBox:       ocr.BBox{X: b.Box.Min.X, Y: b.Box.Min.Y, Width: b.Box.Dx(), Height: b.Box.Dy()},
		})
	}

	var lines []ocr.Line
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, ocr.Line{Text: l})
		}
	}

	return &ocr.Result{
		RawText:    strings.TrimSpace(text),
		Confidence: ocr.WordConfidence(words),
		Words:      words,
		Lines:      lines,
		Provider:   t.Name(),
	}, nil
}

func (t *TesseractEngine) Close() error {
	return nil
}
