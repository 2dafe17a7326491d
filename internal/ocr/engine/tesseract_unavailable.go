//go:build !tesseract

package engine

import (
	"context"
	"errors"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

const tesseractAvailable = false

var errTesseractUnavailable = errors.New("tesseract: binary built without the tesseract build tag")

// TesseractEngine stands in for the cgo engine in builds without the
// tesseract tag; every call fails so Fallback serves mock data.
type TesseractEngine struct{}

func NewTesseractEngine(cfg config.ProviderConfig) (*TesseractEngine, error) {
	return &TesseractEngine{}, nil
}

func (t *TesseractEngine) Name() string { return ocr.KindTesseract.String() }

func (t *TesseractEngine) ExtractText(ctx context.Context, imagePath string) (*ocr.Result, error) {
	return nil, errTesseractUnavailable
}

func (t *TesseractEngine) Close() error {
	return nil
}
