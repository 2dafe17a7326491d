package engine

import (
	"context"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

// TextractEngine is a placeholder for AWS Textract. It answers with the mock
// scorecard, rescaled the way Textract reports confidence (0-100).
type TextractEngine struct {
	mock *Mock
}

func NewTextractEngine() *TextractEngine {
	return &TextractEngine{mock: NewMock()}
}

func (t *TextractEngine) Name() string { return ocr.KindTextract.String() }

func (t *TextractEngine) ExtractText(ctx context.Context, imagePath string) (*ocr.Result, error) {
	res, err := t.mock.ExtractText(ctx, imagePath)
	if err != nil {
		return nil, err
	}
	for i := range res.Words {
		// Textract block confidence arrives as a percentage.
		res.Words[i].Confidence = ocr.NormalizeConfidence(res.Words[i].Confidence * 100)
	}
	for i := range res.Lines {
		res.Lines[i].Confidence = ocr.NormalizeConfidence(res.Lines[i].Confidence * 100)
	}
	res.Confidence = ocr.WordConfidence(res.Words)
	res.Provider = t.Name()
	return res, nil
}
