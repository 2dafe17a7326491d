package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

var errNoOCRResult = errors.New("provider returned no result")

// recognize runs OCR on the processed image, in enhanced mode when enabled
// and supported by the provider.
func (s *Service) recognize(ctx context.Context, imagePath string) (*ocr.Result, error) {
	var (
		res *ocr.Result
		err error
	)
	if ep, ok := s.provider.(ocr.EnhancedProvider); ok && s.enhanced {
		logger.DebugLog("[recognize]: enhanced extraction of %s via %s", imagePath, s.provider.Name())
		res, err = ep.ExtractEnhanced(ctx, imagePath)
	} else {
		logger.DebugLog("[recognize]: extracting %s via %s", imagePath, s.provider.Name())
		res, err = s.provider.ExtractText(ctx, imagePath)
	}
	if err != nil {
		return nil, fmt.Errorf("OCR of %s: %w", imagePath, err)
	}
	if res == nil {
		return nil, fmt.Errorf("OCR of %s: %w", imagePath, errNoOCRResult)
	}
	if res.Fallback {
		logger.Infof("[recognize]: %s served mock data for %s", s.provider.Name(), imagePath)
	}
	return res, nil
}
