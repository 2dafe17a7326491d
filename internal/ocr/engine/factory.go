package engine

import (
	"fmt"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

// New builds the concrete provider for kind.
func New(kind ocr.Kind, cfg config.ProviderConfig) (ocr.Provider, error) {
	switch kind {
	case ocr.KindMock:
		return NewMock(), nil
	case ocr.KindOCRSpace:
		return NewOCRSpaceEngine(cfg), nil
	case ocr.KindGoogleVision:
		return NewGoogleVisionEngine(cfg), nil
	case ocr.KindTextract:
		return NewTextractEngine(), nil
	case ocr.KindVisionChat:
		return NewVisionChatEngine(cfg), nil
	case ocr.KindOllama:
		return NewOllamaEngine(cfg), nil
	case ocr.KindTesseract:
		if !tesseractAvailable {
			logger.Errorf("[engine]: tesseract selected but not compiled in, scans will use mock data")
		}
		return NewTesseractEngine(cfg)
	}
	return nil, fmt.Errorf("unhandled ocr provider kind: %v", kind)
}

// NewFromConfig resolves the configured default provider once and wraps it
// in a Fallback with that provider's timeout.
func NewFromConfig(cfg *config.Config) (*Fallback, error) {
	kind, err := ocr.ParseKind(cfg.OCR.Default)
	if err != nil {
		return nil, err
	}
	providerCfg := cfg.Provider(kind.String())
	p, err := New(kind, providerCfg)
	if err != nil {
		return nil, err
	}
	logger.DebugLog("[engine]: using ocr provider %s (timeout %s)", kind, providerCfg.Timeout())
	return NewFallback(p, providerCfg.Timeout()), nil
}
