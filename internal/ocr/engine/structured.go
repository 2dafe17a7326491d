package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

// standardResult reads a standard-mode model reply. The reply should be the
// JSON from standardPrompt, but plain transcribed text is accepted too.
func standardResult(provider, reply string) *ocr.Result {
	res := &ocr.Result{Provider: provider, RawText: strings.TrimSpace(reply)}

	raw, err := extractJSON(reply)
	if err != nil {
		logger.DebugLog("[%s]: standard reply is not JSON, keeping raw text", provider)
		return res
	}
	obj, err := decodeObject(raw)
	if err != nil {
		return res
	}

	if text, ok := obj["raw_text"].(string); ok && text != "" {
		res.RawText = text
	}
	if c, ok := obj["confidence"].(float64); ok {
		res.Confidence = ocr.NormalizeConfidence(c)
	}
	if props, ok := obj["golf_course_properties"].(map[string]any); ok {
		res.GolfCourseProperties = props
	}
	return res
}

// enhancedResult reads an enhanced-mode reply. Anything that is not a JSON
// object is an ocr.ErrInvalidFormat.
func enhancedResult(provider, reply string) (*ocr.Result, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return nil, fmt.Errorf("%s enhanced reply: %w", provider, err)
	}
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%s enhanced reply: %w", provider, err)
	}
	if _, ok := obj["course_information"]; !ok {
		if _, ok := obj["player_scores"]; !ok {
			return nil, fmt.Errorf("%s enhanced reply has neither course_information nor player_scores: %w", provider, ocr.ErrInvalidFormat)
		}
	}

	res := &ocr.Result{
		Provider:       provider,
		RawText:        string(raw),
		StructuredData: obj,
		Enhanced:       true,
	}
	if c, ok := obj["overall_confidence"].(float64); ok {
		res.Confidence = ocr.NormalizeConfidence(c)
	}
	return res, nil
}

var errEmptyReply = errors.New("empty reply")
