package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

// extractJSON pulls the first balanced JSON object out of a model reply,
// skipping any prose or markdown fences around it.
func extractJSON(input string) (json.RawMessage, error) {
	logger.DebugLog("[extractJSON]: extracting JSON from %d bytes", len(input))
	text := strings.TrimSpace(input)

	start := strings.IndexByte(text, '{')
	if start == -1 {
		return nil, fmt.Errorf("no JSON found in text: %w", ocr.ErrInvalidFormat)
	}

	depth := 0
	end := -1
	inString := false
	escaped := false

matchingBrace:
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i + 1
				break matchingBrace
			}
		}
	}

	if end == -1 {
		return nil, fmt.Errorf("no matching closing brace found: %w", ocr.ErrInvalidFormat)
	}

	raw := json.RawMessage(text[start:end])
	if !json.Valid(raw) {
		return nil, fmt.Errorf("extracted text is not valid JSON: %w", ocr.ErrInvalidFormat)
	}
	return raw, nil
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("decoding JSON object: %v: %w", err, ocr.ErrInvalidFormat)
	}
	return obj, nil
}
