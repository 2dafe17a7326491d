package ocr

import "fmt"

type Kind int

const (
	KindMock Kind = iota
	KindOCRSpace
	KindGoogleVision
	KindTextract
	KindVisionChat
	KindOllama
	KindTesseract
)

var kindNames = map[Kind]string{
	KindMock:         "mock",
	KindOCRSpace:     "ocrspace",
	KindGoogleVision: "google_vision",
	KindTextract:     "textract",
	KindVisionChat:   "vision_chat",
	KindOllama:       "ollama",
	KindTesseract:    "tesseract",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a configured driver name to its Kind. The empty name selects
// the mock provider.
func ParseKind(name string) (Kind, error) {
	if name == "" {
		return KindMock, nil
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown ocr provider: %s", name)
}

// NormalizeConfidence maps a provider's native scale to [0,1]. Values above
// 1 are taken to be percentages.
func NormalizeConfidence(v float64) float64 {
	if v > 1 {
		v /= 100
	}
	return clamp(v)
}

// WordConfidence is the mean word confidence, clamped to [0,1].
func WordConfidence(words []Word) float64 {
	if len(words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range words {
		sum += w.Confidence
	}
	return clamp(sum / float64(len(words)))
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
