package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

type GoogleVisionEngine struct {
	apiKey   string
	baseURL  string
	language string
	client   *http.Client
}

type visionVertex struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type visionBoundingPoly struct {
	Vertices []visionVertex `json:"vertices"`
}

type visionWord struct {
	BoundingBox visionBoundingPoly `json:"boundingBox"`
	Symbols     []struct {
		Text string `json:"text"`
	} `json:"symbols"`
	Confidence float64 `json:"confidence"`
}

type visionResponse struct {
	Responses []struct {
		FullTextAnnotation struct {
			Text  string `json:"text"`
			Pages []struct {
				Confidence float64 `json:"confidence"`
				Blocks     []struct {
					Paragraphs []struct {
						Confidence float64      `json:"confidence"`
						Words      []visionWord `json:"words"`
					} `json:"paragraphs"`
				} `json:"blocks"`
			} `json:"pages"`
		} `json:"fullTextAnnotation"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error,omitempty"`
	} `json:"responses"`
}

func NewGoogleVisionEngine(cfg config.ProviderConfig) *GoogleVisionEngine {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://vision.googleapis.com"
	}
	return &GoogleVisionEngine{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: cfg.Language,
		client:   &http.Client{Timeout: cfg.Timeout()},
	}
}

func (g *GoogleVisionEngine) Name() string { return ocr.KindGoogleVision.String() }

func (g *GoogleVisionEngine) ExtractText(ctx context.Context, imagePath string) (*ocr.Result, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("google_vision: missing api key")
	}
	img, err := readImage(imagePath)
	if err != nil {
		return nil, err
	}

	request := map[string]any{
		"requests": []any{map[string]any{
			"image":    map[string]any{"content": img.base64()},
			"features": []any{map[string]any{"type": "DOCUMENT_TEXT_DETECTION"}},
			"imageContext": map[string]any{
				"languageHints": languageHints(g.language),
			},
		}},
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("google_vision: marshal request: %w", err)
	}

	endpoint := g.baseURL + "/v1/images:annotate?key=" + url.QueryEscape(g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("google_vision: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google_vision: sending request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("google_vision: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google_vision: request failed with status %d: %s", resp.StatusCode, payload)
	}

	var parsed visionResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("google_vision: decoding response: %w", err)
	}
	if len(parsed.Responses) == 0 {
		return nil, fmt.Errorf("google_vision: empty response")
	}
	if e := parsed.Responses[0].Error; e != nil {
		return nil, fmt.Errorf("google_vision: api error %d: %s", e.Code, e.Message)
	}

	return parsed.toResult(g.Name()), nil
}

func (r *visionResponse) toResult(provider string) *ocr.Result {
	annotation := r.Responses[0].FullTextAnnotation
	var words []ocr.Word
	var lines []ocr.Line
	for _, page := range annotation.Pages {
		for _, block := range page.Blocks {
			for _, para := range block.Paragraphs {
				var lineWords []ocr.Word
				var texts []string
				for _, w := range para.Words {
					var sb strings.Builder
					for _, s := range w.Symbols {
						sb.WriteString(s.Text)
					}
					word := ocr.Word{
						Text:       sb.String(),
						Confidence: ocr.NormalizeConfidence(w.Confidence),
						BBox:       boundingBox(w.BoundingBox),
					}
					texts = append(texts, word.Text)
					lineWords = append(lineWords, word)
				}
				words = append(words, lineWords...)
				lines = append(lines, ocr.Line{
					Text:       strings.Join(texts, " "),
					Confidence: ocr.NormalizeConfidence(para.Confidence),
					Words:      lineWords,
				})
			}
		}
	}
	return &ocr.Result{
		RawText:    annotation.Text,
		Confidence: ocr.WordConfidence(words),
		Words:      words,
		Lines:      lines,
		Provider:   provider,
	}
}

func boundingBox(poly visionBoundingPoly) ocr.BBox {
	if len(poly.Vertices) == 0 {
		return ocr.BBox{}
	}
	minX, minY := poly.Vertices[0].X, poly.Vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range poly.Vertices[1:] {
		minX, maxX = min(minX, v.X), max(maxX, v.X)
		minY, maxY = min(minY, v.Y), max(maxY, v.Y)
	}
	return ocr.BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func languageHints(language string) []string {
	switch language {
	case "", "eng":
		return []string{"en"}
	}
	return []string{language}
}
