package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

// OCR.space reports no per-word confidence; words get this fixed value when
// the service finishes without errors.
const ocrSpaceWordConfidence = 0.85

type OCRSpaceEngine struct {
	apiKey   string
	baseURL  string
	language string
	client   *http.Client
}

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText  string `json:"ParsedText"`
		TextOverlay struct {
			Lines []struct {
				LineText string `json:"LineText"`
				Words    []struct {
					WordText string  `json:"WordText"`
					Left     float64 `json:"Left"`
					Top      float64 `json:"Top"`
					Height   float64 `json:"Height"`
					Width    float64 `json:"Width"`
				} `json:"Words"`
			} `json:"Lines"`
		} `json:"TextOverlay"`
	} `json:"ParsedResults"`
	OCRExitCode           int  `json:"OCRExitCode"`
	IsErroredOnProcessing bool `json:"IsErroredOnProcessing"`
	// ErrorMessage is a string or a list of strings depending on the failure.
	ErrorMessage json.RawMessage `json:"ErrorMessage"`
}

func NewOCRSpaceEngine(cfg config.ProviderConfig) *OCRSpaceEngine {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.ocr.space"
	}
	language := cfg.Language
	if language == "" || language == "en" {
		language = "eng"
	}
	return &OCRSpaceEngine{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
		client:   &http.Client{Timeout: cfg.Timeout()},
	}
}

func (o *OCRSpaceEngine) Name() string { return ocr.KindOCRSpace.String() }

func (o *OCRSpaceEngine) ExtractText(ctx context.Context, imagePath string) (*ocr.Result, error) {
	if o.apiKey == "" {
		return nil, fmt.Errorf("ocrspace: missing api key")
	}
	img, err := readImage(imagePath)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := map[string]string{
		"apikey":            o.apiKey,
		"language":          o.language,
		"isOverlayRequired": "true",
		"detectOrientation": "true",
		"scale":             "true",
		"OCREngine":         "2",
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("ocrspace: writing field %s: %w", k, err)
		}
	}
	part, err := form.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return nil, fmt.Errorf("ocrspace: creating form file: %w", err)
	}
	if _, err := part.Write(img.data); err != nil {
		return nil, fmt.Errorf("ocrspace: writing image: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("ocrspace: closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/parse/image", &body)
	if err != nil {
		return nil, fmt.Errorf("ocrspace: building request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocrspace: sending request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ocrspace: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocrspace: request failed with status %d: %s", resp.StatusCode, payload)
	}

	var parsed ocrSpaceResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("ocrspace: decoding response: %w", err)
	}
	if parsed.IsErroredOnProcessing || len(parsed.ParsedResults) == 0 {
		return nil, fmt.Errorf("ocrspace: processing failed (exit code %d): %s", parsed.OCRExitCode, parsed.ErrorMessage)
	}

	return parsed.toResult(o.Name()), nil
}

func (r *ocrSpaceResponse) toResult(provider string) *ocr.Result {
	var texts []string
	var lines []ocr.Line
	var words []ocr.Word
	for _, pr := range r.ParsedResults {
		texts = append(texts, strings.TrimSpace(pr.ParsedText))
		for _, l := range pr.TextOverlay.Lines {
			line := ocr.Line{Text: l.LineText, Confidence: ocrSpaceWordConfidence}
			for _, w := range l.Words {
				word := ocr.Word{
					Text:       w.WordText,
					Confidence: ocrSpaceWordConfidence,
					BBox:       ocr.BBox{X: int(w.Left), Y: int(w.Top), Width: int(w.Width), Height: int(w.Height)},
				}
				line.Words = append(line.Words, word)
				words = append(words, word)
			}
			lines = append(lines, line)
		}
	}
	return &ocr.Result{
		RawText:    strings.Join(texts, "\n"),
		Confidence: ocr.WordConfidence(words),
		Words:      words,
		Lines:      lines,
		Provider:   provider,
	}
}
