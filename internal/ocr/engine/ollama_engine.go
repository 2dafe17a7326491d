package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/config"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

type OllamaEngine struct {
	baseURL string
	model   string
	client  *http.Client
}

type OllamaRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
	Format string   `json:"format,omitempty"`
}

type OllamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3.2-vision"
)

func NewOllamaEngine(cfg config.ProviderConfig) *OllamaEngine {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}

	return &OllamaEngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: cfg.Timeout()},
	}
}

func (o *OllamaEngine) Name() string { return ocr.KindOllama.String() }

func (o *OllamaEngine) ExtractText(ctx context.Context, imagePath string) (*ocr.Result, error) {
	reply, err := o.generate(ctx, imagePath, standardPrompt, "")
	if err != nil {
		return nil, err
	}
	return standardResult(o.Name(), reply), nil
}

func (o *OllamaEngine) ExtractEnhanced(ctx context.Context, imagePath string) (*ocr.Result, error) {
	reply, err := o.generate(ctx, imagePath, enhancedPrompt, "json")
	if err != nil {
		return nil, err
	}
	return enhancedResult(o.Name(), reply)
}

func (o *OllamaEngine) generate(ctx context.Context, imagePath, prompt, format string) (string, error) {
	img, err := readImage(imagePath)
	if err != nil {
		return "", err
	}

	request := OllamaRequest{
		Model:  o.model,
		Prompt: prompt,
		Images: []string{img.base64()},
		Stream: false,
		Format: format,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("ollama: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama: request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama: reading response: %w", err)
	}

	var ollamaResp OllamaResponse
	if err := json.Unmarshal(body, &ollamaResp); err != nil {
		return "", fmt.Errorf("ollama: decoding response: %w", err)
	}
	if strings.TrimSpace(ollamaResp.Response) == "" {
		return "", fmt.Errorf("ollama: %w", errEmptyReply)
	}
	return ollamaResp.Response, nil
}
