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
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/logger"
	"github.com/uglydawg/golf-scorecard-scanner-sub000/internal/ocr"
)

const (
	defaultChatModel  = "gpt-4o"
	defaultChatTokens = 4096
)

// VisionChatEngine talks to an OpenAI-compatible chat completions endpoint
// with the scorecard attached as an image part.
type VisionChatEngine struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatMessage struct {
	Role    string            `json:"role"`
	Content []chatContentPart `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	MaxTokens      int               `json:"max_tokens"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewVisionChatEngine(cfg config.ProviderConfig) *VisionChatEngine {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := cfg.Model
	if model == "" {
		model = defaultChatModel
	}
	return &VisionChatEngine{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: cfg.Timeout()},
	}
}

func (v *VisionChatEngine) Name() string { return ocr.KindVisionChat.String() }

func (v *VisionChatEngine) ExtractText(ctx context.Context, imagePath string) (*ocr.Result, error) {
	reply, err := v.complete(ctx, imagePath, standardPrompt, false)
	if err != nil {
		return nil, err
	}
	return standardResult(v.Name(), reply), nil
}

func (v *VisionChatEngine) ExtractEnhanced(ctx context.Context, imagePath string) (*ocr.Result, error) {
	reply, err := v.complete(ctx, imagePath, enhancedPrompt, true)
	if err != nil {
		return nil, err
	}
	return enhancedResult(v.Name(), reply)
}

func (v *VisionChatEngine) complete(ctx context.Context, imagePath, prompt string, jsonMode bool) (string, error) {
	if v.apiKey == "" {
		return "", fmt.Errorf("vision_chat: missing api key")
	}
	img, err := readImage(imagePath)
	if err != nil {
		return "", err
	}

	request := chatRequest{
		Model: v.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatContentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &chatImageURL{URL: img.dataURI(), Detail: "high"}},
			},
		}},
		MaxTokens:   defaultChatTokens,
		Temperature: 0,
	}
	if jsonMode {
		request.ResponseFormat = map[string]string{"type": "json_object"}
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("vision_chat: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("vision_chat: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision_chat: sending request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("vision_chat: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision_chat: request failed with status %d: %s", resp.StatusCode, payload)
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("vision_chat: decoding response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("vision_chat: api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("vision_chat: %w", errEmptyReply)
	}

	logger.DebugLog("[vision_chat]: received %d bytes for %s", len(parsed.Choices[0].Message.Content), imagePath)
	return parsed.Choices[0].Message.Content, nil
}
