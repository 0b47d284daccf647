package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/estatehub/realestate-backend/internal/apperr"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiClient is a thin client for the Gemini generateContent REST API.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// WithBaseURL points the client at a different endpoint; used by tests.
func (g *GeminiClient) WithBaseURL(baseURL string) *GeminiClient {
	g.baseURL = baseURL
	return g
}

type geminiPart struct {
	Text             string                  `json:"text,omitempty"`
	FunctionCall     *geminiFunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResponse `json:"functionResponse,omitempty"`
}

type geminiFunctionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

type geminiFunctionResponse struct {
	Name     string      `json:"name"`
	Response interface{} `json:"response"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiFunctionDeclaration struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  interface{} `json:"parameters"`
}

type geminiTool struct {
	FunctionDeclarations []geminiFunctionDeclaration `json:"functionDeclarations"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []geminiTool    `json:"tools,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateContent sends one generateContent call and returns the first
// candidate's content.
func (g *GeminiClient) GenerateContent(ctx context.Context, req geminiRequest) (*geminiContent, error) {
	if g.apiKey == "" {
		return nil, apperr.New(apperr.Internal, "AI service not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "AI request failed", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "AI request failed", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "AI service unavailable", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperr.New(apperr.RateLimited, "AI service is busy, try again later")
	}
	if resp.StatusCode >= 400 {
		return nil, apperr.Wrap(apperr.Upstream, "AI service error",
			fmt.Errorf("gemini returned %d: %s", resp.StatusCode, string(body)))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "AI service error", err)
	}
	if len(parsed.Candidates) == 0 {
		return nil, apperr.New(apperr.Upstream, "AI service returned no content")
	}

	return &parsed.Candidates[0].Content, nil
}
