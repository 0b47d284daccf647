package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/estatehub/realestate-backend/internal/apperr"
	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateJSON(t *testing.T, content geminiContent) []byte {
	t.Helper()
	body, err := json.Marshal(geminiResponse{
		Candidates: []struct {
			Content geminiContent `json:"content"`
		}{{Content: content}},
	})
	require.NoError(t, err)
	return body
}

func TestGenerateContentNotConfigured(t *testing.T) {
	client := NewGeminiClient("", "gemini-1.5-flash")

	_, err := client.GenerateContent(context.Background(), geminiRequest{})
	require.Error(t, err)
	assert.Equal(t, apperr.Internal, apperr.KindOf(err))
	assert.Equal(t, "AI service not configured", apperr.MessageOf(err))
}

func TestGenerateContentUpstreamRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash").WithBaseURL(server.URL)

	_, err := client.GenerateContent(context.Background(), geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: "hi"}}}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.RateLimited, apperr.KindOf(err))
}

func TestGenerateContentUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash").WithBaseURL(server.URL)

	_, err := client.GenerateContent(context.Background(), geminiRequest{})
	require.Error(t, err)
	assert.Equal(t, apperr.Upstream, apperr.KindOf(err))
}

func TestGenerateDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateJSON(t, geminiContent{
			Role:  "model",
			Parts: []geminiPart{{Text: "A bright two-bedroom apartment in Andheri."}},
		}))
	}))
	defer server.Close()

	gemini := NewGeminiClient("test-key", "gemini-1.5-flash").WithBaseURL(server.URL)
	svc := NewAIService(gemini, nil, 10, 20)

	text, err := svc.GenerateDescription(context.Background(), 1, GenerateDescriptionRequest{
		Type: "apartment", Purpose: models.PurposeSale, Location: "Andheri", Bedrooms: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "A bright two-bedroom apartment in Andheri.", text)
}

func TestGenerateDescriptionQuota(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateJSON(t, geminiContent{Parts: []geminiPart{{Text: "ok"}}}))
	}))
	defer server.Close()

	gemini := NewGeminiClient("test-key", "gemini-1.5-flash").WithBaseURL(server.URL)
	svc := NewAIService(gemini, nil, 1, 20)

	req := GenerateDescriptionRequest{Type: "villa", Purpose: models.PurposeRent, Location: "Pune"}

	_, err := svc.GenerateDescription(context.Background(), 7, req)
	require.NoError(t, err)

	_, err = svc.GenerateDescription(context.Background(), 7, req)
	require.Error(t, err)
	assert.Equal(t, apperr.RateLimited, apperr.KindOf(err))

	// Other users are unaffected by user 7's quota.
	_, err = svc.GenerateDescription(context.Background(), 8, req)
	require.NoError(t, err)
}

func TestChatWithoutToolCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(candidateJSON(t, geminiContent{
			Role:  "model",
			Parts: []geminiPart{{Text: "Hello! What kind of home are you after?"}},
		}))
	}))
	defer server.Close()

	gemini := NewGeminiClient("test-key", "gemini-1.5-flash").WithBaseURL(server.URL)
	svc := NewAIService(gemini, nil, 10, 20)

	resp, err := svc.Chat(context.Background(), "1.2.3.4", ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Hello! What kind of home are you after?", resp.Reply)
	assert.Empty(t, resp.Properties)
}

func TestChatToolCallLoop(t *testing.T) {
	db := setupTestDB(t)
	agent := createTestUser(t, db, "Rohan Mehta", "rohan@estatehub.in", models.RoleAgent)
	createTestProperty(t, db, agent.ID, func(p *models.Property) {
		p.Location = "Bandra"
		p.Price = 12000000
	})
	createTestProperty(t, db, agent.ID, func(p *models.Property) {
		p.Location = "Pune"
	})
	propertyService := NewPropertyService(db, nil)

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write(candidateJSON(t, geminiContent{
				Role: "model",
				Parts: []geminiPart{{FunctionCall: &geminiFunctionCall{
					Name: "searchProperties",
					Args: json.RawMessage(`{"location":"Bandra","purpose":"sale"}`),
				}}},
			}))
			return
		}

		// The second call must carry the function response turn.
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 3)
		require.NotNil(t, req.Contents[2].Parts[0].FunctionResponse)
		assert.Equal(t, "searchProperties", req.Contents[2].Parts[0].FunctionResponse.Name)

		w.Write(candidateJSON(t, geminiContent{
			Role:  "model",
			Parts: []geminiPart{{Text: "I found one listing in Bandra."}},
		}))
	}))
	defer server.Close()

	gemini := NewGeminiClient("test-key", "gemini-1.5-flash").WithBaseURL(server.URL)
	svc := NewAIService(gemini, propertyService, 10, 20)

	resp, err := svc.Chat(context.Background(), "1.2.3.4", ChatRequest{Message: "2bhk for sale in Bandra"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "I found one listing in Bandra.", resp.Reply)
	require.Len(t, resp.Properties, 1)
	assert.Equal(t, "Bandra", resp.Properties[0].Location)
}

func TestChatEmptyMessage(t *testing.T) {
	gemini := NewGeminiClient("test-key", "gemini-1.5-flash")
	svc := NewAIService(gemini, nil, 10, 20)

	_, err := svc.Chat(context.Background(), "1.2.3.4", ChatRequest{Message: "   "})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}
