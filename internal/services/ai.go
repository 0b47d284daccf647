package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/estatehub/realestate-backend/internal/apperr"
	"github.com/estatehub/realestate-backend/internal/models"
)

const (
	// Results handed back to the model from a tool call; keeps prompts small.
	aiSearchResultCap = 6

	quotaWindow = time.Hour
)

// AIService wraps the Gemini integration: listing description generation for
// agents and the tool-calling assistant chat.
type AIService struct {
	gemini           *GeminiClient
	propertyService  *PropertyService
	descriptionQuota *QuotaLimiter
	chatQuota        *QuotaLimiter
}

func NewAIService(gemini *GeminiClient, propertyService *PropertyService, descriptionLimit, chatLimit int) *AIService {
	return &AIService{
		gemini:           gemini,
		propertyService:  propertyService,
		descriptionQuota: NewQuotaLimiter(descriptionLimit, quotaWindow),
		chatQuota:        NewQuotaLimiter(chatLimit, quotaWindow),
	}
}

type GenerateDescriptionRequest struct {
	Type       string  `json:"type" binding:"required"`
	Purpose    string  `json:"purpose" binding:"required"`
	Location   string  `json:"location" binding:"required"`
	Price      float64 `json:"price"`
	Bedrooms   int     `json:"bedrooms"`
	Bathrooms  int     `json:"bathrooms"`
	Area       float64 `json:"area"`
	Highlights string  `json:"highlights"`
}

// GenerateDescription asks the model for listing copy from raw attributes.
// Quota: per agent, hourly.
func (s *AIService) GenerateDescription(ctx context.Context, userID uint, req GenerateDescriptionRequest) (string, error) {
	if !s.descriptionQuota.Allow(fmt.Sprintf("user:%d", userID)) {
		return "", apperr.New(apperr.RateLimited, "Description generation limit reached, try again later")
	}

	prompt := fmt.Sprintf(
		"Write an engaging real-estate listing description (120-180 words) for a %s for %s in %s.",
		req.Type, req.Purpose, req.Location,
	)
	if req.Bedrooms > 0 {
		prompt += fmt.Sprintf(" It has %d bedrooms", req.Bedrooms)
		if req.Bathrooms > 0 {
			prompt += fmt.Sprintf(" and %d bathrooms", req.Bathrooms)
		}
		prompt += "."
	}
	if req.Area > 0 {
		prompt += fmt.Sprintf(" The area is %.0f sq ft.", req.Area)
	}
	if req.Price > 0 {
		prompt += fmt.Sprintf(" The asking price is %.0f.", req.Price)
	}
	if highlights := strings.TrimSpace(req.Highlights); highlights != "" {
		prompt += " Highlights: " + highlights + "."
	}

	content, err := s.gemini.GenerateContent(ctx, geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{
			Text: "You are a real-estate copywriter. Write polished, factual listing descriptions without inventing amenities.",
		}}},
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	return firstText(content), nil
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Reply      string            `json:"reply"`
	Properties []models.Property `json:"properties,omitempty"`
}

// searchArgs is the filter object the model may pass to the searchProperties
// tool. Unknown fields are ignored.
type searchArgs struct {
	Location string  `json:"location"`
	Type     string  `json:"type"`
	Purpose  string  `json:"purpose"`
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
	Bedrooms int     `json:"bedrooms"`
}

var searchPropertiesTool = geminiTool{
	FunctionDeclarations: []geminiFunctionDeclaration{{
		Name:        "searchProperties",
		Description: "Search available property listings by location, type, purpose, price range and bedrooms.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"location": map[string]string{"type": "string", "description": "City or neighbourhood, substring match"},
				"type":     map[string]string{"type": "string", "description": "Property type, e.g. apartment, villa, plot"},
				"purpose":  map[string]string{"type": "string", "description": "sale or rent"},
				"minPrice": map[string]string{"type": "number"},
				"maxPrice": map[string]string{"type": "number"},
				"bedrooms": map[string]string{"type": "integer"},
			},
		},
	}},
}

// Chat runs the assistant conversation. The model may issue one
// searchProperties call; its results are fed back for the final reply.
// Quota: per client IP, hourly.
func (s *AIService) Chat(ctx context.Context, clientIP string, req ChatRequest) (*ChatResponse, error) {
	if !s.chatQuota.Allow("ip:" + clientIP) {
		return nil, apperr.New(apperr.RateLimited, "Chat limit reached, try again later")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperr.New(apperr.Validation, "Message is required")
	}

	contents := []geminiContent{{Role: "user", Parts: []geminiPart{{Text: message}}}}
	request := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{
			Text: "You are EstateHub's property assistant. Help users find listings. " +
				"Use the searchProperties tool when the user describes what they are looking for, " +
				"then summarise the results conversationally. Never invent listings.",
		}}},
		Contents: contents,
		Tools:    []geminiTool{searchPropertiesTool},
	}

	content, err := s.gemini.GenerateContent(ctx, request)
	if err != nil {
		return nil, err
	}

	call := firstFunctionCall(content)
	if call == nil || call.Name != "searchProperties" {
		return &ChatResponse{Reply: firstText(content)}, nil
	}

	var args searchArgs
	if len(call.Args) > 0 {
		// Malformed args degrade to an unfiltered search rather than an error.
		_ = json.Unmarshal(call.Args, &args)
	}

	page, err := s.propertyService.Search(ctx, PropertyFilter{
		Location: args.Location,
		Type:     args.Type,
		Purpose:  args.Purpose,
		MinPrice: args.MinPrice,
		MaxPrice: args.MaxPrice,
		Bedrooms: args.Bedrooms,
		Status:   models.StatusAvailable,
		Limit:    aiSearchResultCap,
	})
	if err != nil {
		return nil, err
	}

	request.Contents = append(request.Contents,
		*content,
		geminiContent{Role: "user", Parts: []geminiPart{{
			FunctionResponse: &geminiFunctionResponse{
				Name:     "searchProperties",
				Response: map[string]interface{}{"properties": toolResults(page.Properties)},
			},
		}}},
	)

	final, err := s.gemini.GenerateContent(ctx, request)
	if err != nil {
		return nil, err
	}

	return &ChatResponse{
		Reply:      firstText(final),
		Properties: page.Properties,
	}, nil
}

// toolResults trims listings to the fields the model needs.
func toolResults(properties []models.Property) []map[string]interface{} {
	results := make([]map[string]interface{}, 0, len(properties))
	for _, p := range properties {
		results = append(results, map[string]interface{}{
			"id":       p.ID,
			"title":    p.Title,
			"type":     p.Type,
			"purpose":  p.Purpose,
			"price":    p.Price,
			"location": p.Location,
			"bedrooms": p.Bedrooms,
			"area":     p.Area,
		})
	}
	return results
}

func firstText(content *geminiContent) string {
	for _, part := range content.Parts {
		if part.Text != "" {
			return part.Text
		}
	}
	return ""
}

func firstFunctionCall(content *geminiContent) *geminiFunctionCall {
	for _, part := range content.Parts {
		if part.FunctionCall != nil {
			return part.FunctionCall
		}
	}
	return nil
}
