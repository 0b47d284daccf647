package handlers

import (
	"github.com/estatehub/realestate-backend/internal/services"
	"github.com/estatehub/realestate-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

func (h *AIHandler) GenerateDescription(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.GenerateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	description, err := h.aiService.GenerateDescription(c.Request.Context(), userID, req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Description generated successfully", gin.H{"description": description})
}

func (h *AIHandler) Chat(c *gin.Context) {
	var req services.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	response, err := h.aiService.Chat(c.Request.Context(), c.ClientIP(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Chat response generated", response)
}
