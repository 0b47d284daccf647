package handlers

import (
	"strconv"

	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/estatehub/realestate-backend/internal/services"
	"github.com/estatehub/realestate-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PropertyHandler struct {
	propertyService *services.PropertyService
	imageService    *services.ImageService
}

func NewPropertyHandler(propertyService *services.PropertyService, imageService *services.ImageService) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		imageService:    imageService,
	}
}

// parseFilter builds the search filter from the query string. Parse errors on
// numeric params are discarded: a non-numeric value leaves the filter unset.
func parseFilter(c *gin.Context) services.PropertyFilter {
	minPrice, _ := strconv.ParseFloat(c.Query("minPrice"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("maxPrice"), 64)
	minArea, _ := strconv.ParseFloat(c.Query("minArea"), 64)
	maxArea, _ := strconv.ParseFloat(c.Query("maxArea"), 64)
	bedrooms, _ := strconv.Atoi(c.Query("bedrooms"))
	agentID, _ := strconv.ParseUint(c.Query("agent_id"), 10, 32)
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	return services.PropertyFilter{
		Location:  c.Query("location"),
		Type:      c.Query("type"),
		Purpose:   c.Query("purpose"),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		Bedrooms:  bedrooms,
		MinArea:   minArea,
		MaxArea:   maxArea,
		AgentID:   uint(agentID),
		AgentName: c.Query("agent_name"),
		Status:    c.Query("status"),
		Page:      page,
		Limit:     limit,
		SortBy:    c.Query("sortBy"),
		Order:     c.Query("order"),
	}
}

func (h *PropertyHandler) Search(c *gin.Context) {
	page, err := h.propertyService.Search(c.Request.Context(), parseFilter(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Properties retrieved successfully", page)
}

func (h *PropertyHandler) GetProperty(c *gin.Context) {
	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid property ID")
		return
	}

	property, err := h.propertyService.GetByID(c.Request.Context(), uint(propertyID))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Property retrieved successfully", property)
}

func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	agentID := c.GetUint("user_id")

	var req models.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	property, err := h.propertyService.Create(c.Request.Context(), agentID, &req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Property created successfully", property)
}

func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	agentID := c.GetUint("user_id")

	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid property ID")
		return
	}

	var req models.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	property, err := h.propertyService.Update(c.Request.Context(), uint(propertyID), agentID, &req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Property updated successfully", property)
}

func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	agentID := c.GetUint("user_id")
	isAdmin := c.GetString("user_role") == models.RoleAdmin

	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid property ID")
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), uint(propertyID), agentID, isAdmin); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Property deleted successfully", nil)
}

func (h *PropertyHandler) GetSuggestions(c *gin.Context) {
	suggestions, err := h.propertyService.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Suggestions retrieved successfully", suggestions)
}

func (h *PropertyHandler) GetAgentStats(c *gin.Context) {
	agentID := c.GetUint("user_id")

	stats, err := h.propertyService.GetAgentStats(c.Request.Context(), agentID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Agent stats retrieved successfully", stats)
}

func (h *PropertyHandler) UploadImages(c *gin.Context) {
	agentID := c.GetUint("user_id")

	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid property ID")
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["images"]) == 0 {
		utils.SendValidationError(c, "No image files provided")
		return
	}

	images, skipped, err := h.imageService.UploadPropertyImages(c.Request.Context(), uint(propertyID), agentID, form.File["images"])
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Images uploaded successfully", gin.H{
		"images":  images,
		"skipped": skipped,
	})
}

func (h *PropertyHandler) ListImages(c *gin.Context) {
	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid property ID")
		return
	}

	images, err := h.imageService.ListPropertyImages(c.Request.Context(), uint(propertyID))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Images retrieved successfully", images)
}

func (h *PropertyHandler) DeleteImage(c *gin.Context) {
	agentID := c.GetUint("user_id")

	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid property ID")
		return
	}

	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		utils.SendValidationError(c, "Invalid image ID")
		return
	}

	if err := h.imageService.DeletePropertyImage(c.Request.Context(), uint(propertyID), agentID, imageID); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Image deleted successfully", nil)
}
