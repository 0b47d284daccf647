package handlers

import (
	"strconv"

	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/estatehub/realestate-backend/internal/services"
	"github.com/estatehub/realestate-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type TestimonialHandler struct {
	testimonialService *services.TestimonialService
}

func NewTestimonialHandler(testimonialService *services.TestimonialService) *TestimonialHandler {
	return &TestimonialHandler{testimonialService: testimonialService}
}

func (h *TestimonialHandler) Create(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.CreateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	testimonial, err := h.testimonialService.Create(c.Request.Context(), userID, req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Testimonial submitted successfully", testimonial)
}

func (h *TestimonialHandler) List(c *gin.Context) {
	testimonials, err := h.testimonialService.ListApproved(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Testimonials retrieved successfully", testimonials)
}

func (h *TestimonialHandler) Delete(c *gin.Context) {
	userID := c.GetUint("user_id")
	isAdmin := c.GetString("user_role") == models.RoleAdmin

	testimonialID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid testimonial ID")
		return
	}

	if err := h.testimonialService.Delete(c.Request.Context(), uint(testimonialID), userID, isAdmin); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Testimonial deleted successfully", nil)
}
