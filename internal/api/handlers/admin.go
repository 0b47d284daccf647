package handlers

import (
	"strconv"

	"github.com/estatehub/realestate-backend/internal/services"
	"github.com/estatehub/realestate-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService       *services.AdminService
	testimonialService *services.TestimonialService
	visitorService     *services.VisitorService
}

func NewAdminHandler(adminService *services.AdminService, testimonialService *services.TestimonialService, visitorService *services.VisitorService) *AdminHandler {
	return &AdminHandler{
		adminService:       adminService,
		testimonialService: testimonialService,
		visitorService:     visitorService,
	}
}

func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboard(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Dashboard stats retrieved successfully", stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	users, err := h.adminService.ListUsers(c.Request.Context(), c.Query("role"), page, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Users retrieved successfully", users)
}

func (h *AdminHandler) SetUserActive(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid user ID")
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.adminService.SetUserActive(c.Request.Context(), uint(userID), *req.IsActive); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "User updated successfully", nil)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid user ID")
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), uint(userID)); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "User deleted successfully", nil)
}

// ListProperties returns listings in every status for moderation.
func (h *AdminHandler) ListProperties(c *gin.Context) {
	page, err := h.adminService.ListProperties(c.Request.Context(), parseFilter(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Properties retrieved successfully", page)
}

func (h *AdminHandler) ListTestimonials(c *gin.Context) {
	testimonials, err := h.adminService.ListTestimonials(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Testimonials retrieved successfully", testimonials)
}

func (h *AdminHandler) ApproveTestimonial(c *gin.Context) {
	testimonialID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid testimonial ID")
		return
	}

	if err := h.testimonialService.Approve(c.Request.Context(), uint(testimonialID)); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Testimonial approved successfully", nil)
}

func (h *AdminHandler) ListVisitors(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	visitors, err := h.visitorService.List(c.Request.Context(), page, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Visitors retrieved successfully", visitors)
}

func (h *AdminHandler) UpsertAnalysis(c *gin.Context) {
	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid property ID")
		return
	}

	var req struct {
		AiScore    float64 `json:"ai_score" binding:"required"`
		AiInsights string  `json:"ai_insights"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	analysis, err := h.adminService.UpsertAnalysis(c.Request.Context(), uint(propertyID), req.AiScore, req.AiInsights)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Analysis saved successfully", analysis)
}
