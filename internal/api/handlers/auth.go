package handlers

import (
	"github.com/estatehub/realestate-backend/internal/services"
	"github.com/estatehub/realestate-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  *services.AuthService
	imageService *services.ImageService
}

func NewAuthHandler(authService *services.AuthService, imageService *services.ImageService) *AuthHandler {
	return &AuthHandler{authService: authService, imageService: imageService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	response, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Account created successfully", response)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Login successful", response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req services.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	response, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Token refreshed successfully", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req services.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Logged out successfully", nil)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Profile retrieved successfully", user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Profile updated successfully", user)
}

func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	userID := c.GetUint("user_id")

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		utils.SendValidationError(c, "Avatar file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.SendValidationError(c, "Failed to read avatar file")
		return
	}
	defer file.Close()

	user, err := h.imageService.UpdateAvatar(c.Request.Context(), userID, file, fileHeader)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Avatar updated successfully", user)
}
