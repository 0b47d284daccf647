package handlers

import (
	"github.com/estatehub/realestate-backend/internal/services"
	"github.com/estatehub/realestate-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type PasswordHandler struct {
	authService *services.AuthService
}

func NewPasswordHandler(authService *services.AuthService) *PasswordHandler {
	return &PasswordHandler{authService: authService}
}

func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req services.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req); err != nil {
		utils.SendAppError(c, err)
		return
	}

	// Same reply whether or not the address exists.
	utils.SendSuccess(c, "If the email is registered, a reset link has been sent", nil)
}

func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Password reset successfully", nil)
}

func (h *PasswordHandler) ChangePassword(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Password changed successfully", nil)
}
