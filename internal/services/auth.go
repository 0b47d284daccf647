package services

import (
	"context"
	"errors"
	"time"

	"github.com/estatehub/realestate-backend/internal/apperr"
	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/estatehub/realestate-backend/internal/utils"
	"github.com/estatehub/realestate-backend/pkg/logger"
	"gorm.io/gorm"
)

type AuthService struct {
	db           *gorm.DB
	jwtSecret    string
	emailService *EmailService
}

func NewAuthService(db *gorm.DB, jwtSecret string, emailService *EmailService) *AuthService {
	return &AuthService{
		db:           db,
		jwtSecret:    jwtSecret,
		emailService: emailService,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type AuthResponse struct {
	Token utils.TokenPair `json:"token"`
	User  models.User     `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, apperr.New(apperr.Validation, "Invalid email format")
	}
	if !utils.IsValidPassword(req.Password) {
		return nil, apperr.New(apperr.Validation, "Password must be at least 8 characters")
	}

	if req.Role == "" {
		req.Role = models.RoleBuyer
	}
	// Admin accounts are provisioned out of band, never via registration.
	if req.Role != models.RoleBuyer && req.Role != models.RoleAgent {
		return nil, apperr.New(apperr.Validation, "Role must be buyer or agent")
	}

	var existingUser models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		return nil, apperr.New(apperr.Conflict, "An account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.Internal, "Registration failed", err)
	}

	user := models.User{
		Name:     utils.SanitizeString(req.Name),
		Email:    utils.SanitizeString(req.Email),
		Password: req.Password, // Hashed in BeforeCreate hook
		Phone:    utils.SanitizeString(req.Phone),
		Role:     req.Role,
		IsActive: true,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Registration failed", err)
	}

	tokenPair, err := s.issueTokens(ctx, &user)
	if err != nil {
		return nil, err
	}

	if s.emailService != nil {
		go func() {
			if err := s.emailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
				logger.Warn("Failed to send welcome email: ", err)
			}
		}()
	}

	return &AuthResponse{Token: *tokenPair, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, apperr.New(apperr.Validation, "Invalid email format")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error; err != nil {
		return nil, apperr.New(apperr.Unauthorized, "Invalid credentials")
	}

	if !user.CheckPassword(req.Password) {
		return nil, apperr.New(apperr.Unauthorized, "Invalid credentials")
	}

	// Revoke outstanding refresh tokens so at most one session chain is live.
	s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ?", user.ID).
		Update("is_revoked", true)

	tokenPair, err := s.issueTokens(ctx, &user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: *tokenPair, User: user}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*utils.TokenPair, error) {
	tokenPair, err := utils.GenerateTokenPair(user.ID, user.Email, user.Role, s.jwtSecret)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to generate tokens", err)
	}

	refreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     tokenPair.RefreshToken,
		ExpiresAt: time.Unix(tokenPair.RefreshTokenExpiresAt, 0),
	}
	if err := s.db.WithContext(ctx).Create(&refreshToken).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to store refresh token", err)
	}

	return tokenPair, nil
}

// Refresh rotates the refresh token: the old one is revoked and a new pair
// issued in one transaction.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(req.RefreshToken, s.jwtSecret)
	if err != nil {
		return nil, apperr.New(apperr.Unauthorized, "Invalid refresh token")
	}
	if claims.Type != string(utils.RefreshToken) {
		return nil, apperr.New(apperr.Unauthorized, "Invalid token type")
	}

	var refreshToken models.RefreshToken
	if err := s.db.WithContext(ctx).
		Where("token = ? AND is_revoked = ? AND expires_at > ?", req.RefreshToken, false, time.Now()).
		First(&refreshToken).Error; err != nil {
		return nil, apperr.New(apperr.Unauthorized, "Refresh token not found or expired")
	}

	var user models.User
	if err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", refreshToken.UserID, true).
		First(&user).Error; err != nil {
		return nil, apperr.New(apperr.Unauthorized, "User not found")
	}

	var tokenPair *utils.TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&refreshToken).Update("is_revoked", true).Error; err != nil {
			return err
		}

		pair, err := utils.GenerateTokenPair(user.ID, user.Email, user.Role, s.jwtSecret)
		if err != nil {
			return err
		}

		newRefresh := models.RefreshToken{
			UserID:    user.ID,
			Token:     pair.RefreshToken,
			ExpiresAt: time.Unix(pair.RefreshTokenExpiresAt, 0),
		}
		if err := tx.Create(&newRefresh).Error; err != nil {
			return err
		}

		tokenPair = pair
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Token refresh failed", err)
	}

	return &AuthResponse{Token: *tokenPair, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", refreshToken).
		Update("is_revoked", true).Error
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Logout failed", err)
	}
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}

	updates := make(map[string]interface{})
	if name := utils.SanitizeString(req.Name); name != "" {
		updates["name"] = name
	}
	if phone := utils.SanitizeString(req.Phone); phone != "" {
		updates["phone"] = phone
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to update profile", err)
		}
	}

	return &user, nil
}

// ForgotPassword issues a one-hour single-use reset token. It never reveals
// whether the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if !utils.IsValidEmail(req.Email) {
		return apperr.New(apperr.Validation, "Invalid email format")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error; err != nil {
		return nil
	}

	resetToken, err := utils.GenerateRandomString(32)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to generate reset token", err)
	}

	s.db.WithContext(ctx).Model(&models.PasswordResetToken{}).
		Where("user_id = ? AND is_used = ?", user.ID, false).
		Update("is_used", true)

	passwordResetToken := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     resetToken,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := s.db.WithContext(ctx).Create(&passwordResetToken).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to create reset token", err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendPasswordResetEmail(user.Email, resetToken); err != nil {
			logger.Warn("Failed to send password reset email: ", err)
		}
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if !utils.IsValidPassword(req.NewPassword) {
		return apperr.New(apperr.Validation, "Password must be at least 8 characters")
	}

	var resetToken models.PasswordResetToken
	if err := s.db.WithContext(ctx).
		Where("token = ? AND is_used = ? AND expires_at > ?", req.Token, false, time.Now()).
		First(&resetToken).Error; err != nil {
		return apperr.New(apperr.Unauthorized, "Invalid or expired reset token")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", resetToken.UserID, true).First(&user).Error; err != nil {
		return apperr.New(apperr.NotFound, "User not found")
	}

	if err := user.UpdatePassword(req.NewPassword); err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update password", err)
	}
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to save new password", err)
	}

	s.db.WithContext(ctx).Model(&resetToken).Update("is_used", true)
	s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ?", user.ID).
		Update("is_revoked", true)

	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, req ChangePasswordRequest) error {
	if !utils.IsValidPassword(req.NewPassword) {
		return apperr.New(apperr.Validation, "Password must be at least 8 characters")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return apperr.New(apperr.NotFound, "User not found")
	}

	if !user.CheckPassword(req.CurrentPassword) {
		return apperr.New(apperr.Unauthorized, "Current password is incorrect")
	}

	if err := user.UpdatePassword(req.NewPassword); err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update password", err)
	}
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to save new password", err)
	}

	return nil
}
