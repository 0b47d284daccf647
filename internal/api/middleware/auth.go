package middleware

import (
	"errors"
	"strings"

	"github.com/estatehub/realestate-backend/internal/config"
	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/estatehub/realestate-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware verifies the bearer token and loads the user onto the
// context. Expired tokens get a distinct message; tokens for deleted or
// deactivated users are rejected.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendUnauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.SendUnauthorized(c, "Bearer token required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				utils.SendUnauthorized(c, "Token expired")
			} else {
				utils.SendUnauthorized(c, "Invalid token")
			}
			c.Abort()
			return
		}

		if claims.Type != string(utils.AccessToken) {
			utils.SendUnauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		var user models.User
		if err := db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user).Error; err != nil {
			utils.SendUnauthorized(c, "Account not found or deactivated")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_email", user.Email)
		c.Set("user_role", user.Role)
		c.Set("user", &user)
		c.Next()
	}
}

// RequireRoles gates a route to the given roles: 401 when unauthenticated,
// 403 when authenticated with the wrong role.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("user_role")
		if role == "" {
			utils.SendUnauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		utils.SendForbidden(c, "Insufficient permissions")
		c.Abort()
	}
}
