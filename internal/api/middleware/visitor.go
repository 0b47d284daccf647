package middleware

import (
	"strings"

	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/estatehub/realestate-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// VisitorLogger writes one row per inbound request, fire-and-forget. The
// admin visitors listing is excluded so browsing the log does not grow it.
func VisitorLogger(visitorService *services.VisitorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if strings.HasSuffix(c.Request.URL.Path, "/admin/visitors") {
			return
		}

		visitor := models.Visitor{
			IP:        c.ClientIP(),
			Path:      c.Request.URL.Path,
			Method:    c.Request.Method,
			UserAgent: c.Request.UserAgent(),
			Referrer:  c.Request.Referer(),
		}
		if userID := c.GetUint("user_id"); userID != 0 {
			visitor.UserID = &userID
		}

		go visitorService.Record(visitor)
	}
}
