package handlers

import (
	"strconv"
	"strings"

	"github.com/estatehub/realestate-backend/internal/services"
	"github.com/estatehub/realestate-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteService *services.FavoriteService
}

func NewFavoriteHandler(favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

func (h *FavoriteHandler) Toggle(c *gin.Context) {
	userID := c.GetUint("user_id")

	propertyID, err := strconv.ParseUint(c.Param("propertyId"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid property ID")
		return
	}

	saved, err := h.favoriteService.Toggle(c.Request.Context(), userID, uint(propertyID))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	message := "Property saved to favorites"
	if !saved {
		message = "Property removed from favorites"
	}

	utils.SendSuccess(c, message, gin.H{"saved": saved})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID := c.GetUint("user_id")

	favorites, err := h.favoriteService.List(c.Request.Context(), userID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Favorites retrieved successfully", favorites)
}

// Check answers which of the given propertyIds the user has saved. Invalid
// entries in the csv are skipped.
func (h *FavoriteHandler) Check(c *gin.Context) {
	userID := c.GetUint("user_id")

	var propertyIDs []uint
	for _, part := range strings.Split(c.Query("propertyIds"), ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			continue
		}
		propertyIDs = append(propertyIDs, uint(id))
	}

	favoriteIDs, err := h.favoriteService.Check(c.Request.Context(), userID, propertyIDs)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Favorite status retrieved", gin.H{"favoriteIds": favoriteIDs})
}
