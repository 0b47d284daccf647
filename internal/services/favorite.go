package services

import (
	"context"
	"errors"

	"github.com/estatehub/realestate-backend/internal/apperr"
	"github.com/estatehub/realestate-backend/internal/models"
	"gorm.io/gorm"
)

type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Toggle saves the property for the user, or unsaves it if already saved.
// The delete-or-insert runs in one transaction so two concurrent toggles
// serialize; the composite unique index backstops the insert.
func (s *FavoriteService) Toggle(ctx context.Context, userID, propertyID uint) (bool, error) {
	var property models.Property
	if err := s.db.WithContext(ctx).Select("id").First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.New(apperr.NotFound, "Property not found")
		}
		return false, apperr.Wrap(apperr.Internal, "Failed to toggle favorite", err)
	}

	saved := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND property_id = ?", userID, propertyID).
			Delete(&models.Favorite{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}
		saved = true
		return tx.Create(&models.Favorite{UserID: userID, PropertyID: propertyID}).Error
	})
	if err != nil {
		return false, apperr.Wrap(apperr.Internal, "Failed to toggle favorite", err)
	}

	return saved, nil
}

func (s *FavoriteService) List(ctx context.Context, userID uint) ([]models.Favorite, error) {
	favorites := []models.Favorite{}
	err := s.db.WithContext(ctx).
		Preload("Property").
		Preload("Property.Images").
		Preload("Property.Agent").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch favorites", err)
	}
	return favorites, nil
}

// Check returns the subset of propertyIDs the user has saved.
func (s *FavoriteService) Check(ctx context.Context, userID uint, propertyIDs []uint) ([]uint, error) {
	favoriteIDs := []uint{}
	if len(propertyIDs) == 0 {
		return favoriteIDs, nil
	}

	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND property_id IN ?", userID, propertyIDs).
		Pluck("property_id", &favoriteIDs).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to check favorites", err)
	}
	return favoriteIDs, nil
}
