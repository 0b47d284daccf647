package services

import (
	"context"
	"errors"

	"github.com/estatehub/realestate-backend/internal/apperr"
	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/estatehub/realestate-backend/internal/utils"
	"gorm.io/gorm"
)

type TestimonialService struct {
	db *gorm.DB
}

func NewTestimonialService(db *gorm.DB) *TestimonialService {
	return &TestimonialService{db: db}
}

type CreateTestimonialRequest struct {
	Content string `json:"content" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
}

// Create adds the user's testimonial. Each user gets exactly one; a second
// attempt is a conflict, enforced both here and by the unique index.
func (s *TestimonialService) Create(ctx context.Context, userID uint, req CreateTestimonialRequest) (*models.Testimonial, error) {
	if !utils.IsValidRating(req.Rating) {
		return nil, apperr.New(apperr.Validation, "Rating must be between 1 and 5")
	}
	content := utils.SanitizeString(req.Content)
	if content == "" {
		return nil, apperr.New(apperr.Validation, "Content is required")
	}

	var existing models.Testimonial
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; err == nil {
		return nil, apperr.New(apperr.Conflict, "You have already submitted a testimonial")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create testimonial", err)
	}

	testimonial := models.Testimonial{
		UserID:  userID,
		Content: content,
		Rating:  req.Rating,
	}
	if err := s.db.WithContext(ctx).Create(&testimonial).Error; err != nil {
		return nil, apperr.Wrap(apperr.Conflict, "You have already submitted a testimonial", err)
	}

	s.db.WithContext(ctx).Preload("User").First(&testimonial, testimonial.ID)
	return &testimonial, nil
}

// ListApproved returns approved testimonials for the public landing page.
func (s *TestimonialService) ListApproved(ctx context.Context) ([]models.Testimonial, error) {
	testimonials := []models.Testimonial{}
	err := s.db.WithContext(ctx).Preload("User").
		Where("approved = ?", true).
		Order("created_at DESC").
		Find(&testimonials).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch testimonials", err)
	}
	return testimonials, nil
}

// Delete removes a testimonial; only the owner or an admin may do so.
func (s *TestimonialService) Delete(ctx context.Context, testimonialID, userID uint, isAdmin bool) error {
	var testimonial models.Testimonial
	if err := s.db.WithContext(ctx).First(&testimonial, testimonialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "Testimonial not found")
		}
		return apperr.Wrap(apperr.Internal, "Failed to fetch testimonial", err)
	}
	if !isAdmin && testimonial.UserID != userID {
		return apperr.New(apperr.Forbidden, "You can only delete your own testimonial")
	}

	if err := s.db.WithContext(ctx).Delete(&testimonial).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to delete testimonial", err)
	}
	return nil
}

func (s *TestimonialService) Approve(ctx context.Context, testimonialID uint) error {
	result := s.db.WithContext(ctx).Model(&models.Testimonial{}).
		Where("id = ?", testimonialID).
		Update("approved", true)
	if result.Error != nil {
		return apperr.Wrap(apperr.Internal, "Failed to approve testimonial", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "Testimonial not found")
	}
	return nil
}
