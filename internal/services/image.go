package services

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/estatehub/realestate-backend/internal/apperr"
	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/estatehub/realestate-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImageService handles property image uploads and the primary-image
// assignment rule.
type ImageService struct {
	db        *gorm.DB
	s3Service *S3Service
}

func NewImageService(db *gorm.DB, s3Service *S3Service) *ImageService {
	return &ImageService{db: db, s3Service: s3Service}
}

// UploadPropertyImages stores the files one by one. A per-file failure skips
// that file and continues; the response reports what made it. The first image
// stored becomes primary only if the property has no primary yet, checked and
// set inside the same transaction as the insert.
func (s *ImageService) UploadPropertyImages(ctx context.Context, propertyID, agentID uint, files []*multipart.FileHeader) ([]models.PropertyImage, []string, error) {
	var property models.Property
	if err := s.db.WithContext(ctx).First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.NotFound, "Property not found")
		}
		return nil, nil, apperr.Wrap(apperr.Internal, "Failed to fetch property", err)
	}
	if property.AgentID != agentID {
		return nil, nil, apperr.New(apperr.Forbidden, "You can only manage your own listings")
	}
	if len(files) == 0 {
		return nil, nil, apperr.New(apperr.Validation, "No image files provided")
	}

	saved := []models.PropertyImage{}
	var skipped []string

	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			skipped = append(skipped, fileHeader.Filename)
			continue
		}

		result, err := s.s3Service.UploadImage(file, fileHeader, "properties/images")
		file.Close()
		if err != nil {
			logger.Warn("Image upload skipped: ", err)
			skipped = append(skipped, fileHeader.Filename)
			continue
		}

		image, err := s.saveImageRecord(ctx, propertyID, result)
		if err != nil {
			s.s3Service.DeleteImage(result.Key)
			skipped = append(skipped, fileHeader.Filename)
			continue
		}

		saved = append(saved, image)
	}

	if len(saved) == 0 {
		return nil, skipped, apperr.New(apperr.Validation, "All image uploads failed")
	}

	return saved, skipped, nil
}

// saveImageRecord inserts the image row. The primary flag is decided inside
// the transaction: an image becomes primary only when the property has none.
func (s *ImageService) saveImageRecord(ctx context.Context, propertyID uint, result *UploadResult) (models.PropertyImage, error) {
	image := models.PropertyImage{
		PropertyID:  propertyID,
		FileName:    result.FileName,
		S3Key:       result.Key,
		S3URL:       result.URL,
		ContentType: result.ContentType,
		Size:        result.Size,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var primaryCount int64
		if err := tx.Model(&models.PropertyImage{}).
			Where("property_id = ? AND is_primary = ?", propertyID, true).
			Count(&primaryCount).Error; err != nil {
			return err
		}
		image.IsPrimary = primaryCount == 0
		return tx.Create(&image).Error
	})
	return image, err
}

func (s *ImageService) ListPropertyImages(ctx context.Context, propertyID uint) ([]models.PropertyImage, error) {
	images := []models.PropertyImage{}
	err := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("is_primary DESC, created_at ASC").
		Find(&images).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch images", err)
	}
	return images, nil
}

// DeletePropertyImage removes one image from the listing and from storage.
// Deleting the primary does not promote another image.
func (s *ImageService) DeletePropertyImage(ctx context.Context, propertyID, agentID uint, imageID uuid.UUID) error {
	var property models.Property
	if err := s.db.WithContext(ctx).First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "Property not found")
		}
		return apperr.Wrap(apperr.Internal, "Failed to fetch property", err)
	}
	if property.AgentID != agentID {
		return apperr.New(apperr.Forbidden, "You can only manage your own listings")
	}

	var image models.PropertyImage
	if err := s.db.WithContext(ctx).
		Where("id = ? AND property_id = ?", imageID, propertyID).
		First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "Image not found")
		}
		return apperr.Wrap(apperr.Internal, "Failed to fetch image", err)
	}

	if err := s.db.WithContext(ctx).Delete(&image).Error; err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to delete image", err)
	}

	if err := s.s3Service.DeleteImage(image.S3Key); err != nil {
		logger.Warn("Failed to delete S3 object ", image.S3Key, ": ", err)
	}

	return nil
}

// UpdateAvatar uploads a new avatar image and persists its URL on the user.
func (s *ImageService) UpdateAvatar(ctx context.Context, userID uint, file multipart.File, header *multipart.FileHeader) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}

	result, err := s.s3Service.UploadImage(file, header, "users/avatars")
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, "Failed to upload avatar", err)
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("avatar_url", result.URL).Error; err != nil {
		s.s3Service.DeleteImage(result.Key)
		return nil, apperr.Wrap(apperr.Internal, "Failed to update avatar", err)
	}

	user.AvatarURL = result.URL
	return &user, nil
}
