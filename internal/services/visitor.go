package services

import (
	"context"

	"github.com/estatehub/realestate-backend/internal/apperr"
	"github.com/estatehub/realestate-backend/internal/models"
	"github.com/estatehub/realestate-backend/pkg/logger"
	"gorm.io/gorm"
)

type VisitorService struct {
	db *gorm.DB
}

func NewVisitorService(db *gorm.DB) *VisitorService {
	return &VisitorService{db: db}
}

// Record writes one visitor row. Best-effort: failures are logged at debug
// and discarded so request handling is never affected.
func (s *VisitorService) Record(visitor models.Visitor) {
	if err := s.db.Create(&visitor).Error; err != nil {
		logger.Debug("Visitor log write failed: ", err)
	}
}

type VisitorPage struct {
	Visitors   []models.Visitor `json:"visitors"`
	TotalCount int64            `json:"totalCount"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

func (s *VisitorService) List(ctx context.Context, page, limit int) (*VisitorPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = 50
	}

	result := &VisitorPage{
		Visitors: []models.Visitor{},
		Page:     page,
		Limit:    limit,
	}

	if err := s.db.WithContext(ctx).Model(&models.Visitor{}).Count(&result.TotalCount).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch visitors", err)
	}

	err := s.db.WithContext(ctx).Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&result.Visitors).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch visitors", err)
	}

	return result, nil
}
