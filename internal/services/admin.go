package services

import (
	"context"
	"errors"
	"time"

	"github.com/estatehub/realestate-backend/internal/apperr"
	"github.com/estatehub/realestate-backend/internal/models"
	"gorm.io/gorm"
)

type AdminService struct {
	db              *gorm.DB
	propertyService *PropertyService
}

func NewAdminService(db *gorm.DB, propertyService *PropertyService) *AdminService {
	return &AdminService{db: db, propertyService: propertyService}
}

type DashboardStats struct {
	TotalUsers        int64            `json:"total_users"`
	TotalAgents       int64            `json:"total_agents"`
	TotalBuyers       int64            `json:"total_buyers"`
	TotalProperties   int64            `json:"total_properties"`
	PropertiesByState map[string]int64 `json:"properties_by_status"`
	TotalTestimonials int64            `json:"total_testimonials"`
	PendingApprovals  int64            `json:"pending_approvals"`
	TotalVisitors     int64            `json:"total_visitors"`
	RecentUsers       []models.User    `json:"recent_users"`
}

func (s *AdminService) GetDashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		PropertiesByState: make(map[string]int64),
		RecentUsers:       []models.User{},
	}

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{s.db.WithContext(ctx).Model(&models.User{}), &stats.TotalUsers},
		{s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAgent), &stats.TotalAgents},
		{s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleBuyer), &stats.TotalBuyers},
		{s.db.WithContext(ctx).Model(&models.Property{}), &stats.TotalProperties},
		{s.db.WithContext(ctx).Model(&models.Testimonial{}), &stats.TotalTestimonials},
		{s.db.WithContext(ctx).Model(&models.Testimonial{}).Where("approved = ?", false), &stats.PendingApprovals},
		{s.db.WithContext(ctx).Model(&models.Visitor{}), &stats.TotalVisitors},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to compute dashboard stats", err)
		}
	}

	for _, status := range []string{models.StatusAvailable, models.StatusSold, models.StatusRented} {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Property{}).
			Where("status = ?", status).
			Count(&count).Error; err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to compute dashboard stats", err)
		}
		stats.PropertiesByState[status] = count
	}

	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(5).
		Find(&stats.RecentUsers).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to compute dashboard stats", err)
	}

	return stats, nil
}

type UserPage struct {
	Users      []models.User `json:"users"`
	TotalCount int64         `json:"totalCount"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
}

func (s *AdminService) ListUsers(ctx context.Context, role string, page, limit int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	result := &UserPage{Users: []models.User{}, Page: page, Limit: limit}
	if err := query.Count(&result.TotalCount).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch users", err)
	}

	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&result.Users).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch users", err)
	}

	return result, nil
}

// SetUserActive activates or deactivates an account. Deactivated users fail
// auth middleware lookups, which invalidates their sessions immediately.
func (s *AdminService) SetUserActive(ctx context.Context, userID uint, active bool) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", active)
	if result.Error != nil {
		return apperr.Wrap(apperr.Internal, "Failed to update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "User not found")
	}
	return nil
}

// DeleteUser soft-deletes the account and revokes its sessions. Listings and
// other rows stay behind their foreign keys for audit.
func (s *AdminService) DeleteUser(ctx context.Context, userID uint) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "User not found")
		}
		return apperr.Wrap(apperr.Internal, "Failed to fetch user", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RefreshToken{}).
			Where("user_id = ?", userID).
			Update("is_revoked", true).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to delete user", err)
	}
	return nil
}

// ListProperties returns listings in every status for moderation.
func (s *AdminService) ListProperties(ctx context.Context, filter PropertyFilter) (*PropertyPage, error) {
	filter.Status = "All"
	return s.propertyService.Search(ctx, filter)
}

func (s *AdminService) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	testimonials := []models.Testimonial{}
	err := s.db.WithContext(ctx).Preload("User").
		Order("created_at DESC").
		Find(&testimonials).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch testimonials", err)
	}
	return testimonials, nil
}

// UpsertAnalysis stores an AI quality score for a listing, one row per
// property.
func (s *AdminService) UpsertAnalysis(ctx context.Context, propertyID uint, score float64, insights string) (*models.AiAnalysis, error) {
	var property models.Property
	if err := s.db.WithContext(ctx).Select("id").First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Property not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch property", err)
	}

	analysis := models.AiAnalysis{
		PropertyID:  propertyID,
		AiScore:     score,
		AiInsights:  insights,
		GeneratedAt: time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AiAnalysis
		if err := tx.Where("property_id = ?", propertyID).First(&existing).Error; err == nil {
			analysis.ID = existing.ID
			return tx.Save(&analysis).Error
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&analysis).Error
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to save analysis", err)
	}

	return &analysis, nil
}
