package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/estatehub/realestate-backend/internal/apperr"
	"github.com/estatehub/realestate-backend/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	QueryTimeout    = 30 * time.Second

	SuggestionLimit = 4
)

// Columns the API accepts for sorting. Anything else falls back to created_at.
var sortColumns = map[string]string{
	"price":     "price",
	"createdAt": "created_at",
	"bedrooms":  "bedrooms",
	"area":      "area",
}

type PropertyService struct {
	db        *gorm.DB
	s3Service *S3Service
}

func NewPropertyService(db *gorm.DB, s3Service *S3Service) *PropertyService {
	if db == nil {
		panic("database connection cannot be nil")
	}
	return &PropertyService{db: db, s3Service: s3Service}
}

// PropertyFilter carries the optional query-string parameters of the search
// endpoints. Zero values mean "not set"; handlers parse numeric params with
// errors discarded, so a non-numeric value degrades to an unset filter.
type PropertyFilter struct {
	Location  string  `form:"location"`
	Type      string  `form:"type"`
	Purpose   string  `form:"purpose"`
	MinPrice  float64 `form:"minPrice"`
	MaxPrice  float64 `form:"maxPrice"`
	Bedrooms  int     `form:"bedrooms"`
	MinArea   float64 `form:"minArea"`
	MaxArea   float64 `form:"maxArea"`
	AgentID   uint    `form:"agent_id"`
	AgentName string  `form:"agent_name"`
	Status    string  `form:"status"`
	Page      int     `form:"page"`
	Limit     int     `form:"limit"`
	SortBy    string  `form:"sortBy"`
	Order     string  `form:"order"`
}

type PropertyPage struct {
	Properties []models.Property `json:"properties"`
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

// ValidateAndNormalize clamps pagination, resolves the sort whitelist and
// applies the status default: omitted means "available", "All" disables the
// status predicate entirely.
func (f *PropertyFilter) ValidateAndNormalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}

	if _, ok := sortColumns[f.SortBy]; !ok {
		f.SortBy = "createdAt"
	}
	if order := strings.ToUpper(f.Order); order == "ASC" {
		f.Order = "ASC"
	} else {
		f.Order = "DESC"
	}

	f.Location = strings.TrimSpace(f.Location)
	f.AgentName = strings.TrimSpace(f.AgentName)
	if f.Status == "" {
		f.Status = models.StatusAvailable
	}
}

// Search runs the shared filter/paginate/sort pipeline used by the public
// listing endpoint, the AI search tool and the admin property views.
func (s *PropertyService) Search(ctx context.Context, filter PropertyFilter) (*PropertyPage, error) {
	filter.ValidateAndNormalize()

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	query := s.db.WithContext(ctx).Model(&models.Property{})

	// agent_name resolves to a set of agent ids first; no match is a silent
	// empty result, not an error.
	if filter.AgentName != "" {
		var agentIDs []uint
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("role = ? AND LOWER(name) LIKE ?", models.RoleAgent, "%"+strings.ToLower(filter.AgentName)+"%").
			Pluck("id", &agentIDs).Error; err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to search properties", err)
		}
		if len(agentIDs) == 0 {
			return &PropertyPage{
				Properties: []models.Property{},
				Page:       filter.Page,
				Limit:      filter.Limit,
			}, nil
		}
		query = query.Where("agent_id IN ?", agentIDs)
	}

	query = applyPropertyFilters(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to search properties", err)
	}

	page := &PropertyPage{
		Properties: []models.Property{},
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}
	if total == 0 {
		return page, nil
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := query.
		Preload("Images").
		Preload("Agent").
		Offset(offset).
		Limit(filter.Limit).
		Order(sortColumns[filter.SortBy] + " " + filter.Order).
		Find(&page.Properties).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to search properties", err)
	}

	return page, nil
}

func applyPropertyFilters(query *gorm.DB, filter PropertyFilter) *gorm.DB {
	if filter.Location != "" {
		query = query.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(filter.Location)+"%")
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Purpose != "" {
		query = query.Where("purpose = ?", strings.ToLower(filter.Purpose))
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.Bedrooms > 0 {
		query = query.Where("bedrooms = ?", filter.Bedrooms)
	}
	if filter.MinArea > 0 {
		query = query.Where("area >= ?", filter.MinArea)
	}
	if filter.MaxArea > 0 {
		query = query.Where("area <= ?", filter.MaxArea)
	}
	if filter.AgentID > 0 {
		query = query.Where("agent_id = ?", filter.AgentID)
	}
	if !strings.EqualFold(filter.Status, "all") {
		query = query.Where("status = ?", strings.ToLower(filter.Status))
	}
	return query
}

func (s *PropertyService) GetByID(ctx context.Context, id uint) (*models.Property, error) {
	if id == 0 {
		return nil, apperr.New(apperr.Validation, "Invalid property ID")
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	var property models.Property
	if err := s.db.WithContext(ctx).
		Preload("Images").
		Preload("Agent").
		First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Property not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch property", err)
	}

	return &property, nil
}

func (s *PropertyService) Create(ctx context.Context, agentID uint, req *models.CreatePropertyRequest) (*models.Property, error) {
	if !models.IsValidPurpose(strings.ToLower(req.Purpose)) {
		return nil, apperr.New(apperr.Validation, "Purpose must be sale or rent")
	}

	property := &models.Property{
		AgentID:     agentID,
		Title:       strings.TrimSpace(req.Title),
		Type:        strings.TrimSpace(req.Type),
		Purpose:     strings.ToLower(req.Purpose),
		Price:       req.Price,
		Location:    strings.TrimSpace(req.Location),
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Area:        req.Area,
		Description: strings.TrimSpace(req.Description),
		Status:      models.StatusAvailable,
	}

	if err := s.db.WithContext(ctx).Create(property).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create property", err)
	}

	return property, nil
}

// Update mutates a listing; only the owning agent may do so.
func (s *PropertyService) Update(ctx context.Context, propertyID, agentID uint, req *models.UpdatePropertyRequest) (*models.Property, error) {
	var property models.Property
	if err := s.db.WithContext(ctx).First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Property not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch property", err)
	}
	if property.AgentID != agentID {
		return nil, apperr.New(apperr.Forbidden, "You can only manage your own listings")
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Type != nil {
		updates["type"] = strings.TrimSpace(*req.Type)
	}
	if req.Purpose != nil {
		purpose := strings.ToLower(*req.Purpose)
		if !models.IsValidPurpose(purpose) {
			return nil, apperr.New(apperr.Validation, "Purpose must be sale or rent")
		}
		updates["purpose"] = purpose
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperr.New(apperr.Validation, "Price must be greater than 0")
		}
		updates["price"] = *req.Price
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Bedrooms != nil {
		updates["bedrooms"] = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		updates["bathrooms"] = *req.Bathrooms
	}
	if req.Area != nil {
		updates["area"] = *req.Area
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		status := strings.ToLower(*req.Status)
		if !models.IsValidStatus(status) {
			return nil, apperr.New(apperr.Validation, "Status must be available, sold or rented")
		}
		updates["status"] = status
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&property).Updates(updates).Error; err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to update property", err)
		}
	}

	if err := s.db.WithContext(ctx).Preload("Images").Preload("Agent").First(&property, propertyID).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load updated property", err)
	}
	return &property, nil
}

// Delete removes a listing; favorites and images cascade. S3 objects are
// removed best-effort after the database delete, so a storage failure cannot
// resurrect the listing.
func (s *PropertyService) Delete(ctx context.Context, propertyID, agentID uint, isAdmin bool) error {
	var property models.Property
	if err := s.db.WithContext(ctx).Preload("Images").First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "Property not found")
		}
		return apperr.Wrap(apperr.Internal, "Failed to fetch property", err)
	}
	if !isAdmin && property.AgentID != agentID {
		return apperr.New(apperr.Forbidden, "You can only manage your own listings")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.PropertyImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", propertyID).Delete(&models.AiAnalysis{}).Error; err != nil {
			return err
		}
		return tx.Delete(&property).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to delete property", err)
	}

	if s.s3Service != nil && len(property.Images) > 0 {
		keys := make([]string, 0, len(property.Images))
		for _, img := range property.Images {
			keys = append(keys, img.S3Key)
		}
		if err := s.s3Service.DeleteMultipleImages(keys); err != nil {
			// Orphaned objects are preferable to a half-deleted listing.
			return nil
		}
	}

	return nil
}

type Suggestions struct {
	Locations []string `json:"locations"`
	Agents    []string `json:"agents"`
}

// Suggest returns up to four matching locations and four matching agent names
// for the search box autocomplete.
func (s *PropertyService) Suggest(ctx context.Context, q string) (*Suggestions, error) {
	suggestions := &Suggestions{
		Locations: []string{},
		Agents:    []string{},
	}

	q = strings.TrimSpace(q)
	if q == "" {
		return suggestions, nil
	}
	pattern := "%" + strings.ToLower(q) + "%"

	if err := s.db.WithContext(ctx).Model(&models.Property{}).
		Distinct("location").
		Where("LOWER(location) LIKE ?", pattern).
		Order("location").
		Limit(SuggestionLimit).
		Pluck("location", &suggestions.Locations).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch suggestions", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Distinct("name").
		Where("role = ? AND LOWER(name) LIKE ?", models.RoleAgent, pattern).
		Order("name").
		Limit(SuggestionLimit).
		Pluck("name", &suggestions.Agents).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to fetch suggestions", err)
	}

	return suggestions, nil
}

type AgentStats struct {
	TotalProperties    int64                `json:"total_properties"`
	AvailableCount     int64                `json:"available_count"`
	SoldCount          int64                `json:"sold_count"`
	RentedCount        int64                `json:"rented_count"`
	FavoriteCount      int64                `json:"favorite_count"`
	AverageRating      float64              `json:"average_rating"`
	RecentTestimonials []models.Testimonial `json:"recent_testimonials"`
}

// GetAgentStats aggregates listing counts for one agent plus platform-level
// testimonial figures for the agent dashboard.
func (s *PropertyService) GetAgentStats(ctx context.Context, agentID uint) (*AgentStats, error) {
	stats := &AgentStats{RecentTestimonials: []models.Testimonial{}}

	counts := []struct {
		status string
		dest   *int64
	}{
		{"", &stats.TotalProperties},
		{models.StatusAvailable, &stats.AvailableCount},
		{models.StatusSold, &stats.SoldCount},
		{models.StatusRented, &stats.RentedCount},
	}
	for _, c := range counts {
		query := s.db.WithContext(ctx).Model(&models.Property{}).Where("agent_id = ?", agentID)
		if c.status != "" {
			query = query.Where("status = ?", c.status)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to compute agent stats", err)
		}
	}

	if err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Joins("JOIN properties ON properties.id = favorites.property_id").
		Where("properties.agent_id = ? AND properties.deleted_at IS NULL", agentID).
		Count(&stats.FavoriteCount).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to compute agent stats", err)
	}

	var avg *float64
	if err := s.db.WithContext(ctx).Model(&models.Testimonial{}).
		Where("approved = ?", true).
		Select("AVG(rating)").
		Scan(&avg).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to compute agent stats", err)
	}
	if avg != nil {
		stats.AverageRating = *avg
	}

	if err := s.db.WithContext(ctx).Preload("User").
		Where("approved = ?", true).
		Order("created_at DESC").
		Limit(5).
		Find(&stats.RecentTestimonials).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to compute agent stats", err)
	}

	return stats, nil
}
