package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PurposeSale = "sale"
	PurposeRent = "rent"

	StatusAvailable = "available"
	StatusSold      = "sold"
	StatusRented    = "rented"
)

type Property struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	AgentID     uint           `json:"agent_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	Type        string         `json:"type" gorm:"index"`
	Purpose     string         `json:"purpose" gorm:"not null;index"`
	Price       float64        `json:"price" gorm:"not null"`
	Location    string         `json:"location" gorm:"index"`
	Bedrooms    int            `json:"bedrooms"`
	Bathrooms   int            `json:"bathrooms"`
	Area        float64        `json:"area"`
	Description string         `json:"description"`
	Status      string         `json:"status" gorm:"default:available;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Agent     User            `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
	Images    []PropertyImage `json:"images" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Favorites []Favorite      `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Analysis  *AiAnalysis     `json:"analysis,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

type PropertyImage struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	PropertyID  uint      `json:"property_id" gorm:"not null;index"`
	FileName    string    `json:"file_name" gorm:"not null"`
	S3Key       string    `json:"s3_key" gorm:"not null;unique"`
	S3URL       string    `json:"image_url" gorm:"not null"`
	ContentType string    `json:"content_type" gorm:"not null"`
	Size        int64     `json:"size"`
	IsPrimary   bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *PropertyImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// AiAnalysis is generated by the admin moderation surface, never by listing
// flows.
type AiAnalysis struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	PropertyID  uint      `json:"property_id" gorm:"not null;uniqueIndex"`
	AiScore     float64   `json:"ai_score"`
	AiInsights  string    `json:"ai_insights"`
	GeneratedAt time.Time `json:"generated_at"`
}

type CreatePropertyRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Type        string  `json:"type" binding:"required,max=100"`
	Purpose     string  `json:"purpose" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Location    string  `json:"location" binding:"required,max=255"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   int     `json:"bathrooms"`
	Area        float64 `json:"area"`
	Description string  `json:"description"`
}

type UpdatePropertyRequest struct {
	Title       *string  `json:"title,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Purpose     *string  `json:"purpose,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Bedrooms    *int     `json:"bedrooms,omitempty"`
	Bathrooms   *int     `json:"bathrooms,omitempty"`
	Area        *float64 `json:"area,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

func IsValidPurpose(purpose string) bool {
	return purpose == PurposeSale || purpose == PurposeRent
}

func IsValidStatus(status string) bool {
	return status == StatusAvailable || status == StatusSold || status == StatusRented
}
