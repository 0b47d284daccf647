package models

import "time"

// Testimonial is a platform-level review, one per user.
type Testimonial struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex"`
	Content   string    `json:"content" gorm:"not null"`
	Rating    int       `json:"rating" gorm:"check:rating >= 1 AND rating <= 5"`
	Approved  bool      `json:"approved" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
