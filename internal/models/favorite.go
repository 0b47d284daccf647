package models

import "time"

// Favorite links a user to a saved property. The composite unique index is
// the only guard against double-saving under concurrent toggles.
type Favorite struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_property"`
	PropertyID uint      `json:"property_id" gorm:"not null;uniqueIndex:idx_user_property"`
	CreatedAt  time.Time `json:"created_at"`

	User     User     `json:"-" gorm:"foreignKey:UserID"`
	Property Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}
