package models

import "time"

// Visitor is one row per inbound request, written best-effort by the
// visitor-logging middleware.
type Visitor struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	IP        string    `json:"ip" gorm:"index"`
	Path      string    `json:"path"`
	Method    string    `json:"method"`
	UserAgent string    `json:"user_agent"`
	Referrer  string    `json:"referrer"`
	UserID    *uint     `json:"user_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
