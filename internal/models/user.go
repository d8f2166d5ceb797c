// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated account. The auth layer resolves a request
// to a Viewer; User itself is only for persistence and profile data.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	IsAdmin   bool           `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Viewer is the request identity the access-control rules are evaluated
// against. The zero value is an anonymous viewer.
type Viewer struct {
	ID      uint
	IsAdmin bool
}

// Anonymous reports whether the viewer is unauthenticated.
func (v Viewer) Anonymous() bool {
	return v.ID == 0
}

// ViewerFor builds a Viewer from a persisted user.
func ViewerFor(u *User) Viewer {
	if u == nil {
		return Viewer{}
	}
	return Viewer{ID: u.ID, IsAdmin: u.IsAdmin}
}
