package models

import (
	"time"
)

// RoleKind defines allowed role labels in the system
type RoleKind string

const (
	RoleDiner      RoleKind = "diner"
	RoleFranchisee RoleKind = "franchisee"
	RoleAdmin      RoleKind = "admin"
)

type User struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	Name         string        `json:"name" gorm:"not null"`
	Email        string        `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string        `json:"-" gorm:"not null"`
	Roles        []RoleBinding `json:"roles,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time     `json:"-"`
	UpdatedAt    time.Time     `json:"-"`
}

// RoleBinding attaches a role to a user, optionally scoped to an object.
// For a franchisee the object names the franchise; actual authority over a
// franchise comes from its admin list, not from this label.
type RoleBinding struct {
	ID     uint     `json:"-" gorm:"primaryKey"`
	UserID uint     `json:"-" gorm:"index;not null"`
	Role   RoleKind `json:"role" gorm:"not null"`
	Object string   `json:"object,omitempty"`
}
