package models

import "time"

// Role is the closed set of user capability levels.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether the role is a known value.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserStatus is the closed set of account states.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// IsValid reports whether the status is a known value.
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// User represents an authenticated customer or admin.
type User struct {
	BaseModel
	Username     string     `gorm:"uniqueIndex" json:"username"`
	FullName     string     `json:"full_name"`
	Phone        string     `json:"phone"`
	PasswordHash string     `json:"-"`
	Role         Role       `gorm:"default:user" json:"role"`
	Status       UserStatus `gorm:"default:active" json:"status"`
	AvatarURL    string     `json:"avatar_url"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	Orders       []Order    `json:"orders,omitempty"`
}
