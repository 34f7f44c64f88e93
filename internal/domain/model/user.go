package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Password    string `gorm:"column:password_hash;not null" json:"-"`
	Role        Role   `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
