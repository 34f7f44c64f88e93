package model

import "time"

// RefreshTokenは平文を保存しない。TokenHashはsha256のhex。
type RefreshToken struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:uuid;index;not null"`
	TokenHash string `gorm:"uniqueIndex;not null"`
	UserAgent string
	ExpiresAt time.Time `gorm:"not null"`
	RevokedAt *time.Time
	CreatedAt time.Time
}
