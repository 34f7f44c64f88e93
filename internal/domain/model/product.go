package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Productはカタログの1商品。画像なしはImageURLが空文字。
type Product struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Description string          `gorm:"type:text;not null" json:"description"`
	ImageURL    string          `gorm:"type:text;not null;default:''" json:"image_url"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
}
