// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name        string         `json:"name" gorm:"size:50;not null"`
	Description string         `json:"description" gorm:"type:text;not null"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`

	// Prices in whole currency units, matching bid amounts.
	InitialPrice int64 `json:"initial_price" gorm:"not null"`
	FinalPrice   int64 `json:"final_price" gorm:"default:0"`

	IsActive      bool       `json:"is_active" gorm:"default:true;index"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`

	CategoryID *uuid.UUID `json:"category_id,omitempty" gorm:"type:uuid;index"`
	Category   *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (p *Product) Deactivate(now time.Time) {
	p.IsActive = false
	p.DeactivatedAt = &now
}
