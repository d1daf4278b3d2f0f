package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineItem rows reflect the most recently reconciled snapshot of their
// order: full syncs replace the whole set, edit events only shift quantities.
type LineItem struct {
	ID        string           `json:"id" gorm:"type:uuid;primary_key"`
	OrderID   string           `json:"order_id" gorm:"type:uuid;not null;index"`
	Title     string           `json:"title"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	SKU       *string          `json:"sku"`
	ProductID *string          `json:"product_id"`
	VariantID *string          `json:"variant_id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (li *LineItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == "" {
		li.ID = uuid.New().String()
	}
	return nil
}
