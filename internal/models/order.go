package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is the local read model for one upstream order. ShopifyOrderID is
// the idempotency key for every reconciliation path.
type Order struct {
	ID             string           `json:"id" gorm:"type:uuid;primary_key"`
	ShopifyOrderID string           `json:"shopify_order_id" gorm:"unique;not null"`
	Name           *string          `json:"name"`
	TotalPrice     *decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2)"`
	Currency       string           `json:"currency" gorm:"default:USD"`
	OrderStatus    *string          `json:"order_status"`
	CustomerID     string           `json:"customer_id" gorm:"type:uuid;not null"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	Customer  Customer   `json:"customer" gorm:"foreignKey:CustomerID"`
	LineItems []LineItem `json:"line_items" gorm:"foreignKey:OrderID"`
	Addresses []Address  `json:"addresses" gorm:"foreignKey:OrderID"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}
