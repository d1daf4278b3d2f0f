package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SentinelCustomerID is the external id attached to orders whose source
// record carries no customer block. Orders are never dropped for a missing
// customer; they are parked on this customer until the upstream resolves one.
const SentinelCustomerID = "unknown"

type Customer struct {
	ID                string    `json:"id" gorm:"type:uuid;primary_key"`
	ShopifyCustomerID string    `json:"shopify_customer_id" gorm:"unique;not null"`
	FirstName         *string   `json:"first_name"`
	LastName          *string   `json:"last_name"`
	Email             *string   `json:"email"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
