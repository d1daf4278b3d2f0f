package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressKind string

const (
	AddressKindShipping AddressKind = "shipping"
	AddressKindBilling  AddressKind = "billing"
)

// Address holds at most one row per kind per order after reconciliation.
type Address struct {
	ID        string      `json:"id" gorm:"type:uuid;primary_key"`
	OrderID   string      `json:"order_id" gorm:"type:uuid;not null;index"`
	Kind      AddressKind `json:"type" gorm:"column:kind;not null"`
	FirstName *string     `json:"first_name"`
	LastName  *string     `json:"last_name"`
	Address1  *string     `json:"address1"`
	Address2  *string     `json:"address2"`
	City      *string     `json:"city"`
	Province  *string     `json:"province"`
	Zip       *string     `json:"zip"`
	Country   *string     `json:"country"`
	Phone     *string     `json:"phone"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
