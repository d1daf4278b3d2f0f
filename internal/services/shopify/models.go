package shopify

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderNode is one order as returned by the GraphQL orders query.
type OrderNode struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	CreatedAt       time.Time          `json:"createdAt"`
	Closed          bool               `json:"closed"`
	TotalPriceSet   *PriceSet          `json:"totalPriceSet"`
	Customer        *CustomerNode      `json:"customer"`
	LineItems       LineItemConnection `json:"lineItems"`
	ShippingAddress *AddressNode       `json:"shippingAddress"`
	BillingAddress  *AddressNode       `json:"billingAddress"`
}

type PriceSet struct {
	ShopMoney Money `json:"shopMoney"`
}

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type CustomerNode struct {
	ID        string  `json:"id"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type LineItemConnection struct {
	Edges []LineItemEdge `json:"edges"`
}

type LineItemEdge struct {
	Node LineItemNode `json:"node"`
}

type LineItemNode struct {
	Title                string    `json:"title"`
	Quantity             int       `json:"quantity"`
	SKU                  *string   `json:"sku"`
	OriginalUnitPriceSet *PriceSet `json:"originalUnitPriceSet"`
	Product              *struct {
		ID string `json:"id"`
	} `json:"product"`
	Variant *struct {
		ID string `json:"id"`
	} `json:"variant"`
}

type AddressNode struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Address1  *string `json:"address1"`
	Address2  *string `json:"address2"`
	City      *string `json:"city"`
	Province  *string `json:"province"`
	Zip       *string `json:"zip"`
	Country   *string `json:"country"`
	Phone     *string `json:"phone"`
}

// OrderPage is one page of the catalog walk. Cursor is opaque and must be
// passed back unchanged to fetch the next page.
type OrderPage struct {
	Orders      []OrderNode
	EndCursor   string
	HasNextPage bool
}

// OrderWebhookPayload is the orders/create webhook body (underscore keys).
type OrderWebhookPayload struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	TotalPrice        string            `json:"total_price"`
	Currency          string            `json:"currency"`
	FulfillmentStatus *string           `json:"fulfillment_status"`
	CreatedAt         string            `json:"created_at"`
	UpdatedAt         string            `json:"updated_at"`
	Customer          *WebhookCustomer  `json:"customer"`
	LineItems         []WebhookLineItem `json:"line_items"`
	ShippingAddress   *WebhookAddress   `json:"shipping_address"`
	BillingAddress    *WebhookAddress   `json:"billing_address"`
}

type WebhookCustomer struct {
	ID        int64   `json:"id"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type WebhookLineItem struct {
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Price     string  `json:"price"`
	SKU       *string `json:"sku"`
	ProductID *int64  `json:"product_id"`
	VariantID *int64  `json:"variant_id"`
}

type WebhookAddress struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Address1  *string `json:"address1"`
	Address2  *string `json:"address2"`
	City      *string `json:"city"`
	Province  *string `json:"province"`
	Zip       *string `json:"zip"`
	Country   *string `json:"country"`
	Phone     *string `json:"phone"`
}

// OrderEditPayload is the orders/edited webhook body. Deltas carry no
// per-line-item identifier, so they apply across the parent order's items.
type OrderEditPayload struct {
	ID        int64 `json:"id"`
	LineItems struct {
		Additions []LineItemDelta `json:"additions"`
		Removals  []LineItemDelta `json:"removals"`
	} `json:"line_items"`
}

type LineItemDelta struct {
	ID    int64 `json:"id"`
	Delta int   `json:"delta"`
}

// NormalizedOrder is the canonical shape both the bulk catalog and the
// webhook payloads converge to before hitting the store.
type NormalizedOrder struct {
	ExternalID      string
	Name            *string
	TotalPrice      *decimal.Decimal
	Currency        string
	Status          *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Customer        *NormalizedCustomer
	LineItems       []NormalizedLineItem
	ShippingAddress *NormalizedAddress
	BillingAddress  *NormalizedAddress
}

type NormalizedCustomer struct {
	ExternalID string
	FirstName  *string
	LastName   *string
	Email      *string
}

type NormalizedLineItem struct {
	Title     string
	Quantity  int
	Price     *decimal.Decimal
	SKU       *string
	ProductID *string
	VariantID *string
}

type NormalizedAddress struct {
	FirstName *string
	LastName  *string
	Address1  *string
	Address2  *string
	City      *string
	Province  *string
	Zip       *string
	Country   *string
	Phone     *string
}

// Webhook is one registered webhook subscription in the admin API.
type Webhook struct {
	ID      int64  `json:"id"`
	Topic   string `json:"topic"`
	Address string `json:"address"`
	Format  string `json:"format"`
}
