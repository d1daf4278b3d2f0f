package shopify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestNormalizeOrderNode(t *testing.T) {
	n := NewNormalizer()

	node := &OrderNode{
		ID:        "gid://shopify/Order/5001",
		Name:      "#1001",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		TotalPriceSet: &PriceSet{
			ShopMoney: Money{Amount: "149.95", CurrencyCode: "EUR"},
		},
		Customer: &CustomerNode{
			ID:        "gid://shopify/Customer/42",
			Email:     strptr("jane@example.com"),
			FirstName: strptr("Jane"),
			LastName:  strptr("Doe"),
		},
		LineItems: LineItemConnection{
			Edges: []LineItemEdge{
				{Node: LineItemNode{Title: "Mug", Quantity: 2, SKU: strptr("MUG-01")}},
				{Node: LineItemNode{
					Title:                "Shirt",
					Quantity:             1,
					OriginalUnitPriceSet: &PriceSet{ShopMoney: Money{Amount: "24.50"}},
				}},
			},
		},
		ShippingAddress: &AddressNode{City: strptr("Berlin"), Country: strptr("Germany")},
	}

	order, err := n.NormalizeOrderNode(node)
	require.NoError(t, err)

	assert.Equal(t, "5001", order.ExternalID)
	require.NotNil(t, order.Name)
	assert.Equal(t, "#1001", *order.Name)
	assert.Equal(t, "EUR", order.Currency)
	require.NotNil(t, order.TotalPrice)
	assert.Equal(t, "149.95", order.TotalPrice.StringFixed(2))

	require.NotNil(t, order.Customer)
	assert.Equal(t, "42", order.Customer.ExternalID)
	assert.Equal(t, "jane@example.com", *order.Customer.Email)

	require.Len(t, order.LineItems, 2)
	assert.Equal(t, "Mug", order.LineItems[0].Title)
	assert.Nil(t, order.LineItems[0].Price)
	require.NotNil(t, order.LineItems[1].Price)
	assert.Equal(t, "24.50", order.LineItems[1].Price.StringFixed(2))

	require.NotNil(t, order.ShippingAddress)
	assert.Equal(t, "Berlin", *order.ShippingAddress.City)
	assert.Nil(t, order.BillingAddress)
}

func TestNormalizeOrderNodeDefaults(t *testing.T) {
	n := NewNormalizer()

	order, err := n.NormalizeOrderNode(&OrderNode{ID: "gid://shopify/Order/7"})
	require.NoError(t, err)

	assert.Equal(t, "7", order.ExternalID)
	assert.Equal(t, "USD", order.Currency)
	assert.Nil(t, order.TotalPrice)
	assert.Nil(t, order.Customer)
	assert.Empty(t, order.LineItems)
	assert.Nil(t, order.ShippingAddress)
	assert.Nil(t, order.BillingAddress)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestNormalizeOrderNodeMalformed(t *testing.T) {
	n := NewNormalizer()

	for _, id := range []string{"", "   ", "gid://shopify/Order/"} {
		_, err := n.NormalizeOrderNode(&OrderNode{ID: id})
		assert.ErrorIs(t, err, ErrMalformedRecord, "id=%q", id)
	}
}

func TestNormalizeWebhookOrder(t *testing.T) {
	n := NewNormalizer()

	productID := int64(900)
	payload := &OrderWebhookPayload{
		ID:                5001,
		Name:              "#1001",
		TotalPrice:        "149.95",
		Currency:          "CAD",
		FulfillmentStatus: strptr("fulfilled"),
		CreatedAt:         "2024-03-01T12:00:00Z",
		Customer: &WebhookCustomer{
			ID:        42,
			Email:     strptr("jane@example.com"),
			FirstName: strptr("Jane"),
		},
		LineItems: []WebhookLineItem{
			{Title: "Mug", Quantity: 2, Price: "12.00", SKU: strptr("MUG-01"), ProductID: &productID},
		},
		BillingAddress: &WebhookAddress{City: strptr("Toronto")},
	}

	order, err := n.NormalizeWebhookOrder(payload)
	require.NoError(t, err)

	assert.Equal(t, "5001", order.ExternalID)
	assert.Equal(t, "CAD", order.Currency)
	assert.Equal(t, "fulfilled", *order.Status)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), order.CreatedAt)
	assert.Equal(t, order.CreatedAt, order.UpdatedAt)

	require.NotNil(t, order.Customer)
	assert.Equal(t, "42", order.Customer.ExternalID)

	require.Len(t, order.LineItems, 1)
	assert.Equal(t, "12.00", order.LineItems[0].Price.StringFixed(2))
	assert.Equal(t, "900", *order.LineItems[0].ProductID)

	assert.Nil(t, order.ShippingAddress)
	require.NotNil(t, order.BillingAddress)
	assert.Equal(t, "Toronto", *order.BillingAddress.City)
}

func TestNormalizeWebhookOrderMissingCustomer(t *testing.T) {
	n := NewNormalizer()

	order, err := n.NormalizeWebhookOrder(&OrderWebhookPayload{ID: 5002})
	require.NoError(t, err)
	assert.Nil(t, order.Customer)
	assert.Equal(t, "USD", order.Currency)
	assert.Nil(t, order.TotalPrice)
}

func TestNormalizeWebhookOrderMalformed(t *testing.T) {
	n := NewNormalizer()

	_, err := n.NormalizeWebhookOrder(&OrderWebhookPayload{})
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestParseMoney(t *testing.T) {
	assert.Nil(t, parseMoney(""))
	assert.Nil(t, parseMoney("  "))
	assert.Nil(t, parseMoney("not-a-number"))

	price := parseMoney("10.50")
	require.NotNil(t, price)
	assert.Equal(t, "10.50", price.StringFixed(2))
}

func TestStripGID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"gid://shopify/Order/123", "123"},
		{"gid://shopify/Customer/42?key=val", "42"},
		{"123", "123"},
		{"", ""},
		{"gid://shopify/Order/", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripGID(tt.in), "in=%q", tt.in)
	}
}
