package shopify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Normalizer converts both upstream order shapes (GraphQL catalog nodes and
// underscore-keyed webhook payloads) into the canonical NormalizedOrder.
// Every field except the external id is best-effort defaulted.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeOrderNode converts a GraphQL catalog node.
func (n *Normalizer) NormalizeOrderNode(node *OrderNode) (*NormalizedOrder, error) {
	externalID := stripGID(node.ID)
	if externalID == "" {
		return nil, fmt.Errorf("order %q: %w", node.ID, ErrMalformedRecord)
	}

	order := &NormalizedOrder{
		ExternalID: externalID,
		Currency:   "USD",
		CreatedAt:  node.CreatedAt,
		UpdatedAt:  node.CreatedAt,
	}
	if node.Name != "" {
		name := node.Name
		order.Name = &name
	}
	if node.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
		order.UpdatedAt = order.CreatedAt
	}
	if node.TotalPriceSet != nil {
		order.TotalPrice = parseMoney(node.TotalPriceSet.ShopMoney.Amount)
		if node.TotalPriceSet.ShopMoney.CurrencyCode != "" {
			order.Currency = node.TotalPriceSet.ShopMoney.CurrencyCode
		}
	}
	if node.Closed {
		status := "closed"
		order.Status = &status
	}

	if node.Customer != nil {
		if customerID := stripGID(node.Customer.ID); customerID != "" {
			order.Customer = &NormalizedCustomer{
				ExternalID: customerID,
				FirstName:  node.Customer.FirstName,
				LastName:   node.Customer.LastName,
				Email:      node.Customer.Email,
			}
		}
	}

	for _, edge := range node.LineItems.Edges {
		item := NormalizedLineItem{
			Title:    edge.Node.Title,
			Quantity: edge.Node.Quantity,
			SKU:      edge.Node.SKU,
		}
		if edge.Node.OriginalUnitPriceSet != nil {
			item.Price = parseMoney(edge.Node.OriginalUnitPriceSet.ShopMoney.Amount)
		}
		if edge.Node.Product != nil {
			if id := stripGID(edge.Node.Product.ID); id != "" {
				item.ProductID = &id
			}
		}
		if edge.Node.Variant != nil {
			if id := stripGID(edge.Node.Variant.ID); id != "" {
				item.VariantID = &id
			}
		}
		order.LineItems = append(order.LineItems, item)
	}

	order.ShippingAddress = normalizeAddressNode(node.ShippingAddress)
	order.BillingAddress = normalizeAddressNode(node.BillingAddress)
	return order, nil
}

// NormalizeWebhookOrder converts an orders/create webhook payload.
func (n *Normalizer) NormalizeWebhookOrder(p *OrderWebhookPayload) (*NormalizedOrder, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("webhook order: %w", ErrMalformedRecord)
	}

	createdAt := parseWebhookTime(p.CreatedAt)
	updatedAt := parseWebhookTime(p.UpdatedAt)
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	order := &NormalizedOrder{
		ExternalID: strconv.FormatInt(p.ID, 10),
		TotalPrice: parseMoney(p.TotalPrice),
		Currency:   "USD",
		Status:     p.FulfillmentStatus,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
	if p.Name != "" {
		name := p.Name
		order.Name = &name
	}
	if p.Currency != "" {
		order.Currency = p.Currency
	}

	if p.Customer != nil && p.Customer.ID != 0 {
		order.Customer = &NormalizedCustomer{
			ExternalID: strconv.FormatInt(p.Customer.ID, 10),
			FirstName:  p.Customer.FirstName,
			LastName:   p.Customer.LastName,
			Email:      p.Customer.Email,
		}
	}

	for _, item := range p.LineItems {
		normalized := NormalizedLineItem{
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    parseMoney(item.Price),
			SKU:      item.SKU,
		}
		if item.ProductID != nil {
			id := strconv.FormatInt(*item.ProductID, 10)
			normalized.ProductID = &id
		}
		if item.VariantID != nil {
			id := strconv.FormatInt(*item.VariantID, 10)
			normalized.VariantID = &id
		}
		order.LineItems = append(order.LineItems, normalized)
	}

	order.ShippingAddress = normalizeWebhookAddress(p.ShippingAddress)
	order.BillingAddress = normalizeWebhookAddress(p.BillingAddress)
	return order, nil
}

// stripGID reduces "gid://shopify/Order/123" to the bare "123". Plain
// numeric ids pass through unchanged.
func stripGID(gid string) string {
	gid = strings.TrimSpace(gid)
	if gid == "" {
		return ""
	}
	if idx := strings.LastIndex(gid, "/"); idx >= 0 {
		gid = gid[idx+1:]
	}
	// Query parameters can trail the id segment.
	if idx := strings.Index(gid, "?"); idx >= 0 {
		gid = gid[:idx]
	}
	return gid
}

// parseMoney coerces an upstream money string to a decimal. Absent or
// unparsable amounts become nil, never zero.
func parseMoney(amount string) *decimal.Decimal {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil
	}
	return &d
}

func parseWebhookTime(value string) time.Time {
	if value == "" {
		return time.Now()
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Now()
	}
	return t
}

func normalizeAddressNode(a *AddressNode) *NormalizedAddress {
	if a == nil {
		return nil
	}
	return &NormalizedAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		Province:  a.Province,
		Zip:       a.Zip,
		Country:   a.Country,
		Phone:     a.Phone,
	}
}

func normalizeWebhookAddress(a *WebhookAddress) *NormalizedAddress {
	if a == nil {
		return nil
	}
	return &NormalizedAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		Province:  a.Province,
		Zip:       a.Zip,
		Country:   a.Country,
		Phone:     a.Phone,
	}
}
