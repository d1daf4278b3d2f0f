package sync

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"ordersync/internal/logger"
	"ordersync/internal/models"
	"ordersync/internal/services/shopify"
)

// ErrOrderNotFound is returned by the edit path when the target order has
// never been reconciled locally. Callers surface it as not-found, not retry.
var ErrOrderNotFound = errors.New("order not found")

// Reconciler owns both reconciliation modes for an order's subtree:
// Reconcile replaces the child collections from a full snapshot, and
// ApplyLineItemDeltas merges quantity deltas in place. Each call is one
// atomic transaction scoped to a single order.
type Reconciler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewReconciler(db *gorm.DB, logger *logger.Logger) *Reconciler {
	return &Reconciler{
		db:     db,
		logger: logger,
	}
}

// Exists reports whether an order with the given external id is already
// persisted. Best-effort read-before-write; a race with a concurrent
// webhook is resolved by Reconcile's own idempotence.
func (r *Reconciler) Exists(ctx context.Context, externalID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("shopify_order_id = ?", externalID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check order %s: %w", externalID, err)
	}
	return count > 0, nil
}

// Reconcile makes the stored order subtree match the normalized snapshot.
// Calling it twice with identical input is a no-op apart from refreshed
// update timestamps.
func (r *Reconciler) Reconcile(ctx context.Context, in *shopify.NormalizedOrder) (*models.Order, error) {
	var persisted *models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := upsertCustomer(tx, in.Customer)
		if err != nil {
			return err
		}

		order, err := upsertOrder(tx, in, customer.ID)
		if err != nil {
			return err
		}

		if err := replaceLineItems(tx, order.ID, in.LineItems); err != nil {
			return err
		}
		if err := replaceAddresses(tx, order.ID, in); err != nil {
			return err
		}

		persisted = order
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile order %s: %w", in.ExternalID, err)
	}
	return persisted, nil
}

// ApplyLineItemDeltas applies an edit event's quantity deltas to an
// existing order. Deltas carry no per-line-item identifier upstream, so
// each one shifts every line item of the order; rows driven to a quantity
// of zero or below are removed. The collection is never replaced here.
func (r *Reconciler) ApplyLineItemDeltas(ctx context.Context, externalID string, additions, removals []shopify.LineItemDelta) error {
	var order models.Order
	err := r.db.WithContext(ctx).Where("shopify_order_id = ?", externalID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("order %s: %w", externalID, ErrOrderNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up order %s: %w", externalID, err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, addition := range additions {
			if err := tx.Model(&models.LineItem{}).
				Where("order_id = ?", order.ID).
				Update("quantity", gorm.Expr("quantity + ?", addition.Delta)).Error; err != nil {
				return err
			}
		}
		for _, removal := range removals {
			if err := tx.Model(&models.LineItem{}).
				Where("order_id = ?", order.ID).
				Update("quantity", gorm.Expr("quantity - ?", removal.Delta)).Error; err != nil {
				return err
			}
		}
		// Over-removed items are gone, not negative.
		return tx.Where("order_id = ? AND quantity <= 0", order.ID).
			Delete(&models.LineItem{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to apply edit to order %s: %w", externalID, err)
	}
	return nil
}

// upsertCustomer inserts or refreshes the customer record. A nil input
// resolves to the sentinel customer so orders are never dropped for a
// missing customer block.
func upsertCustomer(tx *gorm.DB, in *shopify.NormalizedCustomer) (*models.Customer, error) {
	if in == nil {
		in = &shopify.NormalizedCustomer{ExternalID: models.SentinelCustomerID}
	}

	var customer models.Customer
	err := tx.Where("shopify_customer_id = ?", in.ExternalID).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = models.Customer{
			ShopifyCustomerID: in.ExternalID,
			FirstName:         in.FirstName,
			LastName:          in.LastName,
			Email:             in.Email,
		}
		if err := tx.Create(&customer).Error; err != nil {
			return nil, fmt.Errorf("failed to create customer %s: %w", in.ExternalID, err)
		}
		return &customer, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up customer %s: %w", in.ExternalID, err)
	}

	customer.FirstName = in.FirstName
	customer.LastName = in.LastName
	customer.Email = in.Email
	if err := tx.Save(&customer).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer %s: %w", in.ExternalID, err)
	}
	return &customer, nil
}

func upsertOrder(tx *gorm.DB, in *shopify.NormalizedOrder, customerID string) (*models.Order, error) {
	var order models.Order
	err := tx.Where("shopify_order_id = ?", in.ExternalID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		order = models.Order{
			ShopifyOrderID: in.ExternalID,
			Name:           in.Name,
			TotalPrice:     in.TotalPrice,
			Currency:       in.Currency,
			OrderStatus:    in.Status,
			CustomerID:     customerID,
			CreatedAt:      in.CreatedAt,
		}
		if err := tx.Create(&order).Error; err != nil {
			return nil, fmt.Errorf("failed to create order %s: %w", in.ExternalID, err)
		}
		return &order, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up order %s: %w", in.ExternalID, err)
	}

	order.Name = in.Name
	order.TotalPrice = in.TotalPrice
	order.Currency = in.Currency
	order.OrderStatus = in.Status
	order.CustomerID = customerID
	if err := tx.Save(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", in.ExternalID, err)
	}
	return &order, nil
}

// replaceLineItems swaps the order's line items for the snapshot's set,
// preserving input order. Missing prices stay nil, never zero.
func replaceLineItems(tx *gorm.DB, orderID string, items []shopify.NormalizedLineItem) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&models.LineItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear line items: %w", err)
	}
	for _, item := range items {
		row := models.LineItem{
			OrderID:   orderID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			Price:     item.Price,
			SKU:       item.SKU,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create line item: %w", err)
		}
	}
	return nil
}

// replaceAddresses swaps the order's addresses: at most one shipping and
// one billing row, only for kinds present in the snapshot.
func replaceAddresses(tx *gorm.DB, orderID string, in *shopify.NormalizedOrder) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&models.Address{}).Error; err != nil {
		return fmt.Errorf("failed to clear addresses: %w", err)
	}
	if in.ShippingAddress != nil {
		if err := tx.Create(addressRow(orderID, models.AddressKindShipping, in.ShippingAddress)).Error; err != nil {
			return fmt.Errorf("failed to create shipping address: %w", err)
		}
	}
	if in.BillingAddress != nil {
		if err := tx.Create(addressRow(orderID, models.AddressKindBilling, in.BillingAddress)).Error; err != nil {
			return fmt.Errorf("failed to create billing address: %w", err)
		}
	}
	return nil
}

func addressRow(orderID string, kind models.AddressKind, a *shopify.NormalizedAddress) *models.Address {
	return &models.Address{
		OrderID:   orderID,
		Kind:      kind,
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
