package sync

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ordersync/internal/logger"
	"ordersync/internal/models"
	"ordersync/internal/services/shopify"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Customer{}, &models.Order{}, &models.LineItem{}, &models.Address{}))
	return db
}

func newTestReconciler(t *testing.T) (*Reconciler, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewReconciler(db, logger.New("error")), db
}

func strptr(s string) *string { return &s }

func decptr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func snapshotOrder(externalID string) *shopify.NormalizedOrder {
	return &shopify.NormalizedOrder{
		ExternalID: externalID,
		Name:       strptr("#" + externalID),
		TotalPrice: decptr("99.00"),
		Currency:   "USD",
		Customer: &shopify.NormalizedCustomer{
			ExternalID: "cust-" + externalID,
			FirstName:  strptr("Jane"),
			Email:      strptr("jane@example.com"),
		},
		LineItems: []shopify.NormalizedLineItem{
			{Title: "Mug", Quantity: 3, Price: decptr("12.00"), SKU: strptr("MUG-01")},
		},
		ShippingAddress: &shopify.NormalizedAddress{City: strptr("Berlin")},
		BillingAddress:  &shopify.NormalizedAddress{City: strptr("Hamburg")},
	}
}

func TestReconcileCreatesSubtree(t *testing.T) {
	r, db := newTestReconciler(t)
	ctx := context.Background()

	order, err := r.Reconcile(ctx, snapshotOrder("5001"))
	require.NoError(t, err)
	assert.Equal(t, "5001", order.ShopifyOrderID)

	var customer models.Customer
	require.NoError(t, db.Where("shopify_customer_id = ?", "cust-5001").First(&customer).Error)
	assert.Equal(t, customer.ID, order.CustomerID)

	var items []models.LineItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	require.NotNil(t, items[0].Price)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("12.00")))

	var addresses []models.Address
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&addresses).Error)
	assert.Len(t, addresses, 2)
}

func TestReconcileIdempotent(t *testing.T) {
	r, db := newTestReconciler(t)
	ctx := context.Background()

	first, err := r.Reconcile(ctx, snapshotOrder("5001"))
	require.NoError(t, err)
	second, err := r.Reconcile(ctx, snapshotOrder("5001"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CustomerID, second.CustomerID)

	var orderCount, customerCount, itemCount, addressCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.Customer{}).Count(&customerCount)
	db.Model(&models.LineItem{}).Count(&itemCount)
	db.Model(&models.Address{}).Count(&addressCount)
	assert.EqualValues(t, 1, orderCount)
	assert.EqualValues(t, 1, customerCount)
	assert.EqualValues(t, 1, itemCount)
	assert.EqualValues(t, 2, addressCount)
}

func TestReconcileReplacesLineItems(t *testing.T) {
	r, db := newTestReconciler(t)
	ctx := context.Background()

	in := snapshotOrder("5001")
	in.LineItems = []shopify.NormalizedLineItem{
		{Title: "A", Quantity: 1},
		{Title: "B", Quantity: 2},
	}
	order, err := r.Reconcile(ctx, in)
	require.NoError(t, err)

	in = snapshotOrder("5001")
	in.LineItems = []shopify.NormalizedLineItem{{Title: "C", Quantity: 5}}
	_, err = r.Reconcile(ctx, in)
	require.NoError(t, err)

	var items []models.LineItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, "C", items[0].Title)
	assert.Nil(t, items[0].Price)
}

func TestReconcileReplacesAddresses(t *testing.T) {
	r, db := newTestReconciler(t)
	ctx := context.Background()

	order, err := r.Reconcile(ctx, snapshotOrder("5001"))
	require.NoError(t, err)

	in := snapshotOrder("5001")
	in.BillingAddress = nil
	in.ShippingAddress = &shopify.NormalizedAddress{City: strptr("Munich")}
	_, err = r.Reconcile(ctx, in)
	require.NoError(t, err)

	var addresses []models.Address
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&addresses).Error)
	require.Len(t, addresses, 1)
	assert.Equal(t, models.AddressKindShipping, addresses[0].Kind)
	assert.Equal(t, "Munich", *addresses[0].City)
}

func TestReconcileFallbackCustomer(t *testing.T) {
	r, db := newTestReconciler(t)
	ctx := context.Background()

	in := snapshotOrder("5002")
	in.Customer = nil
	order, err := r.Reconcile(ctx, in)
	require.NoError(t, err)

	var customer models.Customer
	require.NoError(t, db.First(&customer, "id = ?", order.CustomerID).Error)
	assert.Equal(t, models.SentinelCustomerID, customer.ShopifyCustomerID)
}

func TestReconcileRefreshesCustomerFields(t *testing.T) {
	r, db := newTestReconciler(t)
	ctx := context.Background()

	_, err := r.Reconcile(ctx, snapshotOrder("5001"))
	require.NoError(t, err)

	in := snapshotOrder("5001")
	in.Customer.Email = strptr("new@example.com")
	_, err = r.Reconcile(ctx, in)
	require.NoError(t, err)

	var customer models.Customer
	require.NoError(t, db.Where("shopify_customer_id = ?", "cust-5001").First(&customer).Error)
	require.NotNil(t, customer.Email)
	assert.Equal(t, "new@example.com", *customer.Email)
}

func TestExists(t *testing.T) {
	r, _ := newTestReconciler(t)
	ctx := context.Background()

	exists, err := r.Exists(ctx, "5001")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = r.Reconcile(ctx, snapshotOrder("5001"))
	require.NoError(t, err)

	exists, err = r.Exists(ctx, "5001")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestApplyLineItemDeltasNetZero(t *testing.T) {
	r, db := newTestReconciler(t)
	ctx := context.Background()

	order, err := r.Reconcile(ctx, snapshotOrder("5001"))
	require.NoError(t, err)

	err = r.ApplyLineItemDeltas(ctx, "5001",
		[]shopify.LineItemDelta{{Delta: 2}},
		[]shopify.LineItemDelta{{Delta: 2}})
	require.NoError(t, err)

	var items []models.LineItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&items).Error)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestApplyLineItemDeltasOverRemovalDeletes(t *testing.T) {
	r, db := newTestReconciler(t)
	ctx := context.Background()

	order, err := r.Reconcile(ctx, snapshotOrder("5001"))
	require.NoError(t, err)

	err = r.ApplyLineItemDeltas(ctx, "5001", nil,
		[]shopify.LineItemDelta{{Delta: 5}})
	require.NoError(t, err)

	var count int64
	db.Model(&models.LineItem{}).Where("order_id = ?", order.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestApplyLineItemDeltasUnknownOrder(t *testing.T) {
	r, _ := newTestReconciler(t)

	err := r.ApplyLineItemDeltas(context.Background(), "no-such-order",
		[]shopify.LineItemDelta{{Delta: 1}}, nil)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
