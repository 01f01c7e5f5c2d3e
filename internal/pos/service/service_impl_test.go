package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestrapos/vestra/internal/cache"
	invdomain "github.com/vestrapos/vestra/internal/inventory/domain"
	"github.com/vestrapos/vestra/internal/pos/domain"
	"github.com/vestrapos/vestra/internal/pos/repository"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
	settingsrepo "github.com/vestrapos/vestra/internal/settings/repository"
	settingsservice "github.com/vestrapos/vestra/internal/settings/service"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type posFixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	tenantID snowflake.ID
	ctx      context.Context
}

func newPosFixture(t *testing.T) *posFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&invdomain.Product{},
		&settingsdomain.TenantSettings{},
		&domain.Sale{},
		&domain.HeldBill{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	settingsSvc := settingsservice.New(settingsservice.Params{
		DB:   conn,
		Log:  zap.NewNop(),
		Repo: settingsrepo.Provide(),
	})

	tenantID := node.Generate()
	require.NoError(t, conn.Create(&settingsdomain.TenantSettings{
		TenantID:  tenantID,
		StoreName: "Test Store",
		TaxRate:   5,
		Currency:  "IDR",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}).Error)

	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        repository.Provide(),
		Cache:       cache.Noop{},
		SettingsSvc: settingsSvc,
	})

	return &posFixture{
		svc:      svc,
		db:       conn,
		node:     node,
		tenantID: tenantID,
		ctx:      tenantctx.WithTenantID(context.Background(), tenantID),
	}
}

func (f *posFixture) seedProduct(t *testing.T, name string, price float64, stock int) invdomain.Product {
	t.Helper()
	now := time.Now().UTC()
	product := invdomain.Product{
		ID:        f.node.Generate(),
		TenantID:  f.tenantID,
		Name:      name,
		SKU:       "SKU-" + name,
		Price:     price,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(&product).Error)
	return product
}

func TestCheckoutComputesTotalsAndDecrementsStock(t *testing.T) {
	f := newPosFixture(t)
	product := f.seedProduct(t, "Shirt", 100, 10)

	sale, err := f.svc.Checkout(f.ctx, domain.CheckoutRequest{
		IdempotencyKey: uuid.NewString(),
		Items: []domain.CheckoutItem{
			{ProductID: product.ID.String(), UnitPrice: 100, Quantity: 2},
		},
		DiscountPct:   10,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, 200.0, sale.Subtotal)
	assert.Equal(t, 20.0, sale.DiscountAmount)
	assert.Equal(t, 9.0, sale.Tax)
	assert.Equal(t, 189.0, sale.Total)
	assert.Equal(t, domain.SaleCompleted, sale.Status)
	assert.NotEmpty(t, sale.BillNumber)
	assert.NotEmpty(t, sale.ShareToken)

	var got invdomain.Product
	require.NoError(t, f.db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 8, got.Stock)
}

func TestCheckoutReplaySameKeyReturnsOriginalSale(t *testing.T) {
	f := newPosFixture(t)
	product := f.seedProduct(t, "Shirt", 100, 10)

	req := domain.CheckoutRequest{
		IdempotencyKey: uuid.NewString(),
		Items: []domain.CheckoutItem{
			{ProductID: product.ID.String(), UnitPrice: 100, Quantity: 1},
		},
	}

	first, err := f.svc.Checkout(f.ctx, req)
	require.NoError(t, err)

	second, err := f.svc.Checkout(f.ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.BillNumber, second.BillNumber)

	// Stock moved exactly once.
	var got invdomain.Product
	require.NoError(t, f.db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 9, got.Stock)

	var count int64
	require.NoError(t, f.db.Model(&domain.Sale{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCheckoutRejectsMissingOrMalformedKey(t *testing.T) {
	f := newPosFixture(t)
	product := f.seedProduct(t, "Shirt", 100, 10)

	items := []domain.CheckoutItem{
		{ProductID: product.ID.String(), UnitPrice: 100, Quantity: 1},
	}

	_, err := f.svc.Checkout(f.ctx, domain.CheckoutRequest{Items: items})
	assert.ErrorIs(t, err, domain.ErrMissingIdemKey)

	_, err = f.svc.Checkout(f.ctx, domain.CheckoutRequest{IdempotencyKey: "not-a-uuid", Items: items})
	assert.ErrorIs(t, err, domain.ErrMissingIdemKey)
}

func TestCheckoutOversellFailsAndRollsBack(t *testing.T) {
	f := newPosFixture(t)
	product := f.seedProduct(t, "Shirt", 100, 1)

	_, err := f.svc.Checkout(f.ctx, domain.CheckoutRequest{
		IdempotencyKey: uuid.NewString(),
		Items: []domain.CheckoutItem{
			{ProductID: product.ID.String(), UnitPrice: 100, Quantity: 2},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var got invdomain.Product
	require.NoError(t, f.db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 1, got.Stock)

	var count int64
	require.NoError(t, f.db.Model(&domain.Sale{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newPosFixture(t)

	_, err := f.svc.Checkout(f.ctx, domain.CheckoutRequest{
		IdempotencyKey: uuid.NewString(),
	})
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestHoldResumeRemovesFromHeldList(t *testing.T) {
	f := newPosFixture(t)
	product := f.seedProduct(t, "Shirt", 100, 10)

	held, err := f.svc.Hold(f.ctx, domain.HoldRequest{
		Items: []domain.CheckoutItem{
			{ProductID: product.ID.String(), UnitPrice: 100, Quantity: 2},
		},
		CustomerName: "Ana",
	})
	require.NoError(t, err)
	assert.Contains(t, held.ID, "HOLD-")
	assert.Equal(t, "Shirt", held.Items[0].Name)

	list, err := f.svc.ListHeld(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	resumed, err := f.svc.Resume(f.ctx, held.ID)
	require.NoError(t, err)
	assert.Equal(t, held.ID, resumed.ID)
	assert.Equal(t, "Ana", resumed.CustomerName)

	list, err = f.svc.ListHeld(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// A second resume of the same bill finds nothing.
	_, err = f.svc.Resume(f.ctx, held.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHoldDoesNotTouchStock(t *testing.T) {
	f := newPosFixture(t)
	product := f.seedProduct(t, "Shirt", 100, 5)

	_, err := f.svc.Hold(f.ctx, domain.HoldRequest{
		Items: []domain.CheckoutItem{
			{ProductID: product.ID.String(), UnitPrice: 100, Quantity: 3},
		},
	})
	require.NoError(t, err)

	var got invdomain.Product
	require.NoError(t, f.db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 5, got.Stock)
}

func TestVoidRestoresStockAndIsTerminal(t *testing.T) {
	f := newPosFixture(t)
	product := f.seedProduct(t, "Shirt", 100, 10)

	sale, err := f.svc.Checkout(f.ctx, domain.CheckoutRequest{
		IdempotencyKey: uuid.NewString(),
		Items: []domain.CheckoutItem{
			{ProductID: product.ID.String(), UnitPrice: 100, Quantity: 3},
		},
	})
	require.NoError(t, err)

	voided, err := f.svc.Void(f.ctx, sale.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.SaleVoided, voided.Status)

	var got invdomain.Product
	require.NoError(t, f.db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 10, got.Stock)

	_, err = f.svc.Void(f.ctx, sale.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyVoided)
}

func TestGetSaleByShareToken(t *testing.T) {
	f := newPosFixture(t)
	product := f.seedProduct(t, "Shirt", 100, 10)

	sale, err := f.svc.Checkout(f.ctx, domain.CheckoutRequest{
		IdempotencyKey: uuid.NewString(),
		Items: []domain.CheckoutItem{
			{ProductID: product.ID.String(), UnitPrice: 100, Quantity: 1},
		},
	})
	require.NoError(t, err)

	// Token lookup carries no tenant; it backs the public receipt link.
	got, err := f.svc.GetSaleByShareToken(context.Background(), sale.ShareToken)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, got.ID)

	_, err = f.svc.GetSaleByShareToken(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportImportRoundTrip(t *testing.T) {
	f := newPosFixture(t)
	product := f.seedProduct(t, "Shirt", 100, 10)

	_, err := f.svc.Checkout(f.ctx, domain.CheckoutRequest{
		IdempotencyKey: uuid.NewString(),
		Items: []domain.CheckoutItem{
			{ProductID: product.ID.String(), UnitPrice: 100, Quantity: 2},
		},
		CustomerName: "Ana",
	})
	require.NoError(t, err)

	data, err := f.svc.ExportCSV(f.ctx)
	require.NoError(t, err)

	removed, err := f.svc.Clear(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	report, err := f.svc.ImportCSV(f.ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Empty(t, report.Errors)

	sales, _, err := f.svc.ListSales(f.ctx, domain.ListSalesRequest{})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Ana", sales[0].CustomerName)
	assert.Equal(t, 210.0, sales[0].Total)

	// Imports are history only; stock stays where checkout left it.
	var got invdomain.Product
	require.NoError(t, f.db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 8, got.Stock)
}
