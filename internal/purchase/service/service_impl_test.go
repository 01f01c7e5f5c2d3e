package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	invdomain "github.com/vestrapos/vestra/internal/inventory/domain"
	"github.com/vestrapos/vestra/internal/purchase/domain"
	"github.com/vestrapos/vestra/internal/purchase/repository"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type purchaseFixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	tenantID snowflake.ID
	ctx      context.Context
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&invdomain.Product{},
		&domain.Purchase{},
	))

	node, err := snowflake.NewNode(5)
	require.NoError(t, err)
	tenantID := node.Generate()

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})

	return &purchaseFixture{
		svc:      svc,
		db:       conn,
		node:     node,
		tenantID: tenantID,
		ctx:      tenantctx.WithTenantID(context.Background(), tenantID),
	}
}

func (f *purchaseFixture) seedProduct(t *testing.T, name string, stock int) invdomain.Product {
	t.Helper()
	now := time.Now().UTC()
	product := invdomain.Product{
		ID:        f.node.Generate(),
		TenantID:  f.tenantID,
		Name:      name,
		SKU:       "SKU-" + name,
		Price:     100,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(&product).Error)
	return product
}

func TestCreatePurchasePricesLines(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.seedProduct(t, "Shirt", 0)

	purchase, err := f.svc.Create(f.ctx, domain.CreatePurchaseRequest{
		SupplierName: "Acme Textiles",
		Items: []domain.PurchaseItemRequest{
			{ProductID: product.ID.String(), UnitCost: 40, Quantity: 10},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PurchasePending, purchase.Status)
	assert.Equal(t, 400.0, purchase.Total)
	assert.Equal(t, "Shirt", purchase.Items[0].Name)

	// Pending purchases never move stock.
	var got invdomain.Product
	require.NoError(t, f.db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 0, got.Stock)
}

func TestCreatePurchaseValidation(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.seedProduct(t, "Shirt", 0)

	_, err := f.svc.Create(f.ctx, domain.CreatePurchaseRequest{
		SupplierName: " ",
		Items: []domain.PurchaseItemRequest{
			{ProductID: product.ID.String(), UnitCost: 40, Quantity: 10},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSupplier)

	_, err = f.svc.Create(f.ctx, domain.CreatePurchaseRequest{SupplierName: "Acme"})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)

	_, err = f.svc.Create(f.ctx, domain.CreatePurchaseRequest{
		SupplierName: "Acme",
		Items: []domain.PurchaseItemRequest{
			{ProductID: f.node.Generate().String(), UnitCost: 40, Quantity: 10},
		},
	})
	assert.ErrorIs(t, err, domain.ErrProductMissing)
}

func TestCompletePurchaseIncrementsStockOnce(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.seedProduct(t, "Shirt", 5)

	purchase, err := f.svc.Create(f.ctx, domain.CreatePurchaseRequest{
		SupplierName: "Acme Textiles",
		Items: []domain.PurchaseItemRequest{
			{ProductID: product.ID.String(), UnitCost: 40, Quantity: 10},
		},
	})
	require.NoError(t, err)

	completed := "completed"
	updated, err := f.svc.Update(f.ctx, domain.UpdatePurchaseRequest{
		ID:     purchase.ID.String(),
		Status: &completed,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	var got invdomain.Product
	require.NoError(t, f.db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 15, got.Stock)

	// Completion is terminal: a second flip cannot double-receive.
	_, err = f.svc.Update(f.ctx, domain.UpdatePurchaseRequest{
		ID:     purchase.ID.String(),
		Status: &completed,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	require.NoError(t, f.db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 15, got.Stock)
}

func TestCancelledPurchaseCannotBeCompleted(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.seedProduct(t, "Shirt", 5)

	purchase, err := f.svc.Create(f.ctx, domain.CreatePurchaseRequest{
		SupplierName: "Acme Textiles",
		Items: []domain.PurchaseItemRequest{
			{ProductID: product.ID.String(), UnitCost: 40, Quantity: 10},
		},
	})
	require.NoError(t, err)

	cancelled := "cancelled"
	_, err = f.svc.Update(f.ctx, domain.UpdatePurchaseRequest{
		ID:     purchase.ID.String(),
		Status: &cancelled,
	})
	require.NoError(t, err)

	// Only pending orders receive stock; reviving a cancelled order is
	// rejected and nothing moves.
	completed := "completed"
	_, err = f.svc.Update(f.ctx, domain.UpdatePurchaseRequest{
		ID:     purchase.ID.String(),
		Status: &completed,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	var got invdomain.Product
	require.NoError(t, f.db.First(&got, "id = ?", product.ID).Error)
	assert.Equal(t, 5, got.Stock)
}

func TestDeleteRefusesCompletedPurchase(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.seedProduct(t, "Shirt", 0)

	purchase, err := f.svc.Create(f.ctx, domain.CreatePurchaseRequest{
		SupplierName: "Acme Textiles",
		Items: []domain.PurchaseItemRequest{
			{ProductID: product.ID.String(), UnitCost: 40, Quantity: 2},
		},
	})
	require.NoError(t, err)

	completed := "completed"
	_, err = f.svc.Update(f.ctx, domain.UpdatePurchaseRequest{
		ID:     purchase.ID.String(),
		Status: &completed,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(f.ctx, purchase.ID.String()), domain.ErrAlreadyCompleted)
}

func TestDeletePendingPurchase(t *testing.T) {
	f := newPurchaseFixture(t)
	product := f.seedProduct(t, "Shirt", 0)

	purchase, err := f.svc.Create(f.ctx, domain.CreatePurchaseRequest{
		SupplierName: "Acme Textiles",
		Items: []domain.PurchaseItemRequest{
			{ProductID: product.ID.String(), UnitCost: 40, Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx, purchase.ID.String()))

	_, err = f.svc.GetByID(f.ctx, purchase.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
