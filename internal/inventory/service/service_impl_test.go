package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestrapos/vestra/internal/inventory/domain"
	"github.com/vestrapos/vestra/internal/inventory/repository"
	plandomain "github.com/vestrapos/vestra/internal/plan/domain"
	"github.com/vestrapos/vestra/internal/plan/gate"
	tenantdomain "github.com/vestrapos/vestra/internal/tenant/domain"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type inventoryFixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	tenantID snowflake.ID
	ctx      context.Context
}

func newInventoryFixture(t *testing.T, maxProducts int) *inventoryFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&plandomain.Plan{},
		&tenantdomain.Tenant{},
		&domain.Product{},
	))

	node, err := snowflake.NewNode(7)
	require.NoError(t, err)

	now := time.Now().UTC()
	plan := plandomain.Plan{
		ID:              node.Generate(),
		Name:            "Basic",
		Tier:            plandomain.TierBasic,
		AllowedFeatures: []string{},
		MaxProducts:     maxProducts,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, conn.Create(&plan).Error)

	tenantID := node.Generate()
	require.NoError(t, conn.Create(&tenantdomain.Tenant{
		ID:        tenantID,
		Name:      "Shop",
		Subdomain: "shop",
		PlanID:    &plan.ID,
		Status:    tenantdomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
		Gate:  gate.New(gate.Params{DB: conn, Log: zap.NewNop()}),
	})

	return &inventoryFixture{
		svc:      svc,
		db:       conn,
		node:     node,
		tenantID: tenantID,
		ctx:      tenantctx.WithTenantID(context.Background(), tenantID),
	}
}

func (f *inventoryFixture) productCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&domain.Product{}).Where("tenant_id = ?", f.tenantID).Count(&count).Error)
	return count
}

func TestImportCSVEnforcesProductLimitWithinBatch(t *testing.T) {
	f := newInventoryFixture(t, 2)

	csv := "name,sku,price,stock\n" +
		"Shirt,SKU-1,100,5\n" +
		"Pants,SKU-2,150,5\n" +
		"Jacket,SKU-3,300,5\n"

	_, err := f.svc.ImportCSV(f.ctx, []byte(csv))
	le := gate.AsLimitExceeded(err)
	require.NotNil(t, le)
	assert.Equal(t, "product_limit_exceeded", le.Code)
	assert.Equal(t, 2, le.Limit)

	// The batch rolls back as a whole; rows admitted before the limit
	// fired must not survive.
	assert.EqualValues(t, 0, f.productCount(t))
}

func TestImportCSVWithinLimitCreatesAndUpdates(t *testing.T) {
	f := newInventoryFixture(t, 2)

	csv := "name,sku,price,stock\n" +
		"Shirt,SKU-1,100,5\n" +
		"Pants,SKU-2,150,5\n"

	report, err := f.svc.ImportCSV(f.ctx, []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.EqualValues(t, 2, f.productCount(t))

	// Re-importing at the cap updates in place; updates never count
	// against the limit.
	report, err = f.svc.ImportCSV(f.ctx, []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 2, report.Updated)
	assert.EqualValues(t, 2, f.productCount(t))
}

func TestImportCSVReportsFileLineNumbers(t *testing.T) {
	f := newInventoryFixture(t, 0)

	// Blank line 3 and the rejected line 4 must not shift the numbering
	// of anything reported after them.
	csv := "name,sku,price,stock\n" +
		"Shirt,SKU-1,100,5\n" +
		"\n" +
		"NoSKU,,100,5\n" +
		"Pants,SKU-2,150,5\n"

	report, err := f.svc.ImportCSV(f.ctx, []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 4, report.Errors[0].Line)
}

func TestCreateEnforcesProductLimit(t *testing.T) {
	f := newInventoryFixture(t, 1)

	_, err := f.svc.Create(f.ctx, domain.CreateProductRequest{Name: "Shirt", SKU: "SKU-1", Price: 100})
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, domain.CreateProductRequest{Name: "Pants", SKU: "SKU-2", Price: 150})
	le := gate.AsLimitExceeded(err)
	require.NotNil(t, le)
	assert.Equal(t, "product_limit_exceeded", le.Code)
}
