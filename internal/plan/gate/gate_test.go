package gate

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authdomain "github.com/vestrapos/vestra/internal/auth/domain"
	btdomain "github.com/vestrapos/vestra/internal/businesstype/domain"
	invdomain "github.com/vestrapos/vestra/internal/inventory/domain"
	plandomain "github.com/vestrapos/vestra/internal/plan/domain"
	tenantdomain "github.com/vestrapos/vestra/internal/tenant/domain"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type gateFixture struct {
	gate     *Gate
	db       *gorm.DB
	node     *snowflake.Node
	tenantID snowflake.ID
	ctx      context.Context
}

func newGateFixture(t *testing.T, plan plandomain.Plan) *gateFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&plandomain.Plan{},
		&tenantdomain.Tenant{},
		&btdomain.TenantFeatures{},
		&invdomain.Product{},
		&authdomain.User{},
	))

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	now := time.Now().UTC()
	plan.ID = node.Generate()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.AllowedFeatures == nil {
		plan.AllowedFeatures = []string{}
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

	return &gateFixture{
		gate:     New(Params{DB: conn, Log: zap.NewNop()}),
		db:       conn,
		node:     node,
		tenantID: tenantID,
		ctx:      tenantctx.WithTenantID(context.Background(), tenantID),
	}
}

func (f *gateFixture) seedProducts(t *testing.T, n int) {
	t.Helper()
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		require.NoError(t, f.db.Create(&invdomain.Product{
			ID:        f.node.Generate(),
			TenantID:  f.tenantID,
			Name:      "P",
			SKU:       f.node.Generate().String(),
			Price:     1,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error)
	}
}

func TestCheckProductLimitBlocksAtCap(t *testing.T) {
	f := newGateFixture(t, plandomain.Plan{Name: "Basic", Tier: plandomain.TierBasic, MaxProducts: 2})

	require.NoError(t, f.gate.CheckProductLimit(f.ctx))

	f.seedProducts(t, 2)
	err := f.gate.CheckProductLimit(f.ctx)
	le := AsLimitExceeded(err)
	require.NotNil(t, le)
	assert.Equal(t, "product_limit_exceeded", le.Code)
	assert.Equal(t, 2, le.Limit)
	assert.Equal(t, "Basic", le.Plan)
}

func TestZeroLimitMeansUnlimited(t *testing.T) {
	f := newGateFixture(t, plandomain.Plan{Name: "Enterprise", Tier: plandomain.TierEnterprise})

	f.seedProducts(t, 10)
	assert.NoError(t, f.gate.CheckProductLimit(f.ctx))
	assert.NoError(t, f.gate.CheckUserLimit(f.ctx))
}

func TestCheckUserLimitBlocksAtCap(t *testing.T) {
	f := newGateFixture(t, plandomain.Plan{Name: "Basic", Tier: plandomain.TierBasic, MaxUsers: 1})

	now := time.Now().UTC()
	require.NoError(t, f.db.Create(&authdomain.User{
		ID:           f.node.Generate(),
		TenantID:     &f.tenantID,
		Username:     "owner",
		PasswordHash: "x",
		Role:         authdomain.RoleOwner,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error)

	err := f.gate.CheckUserLimit(f.ctx)
	le := AsLimitExceeded(err)
	require.NotNil(t, le)
	assert.Equal(t, "user_limit_exceeded", le.Code)
	assert.Equal(t, 1, le.Limit)
}

func TestAllowChecksPlanFeaturesAndOverrides(t *testing.T) {
	f := newGateFixture(t, plandomain.Plan{
		Name:            "Pro",
		Tier:            plandomain.TierPro,
		AllowedFeatures: []string{"whatsapp", "commissions"},
	})

	assert.NoError(t, f.gate.Allow(f.ctx, "whatsapp"))
	assert.ErrorIs(t, f.gate.Allow(f.ctx, "purchases"), ErrFeatureNotAllowed)

	// Per-tenant override unlocks a feature the plan does not bundle.
	require.NoError(t, f.db.Create(&btdomain.TenantFeatures{
		TenantID:  f.tenantID,
		Features:  []string{"purchases"},
		UpdatedAt: time.Now().UTC(),
	}).Error)
	assert.NoError(t, f.gate.Allow(f.ctx, "purchases"))
}

func TestResolveWithoutTenantOrPlan(t *testing.T) {
	f := newGateFixture(t, plandomain.Plan{Name: "Basic", Tier: plandomain.TierBasic})

	_, err := f.gate.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNoActivePlan)

	// Tenant with no plan assigned.
	orphan := f.node.Generate()
	now := time.Now().UTC()
	require.NoError(t, f.db.Create(&tenantdomain.Tenant{
		ID:        orphan,
		Name:      "No Plan",
		Subdomain: "noplan",
		Status:    tenantdomain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)
	_, err = f.gate.Resolve(tenantctx.WithTenantID(context.Background(), orphan))
	assert.ErrorIs(t, err, ErrNoActivePlan)
}

func TestUsageReportsCounts(t *testing.T) {
	f := newGateFixture(t, plandomain.Plan{Name: "Basic", Tier: plandomain.TierBasic, MaxProducts: 100, MaxUsers: 5})
	f.seedProducts(t, 3)

	usage, err := f.gate.Usage(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "Basic", usage.PlanName)
	assert.EqualValues(t, 3, usage.ProductCount)
	assert.Equal(t, 100, usage.MaxProducts)
	assert.EqualValues(t, 0, usage.UserCount)
	assert.Equal(t, 5, usage.MaxUsers)
}
