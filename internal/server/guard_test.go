package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	commissiondomain "github.com/vestrapos/vestra/internal/commission/domain"
	commissionrepo "github.com/vestrapos/vestra/internal/commission/repository"
	commissionservice "github.com/vestrapos/vestra/internal/commission/service"
	invdomain "github.com/vestrapos/vestra/internal/inventory/domain"
	invrepo "github.com/vestrapos/vestra/internal/inventory/repository"
	invservice "github.com/vestrapos/vestra/internal/inventory/service"
	plandomain "github.com/vestrapos/vestra/internal/plan/domain"
	"github.com/vestrapos/vestra/internal/plan/gate"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
	settingsrepo "github.com/vestrapos/vestra/internal/settings/repository"
	settingsservice "github.com/vestrapos/vestra/internal/settings/service"
	tenantdomain "github.com/vestrapos/vestra/internal/tenant/domain"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type guardFixture struct {
	router   *gin.Engine
	db       *gorm.DB
	node     *snowflake.Node
	tenantID snowflake.ID
}

// newGuardFixture wires real services over sqlite behind the destructive
// endpoints. password "" leaves the delete guard unconfigured.
func newGuardFixture(t *testing.T, password string) *guardFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&plandomain.Plan{},
		&tenantdomain.Tenant{},
		&settingsdomain.TenantSettings{},
		&invdomain.Product{},
		&commissiondomain.CommissionRecord{},
	))

	node, err := snowflake.NewNode(8)
	require.NoError(t, err)

	now := time.Now().UTC()
	plan := plandomain.Plan{
		ID:              node.Generate(),
		Name:            "Basic",
		Tier:            plandomain.TierBasic,
		AllowedFeatures: []string{},
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
	require.NoError(t, conn.Create(&settingsdomain.TenantSettings{
		TenantID:  tenantID,
		StoreName: "Shop",
		Currency:  "IDR",
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	log := zap.NewNop()
	settingssvc := settingsservice.New(settingsservice.Params{
		DB: conn, Log: log, Repo: settingsrepo.Provide(),
	})
	s := &Server{
		log:         log,
		settingssvc: settingssvc,
		productsvc: invservice.New(invservice.Params{
			DB: conn, Log: log, GenID: node, Repo: invrepo.Provide(),
			Gate: gate.New(gate.Params{DB: conn, Log: log}),
		}),
		commsvc: commissionservice.New(commissionservice.Params{
			DB: conn, Log: log, GenID: node, Repo: commissionrepo.Provide(),
		}),
	}

	if password != "" {
		require.NoError(t, settingssvc.SetDeleteGuard(
			tenantctx.WithTenantID(context.Background(), tenantID), password))
	}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(
			tenantctx.WithTenantID(c.Request.Context(), tenantID))
		c.Next()
	})
	router.POST("/api/products/clear", s.clearProducts)
	router.POST("/api/commissions/bulk-delete", s.bulkDeleteCommissions)

	return &guardFixture{router: router, db: conn, node: node, tenantID: tenantID}
}

func (f *guardFixture) seedProduct(t *testing.T) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, f.db.Create(&invdomain.Product{
		ID:        f.node.Generate(),
		TenantID:  f.tenantID,
		Name:      "Shirt",
		SKU:       "SKU-1",
		Price:     100,
		Stock:     5,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)
}

func (f *guardFixture) seedCommission(t *testing.T) snowflake.ID {
	t.Helper()
	now := time.Now().UTC()
	record := commissiondomain.CommissionRecord{
		ID:             f.node.Generate(),
		TenantID:       f.tenantID,
		EmployeeID:     f.node.Generate(),
		EmployeeName:   "Sari",
		Month:          "2026-08",
		CommissionType: "percentage",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, f.db.Create(&record).Error)
	return record.ID
}

func (f *guardFixture) post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func errorType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error.Type
}

func (f *guardFixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Where("tenant_id = ?", f.tenantID).Count(&n).Error)
	return n
}

func TestClearProductsRejectsWrongDeletePassword(t *testing.T) {
	f := newGuardFixture(t, "hapus-semua")
	f.seedProduct(t)

	rec := f.post(t, "/api/products/clear", `{"delete_password":"wrong"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "invalid_delete_password", errorType(t, rec))
	assert.EqualValues(t, 1, f.count(t, &invdomain.Product{}))
}

func TestClearProductsRequiresConfiguredGuard(t *testing.T) {
	f := newGuardFixture(t, "")
	f.seedProduct(t)

	rec := f.post(t, "/api/products/clear", `{"delete_password":"anything"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "delete_guard_not_configured", errorType(t, rec))
	assert.EqualValues(t, 1, f.count(t, &invdomain.Product{}))
}

func TestClearProductsWithCorrectPassword(t *testing.T) {
	f := newGuardFixture(t, "hapus-semua")
	f.seedProduct(t)

	rec := f.post(t, "/api/products/clear", `{"delete_password":"hapus-semua"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, f.count(t, &invdomain.Product{}))
}

func TestBulkDeleteCommissionsRejectsWrongDeletePassword(t *testing.T) {
	f := newGuardFixture(t, "hapus-semua")
	id := f.seedCommission(t)

	rec := f.post(t, "/api/commissions/bulk-delete",
		`{"ids":["`+id.String()+`"],"delete_password":"wrong"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "invalid_delete_password", errorType(t, rec))
	assert.EqualValues(t, 1, f.count(t, &commissiondomain.CommissionRecord{}))
}

func TestBulkDeleteCommissionsWithCorrectPassword(t *testing.T) {
	f := newGuardFixture(t, "hapus-semua")
	id := f.seedCommission(t)

	rec := f.post(t, "/api/commissions/bulk-delete",
		`{"ids":["`+id.String()+`"],"delete_password":"hapus-semua"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, f.count(t, &commissiondomain.CommissionRecord{}))
}
