package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestrapos/vestra/internal/commission/domain"
	"github.com/vestrapos/vestra/internal/commission/repository"
	employeedomain "github.com/vestrapos/vestra/internal/employee/domain"
	posdomain "github.com/vestrapos/vestra/internal/pos/domain"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type commissionFixture struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	tenantID snowflake.ID
	ctx      context.Context
}

func newCommissionFixture(t *testing.T) *commissionFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&employeedomain.Employee{},
		&posdomain.Sale{},
		&domain.CommissionRecord{},
	))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	tenantID := node.Generate()

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})

	return &commissionFixture{
		svc:      svc,
		db:       conn,
		node:     node,
		tenantID: tenantID,
		ctx:      tenantctx.WithTenantID(context.Background(), tenantID),
	}
}

func (f *commissionFixture) seedEmployee(t *testing.T, name string, ctype employeedomain.CommissionType, rate, target float64) employeedomain.Employee {
	t.Helper()
	now := time.Now().UTC()
	emp := employeedomain.Employee{
		ID:             f.node.Generate(),
		TenantID:       f.tenantID,
		Name:           name,
		CommissionType: ctype,
		CommissionRate: rate,
		MonthlyTarget:  target,
		Active:         true,
		JoinedAt:       &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, f.db.Create(&emp).Error)
	return emp
}

func (f *commissionFixture) seedSale(t *testing.T, employeeID snowflake.ID, total float64, at time.Time, status posdomain.SaleStatus) {
	t.Helper()
	id := f.node.Generate()
	sale := posdomain.Sale{
		ID:             id,
		TenantID:       f.tenantID,
		BillNumber:     "INV-" + id.String(),
		IdempotencyKey: id.String(),
		ShareToken:     "tok-" + id.String(),
		EmployeeID:     &employeeID,
		Items:          []posdomain.CartItem{},
		Subtotal:       total,
		Total:          total,
		PaymentMethod:  "cash",
		Status:         status,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	require.NoError(t, f.db.Create(&sale).Error)
}

func TestCalculatePercentageAndFixedCommissions(t *testing.T) {
	f := newCommissionFixture(t)
	pct := f.seedEmployee(t, "Ana", employeedomain.CommissionPercentage, 10, 0)
	fixed := f.seedEmployee(t, "Budi", employeedomain.CommissionFixed, 25, 0)
	f.seedEmployee(t, "Cema", employeedomain.CommissionNone, 0, 0)

	mid := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	f.seedSale(t, pct.ID, 1000, mid, posdomain.SaleCompleted)
	f.seedSale(t, pct.ID, 500, mid, posdomain.SaleCompleted)
	f.seedSale(t, fixed.ID, 300, mid, posdomain.SaleCompleted)
	f.seedSale(t, fixed.ID, 200, mid, posdomain.SaleCompleted)

	records, stats, err := f.svc.Calculate(f.ctx, "2026-08")
	require.NoError(t, err)
	require.Len(t, records, 2)

	byName := map[string]domain.CommissionRecord{}
	for _, r := range records {
		byName[r.EmployeeName] = r
	}

	assert.Equal(t, 150.0, byName["Ana"].CommissionEarned) // 10% of 1500
	assert.Equal(t, 1500.0, byName["Ana"].TotalSales)
	assert.Equal(t, 2, byName["Ana"].SalesCount)

	assert.Equal(t, 50.0, byName["Budi"].CommissionEarned) // 25 per sale, 2 sales
	assert.Equal(t, 500.0, byName["Budi"].TotalSales)

	assert.Equal(t, 200.0, stats.TotalCommissions)
	assert.Equal(t, 2000.0, stats.TotalSales)
	assert.Equal(t, 2, stats.EmployeeCount)
	assert.Equal(t, 100.0, stats.AvgCommission)
}

func TestCalculateSkipsVoidedAndOutOfMonthSales(t *testing.T) {
	f := newCommissionFixture(t)
	emp := f.seedEmployee(t, "Ana", employeedomain.CommissionPercentage, 10, 0)

	inMonth := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	f.seedSale(t, emp.ID, 1000, inMonth, posdomain.SaleCompleted)
	f.seedSale(t, emp.ID, 999, inMonth, posdomain.SaleVoided)
	f.seedSale(t, emp.ID, 888, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), posdomain.SaleCompleted)

	records, _, err := f.svc.Calculate(f.ctx, "2026-08")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1000.0, records[0].TotalSales)
	assert.Equal(t, 1, records[0].SalesCount)
	assert.Equal(t, 100.0, records[0].CommissionEarned)
}

func TestCalculateTargetAchievement(t *testing.T) {
	f := newCommissionFixture(t)
	emp := f.seedEmployee(t, "Ana", employeedomain.CommissionPercentage, 10, 2000)

	mid := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	f.seedSale(t, emp.ID, 1000, mid, posdomain.SaleCompleted)

	records, _, err := f.svc.Calculate(f.ctx, "2026-08")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 50.0, records[0].TargetAchievedPct)
}

func TestCalculateRecalculationUpsertsInsteadOfDuplicating(t *testing.T) {
	f := newCommissionFixture(t)
	emp := f.seedEmployee(t, "Ana", employeedomain.CommissionPercentage, 10, 0)

	mid := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	f.seedSale(t, emp.ID, 1000, mid, posdomain.SaleCompleted)

	_, _, err := f.svc.Calculate(f.ctx, "2026-08")
	require.NoError(t, err)

	f.seedSale(t, emp.ID, 500, mid, posdomain.SaleCompleted)
	records, _, err := f.svc.Calculate(f.ctx, "2026-08")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 150.0, records[0].CommissionEarned)

	var count int64
	require.NoError(t, f.db.Model(&domain.CommissionRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStatsEmptyMonthHasNoNaN(t *testing.T) {
	f := newCommissionFixture(t)

	records, stats, err := f.svc.List(f.ctx, "2026-08")
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, stats.AvgCommission)
	assert.Zero(t, stats.TotalCommissions)
	assert.Zero(t, stats.EmployeeCount)
}

func TestCalculateRejectsBadMonth(t *testing.T) {
	f := newCommissionFixture(t)

	_, _, err := f.svc.Calculate(f.ctx, "August 2026")
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, _, err = f.svc.Calculate(f.ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
}

func TestImportCSVUnknownEmployeeRejected(t *testing.T) {
	f := newCommissionFixture(t)
	f.seedEmployee(t, "Ana", employeedomain.CommissionPercentage, 10, 0)

	csv := "employee_name,month,commission_type,commission_rate,total_sales,sales_count,monthly_target,target_achieved_pct,commission_earned\n" +
		"Ana,2026-08,percentage,10,1500.00,2,0.00,0.00,150.00\n" +
		"Ghost,2026-08,percentage,10,100.00,1,0.00,0.00,10.00\n"

	report, err := f.svc.ImportCSV(f.ctx, []byte(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 3, report.Errors[0].Line)
}
