package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vestrapos/vestra/internal/commission/domain"
	employeedomain "github.com/vestrapos/vestra/internal/employee/domain"
	posdomain "github.com/vestrapos/vestra/internal/pos/domain"
	"github.com/vestrapos/vestra/pkg/csvcodec"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("commission.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Calculate(ctx context.Context, month string) ([]domain.CommissionRecord, domain.Stats, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return nil, domain.Stats{}, err
	}
	month = strings.TrimSpace(month)
	start, end, err := monthRange(month)
	if err != nil {
		return nil, domain.Stats{}, err
	}

	var employees []employeedomain.Employee
	err = s.db.WithContext(ctx).
		Where("tenant_id = ? AND commission_type <> ?", tenantID, employeedomain.CommissionNone).
		Order("name asc").
		Find(&employees).Error
	if err != nil {
		return nil, domain.Stats{}, err
	}

	now := time.Now().UTC()
	records := make([]domain.CommissionRecord, 0, len(employees))
	for _, emp := range employees {
		var agg struct {
			TotalSales float64
			SalesCount int64
		}
		err := s.db.WithContext(ctx).
			Model(&posdomain.Sale{}).
			Select("COALESCE(SUM(total), 0) AS total_sales, COUNT(*) AS sales_count").
			Where("tenant_id = ? AND employee_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
				tenantID, emp.ID, posdomain.SaleCompleted, start, end).
			Scan(&agg).Error
		if err != nil {
			return nil, domain.Stats{}, err
		}

		earned := 0.0
		switch emp.CommissionType {
		case employeedomain.CommissionPercentage:
			earned = posdomain.Round2(agg.TotalSales * emp.CommissionRate / 100)
		case employeedomain.CommissionFixed:
			earned = posdomain.Round2(emp.CommissionRate * float64(agg.SalesCount))
		}

		achieved := 0.0
		if emp.MonthlyTarget > 0 {
			achieved = posdomain.Round2(agg.TotalSales / emp.MonthlyTarget * 100)
		}

		record := domain.CommissionRecord{
			ID:                s.genID.Generate(),
			TenantID:          tenantID,
			EmployeeID:        emp.ID,
			EmployeeName:      emp.Name,
			Month:             month,
			CommissionType:    string(emp.CommissionType),
			CommissionRate:    emp.CommissionRate,
			TotalSales:        posdomain.Round2(agg.TotalSales),
			SalesCount:        int(agg.SalesCount),
			MonthlyTarget:     emp.MonthlyTarget,
			TargetAchievedPct: achieved,
			CommissionEarned:  earned,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := s.repo.Upsert(ctx, s.db, &record); err != nil {
			return nil, domain.Stats{}, err
		}
		records = append(records, record)
	}

	return records, buildStats(records), nil
}

func (s *Service) List(ctx context.Context, month string) ([]domain.CommissionRecord, domain.Stats, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return nil, domain.Stats{}, err
	}
	items, err := s.repo.List(ctx, s.db, tenantID, month)
	if err != nil {
		return nil, domain.Stats{}, err
	}
	records := make([]domain.CommissionRecord, 0, len(items))
	for _, item := range items {
		records = append(records, *item)
	}
	return records, buildStats(records), nil
}

var exportHeader = csvcodec.Row{
	"employee_name", "month", "commission_type", "commission_rate",
	"total_sales", "sales_count", "monthly_target", "target_achieved_pct",
	"commission_earned",
}

func (s *Service) ExportCSV(ctx context.Context, month string) ([]byte, error) {
	records, _, err := s.List(ctx, month)
	if err != nil {
		return nil, err
	}

	rows := make([]csvcodec.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, csvcodec.Row{
			record.EmployeeName,
			record.Month,
			record.CommissionType,
			strconv.FormatFloat(record.CommissionRate, 'f', -1, 64),
			strconv.FormatFloat(record.TotalSales, 'f', 2, 64),
			strconv.Itoa(record.SalesCount),
			strconv.FormatFloat(record.MonthlyTarget, 'f', 2, 64),
			strconv.FormatFloat(record.TargetAchievedPct, 'f', 2, 64),
			strconv.FormatFloat(record.CommissionEarned, 'f', 2, 64),
		})
	}
	return []byte(csvcodec.Write(exportHeader, rows)), nil
}

func (s *Service) ImportCSV(ctx context.Context, data []byte) (domain.ImportReport, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.ImportReport{}, err
	}

	header, records, parseErrs := csvcodec.Parse(string(data))
	if header == nil {
		return domain.ImportReport{}, domain.ErrEmptyImport
	}
	report := domain.ImportReport{Errors: parseErrs}
	col := csvcodec.ColumnIndex(header)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			row, line := rec.Fields, rec.Line
			name := col.Get(row, "employee_name")
			month := col.Get(row, "month")
			if name == "" || !validMonth(month) {
				report.Errors = append(report.Errors, csvcodec.RowError{Line: line, Err: "employee_name and month (YYYY-MM) are required"})
				continue
			}

			// Imported rows are matched to employees by name; unknown
			// names are rejected rather than creating phantom staff.
			var emp employeedomain.Employee
			ferr := tx.First(&emp, "tenant_id = ? AND name = ?", tenantID, name).Error
			if ferr != nil {
				report.Errors = append(report.Errors, csvcodec.RowError{Line: line, Err: "unknown employee"})
				continue
			}

			totalSales, _ := strconv.ParseFloat(col.Get(row, "total_sales"), 64)
			salesCount, _ := strconv.Atoi(col.Get(row, "sales_count"))
			target, _ := strconv.ParseFloat(col.Get(row, "monthly_target"), 64)
			achieved, _ := strconv.ParseFloat(col.Get(row, "target_achieved_pct"), 64)
			earned, _ := strconv.ParseFloat(col.Get(row, "commission_earned"), 64)
			rate, _ := strconv.ParseFloat(col.Get(row, "commission_rate"), 64)
			commissionType := col.Get(row, "commission_type")
			if commissionType == "" {
				commissionType = string(emp.CommissionType)
			}

			now := time.Now().UTC()
			record := domain.CommissionRecord{
				ID:                s.genID.Generate(),
				TenantID:          tenantID,
				EmployeeID:        emp.ID,
				EmployeeName:      emp.Name,
				Month:             month,
				CommissionType:    commissionType,
				CommissionRate:    rate,
				TotalSales:        totalSales,
				SalesCount:        salesCount,
				MonthlyTarget:     target,
				TargetAchievedPct: achieved,
				CommissionEarned:  earned,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := s.repo.Upsert(ctx, tx, &record); err != nil {
				return err
			}
			report.Created++
		}
		return nil
	})
	if err != nil {
		return domain.ImportReport{}, err
	}
	return report, nil
}

func (s *Service) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	parsed := make([]snowflake.ID, 0, len(ids))
	for _, raw := range ids {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil || id == 0 {
			return 0, domain.ErrInvalidID
		}
		parsed = append(parsed, id)
	}
	return s.repo.Delete(ctx, s.db, tenantID, parsed)
}

func (s *Service) Clear(ctx context.Context) (int64, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return 0, err
	}
	deleted, err := s.repo.DeleteAll(ctx, s.db, tenantID)
	if err != nil {
		return 0, err
	}
	s.log.Warn("commission records cleared",
		zap.Int64("tenant_id", tenantID.Int64()),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

func buildStats(records []domain.CommissionRecord) domain.Stats {
	var stats domain.Stats
	for _, record := range records {
		stats.TotalCommissions += record.CommissionEarned
		stats.TotalSales += record.TotalSales
		stats.EmployeeCount++
	}
	stats.TotalCommissions = posdomain.Round2(stats.TotalCommissions)
	stats.TotalSales = posdomain.Round2(stats.TotalSales)
	// Zero rows must yield 0, not NaN.
	if stats.EmployeeCount > 0 {
		stats.AvgCommission = math.Round(stats.TotalCommissions / float64(stats.EmployeeCount))
	}
	return stats
}

func monthRange(month string) (time.Time, time.Time, error) {
	if !validMonth(month) {
		return time.Time{}, time.Time{}, domain.ErrInvalidMonth
	}
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidMonth
	}
	return start, start.AddDate(0, 1, 0), nil
}

func validMonth(month string) bool {
	_, err := time.Parse("2006-01", strings.TrimSpace(month))
	return err == nil
}

func (s *Service) tenantID(ctx context.Context) (snowflake.ID, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return 0, domain.ErrInvalidTenant
	}
	return tenantID, nil
}
