package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vestrapos/vestra/internal/commission/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, record *domain.CommissionRecord) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "tenant_id"}, {Name: "employee_id"}, {Name: "month"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"employee_name", "commission_type", "commission_rate",
				"total_sales", "sales_count", "monthly_target",
				"target_achieved_pct", "commission_earned", "updated_at",
			}),
		}).
		Create(record).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, month string) ([]*domain.CommissionRecord, error) {
	stmt := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("month desc, employee_name asc")
	if month = strings.TrimSpace(month); month != "" {
		stmt = stmt.Where("month = ?", month)
	}

	var records []*domain.CommissionRecord
	if err := stmt.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, ids []snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).
		Delete(&domain.CommissionRecord{}, "tenant_id = ? AND id IN ?", tenantID, ids)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteAll(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.CommissionRecord{}, "tenant_id = ?", tenantID)
	return res.RowsAffected, res.Error
}
