package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vestrapos/vestra/internal/pos/domain"
	"github.com/vestrapos/vestra/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertSale(ctx context.Context, db *gorm.DB, sale *domain.Sale) error {
	return db.WithContext(ctx).Create(sale).Error
}

func (r *repo) FindSaleByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Sale, error) {
	var sale domain.Sale
	err := db.WithContext(ctx).
		First(&sale, "tenant_id = ? AND id = ?", tenantID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repo) FindSaleByIdemKey(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, key string) (*domain.Sale, error) {
	var sale domain.Sale
	err := db.WithContext(ctx).
		First(&sale, "tenant_id = ? AND idempotency_key = ?", tenantID, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repo) FindSaleByShareToken(ctx context.Context, db *gorm.DB, token string) (*domain.Sale, error) {
	var sale domain.Sale
	err := db.WithContext(ctx).First(&sale, "share_token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repo) ListSales(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, req domain.ListSalesRequest) ([]*domain.Sale, error) {
	stmt := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at desc, id desc")

	if from := strings.TrimSpace(req.From); from != "" {
		stmt = stmt.Where("created_at >= ?", from)
	}
	if to := strings.TrimSpace(req.To); to != "" {
		stmt = stmt.Where("created_at <= ?", to)
	}
	if status := strings.TrimSpace(req.Status); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		stmt = stmt.Where("lower(bill_number) LIKE ? OR lower(customer_name) LIKE ? OR customer_phone LIKE ?",
			like, like, "%"+search+"%")
	}
	stmt = pagination.Apply(stmt, req.Pagination)

	var sales []*domain.Sale
	if err := stmt.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repo) ListAllSales(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]*domain.Sale, error) {
	var sales []*domain.Sale
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at desc, id desc").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *repo) UpdateSale(ctx context.Context, db *gorm.DB, sale *domain.Sale) error {
	return db.WithContext(ctx).Save(sale).Error
}

func (r *repo) DeleteAllSales(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.Sale{}, "tenant_id = ?", tenantID)
	return res.RowsAffected, res.Error
}

func (r *repo) InsertHeld(ctx context.Context, db *gorm.DB, held *domain.HeldBill) error {
	return db.WithContext(ctx).Create(held).Error
}

func (r *repo) FindHeld(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, id string) (*domain.HeldBill, error) {
	var held domain.HeldBill
	err := db.WithContext(ctx).
		First(&held, "tenant_id = ? AND id = ?", tenantID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &held, nil
}

func (r *repo) ListHeld(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]*domain.HeldBill, error) {
	var held []*domain.HeldBill
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at asc").
		Find(&held).Error
	if err != nil {
		return nil, err
	}
	return held, nil
}

func (r *repo) DeleteHeld(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, id string) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.HeldBill{}, "tenant_id = ? AND id = ?", tenantID, id)
	return res.RowsAffected, res.Error
}
