package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vestrapos/vestra/internal/inventory/domain"
	"github.com/vestrapos/vestra/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).
		First(&product, "tenant_id = ? AND id = ?", tenantID, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repo) FindBySKU(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, sku string) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).
		First(&product, "tenant_id = ? AND sku = ?", tenantID, strings.TrimSpace(sku)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repo) FindByBarcode(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, barcode string) (*domain.Product, error) {
	var product domain.Product
	err := db.WithContext(ctx).
		First(&product, "tenant_id = ? AND barcode = ?", tenantID, strings.TrimSpace(barcode)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, req domain.ListProductsRequest) ([]*domain.Product, error) {
	stmt := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at desc, id desc")

	if search := strings.TrimSpace(req.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		stmt = stmt.Where("lower(name) LIKE ? OR lower(sku) LIKE ? OR barcode LIKE ?", like, like, "%"+search+"%")
	}
	if category := strings.TrimSpace(req.Category); category != "" {
		stmt = stmt.Where("category = ?", category)
	}
	if req.LowStock {
		stmt = stmt.Where("min_stock > 0 AND stock <= min_stock")
	}
	stmt = pagination.Apply(stmt, req.Pagination)

	var products []*domain.Product
	if err := stmt.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]*domain.Product, error) {
	var products []*domain.Product
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Save(product).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Delete(&domain.Product{}, "tenant_id = ? AND id = ?", tenantID, id).Error
}

func (r *repo) DeleteAll(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.Product{}, "tenant_id = ?", tenantID)
	return res.RowsAffected, res.Error
}
