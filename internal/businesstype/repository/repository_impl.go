package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vestrapos/vestra/internal/businesstype/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, businessType *domain.BusinessType) error {
	return db.WithContext(ctx).Create(businessType).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.BusinessType, error) {
	var businessType domain.BusinessType
	err := db.WithContext(ctx).First(&businessType, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &businessType, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.BusinessType, error) {
	var businessType domain.BusinessType
	err := db.WithContext(ctx).First(&businessType, "code = ?", strings.ToLower(strings.TrimSpace(code))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &businessType, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.BusinessType, error) {
	var businessTypes []*domain.BusinessType
	err := db.WithContext(ctx).Order("name asc").Find(&businessTypes).Error
	if err != nil {
		return nil, err
	}
	return businessTypes, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, businessType *domain.BusinessType) error {
	return db.WithContext(ctx).Save(businessType).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.BusinessType{}, "id = ?", id).Error
}

func (r *repo) FindTenantFields(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*domain.TenantFields, error) {
	var fields domain.TenantFields
	err := db.WithContext(ctx).First(&fields, "tenant_id = ?", tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fields, nil
}

func (r *repo) SaveTenantFields(ctx context.Context, db *gorm.DB, fields *domain.TenantFields) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"fields", "updated_at"}),
		}).
		Create(fields).Error
}

func (r *repo) FindTenantFeatures(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*domain.TenantFeatures, error) {
	var features domain.TenantFeatures
	err := db.WithContext(ctx).First(&features, "tenant_id = ?", tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &features, nil
}

func (r *repo) SaveTenantFeatures(ctx context.Context, db *gorm.DB, features *domain.TenantFeatures) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"features", "updated_at"}),
		}).
		Create(features).Error
}
