package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, businessType *BusinessType) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*BusinessType, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*BusinessType, error)
	List(ctx context.Context, db *gorm.DB) ([]*BusinessType, error)
	Update(ctx context.Context, db *gorm.DB, businessType *BusinessType) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	FindTenantFields(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*TenantFields, error)
	SaveTenantFields(ctx context.Context, db *gorm.DB, fields *TenantFields) error
	FindTenantFeatures(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*TenantFeatures, error)
	SaveTenantFeatures(ctx context.Context, db *gorm.DB, features *TenantFeatures) error
}
