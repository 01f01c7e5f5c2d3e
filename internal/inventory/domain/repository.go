package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Product, error)
	FindBySKU(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, sku string) (*Product, error)
	FindByBarcode(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, barcode string) (*Product, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, req ListProductsRequest) ([]*Product, error)
	ListAll(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]*Product, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
	DeleteAll(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (int64, error)
}
