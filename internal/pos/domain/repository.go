package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertSale(ctx context.Context, db *gorm.DB, sale *Sale) error
	FindSaleByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Sale, error)
	FindSaleByIdemKey(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, key string) (*Sale, error)
	FindSaleByShareToken(ctx context.Context, db *gorm.DB, token string) (*Sale, error)
	ListSales(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, req ListSalesRequest) ([]*Sale, error)
	ListAllSales(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]*Sale, error)
	UpdateSale(ctx context.Context, db *gorm.DB, sale *Sale) error
	DeleteAllSales(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (int64, error)

	InsertHeld(ctx context.Context, db *gorm.DB, held *HeldBill) error
	FindHeld(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, id string) (*HeldBill, error)
	ListHeld(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]*HeldBill, error)
	DeleteHeld(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, id string) (int64, error)
}
