package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, purchase *Purchase) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Purchase, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, req ListPurchasesRequest) ([]*Purchase, error)
	Update(ctx context.Context, db *gorm.DB, purchase *Purchase) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
}
