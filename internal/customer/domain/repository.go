package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Customer, error)
	FindByPhone(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, phone string) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, req ListCustomersRequest) ([]*Customer, error)
	ListAll(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]*Customer, error)
	Update(ctx context.Context, db *gorm.DB, customer *Customer) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
	DeleteAll(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (int64, error)
}
