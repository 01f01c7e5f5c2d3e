package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, employee *Employee) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Employee, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, activeOnly bool) ([]*Employee, error)
	Update(ctx context.Context, db *gorm.DB, employee *Employee) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
}
