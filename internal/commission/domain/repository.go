package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, record *CommissionRecord) error
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, month string) ([]*CommissionRecord, error)
	Delete(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, ids []snowflake.ID) (int64, error)
	DeleteAll(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (int64, error)
}
