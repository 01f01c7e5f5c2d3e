package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByTenant(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*TenantSettings, error)
	Save(ctx context.Context, db *gorm.DB, settings *TenantSettings) error
}
