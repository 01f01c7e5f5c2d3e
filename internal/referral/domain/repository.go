package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, referral *Referral) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Referral, error)
	List(ctx context.Context, db *gorm.DB) ([]*Referral, error)
	Update(ctx context.Context, db *gorm.DB, referral *Referral) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertCode(ctx context.Context, db *gorm.DB, code *ReferralCode) error
	FindCode(ctx context.Context, db *gorm.DB, code string) (*ReferralCode, error)
}
