package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/vestrapos/vestra/internal/auth/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) FindByUsername(ctx context.Context, db *gorm.DB, tenantID *snowflake.ID, username string) (*domain.User, error) {
	stmt := db.WithContext(ctx).Where("lower(username) = ?", strings.ToLower(strings.TrimSpace(username)))
	if tenantID == nil {
		stmt = stmt.Where("tenant_id IS NULL")
	} else {
		stmt = stmt.Where("tenant_id = ?", *tenantID)
	}

	var user domain.User
	err := stmt.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repo) ListByTenant(ctx context.Context, db *gorm.DB, tenantID *snowflake.ID) ([]*domain.User, error) {
	stmt := db.WithContext(ctx).Order("created_at asc, id asc")
	if tenantID == nil {
		stmt = stmt.Where("tenant_id IS NULL")
	} else {
		stmt = stmt.Where("tenant_id = ?", *tenantID)
	}

	var users []*domain.User
	if err := stmt.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Save(user).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id).Error
}
