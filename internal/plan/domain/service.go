package domain

import (
	"context"
	"errors"
)

type CreatePlanRequest struct {
	Name            string   `json:"name"`
	Tier            string   `json:"tier"`
	Price           float64  `json:"price"`
	BillingInterval string   `json:"billing_interval"`
	AllowedFeatures []string `json:"allowed_features"`
	MaxProducts     int      `json:"max_products"`
	MaxUsers        int      `json:"max_users"`
}

type UpdatePlanRequest struct {
	ID              string    `json:"id"`
	Name            *string   `json:"name,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	BillingInterval *string   `json:"billing_interval,omitempty"`
	AllowedFeatures *[]string `json:"allowed_features,omitempty"`
	MaxProducts     *int      `json:"max_products,omitempty"`
	MaxUsers        *int      `json:"max_users,omitempty"`
	Active          *bool     `json:"active,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreatePlanRequest) (Plan, error)
	List(ctx context.Context) ([]Plan, error)
	GetByID(ctx context.Context, id string) (Plan, error)
	Update(ctx context.Context, req UpdatePlanRequest) (Plan, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidTier = errors.New("invalid_tier")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
	ErrPlanInUse   = errors.New("plan_in_use")
)
