package domain

import (
	"context"
	"errors"
)

type CreateTenantRequest struct {
	Name           string `json:"name"`
	Subdomain      string `json:"subdomain"`
	BusinessTypeID string `json:"business_type_id"`
	PlanID         string `json:"plan_id"`
	ContactName    string `json:"contact_name"`
	ContactEmail   string `json:"contact_email"`
	ContactPhone   string `json:"contact_phone"`
	ReferralCode   string `json:"referral_code"`
}

type UpdateTenantRequest struct {
	ID           string  `json:"id"`
	Name         *string `json:"name,omitempty"`
	PlanID       *string `json:"plan_id,omitempty"`
	ContactName  *string `json:"contact_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateTenantRequest) (Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	GetByID(ctx context.Context, id string) (Tenant, error)
	Update(ctx context.Context, req UpdateTenantRequest) (Tenant, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Tenant, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidSubdomain = errors.New("invalid_subdomain")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidID        = errors.New("invalid_id")
	ErrSubdomainTaken   = errors.New("subdomain_taken")
	ErrNotFound         = errors.New("not_found")
)
