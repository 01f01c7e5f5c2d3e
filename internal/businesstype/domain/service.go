package domain

import (
	"context"
	"errors"
)

type CreateBusinessTypeRequest struct {
	Code         string              `json:"code"`
	Name         string              `json:"name"`
	CustomFields []CustomField       `json:"custom_fields"`
	Dropdowns    map[string][]string `json:"dropdowns"`
}

type UpdateBusinessTypeRequest struct {
	ID           string               `json:"id"`
	Name         *string              `json:"name,omitempty"`
	CustomFields *[]CustomField       `json:"custom_fields,omitempty"`
	Dropdowns    *map[string][]string `json:"dropdowns,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateBusinessTypeRequest) (BusinessType, error)
	List(ctx context.Context) ([]BusinessType, error)
	GetByID(ctx context.Context, id string) (BusinessType, error)
	Update(ctx context.Context, req UpdateBusinessTypeRequest) (BusinessType, error)
	Delete(ctx context.Context, id string) error
	// InitDefaults seeds the built-in verticals; calling it twice is a no-op.
	InitDefaults(ctx context.Context) (int, error)

	GetTenantFields(ctx context.Context) ([]CustomField, error)
	SetTenantFields(ctx context.Context, fields []CustomField) error
	GetTenantFeatures(ctx context.Context) ([]string, error)
	SetTenantFeatures(ctx context.Context, features []string) error
	// DropdownData merges the tenant's business-type dropdowns for forms.
	DropdownData(ctx context.Context) (map[string][]string, error)
}

var (
	ErrInvalidCode   = errors.New("invalid_code")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrCodeTaken     = errors.New("code_taken")
	ErrNotFound      = errors.New("not_found")
)
