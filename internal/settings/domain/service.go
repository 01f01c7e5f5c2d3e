package domain

import (
	"context"
	"errors"
)

type UpdateSettingsRequest struct {
	StoreName     *string  `json:"store_name,omitempty"`
	Address       *string  `json:"address,omitempty"`
	Phone         *string  `json:"phone,omitempty"`
	TaxRate       *float64 `json:"tax_rate,omitempty"`
	Currency      *string  `json:"currency,omitempty"`
	ReceiptFooter *string  `json:"receipt_footer,omitempty"`
	LogoURL       *string  `json:"logo_url,omitempty"`
}

type Service interface {
	Get(ctx context.Context) (TenantSettings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (TenantSettings, error)

	// SetDeleteGuard stores a bcrypt hash of the password. There is no
	// default password: until the owner sets one, every guarded
	// destructive operation is refused.
	SetDeleteGuard(ctx context.Context, password string) error
	// VerifyDeleteGuard returns nil only when the password matches the
	// stored hash. Callers must not touch data before this passes.
	VerifyDeleteGuard(ctx context.Context, password string) error
}

var (
	ErrInvalidTenant         = errors.New("invalid_tenant")
	ErrInvalidStoreName      = errors.New("invalid_store_name")
	ErrInvalidTaxRate        = errors.New("invalid_tax_rate")
	ErrInvalidPassword       = errors.New("invalid_password")
	ErrNotFound              = errors.New("not_found")
	ErrGuardNotConfigured    = errors.New("delete_guard_not_configured")
	ErrInvalidDeletePassword = errors.New("invalid_delete_password")
)
