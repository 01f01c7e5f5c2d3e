package domain

import (
	"context"
	"errors"

	"github.com/vestrapos/vestra/pkg/csvcodec"
	"github.com/vestrapos/vestra/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type UpdateCustomerRequest struct {
	ID      string  `json:"id"`
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

type ListCustomersRequest struct {
	Search string `form:"search"`
	pagination.Pagination
}

type ImportReport struct {
	Created int                 `json:"created"`
	Updated int                 `json:"updated"`
	Errors  []csvcodec.RowError `json:"errors"`
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	List(ctx context.Context, req ListCustomersRequest) ([]Customer, pagination.PageInfo, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	Update(ctx context.Context, req UpdateCustomerRequest) (Customer, error)
	Delete(ctx context.Context, id string) error

	// RecordPurchase upserts the customer by phone and rolls the sale
	// amount into their lifetime stats. Used by checkout; name may be
	// empty for an existing customer.
	RecordPurchase(ctx context.Context, name, phone string, amount float64) (Customer, error)

	ExportCSV(ctx context.Context) ([]byte, error)
	ImportCSV(ctx context.Context, data []byte) (ImportReport, error)
	Clear(ctx context.Context) (int64, error)
}

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidPhone  = errors.New("invalid_phone")
	ErrInvalidID     = errors.New("invalid_id")
	ErrPhoneTaken    = errors.New("phone_taken")
	ErrNotFound      = errors.New("not_found")
	ErrEmptyImport   = errors.New("empty_import")
)
