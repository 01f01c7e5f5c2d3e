package domain

import (
	"context"
	"errors"

	"github.com/vestrapos/vestra/pkg/db/pagination"
)

type PurchaseItemRequest struct {
	ProductID string  `json:"product_id"`
	UnitCost  float64 `json:"unit_cost"`
	Quantity  int     `json:"quantity"`
}

type CreatePurchaseRequest struct {
	SupplierName string                `json:"supplier_name"`
	Reference    string                `json:"reference"`
	Items        []PurchaseItemRequest `json:"items"`
	Notes        string                `json:"notes"`
}

type UpdatePurchaseRequest struct {
	ID           string                 `json:"id"`
	SupplierName *string                `json:"supplier_name,omitempty"`
	Reference    *string                `json:"reference,omitempty"`
	Items        *[]PurchaseItemRequest `json:"items,omitempty"`
	Notes        *string                `json:"notes,omitempty"`
	Status       *string                `json:"status,omitempty"`
}

type ListPurchasesRequest struct {
	Status string `form:"status"`
	Search string `form:"search"`
	pagination.Pagination
}

type Service interface {
	Create(ctx context.Context, req CreatePurchaseRequest) (Purchase, error)
	List(ctx context.Context, req ListPurchasesRequest) ([]Purchase, pagination.PageInfo, error)
	GetByID(ctx context.Context, id string) (Purchase, error)
	// Update edits pending purchases. Setting status to completed runs
	// the stock increment; completed purchases are immutable.
	Update(ctx context.Context, req UpdatePurchaseRequest) (Purchase, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidTenant    = errors.New("invalid_tenant")
	ErrInvalidSupplier  = errors.New("invalid_supplier")
	ErrInvalidItem      = errors.New("invalid_item")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrAlreadyCompleted = errors.New("already_completed")
	ErrProductMissing   = errors.New("product_missing")
	ErrNotFound         = errors.New("not_found")
)
