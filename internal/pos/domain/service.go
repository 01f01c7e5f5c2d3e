package domain

import (
	"context"
	"errors"

	"github.com/vestrapos/vestra/pkg/csvcodec"
	"github.com/vestrapos/vestra/pkg/db/pagination"
)

type CheckoutItem struct {
	ProductID string  `json:"product_id"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// CheckoutRequest commits a sale. IdempotencyKey is client-generated;
// resubmitting the same key returns the original sale instead of
// creating a duplicate.
type CheckoutRequest struct {
	IdempotencyKey string         `json:"idempotency_key"`
	Items          []CheckoutItem `json:"items"`
	DiscountPct    float64        `json:"discount_pct"`
	CustomerName   string         `json:"customer_name"`
	CustomerPhone  string         `json:"customer_phone"`
	EmployeeID     string         `json:"employee_id"`
	PaymentMethod  string         `json:"payment_method"`
}

type HoldRequest struct {
	Items         []CheckoutItem `json:"items"`
	DiscountPct   float64        `json:"discount_pct"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
}

type ListSalesRequest struct {
	From   string `form:"from"`
	To     string `form:"to"`
	Status string `form:"status"`
	Search string `form:"search"`
	pagination.Pagination
}

type ImportReport struct {
	Created int                 `json:"created"`
	Errors  []csvcodec.RowError `json:"errors"`
}

type Service interface {
	Checkout(ctx context.Context, req CheckoutRequest) (Sale, error)

	Hold(ctx context.Context, req HoldRequest) (HeldBill, error)
	ListHeld(ctx context.Context) ([]HeldBill, error)
	// Resume returns the snapshot and removes it from the held list in
	// one transaction; a second resume of the same id is not_found.
	Resume(ctx context.Context, id string) (HeldBill, error)
	DiscardHeld(ctx context.Context, id string) error

	ListSales(ctx context.Context, req ListSalesRequest) ([]Sale, pagination.PageInfo, error)
	GetSale(ctx context.Context, id string) (Sale, error)
	// GetSaleByShareToken backs the public receipt link; no auth.
	GetSaleByShareToken(ctx context.Context, token string) (Sale, error)
	// Void marks the sale voided and restores its stock. Handlers must
	// verify the delete guard first.
	Void(ctx context.Context, id string) (Sale, error)

	ExportCSV(ctx context.Context) ([]byte, error)
	ImportCSV(ctx context.Context, data []byte) (ImportReport, error)
	Clear(ctx context.Context) (int64, error)
}

var (
	ErrInvalidTenant     = errors.New("invalid_tenant")
	ErrEmptyCart         = errors.New("empty_cart")
	ErrInvalidItem       = errors.New("invalid_item")
	ErrInvalidDiscount   = errors.New("invalid_discount")
	ErrInvalidID         = errors.New("invalid_id")
	ErrMissingIdemKey    = errors.New("missing_idempotency_key")
	ErrCheckoutInFlight  = errors.New("checkout_in_flight")
	ErrInsufficientStock = errors.New("insufficient_stock")
	ErrProductMissing    = errors.New("product_missing")
	ErrAlreadyVoided     = errors.New("already_voided")
	ErrNotFound          = errors.New("not_found")
	ErrEmptyImport       = errors.New("empty_import")
)
