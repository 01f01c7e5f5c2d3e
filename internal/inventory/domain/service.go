package domain

import (
	"context"
	"errors"

	"github.com/vestrapos/vestra/pkg/csvcodec"
	"github.com/vestrapos/vestra/pkg/db/pagination"
)

type CreateProductRequest struct {
	Name       string         `json:"name"`
	SKU        string         `json:"sku"`
	Barcode    string         `json:"barcode"`
	Category   string         `json:"category"`
	Price      float64        `json:"price"`
	Cost       float64        `json:"cost"`
	Stock      int            `json:"stock"`
	MinStock   int            `json:"min_stock"`
	Attributes map[string]any `json:"attributes"`
}

type UpdateProductRequest struct {
	ID         string          `json:"id"`
	Name       *string         `json:"name,omitempty"`
	SKU        *string         `json:"sku,omitempty"`
	Barcode    *string         `json:"barcode,omitempty"`
	Category   *string         `json:"category,omitempty"`
	Price      *float64        `json:"price,omitempty"`
	Cost       *float64        `json:"cost,omitempty"`
	Stock      *int            `json:"stock,omitempty"`
	MinStock   *int            `json:"min_stock,omitempty"`
	Attributes *map[string]any `json:"attributes,omitempty"`
}

type ListProductsRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	LowStock bool   `form:"low_stock"`
	pagination.Pagination
}

// ImportReport summarizes a CSV import: rows inserted, rows updated in
// place (matched by SKU) and rows rejected with their line numbers.
type ImportReport struct {
	Created int                `json:"created"`
	Updated int                `json:"updated"`
	Errors  []csvcodec.RowError `json:"errors"`
}

type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (Product, error)
	List(ctx context.Context, req ListProductsRequest) ([]Product, pagination.PageInfo, error)
	GetByID(ctx context.Context, id string) (Product, error)
	GetByBarcode(ctx context.Context, barcode string) (Product, error)
	Update(ctx context.Context, req UpdateProductRequest) (Product, error)
	Delete(ctx context.Context, id string) error

	ExportCSV(ctx context.Context) ([]byte, error)
	ImportCSV(ctx context.Context, data []byte) (ImportReport, error)
	// Clear removes every product for the tenant. Handlers must verify
	// the delete guard before calling this.
	Clear(ctx context.Context) (int64, error)
}

var (
	ErrInvalidTenant  = errors.New("invalid_tenant")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidSKU     = errors.New("invalid_sku")
	ErrInvalidPrice   = errors.New("invalid_price")
	ErrInvalidStock   = errors.New("invalid_stock")
	ErrInvalidID      = errors.New("invalid_id")
	ErrSKUTaken       = errors.New("sku_taken")
	ErrNotFound       = errors.New("not_found")
	ErrEmptyImport    = errors.New("empty_import")
)
