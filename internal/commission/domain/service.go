package domain

import (
	"context"
	"errors"

	"github.com/vestrapos/vestra/pkg/csvcodec"
)

type ImportReport struct {
	Created int                 `json:"created"`
	Updated int                 `json:"updated"`
	Errors  []csvcodec.RowError `json:"errors"`
}

type Service interface {
	// Calculate aggregates completed sales for the month (YYYY-MM) per
	// commission-bearing employee, upserts the records, and returns them
	// with header stats.
	Calculate(ctx context.Context, month string) ([]CommissionRecord, Stats, error)
	List(ctx context.Context, month string) ([]CommissionRecord, Stats, error)

	ExportCSV(ctx context.Context, month string) ([]byte, error)
	ImportCSV(ctx context.Context, data []byte) (ImportReport, error)
	// BulkDelete removes the given record ids in one transaction.
	// Handlers must verify the delete guard first.
	BulkDelete(ctx context.Context, ids []string) (int64, error)
	Clear(ctx context.Context) (int64, error)
}

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidMonth  = errors.New("invalid_month")
	ErrInvalidID     = errors.New("invalid_id")
	ErrEmptyImport   = errors.New("empty_import")
)
