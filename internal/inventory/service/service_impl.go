package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vestrapos/vestra/internal/inventory/domain"
	"github.com/vestrapos/vestra/internal/plan/gate"
	"github.com/vestrapos/vestra/pkg/csvcodec"
	"github.com/vestrapos/vestra/pkg/db"
	"github.com/vestrapos/vestra/pkg/db/pagination"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Gate  *gate.Gate
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	gate  *gate.Gate
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("inventory.service"),
		genID: p.GenID,
		repo:  p.Repo,
		gate:  p.Gate,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.gate.CheckProductLimit(ctx); err != nil {
		return domain.Product{}, err
	}

	product, err := s.buildProduct(tenantID, req)
	if err != nil {
		return domain.Product{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &product); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Product{}, domain.ErrSKUTaken
		}
		return domain.Product{}, err
	}
	return product, nil
}

func (s *Service) List(ctx context.Context, req domain.ListProductsRequest) ([]domain.Product, pagination.PageInfo, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	items, err := s.repo.List(ctx, s.db, tenantID, req)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	size := req.PageSize
	if size <= 0 {
		size = 50
	}
	pageInfo := pagination.BuildCursorPageInfo(items, size, func(p *domain.Product) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        p.ID.String(),
			CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
		})
		return token
	})
	if len(items) > size {
		items = items[:size]
	}

	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		products = append(products, *item)
	}
	return products, *pageInfo, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Product, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	productID, err := s.parseID(id)
	if err != nil {
		return domain.Product{}, err
	}
	product, err := s.repo.FindByID(ctx, s.db, tenantID, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if product == nil {
		return domain.Product{}, domain.ErrNotFound
	}
	return *product, nil
}

func (s *Service) GetByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	if strings.TrimSpace(barcode) == "" {
		return domain.Product{}, domain.ErrNotFound
	}
	product, err := s.repo.FindByBarcode(ctx, s.db, tenantID, barcode)
	if err != nil {
		return domain.Product{}, err
	}
	if product == nil {
		// Cashiers scan SKU barcodes interchangeably.
		product, err = s.repo.FindBySKU(ctx, s.db, tenantID, barcode)
		if err != nil {
			return domain.Product{}, err
		}
	}
	if product == nil {
		return domain.Product{}, domain.ErrNotFound
	}
	return *product, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProductRequest) (domain.Product, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	productID, err := s.parseID(req.ID)
	if err != nil {
		return domain.Product{}, err
	}
	product, err := s.repo.FindByID(ctx, s.db, tenantID, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if product == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, domain.ErrInvalidName
		}
		product.Name = name
	}
	if req.SKU != nil {
		sku := strings.TrimSpace(*req.SKU)
		if sku == "" {
			return domain.Product{}, domain.ErrInvalidSKU
		}
		product.SKU = sku
	}
	if req.Barcode != nil {
		product.Barcode = strings.TrimSpace(*req.Barcode)
	}
	if req.Category != nil {
		product.Category = strings.TrimSpace(*req.Category)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return domain.Product{}, domain.ErrInvalidPrice
		}
		product.Price = *req.Price
	}
	if req.Cost != nil {
		if *req.Cost < 0 {
			return domain.Product{}, domain.ErrInvalidPrice
		}
		product.Cost = *req.Cost
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return domain.Product{}, domain.ErrInvalidStock
		}
		product.Stock = *req.Stock
	}
	if req.MinStock != nil {
		if *req.MinStock < 0 {
			return domain.Product{}, domain.ErrInvalidStock
		}
		product.MinStock = *req.MinStock
	}
	if req.Attributes != nil {
		product.Attributes = datatypes.JSONMap(*req.Attributes)
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, product); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Product{}, domain.ErrSKUTaken
		}
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return err
	}
	productID, err := s.parseID(id)
	if err != nil {
		return err
	}
	product, err := s.repo.FindByID(ctx, s.db, tenantID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, tenantID, productID)
}

var exportHeader = csvcodec.Row{"name", "sku", "barcode", "category", "price", "cost", "stock", "min_stock"}

func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.ListAll(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}

	rows := make([]csvcodec.Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, csvcodec.Row{
			p.Name,
			p.SKU,
			p.Barcode,
			p.Category,
			strconv.FormatFloat(p.Price, 'f', -1, 64),
			strconv.FormatFloat(p.Cost, 'f', -1, 64),
			strconv.Itoa(p.Stock),
			strconv.Itoa(p.MinStock),
		})
	}
	return []byte(csvcodec.Write(exportHeader, rows)), nil
}

func (s *Service) ImportCSV(ctx context.Context, data []byte) (domain.ImportReport, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.ImportReport{}, err
	}

	header, records, parseErrs := csvcodec.Parse(string(data))
	if header == nil {
		return domain.ImportReport{}, domain.ErrEmptyImport
	}
	report := domain.ImportReport{Errors: parseErrs}
	col := csvcodec.ColumnIndex(header)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			row, line := rec.Fields, rec.Line
			name := col.Get(row, "name")
			sku := col.Get(row, "sku")
			if strings.TrimSpace(name) == "" || strings.TrimSpace(sku) == "" {
				report.Errors = append(report.Errors, csvcodec.RowError{Line: line, Err: "name and sku are required"})
				continue
			}
			price, err := strconv.ParseFloat(strings.TrimSpace(col.Get(row, "price")), 64)
			if err != nil || price < 0 {
				report.Errors = append(report.Errors, csvcodec.RowError{Line: line, Err: "invalid price"})
				continue
			}
			cost, _ := strconv.ParseFloat(strings.TrimSpace(col.Get(row, "cost")), 64)
			stock, _ := strconv.Atoi(strings.TrimSpace(col.Get(row, "stock")))
			minStock, _ := strconv.Atoi(strings.TrimSpace(col.Get(row, "min_stock")))

			existing, err := s.repo.FindBySKU(ctx, tx, tenantID, sku)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			if existing != nil {
				existing.Name = strings.TrimSpace(name)
				existing.Barcode = strings.TrimSpace(col.Get(row, "barcode"))
				existing.Category = strings.TrimSpace(col.Get(row, "category"))
				existing.Price = price
				existing.Cost = cost
				existing.Stock = stock
				existing.MinStock = minStock
				existing.UpdatedAt = now
				if err := s.repo.Update(ctx, tx, existing); err != nil {
					return err
				}
				report.Updated++
				continue
			}

			// The count must run inside tx: rows created earlier in
			// this import are invisible to the pooled gate handle.
			if err := s.gate.CheckProductLimitTx(ctx, tx); err != nil {
				return err
			}
			product := domain.Product{
				ID:        s.genID.Generate(),
				TenantID:  tenantID,
				Name:      strings.TrimSpace(name),
				SKU:       strings.TrimSpace(sku),
				Barcode:   strings.TrimSpace(col.Get(row, "barcode")),
				Category:  strings.TrimSpace(col.Get(row, "category")),
				Price:     price,
				Cost:      cost,
				Stock:     stock,
				MinStock:  minStock,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.repo.Insert(ctx, tx, &product); err != nil {
				return err
			}
			report.Created++
		}
		return nil
	})
	if err != nil {
		return domain.ImportReport{}, err
	}

	s.log.Info("products imported",
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("rejected", len(report.Errors)),
	)
	return report, nil
}

func (s *Service) Clear(ctx context.Context) (int64, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return 0, err
	}
	deleted, err := s.repo.DeleteAll(ctx, s.db, tenantID)
	if err != nil {
		return 0, err
	}
	s.log.Warn("inventory cleared",
		zap.Int64("tenant_id", tenantID.Int64()),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

func (s *Service) buildProduct(tenantID snowflake.ID, req domain.CreateProductRequest) (domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return domain.Product{}, domain.ErrInvalidSKU
	}
	if req.Price < 0 {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if req.Stock < 0 || req.MinStock < 0 {
		return domain.Product{}, domain.ErrInvalidStock
	}

	now := time.Now().UTC()
	return domain.Product{
		ID:         s.genID.Generate(),
		TenantID:   tenantID,
		Name:       name,
		SKU:        sku,
		Barcode:    strings.TrimSpace(req.Barcode),
		Category:   strings.TrimSpace(req.Category),
		Price:      req.Price,
		Cost:       req.Cost,
		Stock:      req.Stock,
		MinStock:   req.MinStock,
		Attributes: datatypes.JSONMap(req.Attributes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *Service) tenantID(ctx context.Context) (snowflake.ID, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return 0, domain.ErrInvalidTenant
	}
	return tenantID, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
