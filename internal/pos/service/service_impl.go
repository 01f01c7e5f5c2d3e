package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/vestrapos/vestra/internal/cache"
	customerdomain "github.com/vestrapos/vestra/internal/customer/domain"
	invdomain "github.com/vestrapos/vestra/internal/inventory/domain"
	"github.com/vestrapos/vestra/internal/metrics"
	"github.com/vestrapos/vestra/internal/pos/domain"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
	"github.com/vestrapos/vestra/pkg/csvcodec"
	"github.com/vestrapos/vestra/pkg/db"
	"github.com/vestrapos/vestra/pkg/db/pagination"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	Cache       cache.Cache
	Metrics     *metrics.HTTPMetrics
	SettingsSvc settingsdomain.Service
	CustomerSvc customerdomain.Service `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	cache       cache.Cache
	metrics     *metrics.HTTPMetrics
	settingsSvc settingsdomain.Service
	customerSvc customerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("pos.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		cache:       p.Cache,
		metrics:     p.Metrics,
		settingsSvc: p.SettingsSvc,
		customerSvc: p.CustomerSvc,
	}
}

const idemReservationTTL = 30 * time.Second

func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.Sale, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Sale{}, err
	}
	if len(req.Items) == 0 {
		return domain.Sale{}, domain.ErrEmptyCart
	}
	if req.DiscountPct < 0 || req.DiscountPct > 100 {
		return domain.Sale{}, domain.ErrInvalidDiscount
	}
	idemKey := strings.TrimSpace(req.IdempotencyKey)
	if idemKey == "" {
		return domain.Sale{}, domain.ErrMissingIdemKey
	}
	if _, err := uuid.Parse(idemKey); err != nil {
		return domain.Sale{}, domain.ErrMissingIdemKey
	}

	// Replay of a committed checkout returns the original sale.
	if existing, err := s.repo.FindSaleByIdemKey(ctx, s.db, tenantID, idemKey); err != nil {
		return domain.Sale{}, err
	} else if existing != nil {
		return *existing, nil
	}

	// Short reservation so a double-click cannot race two inserts to the
	// unique index. Noop cache always grants it; the index still holds.
	reservationKey := fmt.Sprintf("checkout:%d:%s", tenantID.Int64(), idemKey)
	granted, err := s.cache.SetNX(ctx, reservationKey, "1", idemReservationTTL)
	if err != nil {
		s.log.Warn("idempotency reservation failed", zap.Error(err))
	} else if !granted {
		return domain.Sale{}, domain.ErrCheckoutInFlight
	}
	defer func() { _ = s.cache.Delete(ctx, reservationKey) }()

	taxRate := 0.0
	if settings, err := s.settingsSvc.Get(ctx); err == nil {
		taxRate = settings.TaxRate
	}

	var employeeID *snowflake.ID
	if raw := strings.TrimSpace(req.EmployeeID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.Sale{}, domain.ErrInvalidID
		}
		employeeID = &parsed
	}

	now := time.Now().UTC()
	var sale domain.Sale
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart := domain.Cart{DiscountPct: req.DiscountPct, TaxRatePct: taxRate}
		for _, item := range req.Items {
			if item.Quantity <= 0 || item.UnitPrice < 0 {
				return domain.ErrInvalidItem
			}
			productID, err := snowflake.ParseString(strings.TrimSpace(item.ProductID))
			if err != nil {
				return domain.ErrInvalidItem
			}

			var product invdomain.Product
			err = tx.First(&product, "tenant_id = ? AND id = ?", tenantID, productID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrProductMissing
			}
			if err != nil {
				return err
			}

			// Guarded decrement: zero rows affected means another sale
			// took the stock first.
			res := tx.Model(&invdomain.Product{}).
				Where("tenant_id = ? AND id = ? AND stock >= ?", tenantID, productID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return domain.ErrInsufficientStock
			}

			line := domain.CartItem{
				ProductID: productID.String(),
				Name:      product.Name,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
				LineTotal: domain.Round2(item.UnitPrice * float64(item.Quantity)),
			}
			cart.Items = append(cart.Items, line)
		}

		totals := cart.Totals()
		saleID := s.genID.Generate()
		sale = domain.Sale{
			ID:             saleID,
			TenantID:       tenantID,
			BillNumber:     billNumber(saleID, now),
			IdempotencyKey: idemKey,
			ShareToken:     ulid.Make().String(),
			CustomerName:   strings.TrimSpace(req.CustomerName),
			CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
			EmployeeID:     employeeID,
			Items:          cart.Items,
			Subtotal:       totals.Subtotal,
			DiscountPct:    req.DiscountPct,
			DiscountAmount: totals.DiscountAmount,
			TaxRatePct:     taxRate,
			Tax:            totals.Tax,
			Total:          totals.Total,
			PaymentMethod:  paymentMethod(req.PaymentMethod),
			Status:         domain.SaleCompleted,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return s.repo.InsertSale(ctx, tx, &sale)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Lost the race on the unique index; the winner's sale is the
			// canonical one.
			if existing, ferr := s.repo.FindSaleByIdemKey(ctx, s.db, tenantID, idemKey); ferr == nil && existing != nil {
				return *existing, nil
			}
		}
		return domain.Sale{}, err
	}

	// Customer stats are best effort; the sale is already committed.
	if s.customerSvc != nil && sale.CustomerPhone != "" {
		if _, err := s.customerSvc.RecordPurchase(ctx, sale.CustomerName, sale.CustomerPhone, sale.Total); err != nil {
			s.log.Warn("customer purchase not recorded",
				zap.String("phone", sale.CustomerPhone),
				zap.Error(err),
			)
		}
	}

	s.metrics.RecordSale()
	s.log.Info("sale committed",
		zap.String("bill_number", sale.BillNumber),
		zap.Float64("total", sale.Total),
		zap.Int("items", len(sale.Items)),
	)
	return sale, nil
}

func (s *Service) Hold(ctx context.Context, req domain.HoldRequest) (domain.HeldBill, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.HeldBill{}, err
	}
	if len(req.Items) == 0 {
		return domain.HeldBill{}, domain.ErrEmptyCart
	}

	now := time.Now().UTC()
	items := make([]domain.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			return domain.HeldBill{}, domain.ErrInvalidItem
		}
		name := ""
		if productID, perr := snowflake.ParseString(strings.TrimSpace(item.ProductID)); perr == nil {
			var product invdomain.Product
			if ferr := s.db.WithContext(ctx).First(&product, "tenant_id = ? AND id = ?", tenantID, productID).Error; ferr == nil {
				name = product.Name
			}
		}
		items = append(items, domain.CartItem{
			ProductID: strings.TrimSpace(item.ProductID),
			Name:      name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: domain.Round2(item.UnitPrice * float64(item.Quantity)),
		})
	}

	held := domain.HeldBill{
		ID:            fmt.Sprintf("HOLD-%d", now.UnixMilli()),
		TenantID:      tenantID,
		Items:         items,
		DiscountPct:   req.DiscountPct,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		CreatedAt:     now,
	}
	if userID, ok := tenantctx.UserIDFromContext(ctx); ok {
		held.HeldBy = &userID
	}

	if err := s.repo.InsertHeld(ctx, s.db, &held); err != nil {
		return domain.HeldBill{}, err
	}
	return held, nil
}

func (s *Service) ListHeld(ctx context.Context) ([]domain.HeldBill, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListHeld(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}
	held := make([]domain.HeldBill, 0, len(items))
	for _, item := range items {
		held = append(held, *item)
	}
	return held, nil
}

func (s *Service) Resume(ctx context.Context, id string) (domain.HeldBill, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.HeldBill{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.HeldBill{}, domain.ErrInvalidID
	}

	var held domain.HeldBill
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.repo.FindHeld(ctx, tx, tenantID, id)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.ErrNotFound
		}
		deleted, err := s.repo.DeleteHeld(ctx, tx, tenantID, id)
		if err != nil {
			return err
		}
		if deleted == 0 {
			// Another terminal resumed it between the read and delete.
			return domain.ErrNotFound
		}
		held = *found
		return nil
	})
	if err != nil {
		return domain.HeldBill{}, err
	}
	return held, nil
}

func (s *Service) DiscardHeld(ctx context.Context, id string) error {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return err
	}
	deleted, err := s.repo.DeleteHeld(ctx, s.db, tenantID, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) ListSales(ctx context.Context, req domain.ListSalesRequest) ([]domain.Sale, pagination.PageInfo, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}
	items, err := s.repo.ListSales(ctx, s.db, tenantID, req)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	size := req.PageSize
	if size <= 0 {
		size = 50
	}
	pageInfo := pagination.BuildCursorPageInfo(items, size, func(sale *domain.Sale) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        sale.ID.String(),
			CreatedAt: sale.CreatedAt.Format(time.RFC3339Nano),
		})
		return token
	})
	if len(items) > size {
		items = items[:size]
	}

	sales := make([]domain.Sale, 0, len(items))
	for _, item := range items {
		sales = append(sales, *item)
	}
	return sales, *pageInfo, nil
}

func (s *Service) GetSale(ctx context.Context, id string) (domain.Sale, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Sale{}, err
	}
	saleID, err := s.parseID(id)
	if err != nil {
		return domain.Sale{}, err
	}
	sale, err := s.repo.FindSaleByID(ctx, s.db, tenantID, saleID)
	if err != nil {
		return domain.Sale{}, err
	}
	if sale == nil {
		return domain.Sale{}, domain.ErrNotFound
	}
	return *sale, nil
}

func (s *Service) GetSaleByShareToken(ctx context.Context, token string) (domain.Sale, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Sale{}, domain.ErrNotFound
	}
	sale, err := s.repo.FindSaleByShareToken(ctx, s.db, token)
	if err != nil {
		return domain.Sale{}, err
	}
	if sale == nil {
		return domain.Sale{}, domain.ErrNotFound
	}
	return *sale, nil
}

func (s *Service) Void(ctx context.Context, id string) (domain.Sale, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Sale{}, err
	}
	saleID, err := s.parseID(id)
	if err != nil {
		return domain.Sale{}, err
	}

	var voided domain.Sale
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale, err := s.repo.FindSaleByID(ctx, tx, tenantID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == domain.SaleVoided {
			return domain.ErrAlreadyVoided
		}

		// Put the sold quantities back. Products deleted since the sale
		// are skipped; there is nothing to restock.
		for _, item := range sale.Items {
			productID, perr := snowflake.ParseString(item.ProductID)
			if perr != nil {
				continue
			}
			res := tx.Model(&invdomain.Product{}).
				Where("tenant_id = ? AND id = ?", tenantID, productID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
		}

		sale.Status = domain.SaleVoided
		sale.UpdatedAt = time.Now().UTC()
		if err := s.repo.UpdateSale(ctx, tx, sale); err != nil {
			return err
		}
		voided = *sale
		return nil
	})
	if err != nil {
		return domain.Sale{}, err
	}

	s.metrics.RecordVoid()
	s.log.Info("sale voided", zap.String("bill_number", voided.BillNumber))
	return voided, nil
}

var exportHeader = csvcodec.Row{
	"bill_number", "date", "customer_name", "customer_phone", "items",
	"subtotal", "discount_pct", "discount_amount", "tax", "total",
	"payment_method", "status",
}

func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.repo.ListAllSales(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}

	rows := make([]csvcodec.Row, 0, len(sales))
	for _, sale := range sales {
		items := make([]csvcodec.BillItem, 0, len(sale.Items))
		for _, item := range sale.Items {
			items = append(items, csvcodec.BillItem{
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    item.UnitPrice,
				Total:    item.LineTotal,
			})
		}
		rows = append(rows, csvcodec.Row{
			sale.BillNumber,
			sale.CreatedAt.Format(time.RFC3339),
			sale.CustomerName,
			sale.CustomerPhone,
			csvcodec.FormatBillItems(items),
			strconv.FormatFloat(sale.Subtotal, 'f', 2, 64),
			strconv.FormatFloat(sale.DiscountPct, 'f', -1, 64),
			strconv.FormatFloat(sale.DiscountAmount, 'f', 2, 64),
			strconv.FormatFloat(sale.Tax, 'f', 2, 64),
			strconv.FormatFloat(sale.Total, 'f', 2, 64),
			sale.PaymentMethod,
			string(sale.Status),
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
			parsedItems, err := csvcodec.ParseBillItems(col.Get(row, "items"))
			if err != nil {
				report.Errors = append(report.Errors, csvcodec.RowError{Line: line, Err: err.Error()})
				continue
			}
			if len(parsedItems) == 0 {
				report.Errors = append(report.Errors, csvcodec.RowError{Line: line, Err: "no items"})
				continue
			}
			total, err := strconv.ParseFloat(col.Get(row, "total"), 64)
			if err != nil {
				report.Errors = append(report.Errors, csvcodec.RowError{Line: line, Err: "invalid total"})
				continue
			}

			items := make([]domain.CartItem, 0, len(parsedItems))
			subtotal := 0.0
			for _, item := range parsedItems {
				items = append(items, domain.CartItem{
					Name:      item.Name,
					UnitPrice: item.Price,
					Quantity:  item.Quantity,
					LineTotal: item.Total,
				})
				subtotal += item.Total
			}

			createdAt := time.Now().UTC()
			if raw := col.Get(row, "date"); raw != "" {
				if parsed, perr := time.Parse(time.RFC3339, raw); perr == nil {
					createdAt = parsed.UTC()
				}
			}
			discountPct, _ := strconv.ParseFloat(col.Get(row, "discount_pct"), 64)
			discountAmount, _ := strconv.ParseFloat(col.Get(row, "discount_amount"), 64)
			tax, _ := strconv.ParseFloat(col.Get(row, "tax"), 64)

			saleID := s.genID.Generate()
			billNo := col.Get(row, "bill_number")
			if billNo == "" {
				billNo = billNumber(saleID, createdAt)
			}
			status := domain.SaleStatus(col.Get(row, "status"))
			if status != domain.SaleVoided {
				status = domain.SaleCompleted
			}

			// Imported bills are history: stock is not touched and each
			// row gets a fresh idempotency key.
			sale := domain.Sale{
				ID:             saleID,
				TenantID:       tenantID,
				BillNumber:     billNo,
				IdempotencyKey: uuid.NewString(),
				ShareToken:     ulid.Make().String(),
				CustomerName:   col.Get(row, "customer_name"),
				CustomerPhone:  col.Get(row, "customer_phone"),
				Items:          items,
				Subtotal:       domain.Round2(subtotal),
				DiscountPct:    discountPct,
				DiscountAmount: discountAmount,
				Tax:            tax,
				Total:          total,
				PaymentMethod:  paymentMethod(col.Get(row, "payment_method")),
				Status:         status,
				CreatedAt:      createdAt,
				UpdatedAt:      createdAt,
			}
			if err := s.repo.InsertSale(ctx, tx, &sale); err != nil {
				return err
			}
			report.Created++
		}
		return nil
	})
	if err != nil {
		return domain.ImportReport{}, err
	}
	return report, nil
}

func (s *Service) Clear(ctx context.Context) (int64, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return 0, err
	}
	deleted, err := s.repo.DeleteAllSales(ctx, s.db, tenantID)
	if err != nil {
		return 0, err
	}
	s.log.Warn("sales cleared",
		zap.Int64("tenant_id", tenantID.Int64()),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

func billNumber(id snowflake.ID, at time.Time) string {
	base := strings.ToUpper(id.Base36())
	if len(base) > 6 {
		base = base[len(base)-6:]
	}
	return fmt.Sprintf("INV-%s-%s", at.Format("20060102"), base)
}

func paymentMethod(raw string) string {
	method := strings.ToLower(strings.TrimSpace(raw))
	switch method {
	case "cash", "card", "upi", "transfer", "qris":
		return method
	default:
		return "cash"
	}
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
