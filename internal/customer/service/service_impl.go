package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vestrapos/vestra/internal/customer/domain"
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

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Customer{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	phone := normalizePhone(req.Phone)
	if phone == "" {
		return domain.Customer{}, domain.ErrInvalidPhone
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Name:      name,
		Phone:     phone,
		Email:     strings.TrimSpace(req.Email),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrPhoneTaken
		}
		return domain.Customer{}, err
	}
	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomersRequest) ([]domain.Customer, pagination.PageInfo, error) {
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
	pageInfo := pagination.BuildCursorPageInfo(items, size, func(c *domain.Customer) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt.Format(time.RFC3339Nano),
		})
		return token
	})
	if len(items) > size {
		items = items[:size]
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		customers = append(customers, *item)
	}
	return customers, *pageInfo, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Customer{}, err
	}
	customerID, err := s.parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}
	customer, err := s.repo.FindByID(ctx, s.db, tenantID, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *customer, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Customer{}, err
	}
	customerID, err := s.parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}
	customer, err := s.repo.FindByID(ctx, s.db, tenantID, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Customer{}, domain.ErrInvalidName
		}
		customer.Name = name
	}
	if req.Phone != nil {
		phone := normalizePhone(*req.Phone)
		if phone == "" {
			return domain.Customer{}, domain.ErrInvalidPhone
		}
		customer.Phone = phone
	}
	if req.Email != nil {
		customer.Email = strings.TrimSpace(*req.Email)
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}
	customer.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, customer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrPhoneTaken
		}
		return domain.Customer{}, err
	}
	return *customer, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return err
	}
	customerID, err := s.parseID(id)
	if err != nil {
		return err
	}
	customer, err := s.repo.FindByID(ctx, s.db, tenantID, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, tenantID, customerID)
}

func (s *Service) RecordPurchase(ctx context.Context, name, phone string, amount float64) (domain.Customer, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Customer{}, err
	}
	normalized := normalizePhone(phone)
	if normalized == "" {
		return domain.Customer{}, domain.ErrInvalidPhone
	}

	now := time.Now().UTC()
	customer, err := s.repo.FindByPhone(ctx, s.db, tenantID, normalized)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		displayName := strings.TrimSpace(name)
		if displayName == "" {
			displayName = "Walk-in " + normalized
		}
		created := domain.Customer{
			ID:             s.genID.Generate(),
			TenantID:       tenantID,
			Name:           displayName,
			Phone:          normalized,
			TotalPurchases: amount,
			VisitCount:     1,
			LastPurchaseAt: &now,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.repo.Insert(ctx, s.db, &created); err != nil {
			return domain.Customer{}, err
		}
		return created, nil
	}

	if trimmed := strings.TrimSpace(name); trimmed != "" {
		customer.Name = trimmed
	}
	customer.TotalPurchases += amount
	customer.VisitCount++
	customer.LastPurchaseAt = &now
	customer.UpdatedAt = now
	if err := s.repo.Update(ctx, s.db, customer); err != nil {
		return domain.Customer{}, err
	}
	return *customer, nil
}

var exportHeader = csvcodec.Row{"name", "phone", "email", "address", "total_purchases", "visit_count"}

func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.ListAll(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}

	rows := make([]csvcodec.Row, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, csvcodec.Row{
			c.Name,
			c.Phone,
			c.Email,
			c.Address,
			strconv.FormatFloat(c.TotalPurchases, 'f', 2, 64),
			strconv.Itoa(c.VisitCount),
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
			phone := normalizePhone(col.Get(row, "phone"))
			if name == "" || phone == "" {
				report.Errors = append(report.Errors, csvcodec.RowError{Line: line, Err: "name and phone are required"})
				continue
			}

			now := time.Now().UTC()
			existing, err := s.repo.FindByPhone(ctx, tx, tenantID, phone)
			if err != nil {
				return err
			}
			if existing != nil {
				existing.Name = name
				existing.Email = col.Get(row, "email")
				existing.Address = col.Get(row, "address")
				existing.UpdatedAt = now
				if err := s.repo.Update(ctx, tx, existing); err != nil {
					return err
				}
				report.Updated++
				continue
			}

			customer := domain.Customer{
				ID:        s.genID.Generate(),
				TenantID:  tenantID,
				Name:      name,
				Phone:     phone,
				Email:     col.Get(row, "email"),
				Address:   col.Get(row, "address"),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.repo.Insert(ctx, tx, &customer); err != nil {
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
	deleted, err := s.repo.DeleteAll(ctx, s.db, tenantID)
	if err != nil {
		return 0, err
	}
	s.log.Warn("customers cleared",
		zap.Int64("tenant_id", tenantID.Int64()),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
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

// normalizePhone keeps digits and a leading plus so "+62 812-3456"
// and "628123456" compare equal.
func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, ch := range raw {
		if ch == '+' && i == 0 {
			b.WriteRune(ch)
			continue
		}
		if ch >= '0' && ch <= '9' {
			b.WriteRune(ch)
		}
	}
	return b.String()
}
