package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	invdomain "github.com/vestrapos/vestra/internal/inventory/domain"
	posdomain "github.com/vestrapos/vestra/internal/pos/domain"
	"github.com/vestrapos/vestra/internal/purchase/domain"
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
		log:   p.Log.Named("purchase.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePurchaseRequest) (domain.Purchase, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Purchase{}, err
	}
	supplier := strings.TrimSpace(req.SupplierName)
	if supplier == "" {
		return domain.Purchase{}, domain.ErrInvalidSupplier
	}
	items, total, err := s.buildItems(ctx, tenantID, req.Items)
	if err != nil {
		return domain.Purchase{}, err
	}

	now := time.Now().UTC()
	purchase := domain.Purchase{
		ID:           s.genID.Generate(),
		TenantID:     tenantID,
		SupplierName: supplier,
		Reference:    strings.TrimSpace(req.Reference),
		Items:        items,
		Total:        total,
		Status:       domain.PurchasePending,
		Notes:        strings.TrimSpace(req.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, &purchase); err != nil {
		return domain.Purchase{}, err
	}
	return purchase, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPurchasesRequest) ([]domain.Purchase, pagination.PageInfo, error) {
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
	pageInfo := pagination.BuildCursorPageInfo(items, size, func(p *domain.Purchase) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        p.ID.String(),
			CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
		})
		return token
	})
	if len(items) > size {
		items = items[:size]
	}

	purchases := make([]domain.Purchase, 0, len(items))
	for _, item := range items {
		purchases = append(purchases, *item)
	}
	return purchases, *pageInfo, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Purchase, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Purchase{}, err
	}
	purchaseID, err := s.parseID(id)
	if err != nil {
		return domain.Purchase{}, err
	}
	purchase, err := s.repo.FindByID(ctx, s.db, tenantID, purchaseID)
	if err != nil {
		return domain.Purchase{}, err
	}
	if purchase == nil {
		return domain.Purchase{}, domain.ErrNotFound
	}
	return *purchase, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePurchaseRequest) (domain.Purchase, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return domain.Purchase{}, err
	}
	purchaseID, err := s.parseID(req.ID)
	if err != nil {
		return domain.Purchase{}, err
	}

	var updated domain.Purchase
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchase, err := s.repo.FindByID(ctx, tx, tenantID, purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.Status == domain.PurchaseCompleted {
			return domain.ErrAlreadyCompleted
		}

		if req.SupplierName != nil {
			supplier := strings.TrimSpace(*req.SupplierName)
			if supplier == "" {
				return domain.ErrInvalidSupplier
			}
			purchase.SupplierName = supplier
		}
		if req.Reference != nil {
			purchase.Reference = strings.TrimSpace(*req.Reference)
		}
		if req.Notes != nil {
			purchase.Notes = strings.TrimSpace(*req.Notes)
		}
		if req.Items != nil {
			items, total, err := s.buildItemsTx(ctx, tx, tenantID, *req.Items)
			if err != nil {
				return err
			}
			purchase.Items = items
			purchase.Total = total
		}

		now := time.Now().UTC()
		if req.Status != nil {
			status := domain.PurchaseStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
			if !status.Valid() {
				return domain.ErrInvalidStatus
			}
			if status == domain.PurchaseCompleted {
				// Only the pending -> completed edge receives stock; a
				// cancelled order must be re-entered, not revived.
				if purchase.Status != domain.PurchasePending {
					return domain.ErrInvalidStatus
				}
				// Receive the stock inside the same transaction so the
				// status flip and the increments land together, once.
				for _, item := range purchase.Items {
					productID, perr := snowflake.ParseString(item.ProductID)
					if perr != nil {
						return domain.ErrInvalidItem
					}
					res := tx.Model(&invdomain.Product{}).
						Where("tenant_id = ? AND id = ?", tenantID, productID).
						UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
					if res.Error != nil {
						return res.Error
					}
					if res.RowsAffected == 0 {
						return domain.ErrProductMissing
					}
				}
				purchase.CompletedAt = &now
			}
			purchase.Status = status
		}
		purchase.UpdatedAt = now

		if err := s.repo.Update(ctx, tx, purchase); err != nil {
			return err
		}
		updated = *purchase
		return nil
	})
	if err != nil {
		return domain.Purchase{}, err
	}

	if updated.Status == domain.PurchaseCompleted {
		s.log.Info("purchase received",
			zap.String("purchase_id", updated.ID.String()),
			zap.Int("items", len(updated.Items)),
		)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return err
	}
	purchaseID, err := s.parseID(id)
	if err != nil {
		return err
	}
	purchase, err := s.repo.FindByID(ctx, s.db, tenantID, purchaseID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return domain.ErrNotFound
	}
	if purchase.Status == domain.PurchaseCompleted {
		// Completed purchases already moved stock; deleting them would
		// orphan the increment.
		return domain.ErrAlreadyCompleted
	}
	return s.repo.Delete(ctx, s.db, tenantID, purchaseID)
}

func (s *Service) buildItems(ctx context.Context, tenantID snowflake.ID, reqs []domain.PurchaseItemRequest) ([]domain.PurchaseItem, float64, error) {
	return s.buildItemsTx(ctx, s.db, tenantID, reqs)
}

func (s *Service) buildItemsTx(ctx context.Context, tx *gorm.DB, tenantID snowflake.ID, reqs []domain.PurchaseItemRequest) ([]domain.PurchaseItem, float64, error) {
	if len(reqs) == 0 {
		return nil, 0, domain.ErrInvalidItem
	}

	items := make([]domain.PurchaseItem, 0, len(reqs))
	total := 0.0
	for _, req := range reqs {
		if req.Quantity <= 0 || req.UnitCost < 0 {
			return nil, 0, domain.ErrInvalidItem
		}
		productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
		if err != nil {
			return nil, 0, domain.ErrInvalidItem
		}

		var product invdomain.Product
		err = tx.WithContext(ctx).First(&product, "tenant_id = ? AND id = ?", tenantID, productID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrProductMissing
		}
		if err != nil {
			return nil, 0, err
		}

		lineTotal := posdomain.Round2(req.UnitCost * float64(req.Quantity))
		items = append(items, domain.PurchaseItem{
			ProductID: productID.String(),
			Name:      product.Name,
			UnitCost:  req.UnitCost,
			Quantity:  req.Quantity,
			LineTotal: lineTotal,
		})
		total += lineTotal
	}
	return items, posdomain.Round2(total), nil
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
