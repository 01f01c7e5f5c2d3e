package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	plandomain "github.com/vestrapos/vestra/internal/plan/domain"
	referraldomain "github.com/vestrapos/vestra/internal/referral/domain"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
	"github.com/vestrapos/vestra/internal/tenant/domain"
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
	ReferralSvc referraldomain.Service `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	referralSvc referraldomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("tenant.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		referralSvc: p.ReferralSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTenantRequest) (domain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Tenant{}, domain.ErrInvalidName
	}

	subdomain := slug.Make(strings.TrimSpace(req.Subdomain))
	if subdomain == "" {
		subdomain = slug.Make(name)
	}
	if subdomain == "" {
		return domain.Tenant{}, domain.ErrInvalidSubdomain
	}

	existing, err := s.repo.FindBySubdomain(ctx, s.db, subdomain)
	if err != nil {
		return domain.Tenant{}, err
	}
	if existing != nil {
		return domain.Tenant{}, domain.ErrSubdomainTaken
	}

	now := time.Now().UTC()
	tenant := domain.Tenant{
		ID:           s.genID.Generate(),
		Name:         name,
		Subdomain:    subdomain,
		Status:       domain.StatusPending,
		ContactName:  strings.TrimSpace(req.ContactName),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if raw := strings.TrimSpace(req.BusinessTypeID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.Tenant{}, domain.ErrInvalidID
		}
		tenant.BusinessTypeID = &id
	}

	var plan *plandomain.Plan
	if raw := strings.TrimSpace(req.PlanID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.Tenant{}, domain.ErrInvalidID
		}
		var found plandomain.Plan
		if err := s.db.WithContext(ctx).First(&found, "id = ?", id).Error; err != nil {
			return domain.Tenant{}, plandomain.ErrNotFound
		}
		plan = &found
		tenant.PlanID = &found.ID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &tenant); err != nil {
			return err
		}
		// Fresh tenants get an empty settings row so GET /api/settings
		// works before anything is configured.
		return tx.Create(&settingsdomain.TenantSettings{
			TenantID:  tenant.ID,
			StoreName: tenant.Name,
			Currency:  "IDR",
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
	})
	if err != nil {
		return domain.Tenant{}, err
	}

	if code := strings.TrimSpace(req.ReferralCode); code != "" && s.referralSvc != nil {
		tier := plandomain.TierBasic
		if plan != nil {
			tier = plan.Tier
		}
		if _, err := s.referralSvc.RecordSignup(ctx, code, tenant.ID, tenant.Name, string(tier)); err != nil {
			// Referral tracking is best effort; provisioning already happened.
			s.log.Warn("referral signup not recorded",
				zap.String("code", code),
				zap.String("tenant", tenant.ID.String()),
				zap.Error(err),
			)
		}
	}

	return tenant, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Tenant, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	tenants := make([]domain.Tenant, 0, len(items))
	for _, item := range items {
		tenants = append(tenants, *item)
	}
	return tenants, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Tenant, error) {
	tenantID, err := s.parseID(id)
	if err != nil {
		return domain.Tenant{}, err
	}
	tenant, err := s.repo.FindByID(ctx, s.db, tenantID)
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant == nil {
		return domain.Tenant{}, domain.ErrNotFound
	}
	return *tenant, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateTenantRequest) (domain.Tenant, error) {
	tenantID, err := s.parseID(req.ID)
	if err != nil {
		return domain.Tenant{}, err
	}
	tenant, err := s.repo.FindByID(ctx, s.db, tenantID)
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant == nil {
		return domain.Tenant{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Tenant{}, domain.ErrInvalidName
		}
		tenant.Name = name
	}
	if req.PlanID != nil {
		raw := strings.TrimSpace(*req.PlanID)
		if raw == "" {
			tenant.PlanID = nil
		} else {
			id, err := snowflake.ParseString(raw)
			if err != nil {
				return domain.Tenant{}, domain.ErrInvalidID
			}
			tenant.PlanID = &id
		}
	}
	if req.ContactName != nil {
		tenant.ContactName = strings.TrimSpace(*req.ContactName)
	}
	if req.ContactEmail != nil {
		tenant.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.ContactPhone != nil {
		tenant.ContactPhone = strings.TrimSpace(*req.ContactPhone)
	}
	tenant.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, tenant); err != nil {
		return domain.Tenant{}, err
	}
	return *tenant, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Tenant, error) {
	if !status.Valid() {
		return domain.Tenant{}, domain.ErrInvalidStatus
	}
	tenantID, err := s.parseID(id)
	if err != nil {
		return domain.Tenant{}, err
	}
	tenant, err := s.repo.FindByID(ctx, s.db, tenantID)
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant == nil {
		return domain.Tenant{}, domain.ErrNotFound
	}

	tenant.Status = status
	tenant.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, tenant); err != nil {
		return domain.Tenant{}, err
	}

	s.log.Info("tenant status changed",
		zap.String("tenant", tenant.ID.String()),
		zap.String("status", string(status)),
	)
	return *tenant, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, err := s.parseID(id)
	if err != nil {
		return err
	}
	tenant, err := s.repo.FindByID(ctx, s.db, tenantID)
	if err != nil {
		return err
	}
	if tenant == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, tenantID)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
