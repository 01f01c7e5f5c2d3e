package service

import (
	"context"
	"strings"
	"time"

	"github.com/vestrapos/vestra/internal/settings/domain"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("settings.service"),
		repo: p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.TenantSettings, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return domain.TenantSettings{}, err
	}
	return *settings, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSettingsRequest) (domain.TenantSettings, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return domain.TenantSettings{}, err
	}

	if req.StoreName != nil {
		name := strings.TrimSpace(*req.StoreName)
		if name == "" {
			return domain.TenantSettings{}, domain.ErrInvalidStoreName
		}
		settings.StoreName = name
	}
	if req.Address != nil {
		settings.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		settings.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.TaxRate != nil {
		if *req.TaxRate < 0 || *req.TaxRate > 100 {
			return domain.TenantSettings{}, domain.ErrInvalidTaxRate
		}
		settings.TaxRate = *req.TaxRate
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency != "" {
			settings.Currency = currency
		}
	}
	if req.ReceiptFooter != nil {
		settings.ReceiptFooter = strings.TrimSpace(*req.ReceiptFooter)
	}
	if req.LogoURL != nil {
		settings.LogoURL = strings.TrimSpace(*req.LogoURL)
	}
	settings.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, settings); err != nil {
		return domain.TenantSettings{}, err
	}
	return *settings, nil
}

func (s *Service) SetDeleteGuard(ctx context.Context, password string) error {
	password = strings.TrimSpace(password)
	if len(password) < 4 {
		return domain.ErrInvalidPassword
	}

	settings, err := s.load(ctx)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	settings.DeleteGuardHash = string(hash)
	settings.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, settings); err != nil {
		return err
	}
	s.log.Info("delete guard updated", zap.Int64("tenant_id", settings.TenantID.Int64()))
	return nil
}

func (s *Service) VerifyDeleteGuard(ctx context.Context, password string) error {
	settings, err := s.load(ctx)
	if err != nil {
		return err
	}
	if !settings.GuardConfigured() {
		return domain.ErrGuardNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword([]byte(settings.DeleteGuardHash), []byte(password)); err != nil {
		return domain.ErrInvalidDeletePassword
	}
	return nil
}

func (s *Service) load(ctx context.Context) (*domain.TenantSettings, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	settings, err := s.repo.FindByTenant(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrNotFound
	}
	return settings, nil
}
