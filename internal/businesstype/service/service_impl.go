package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vestrapos/vestra/internal/businesstype/domain"
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
		log:   p.Log.Named("businesstype.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBusinessTypeRequest) (domain.BusinessType, error) {
	code := strings.ToLower(strings.TrimSpace(req.Code))
	if code == "" {
		return domain.BusinessType{}, domain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.BusinessType{}, domain.ErrInvalidName
	}

	existing, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return domain.BusinessType{}, err
	}
	if existing != nil {
		return domain.BusinessType{}, domain.ErrCodeTaken
	}

	now := time.Now().UTC()
	businessType := domain.BusinessType{
		ID:           s.genID.Generate(),
		Code:         code,
		Name:         name,
		CustomFields: datatypes.NewJSONSlice(req.CustomFields),
		Dropdowns:    dropdownMap(req.Dropdowns),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, &businessType); err != nil {
		return domain.BusinessType{}, err
	}
	return businessType, nil
}

func (s *Service) List(ctx context.Context) ([]domain.BusinessType, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	businessTypes := make([]domain.BusinessType, 0, len(items))
	for _, item := range items {
		businessTypes = append(businessTypes, *item)
	}
	return businessTypes, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.BusinessType, error) {
	businessTypeID, err := s.parseID(id)
	if err != nil {
		return domain.BusinessType{}, err
	}
	businessType, err := s.repo.FindByID(ctx, s.db, businessTypeID)
	if err != nil {
		return domain.BusinessType{}, err
	}
	if businessType == nil {
		return domain.BusinessType{}, domain.ErrNotFound
	}
	return *businessType, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateBusinessTypeRequest) (domain.BusinessType, error) {
	businessTypeID, err := s.parseID(req.ID)
	if err != nil {
		return domain.BusinessType{}, err
	}
	businessType, err := s.repo.FindByID(ctx, s.db, businessTypeID)
	if err != nil {
		return domain.BusinessType{}, err
	}
	if businessType == nil {
		return domain.BusinessType{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.BusinessType{}, domain.ErrInvalidName
		}
		businessType.Name = name
	}
	if req.CustomFields != nil {
		businessType.CustomFields = datatypes.NewJSONSlice(*req.CustomFields)
	}
	if req.Dropdowns != nil {
		businessType.Dropdowns = dropdownMap(*req.Dropdowns)
	}
	businessType.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, businessType); err != nil {
		return domain.BusinessType{}, err
	}
	return *businessType, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	businessTypeID, err := s.parseID(id)
	if err != nil {
		return err
	}
	businessType, err := s.repo.FindByID(ctx, s.db, businessTypeID)
	if err != nil {
		return err
	}
	if businessType == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, businessTypeID)
}

func (s *Service) InitDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, def := range DefaultBusinessTypes() {
		existing, err := s.repo.FindByCode(ctx, s.db, def.Code)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		now := time.Now().UTC()
		def.ID = s.genID.Generate()
		def.CreatedAt = now
		def.UpdatedAt = now
		if err := s.repo.Insert(ctx, s.db, &def); err != nil {
			return created, err
		}
		created++
	}
	if created > 0 {
		s.log.Info("seeded default business types", zap.Int("created", created))
	}
	return created, nil
}

func (s *Service) GetTenantFields(ctx context.Context) ([]domain.CustomField, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return nil, err
	}
	fields, err := s.repo.FindTenantFields(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return []domain.CustomField{}, nil
	}
	return fields.Fields, nil
}

func (s *Service) SetTenantFields(ctx context.Context, customFields []domain.CustomField) error {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return err
	}
	return s.repo.SaveTenantFields(ctx, s.db, &domain.TenantFields{
		TenantID:  tenantID,
		Fields:    datatypes.NewJSONSlice(customFields),
		UpdatedAt: time.Now().UTC(),
	})
}

func (s *Service) GetTenantFeatures(ctx context.Context) ([]string, error) {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return nil, err
	}
	features, err := s.repo.FindTenantFeatures(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}
	if features == nil {
		return []string{}, nil
	}
	return features.Features, nil
}

func (s *Service) SetTenantFeatures(ctx context.Context, features []string) error {
	tenantID, err := s.tenantID(ctx)
	if err != nil {
		return err
	}
	normalized := make([]string, 0, len(features))
	for _, feature := range features {
		feature = strings.ToLower(strings.TrimSpace(feature))
		if feature != "" {
			normalized = append(normalized, feature)
		}
	}
	return s.repo.SaveTenantFeatures(ctx, s.db, &domain.TenantFeatures{
		TenantID:  tenantID,
		Features:  datatypes.NewJSONSlice(normalized),
		UpdatedAt: time.Now().UTC(),
	})
}

func (s *Service) DropdownData(ctx context.Context) (map[string][]string, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	merged := make(map[string][]string)
	for _, item := range items {
		for key, raw := range item.Dropdowns {
			values, ok := raw.([]any)
			if !ok {
				continue
			}
			seen := make(map[string]bool, len(merged[key]))
			for _, existing := range merged[key] {
				seen[existing] = true
			}
			for _, value := range values {
				text, ok := value.(string)
				if !ok || seen[text] {
					continue
				}
				merged[key] = append(merged[key], text)
				seen[text] = true
			}
		}
	}
	return merged, nil
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

func dropdownMap(values map[string][]string) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for key, list := range values {
		items := make([]any, 0, len(list))
		for _, item := range list {
			items = append(items, item)
		}
		out[key] = items
	}
	return out
}
