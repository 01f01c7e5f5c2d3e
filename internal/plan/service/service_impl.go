package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vestrapos/vestra/internal/plan/domain"
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
		log:   p.Log.Named("plan.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePlanRequest) (domain.Plan, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Plan{}, domain.ErrInvalidName
	}

	tier := domain.Tier(strings.ToLower(strings.TrimSpace(req.Tier)))
	switch tier {
	case domain.TierBasic, domain.TierPro, domain.TierEnterprise:
	default:
		return domain.Plan{}, domain.ErrInvalidTier
	}

	interval := strings.TrimSpace(req.BillingInterval)
	if interval == "" {
		interval = "monthly"
	}

	now := time.Now().UTC()
	plan := domain.Plan{
		ID:              s.genID.Generate(),
		Name:            name,
		Tier:            tier,
		Price:           req.Price,
		BillingInterval: interval,
		AllowedFeatures: datatypes.NewJSONSlice(normalizeFeatures(req.AllowedFeatures)),
		MaxProducts:     req.MaxProducts,
		MaxUsers:        req.MaxUsers,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &plan); err != nil {
		return domain.Plan{}, err
	}
	return plan, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Plan, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	plans := make([]domain.Plan, 0, len(items))
	for _, item := range items {
		plans = append(plans, *item)
	}
	return plans, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	planID, err := s.parseID(id)
	if err != nil {
		return domain.Plan{}, err
	}

	plan, err := s.repo.FindByID(ctx, s.db, planID)
	if err != nil {
		return domain.Plan{}, err
	}
	if plan == nil {
		return domain.Plan{}, domain.ErrNotFound
	}
	return *plan, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePlanRequest) (domain.Plan, error) {
	planID, err := s.parseID(req.ID)
	if err != nil {
		return domain.Plan{}, err
	}

	plan, err := s.repo.FindByID(ctx, s.db, planID)
	if err != nil {
		return domain.Plan{}, err
	}
	if plan == nil {
		return domain.Plan{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Plan{}, domain.ErrInvalidName
		}
		plan.Name = name
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.BillingInterval != nil {
		plan.BillingInterval = strings.TrimSpace(*req.BillingInterval)
	}
	if req.AllowedFeatures != nil {
		plan.AllowedFeatures = datatypes.NewJSONSlice(normalizeFeatures(*req.AllowedFeatures))
	}
	if req.MaxProducts != nil {
		plan.MaxProducts = *req.MaxProducts
	}
	if req.MaxUsers != nil {
		plan.MaxUsers = *req.MaxUsers
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}
	plan.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, plan); err != nil {
		return domain.Plan{}, err
	}
	return *plan, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	planID, err := s.parseID(id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountTenants(ctx, s.db, planID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrPlanInUse
	}

	return s.repo.Delete(ctx, s.db, planID)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func normalizeFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}
