package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/vestrapos/vestra/internal/plan/domain"
	"github.com/vestrapos/vestra/internal/referral/domain"
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
		log:   p.Log.Named("referral.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateReferralRequest) (domain.Referral, error) {
	name := strings.TrimSpace(req.ReferrerName)
	if name == "" {
		return domain.Referral{}, domain.ErrInvalidReferrer
	}

	tier := plandomain.Tier(strings.ToLower(strings.TrimSpace(req.PlanTier)))
	switch tier {
	case plandomain.TierBasic, plandomain.TierPro, plandomain.TierEnterprise:
	default:
		return domain.Referral{}, domain.ErrInvalidTier
	}

	reward := tier.RewardAmount()
	if req.RewardAmount != nil && *req.RewardAmount > 0 {
		reward = *req.RewardAmount
	}

	now := time.Now().UTC()
	referral := domain.Referral{
		ID:            s.genID.Generate(),
		ReferrerName:  name,
		ReferrerEmail: strings.TrimSpace(req.ReferrerEmail),
		ReferredName:  strings.TrimSpace(req.ReferredName),
		PlanTier:      string(tier),
		RewardAmount:  reward,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &referral); err != nil {
		return domain.Referral{}, err
	}
	return referral, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Referral, domain.Stats, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, domain.Stats{}, err
	}

	referrals := make([]domain.Referral, 0, len(items))
	var stats domain.Stats
	for _, item := range items {
		referrals = append(referrals, *item)
		stats.TotalReferrals++
		stats.TotalRewards += item.RewardAmount
		if item.Status == domain.StatusCompleted {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}
	// Zero referrals must yield 0, not NaN.
	if stats.TotalReferrals > 0 {
		stats.AvgReward = math.Round(stats.TotalRewards / float64(stats.TotalReferrals))
	}

	return referrals, stats, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Referral, error) {
	if !status.Valid() {
		return domain.Referral{}, domain.ErrInvalidStatus
	}

	referralID, err := s.parseID(id)
	if err != nil {
		return domain.Referral{}, err
	}
	referral, err := s.repo.FindByID(ctx, s.db, referralID)
	if err != nil {
		return domain.Referral{}, err
	}
	if referral == nil {
		return domain.Referral{}, domain.ErrNotFound
	}

	referral.Status = status
	referral.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, referral); err != nil {
		return domain.Referral{}, err
	}
	return *referral, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	referralID, err := s.parseID(id)
	if err != nil {
		return err
	}
	referral, err := s.repo.FindByID(ctx, s.db, referralID)
	if err != nil {
		return err
	}
	if referral == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, referralID)
}

func (s *Service) RecordSignup(ctx context.Context, code string, tenantID snowflake.ID, tenantName, planTier string) (domain.Referral, error) {
	owner, err := s.ValidateCode(ctx, code)
	if err != nil {
		return domain.Referral{}, err
	}

	tier := plandomain.Tier(strings.ToLower(strings.TrimSpace(planTier)))
	now := time.Now().UTC()
	referral := domain.Referral{
		ID:               s.genID.Generate(),
		ReferrerName:     owner.ReferrerName,
		ReferrerEmail:    owner.ReferrerEmail,
		ReferredTenantID: &tenantID,
		ReferredName:     tenantName,
		PlanTier:         string(tier),
		RewardAmount:     tier.RewardAmount(),
		Status:           domain.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, &referral); err != nil {
		return domain.Referral{}, err
	}
	return referral, nil
}

func (s *Service) ValidateCode(ctx context.Context, code string) (domain.ReferralCode, error) {
	if strings.TrimSpace(code) == "" {
		return domain.ReferralCode{}, domain.ErrInvalidCode
	}
	found, err := s.repo.FindCode(ctx, s.db, code)
	if err != nil {
		return domain.ReferralCode{}, err
	}
	if found == nil || !found.Active {
		return domain.ReferralCode{}, domain.ErrInvalidCode
	}
	return *found, nil
}

func (s *Service) CreateCode(ctx context.Context, referrerName, referrerEmail string, discountPct float64) (domain.ReferralCode, error) {
	name := strings.TrimSpace(referrerName)
	if name == "" {
		return domain.ReferralCode{}, domain.ErrInvalidReferrer
	}

	id := s.genID.Generate()
	code := domain.ReferralCode{
		ID:            id,
		Code:          fmt.Sprintf("REF-%s", strings.ToUpper(id.Base36())),
		ReferrerName:  name,
		ReferrerEmail: strings.TrimSpace(referrerEmail),
		DiscountPct:   discountPct,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.InsertCode(ctx, s.db, &code); err != nil {
		return domain.ReferralCode{}, err
	}
	return code, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
