package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateReferralRequest struct {
	ReferrerName  string   `json:"referrer_name"`
	ReferrerEmail string   `json:"referrer_email"`
	ReferredName  string   `json:"referred_name"`
	PlanTier      string   `json:"plan_tier"`
	RewardAmount  *float64 `json:"reward_amount,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateReferralRequest) (Referral, error)
	List(ctx context.Context) ([]Referral, Stats, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Referral, error)
	Delete(ctx context.Context, id string) error

	// RecordSignup attaches a referred tenant to the owner of the code,
	// using the tier default reward. Called from tenant provisioning.
	RecordSignup(ctx context.Context, code string, tenantID snowflake.ID, tenantName, planTier string) (Referral, error)
	ValidateCode(ctx context.Context, code string) (ReferralCode, error)
	CreateCode(ctx context.Context, referrerName, referrerEmail string, discountPct float64) (ReferralCode, error)
}

var (
	ErrInvalidReferrer = errors.New("invalid_referrer")
	ErrInvalidTier     = errors.New("invalid_plan_tier")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCode     = errors.New("invalid_referral_code")
	ErrNotFound        = errors.New("not_found")
)
