package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Referral tracks one referred signup. The reward amount is fixed at
// creation time (tier default or operator-entered) and never recomputed.
type Referral struct {
	ID               snowflake.ID  `gorm:"primaryKey" json:"id"`
	ReferrerName     string        `gorm:"not null" json:"referrer_name"`
	ReferrerEmail    string        `gorm:"not null" json:"referrer_email"`
	ReferredTenantID *snowflake.ID `gorm:"column:referred_tenant_id" json:"referred_tenant_id,omitempty"`
	ReferredName     string        `gorm:"not null;default:''" json:"referred_name"`
	PlanTier         string        `gorm:"not null" json:"plan_tier"`
	RewardAmount     float64       `gorm:"not null" json:"reward_amount"`
	Status           Status        `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Referral) TableName() string { return "referrals" }

type ReferralCode struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Code          string       `gorm:"not null;uniqueIndex" json:"code"`
	ReferrerName  string       `gorm:"not null" json:"referrer_name"`
	ReferrerEmail string       `gorm:"not null" json:"referrer_email"`
	DiscountPct   float64      `gorm:"not null;default:0" json:"discount_pct"`
	Active        bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ReferralCode) TableName() string { return "referral_codes" }

// Stats is the header summary on the referral dashboard.
type Stats struct {
	TotalReferrals int64   `json:"total_referrals"`
	Completed      int64   `json:"completed"`
	Pending        int64   `json:"pending"`
	TotalRewards   float64 `json:"total_rewards"`
	AvgReward      float64 `json:"avg_reward"`
}
