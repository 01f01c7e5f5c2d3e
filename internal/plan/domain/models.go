package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Tier string

const (
	TierBasic      Tier = "basic"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// RewardAmount is the referral reward attached when a tenant signs up on
// this tier and no custom amount is given.
func (t Tier) RewardAmount() float64 {
	switch t {
	case TierBasic:
		return 199
	case TierPro:
		return 299
	case TierEnterprise:
		return 499
	default:
		return 0
	}
}

type Plan struct {
	ID              snowflake.ID        `gorm:"primaryKey" json:"id"`
	Name            string              `gorm:"not null" json:"name"`
	Tier            Tier                `gorm:"not null" json:"tier"`
	Price           float64             `gorm:"not null;default:0" json:"price"`
	BillingInterval string              `gorm:"not null;default:'monthly'" json:"billing_interval"`
	AllowedFeatures datatypes.JSONSlice[string] `gorm:"not null" json:"allowed_features"`
	MaxProducts     int                 `gorm:"not null;default:0" json:"max_products"`
	MaxUsers        int                 `gorm:"not null;default:0" json:"max_users"`
	Active          bool                `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Plan) TableName() string { return "plans" }

// HasFeature reports whether the plan bundles the feature flag.
func (p Plan) HasFeature(code string) bool {
	for _, f := range p.AllowedFeatures {
		if f == code {
			return true
		}
	}
	return false
}

// Usage is the current consumption against plan limits, served by
// /api/plan-limits.
type Usage struct {
	PlanID       snowflake.ID `json:"plan_id"`
	PlanName     string       `json:"plan_name"`
	MaxProducts  int          `json:"max_products"`
	ProductCount int64        `json:"product_count"`
	MaxUsers     int          `json:"max_users"`
	UserCount    int64        `json:"user_count"`
}
