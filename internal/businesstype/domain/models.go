package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// CustomField describes one per-vertical product attribute rendered by
// the dashboard forms.
type CustomField struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Type    string   `json:"type"` // text | number | select
	Options []string `json:"options,omitempty"`
}

type BusinessType struct {
	ID           snowflake.ID                     `gorm:"primaryKey" json:"id"`
	Code         string                           `gorm:"not null;uniqueIndex" json:"code"`
	Name         string                           `gorm:"not null" json:"name"`
	CustomFields datatypes.JSONSlice[CustomField] `gorm:"not null" json:"custom_fields"`
	Dropdowns    datatypes.JSONMap                `gorm:"not null" json:"dropdowns"`
	CreatedAt    time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (BusinessType) TableName() string { return "business_types" }

// TenantFields is the tenant's active custom-field selection.
type TenantFields struct {
	TenantID  snowflake.ID                     `gorm:"primaryKey;column:tenant_id" json:"tenant_id"`
	Fields    datatypes.JSONSlice[CustomField] `gorm:"not null" json:"fields"`
	UpdatedAt time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TenantFields) TableName() string { return "tenant_fields" }

// TenantFeatures is the tenant's per-tenant feature override list,
// merged over the plan's allowed_features by the plan gate.
type TenantFeatures struct {
	TenantID  snowflake.ID                `gorm:"primaryKey;column:tenant_id" json:"tenant_id"`
	Features  datatypes.JSONSlice[string] `gorm:"not null" json:"features"`
	UpdatedAt time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TenantFeatures) TableName() string { return "tenant_features" }
