package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TenantSettings holds the per-tenant store profile used on receipts and
// the POS screen. One row per tenant, created at provisioning time.
type TenantSettings struct {
	TenantID        snowflake.ID `gorm:"primaryKey;column:tenant_id" json:"tenant_id"`
	StoreName       string       `gorm:"not null" json:"store_name"`
	Address         string       `json:"address"`
	Phone           string       `json:"phone"`
	TaxRate         float64      `gorm:"not null;default:0" json:"tax_rate"`
	Currency        string       `gorm:"not null;default:IDR" json:"currency"`
	ReceiptFooter   string       `json:"receipt_footer"`
	LogoURL         string       `json:"logo_url"`
	DeleteGuardHash string       `gorm:"column:delete_guard_hash" json:"-"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TenantSettings) TableName() string { return "tenant_settings" }

// GuardConfigured reports whether destructive operations can be unlocked
// for this tenant at all.
func (s TenantSettings) GuardConfigured() bool { return s.DeleteGuardHash != "" }
