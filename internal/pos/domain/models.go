package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SaleVoided    SaleStatus = "voided"
)

// Sale is the immutable record written at checkout. Corrections are
// voids (guard-gated) followed by re-entry, never in-place edits.
type Sale struct {
	ID             snowflake.ID                  `gorm:"primaryKey" json:"id"`
	TenantID       snowflake.ID                  `gorm:"not null;uniqueIndex:ux_sales_tenant_idempotency,priority:1;index" json:"tenant_id"`
	BillNumber     string                        `gorm:"not null;index" json:"bill_number"`
	IdempotencyKey string                        `gorm:"not null;uniqueIndex:ux_sales_tenant_idempotency,priority:2" json:"idempotency_key"`
	ShareToken     string                        `gorm:"not null;uniqueIndex" json:"share_token"`
	CustomerName   string                        `json:"customer_name"`
	CustomerPhone  string                        `json:"customer_phone"`
	EmployeeID     *snowflake.ID                 `gorm:"index" json:"employee_id,omitempty"`
	Items          datatypes.JSONSlice[CartItem] `gorm:"not null" json:"items"`
	Subtotal       float64                       `gorm:"not null" json:"subtotal"`
	DiscountPct    float64                       `gorm:"not null;default:0" json:"discount_pct"`
	DiscountAmount float64                       `gorm:"not null;default:0" json:"discount_amount"`
	TaxRatePct     float64                       `gorm:"not null;default:0" json:"tax_rate_pct"`
	Tax            float64                       `gorm:"not null;default:0" json:"tax"`
	Total          float64                       `gorm:"not null" json:"total"`
	PaymentMethod  string                        `gorm:"not null;default:cash" json:"payment_method"`
	Status         SaleStatus                    `gorm:"not null;default:completed" json:"status"`
	CreatedAt      time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_sales_cursor,priority:1" json:"created_at"`
	UpdatedAt      time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Sale) TableName() string { return "sales" }

// HeldBill is a server-persisted cart snapshot so suspended sales
// survive reloads and crashes. The id keeps the HOLD-<epoch-ms> shape
// the POS screen shows on the held list.
type HeldBill struct {
	ID            string                        `gorm:"primaryKey" json:"id"`
	TenantID      snowflake.ID                  `gorm:"primaryKey;autoIncrement:false" json:"tenant_id"`
	Items         datatypes.JSONSlice[CartItem] `gorm:"not null" json:"items"`
	DiscountPct   float64                       `gorm:"not null;default:0" json:"discount_pct"`
	CustomerName  string                        `json:"customer_name"`
	CustomerPhone string                        `json:"customer_phone"`
	HeldBy        *snowflake.ID                 `json:"held_by,omitempty"`
	CreatedAt     time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (HeldBill) TableName() string { return "held_bills" }
