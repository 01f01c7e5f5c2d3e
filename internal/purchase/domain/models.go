package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchasePending, PurchaseCompleted, PurchaseCancelled:
		return true
	}
	return false
}

type PurchaseItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitCost  float64 `json:"unit_cost"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// Purchase is a supplier order. Completing a pending purchase increments
// product stock exactly once; completion is a terminal state.
type Purchase struct {
	ID           snowflake.ID                      `gorm:"primaryKey" json:"id"`
	TenantID     snowflake.ID                      `gorm:"not null;index" json:"tenant_id"`
	SupplierName string                            `gorm:"not null" json:"supplier_name"`
	Reference    string                            `json:"reference"`
	Items        datatypes.JSONSlice[PurchaseItem] `gorm:"not null" json:"items"`
	Total        float64                           `gorm:"not null;default:0" json:"total"`
	Status       PurchaseStatus                    `gorm:"not null;default:pending" json:"status"`
	Notes        string                            `json:"notes"`
	CompletedAt  *time.Time                        `json:"completed_at,omitempty"`
	CreatedAt    time.Time                         `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_purchases_cursor,priority:1" json:"created_at"`
	UpdatedAt    time.Time                         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Purchase) TableName() string { return "purchases" }
