package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Customer struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID       snowflake.ID `gorm:"not null;uniqueIndex:ux_customers_tenant_phone,priority:1;index" json:"tenant_id"`
	Name           string       `gorm:"not null" json:"name"`
	Phone          string       `gorm:"not null;uniqueIndex:ux_customers_tenant_phone,priority:2" json:"phone"`
	Email          string       `json:"email"`
	Address        string       `json:"address"`
	TotalPurchases float64      `gorm:"not null;default:0" json:"total_purchases"`
	VisitCount     int          `gorm:"not null;default:0" json:"visit_count"`
	LastPurchaseAt *time.Time   `json:"last_purchase_at,omitempty"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
