package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Product struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID      `gorm:"not null;uniqueIndex:ux_products_tenant_sku,priority:1;index" json:"tenant_id"`
	Name       string            `gorm:"not null" json:"name"`
	SKU        string            `gorm:"not null;uniqueIndex:ux_products_tenant_sku,priority:2" json:"sku"`
	Barcode    string            `gorm:"index" json:"barcode"`
	Category   string            `json:"category"`
	Price      float64           `gorm:"not null" json:"price"`
	Cost       float64           `gorm:"not null;default:0" json:"cost"`
	Stock      int               `gorm:"not null;default:0" json:"stock"`
	MinStock   int               `gorm:"not null;default:0" json:"min_stock"`
	Attributes datatypes.JSONMap `json:"attributes"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_products_cursor,priority:1" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// LowStock reports whether the product has fallen to or below its
// restock threshold.
func (p Product) LowStock() bool { return p.MinStock > 0 && p.Stock <= p.MinStock }
