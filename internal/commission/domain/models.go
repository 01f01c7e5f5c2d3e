package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CommissionRecord is one employee's commission for one month,
// materialized by the calculation endpoint so reports and exports read
// stable rows instead of re-aggregating.
type CommissionRecord struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID          snowflake.ID `gorm:"not null;uniqueIndex:ux_commissions_tenant_employee_month,priority:1;index" json:"tenant_id"`
	EmployeeID        snowflake.ID `gorm:"not null;uniqueIndex:ux_commissions_tenant_employee_month,priority:2" json:"employee_id"`
	EmployeeName      string       `gorm:"not null" json:"employee_name"`
	Month             string       `gorm:"not null;uniqueIndex:ux_commissions_tenant_employee_month,priority:3" json:"month"` // YYYY-MM
	CommissionType    string       `gorm:"not null" json:"commission_type"`
	CommissionRate    float64      `gorm:"not null" json:"commission_rate"`
	TotalSales        float64      `gorm:"not null;default:0" json:"total_sales"`
	SalesCount        int          `gorm:"not null;default:0" json:"sales_count"`
	MonthlyTarget     float64      `gorm:"not null;default:0" json:"monthly_target"`
	TargetAchievedPct float64      `gorm:"not null;default:0" json:"target_achieved_pct"`
	CommissionEarned  float64      `gorm:"not null;default:0" json:"commission_earned"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CommissionRecord) TableName() string { return "commission_records" }

// Stats is the report header summarizing the displayed rows.
type Stats struct {
	TotalCommissions float64 `json:"total_commissions"`
	TotalSales       float64 `json:"total_sales"`
	AvgCommission    float64 `json:"avg_commission"`
	EmployeeCount    int     `json:"employee_count"`
}
