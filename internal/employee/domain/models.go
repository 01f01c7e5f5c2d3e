package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type CommissionType string

const (
	CommissionNone       CommissionType = "none"
	CommissionPercentage CommissionType = "percentage"
	CommissionFixed      CommissionType = "fixed"
)

func (t CommissionType) Valid() bool {
	switch t {
	case CommissionNone, CommissionPercentage, CommissionFixed:
		return true
	}
	return false
}

type Employee struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	TenantID       snowflake.ID   `gorm:"not null;index" json:"tenant_id"`
	Name           string         `gorm:"not null" json:"name"`
	Phone          string         `json:"phone"`
	Position       string         `json:"position"`
	CommissionType CommissionType `gorm:"not null;default:none" json:"commission_type"`
	// CommissionRate is a percentage for percentage type and a flat
	// amount per sale for fixed type.
	CommissionRate float64    `gorm:"not null;default:0" json:"commission_rate"`
	MonthlyTarget  float64    `gorm:"not null;default:0" json:"monthly_target"`
	BaseSalary     float64    `gorm:"not null;default:0" json:"base_salary"`
	Active         bool       `gorm:"not null;default:true" json:"active"`
	JoinedAt       *time.Time `json:"joined_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Employee) TableName() string { return "employees" }
