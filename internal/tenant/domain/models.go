package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended:
		return true
	default:
		return false
	}
}

type Tenant struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name           string        `gorm:"not null" json:"name"`
	Subdomain      string        `gorm:"not null;uniqueIndex" json:"subdomain"`
	BusinessTypeID *snowflake.ID `gorm:"column:business_type_id" json:"business_type_id,omitempty"`
	PlanID         *snowflake.ID `gorm:"column:plan_id" json:"plan_id,omitempty"`
	Status         Status        `gorm:"not null;default:'pending'" json:"status"`
	ContactName    string        `gorm:"not null;default:''" json:"contact_name"`
	ContactEmail   string        `gorm:"not null;default:''" json:"contact_email"`
	ContactPhone   string        `gorm:"not null;default:''" json:"contact_phone"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Tenant) TableName() string { return "tenants" }
