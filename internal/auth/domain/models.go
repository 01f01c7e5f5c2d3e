package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleOwner      Role = "owner"
	RoleManager    Role = "manager"
	RoleCashier    Role = "cashier"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleOwner, RoleManager, RoleCashier:
		return true
	}
	return false
}

// TenantScoped reports whether the role operates inside a single tenant.
// Super admins cross tenant boundaries and never carry a tenant id.
func (r Role) TenantScoped() bool { return r != RoleSuperAdmin }

type User struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID     *snowflake.ID `gorm:"index" json:"tenant_id,omitempty"`
	Username     string        `gorm:"not null" json:"username"`
	FullName     string        `json:"full_name"`
	PasswordHash string        `gorm:"not null" json:"-"`
	Role         Role          `gorm:"not null" json:"role"`
	Active       bool          `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}
