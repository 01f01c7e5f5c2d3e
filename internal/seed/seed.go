// Package seed builds the dev schema and inserts the built-in rows every
// install needs. Postgres deployments get the schema from the SQL
// migrations instead; only the data seeding runs everywhere.
package seed

import (
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/vestrapos/vestra/internal/auth/domain"
	btdomain "github.com/vestrapos/vestra/internal/businesstype/domain"
	btservice "github.com/vestrapos/vestra/internal/businesstype/service"
	commissiondomain "github.com/vestrapos/vestra/internal/commission/domain"
	customerdomain "github.com/vestrapos/vestra/internal/customer/domain"
	employeedomain "github.com/vestrapos/vestra/internal/employee/domain"
	invdomain "github.com/vestrapos/vestra/internal/inventory/domain"
	plandomain "github.com/vestrapos/vestra/internal/plan/domain"
	posdomain "github.com/vestrapos/vestra/internal/pos/domain"
	purchasedomain "github.com/vestrapos/vestra/internal/purchase/domain"
	referraldomain "github.com/vestrapos/vestra/internal/referral/domain"
	settingsdomain "github.com/vestrapos/vestra/internal/settings/domain"
	tenantdomain "github.com/vestrapos/vestra/internal/tenant/domain"
	"gorm.io/gorm"
)

// AutoMigrate registers every persisted model. mysql/sqlite only.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&plandomain.Plan{},
		&tenantdomain.Tenant{},
		&referraldomain.Referral{},
		&referraldomain.ReferralCode{},
		&btdomain.BusinessType{},
		&btdomain.TenantFields{},
		&btdomain.TenantFeatures{},
		&settingsdomain.TenantSettings{},
		&authdomain.User{},
		&invdomain.Product{},
		&customerdomain.Customer{},
		&employeedomain.Employee{},
		&posdomain.Sale{},
		&posdomain.HeldBill{},
		&commissiondomain.CommissionRecord{},
		&purchasedomain.Purchase{},
	)
}

// EnsureDefaultBusinessTypes inserts the built-in verticals that are
// missing. Safe to run on every start.
func EnsureDefaultBusinessTypes(conn *gorm.DB) error {
	node, err := snowflake.NewNode(0)
	if err != nil {
		return err
	}

	for _, def := range btservice.DefaultBusinessTypes() {
		var count int64
		if err := conn.Model(&btdomain.BusinessType{}).
			Where("code = ?", def.Code).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		now := time.Now().UTC()
		def.ID = node.Generate()
		def.CreatedAt = now
		def.UpdatedAt = now
		if err := conn.Create(&def).Error; err != nil {
			return err
		}
	}
	return nil
}
