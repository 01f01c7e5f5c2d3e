// Package gate is the single capability check keyed by the tenant's
// plan. Every handler that gates on a feature flag or numeric limit
// goes through here instead of re-deriving allowed_features membership.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/vestrapos/vestra/internal/plan/domain"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNoActivePlan      = errors.New("no_active_plan")
	ErrFeatureNotAllowed = errors.New("feature_not_allowed")
)

// LimitExceededError is returned when a plan's numeric limit blocks an
// action. The server maps it to the structured 403 upgrade-prompt body.
type LimitExceededError struct {
	Code  string
	Limit int
	Plan  string
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s: limit %d on plan %s", e.Code, e.Limit, e.Plan)
}

// AsLimitExceeded unwraps a LimitExceededError, if any.
func AsLimitExceeded(err error) *LimitExceededError {
	var le *LimitExceededError
	if errors.As(err, &le) {
		return le
	}
	return nil
}

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Gate struct {
	db  *gorm.DB
	log *zap.Logger
}

// Module wires the plan gate.
var Module = fx.Module("plan.gate",
	fx.Provide(New),
)

func New(p Params) *Gate {
	return &Gate{
		db:  p.DB,
		log: p.Log.Named("plan.gate"),
	}
}

// Resolve loads the active plan for the tenant in context.
func (g *Gate) Resolve(ctx context.Context) (plandomain.Plan, error) {
	return g.resolve(ctx, g.db)
}

func (g *Gate) resolve(ctx context.Context, db *gorm.DB) (plandomain.Plan, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok || tenantID == 0 {
		return plandomain.Plan{}, ErrNoActivePlan
	}

	var row struct {
		PlanID snowflake.ID
	}
	err := db.WithContext(ctx).
		Table("tenants").
		Select("plan_id").
		Where("id = ?", tenantID).
		Scan(&row).Error
	if err != nil {
		return plandomain.Plan{}, err
	}
	if row.PlanID == 0 {
		return plandomain.Plan{}, ErrNoActivePlan
	}

	var plan plandomain.Plan
	err = db.WithContext(ctx).First(&plan, "id = ?", row.PlanID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return plandomain.Plan{}, ErrNoActivePlan
	}
	if err != nil {
		return plandomain.Plan{}, err
	}
	return plan, nil
}

// Allow checks a feature flag against the plan's allowed_features merged
// with the tenant's per-tenant overrides.
func (g *Gate) Allow(ctx context.Context, feature string) error {
	feature = strings.TrimSpace(feature)
	plan, err := g.Resolve(ctx)
	if err != nil {
		return err
	}
	if plan.HasFeature(feature) {
		return nil
	}

	tenantID, _ := tenantctx.TenantIDFromContext(ctx)
	var override struct {
		Features datatypes.JSONSlice[string]
	}
	err = g.db.WithContext(ctx).
		Table("tenant_features").
		Select("features").
		Where("tenant_id = ?", tenantID).
		Scan(&override).Error
	if err != nil {
		return err
	}
	for _, f := range override.Features {
		if f == feature {
			return nil
		}
	}
	return ErrFeatureNotAllowed
}

// CheckProductLimit blocks product creation past the plan's max_products.
// A zero limit means unlimited.
func (g *Gate) CheckProductLimit(ctx context.Context) error {
	return g.CheckProductLimitTx(ctx, g.db)
}

// CheckProductLimitTx runs the product-limit check through tx so that
// rows inserted earlier in the same open transaction count against the
// limit. Batch flows (CSV import) must use this form; the pooled gate
// handle cannot see their uncommitted inserts.
func (g *Gate) CheckProductLimitTx(ctx context.Context, tx *gorm.DB) error {
	plan, err := g.resolve(ctx, tx)
	if err != nil {
		return err
	}
	if plan.MaxProducts <= 0 {
		return nil
	}

	tenantID, _ := tenantctx.TenantIDFromContext(ctx)
	var count int64
	err = tx.WithContext(ctx).
		Table("products").
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count >= int64(plan.MaxProducts) {
		return &LimitExceededError{Code: "product_limit_exceeded", Limit: plan.MaxProducts, Plan: plan.Name}
	}
	return nil
}

// CheckUserLimit blocks user creation past the plan's max_users.
func (g *Gate) CheckUserLimit(ctx context.Context) error {
	plan, err := g.Resolve(ctx)
	if err != nil {
		return err
	}
	if plan.MaxUsers <= 0 {
		return nil
	}

	tenantID, _ := tenantctx.TenantIDFromContext(ctx)
	var count int64
	err = g.db.WithContext(ctx).
		Table("users").
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count >= int64(plan.MaxUsers) {
		return &LimitExceededError{Code: "user_limit_exceeded", Limit: plan.MaxUsers, Plan: plan.Name}
	}
	return nil
}

// Usage reports current consumption against the plan's limits.
func (g *Gate) Usage(ctx context.Context) (plandomain.Usage, error) {
	plan, err := g.Resolve(ctx)
	if err != nil {
		return plandomain.Usage{}, err
	}

	tenantID, _ := tenantctx.TenantIDFromContext(ctx)
	usage := plandomain.Usage{
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		MaxProducts: plan.MaxProducts,
		MaxUsers:    plan.MaxUsers,
	}

	if err := g.db.WithContext(ctx).Table("products").Where("tenant_id = ?", tenantID).Count(&usage.ProductCount).Error; err != nil {
		return plandomain.Usage{}, err
	}
	if err := g.db.WithContext(ctx).Table("users").Where("tenant_id = ?", tenantID).Count(&usage.UserCount).Error; err != nil {
		return plandomain.Usage{}, err
	}
	return usage, nil
}
