package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestrapos/vestra/internal/settings/domain"
	"github.com/vestrapos/vestra/internal/settings/repository"
	"github.com/vestrapos/vestra/pkg/tenantctx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newSettingsFixture(t *testing.T) (domain.Service, context.Context) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.TenantSettings{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	tenantID := node.Generate()

	now := time.Now().UTC()
	require.NoError(t, conn.Create(&domain.TenantSettings{
		TenantID:  tenantID,
		StoreName: "Test Store",
		Currency:  "IDR",
		CreatedAt: now,
		UpdatedAt: now,
	}).Error)

	svc := New(Params{
		DB:   conn,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
	return svc, tenantctx.WithTenantID(context.Background(), tenantID)
}

func TestVerifyDeleteGuardRefusesWhenUnset(t *testing.T) {
	svc, ctx := newSettingsFixture(t)

	// No default password exists; destructive operations stay locked
	// until the owner configures one.
	err := svc.VerifyDeleteGuard(ctx, "anything")
	assert.ErrorIs(t, err, domain.ErrGuardNotConfigured)

	err = svc.VerifyDeleteGuard(ctx, "")
	assert.ErrorIs(t, err, domain.ErrGuardNotConfigured)
}

func TestSetAndVerifyDeleteGuard(t *testing.T) {
	svc, ctx := newSettingsFixture(t)

	require.NoError(t, svc.SetDeleteGuard(ctx, "open-sesame"))

	assert.NoError(t, svc.VerifyDeleteGuard(ctx, "open-sesame"))
	assert.ErrorIs(t, svc.VerifyDeleteGuard(ctx, "wrong"), domain.ErrInvalidDeletePassword)
	assert.ErrorIs(t, svc.VerifyDeleteGuard(ctx, ""), domain.ErrInvalidDeletePassword)
}

func TestSetDeleteGuardRejectsShortPassword(t *testing.T) {
	svc, ctx := newSettingsFixture(t)

	assert.ErrorIs(t, svc.SetDeleteGuard(ctx, "abc"), domain.ErrInvalidPassword)
	assert.ErrorIs(t, svc.SetDeleteGuard(ctx, "   "), domain.ErrInvalidPassword)
}

func TestDeleteGuardHashNeverLeavesService(t *testing.T) {
	svc, ctx := newSettingsFixture(t)
	require.NoError(t, svc.SetDeleteGuard(ctx, "open-sesame"))

	settings, err := svc.Get(ctx)
	require.NoError(t, err)

	// Stored as a bcrypt hash, never the raw password.
	assert.NotEmpty(t, settings.DeleteGuardHash)
	assert.NotContains(t, settings.DeleteGuardHash, "open-sesame")
	assert.True(t, settings.GuardConfigured())
}

func TestUpdateSettingsValidatesTaxRate(t *testing.T) {
	svc, ctx := newSettingsFixture(t)

	bad := 120.0
	_, err := svc.Update(ctx, domain.UpdateSettingsRequest{TaxRate: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidTaxRate)

	negative := -1.0
	_, err = svc.Update(ctx, domain.UpdateSettingsRequest{TaxRate: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidTaxRate)

	ok := 11.0
	updated, err := svc.Update(ctx, domain.UpdateSettingsRequest{TaxRate: &ok})
	require.NoError(t, err)
	assert.Equal(t, 11.0, updated.TaxRate)
}

func TestUpdateSettingsRejectsBlankStoreName(t *testing.T) {
	svc, ctx := newSettingsFixture(t)

	blank := "   "
	_, err := svc.Update(ctx, domain.UpdateSettingsRequest{StoreName: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidStoreName)
}
