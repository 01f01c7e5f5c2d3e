package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestrapos/vestra/internal/referral/domain"
	"github.com/vestrapos/vestra/internal/referral/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newReferralFixture(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&domain.Referral{},
		&domain.ReferralCode{},
	))

	node, err := snowflake.NewNode(6)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, node
}

func TestCreateReferralUsesTierDefaultReward(t *testing.T) {
	svc, _ := newReferralFixture(t)
	ctx := context.Background()

	cases := []struct {
		tier   string
		reward float64
	}{
		{"basic", 199},
		{"pro", 299},
		{"enterprise", 499},
	}
	for _, tc := range cases {
		referral, err := svc.Create(ctx, domain.CreateReferralRequest{
			ReferrerName: "Ana",
			PlanTier:     tc.tier,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.reward, referral.RewardAmount, tc.tier)
		assert.Equal(t, domain.StatusPending, referral.Status)
	}
}

func TestCreateReferralCustomRewardOverridesDefault(t *testing.T) {
	svc, _ := newReferralFixture(t)

	custom := 1000.0
	referral, err := svc.Create(context.Background(), domain.CreateReferralRequest{
		ReferrerName: "Ana",
		PlanTier:     "Pro",
		RewardAmount: &custom,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, referral.RewardAmount)
	assert.Equal(t, "pro", referral.PlanTier)
}

func TestCreateReferralValidation(t *testing.T) {
	svc, _ := newReferralFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateReferralRequest{ReferrerName: "  ", PlanTier: "basic"})
	assert.ErrorIs(t, err, domain.ErrInvalidReferrer)

	_, err = svc.Create(ctx, domain.CreateReferralRequest{ReferrerName: "Ana", PlanTier: "platinum"})
	assert.ErrorIs(t, err, domain.ErrInvalidTier)
}

func TestListStats(t *testing.T) {
	svc, _ := newReferralFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateReferralRequest{ReferrerName: "Ana", PlanTier: "basic"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateReferralRequest{ReferrerName: "Budi", PlanTier: "pro"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, first.ID.String(), domain.StatusCompleted)
	require.NoError(t, err)

	referrals, stats, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, referrals, 2)
	assert.EqualValues(t, 2, stats.TotalReferrals)
	assert.EqualValues(t, 1, stats.Completed)
	assert.EqualValues(t, 1, stats.Pending)
	assert.Equal(t, 498.0, stats.TotalRewards)
	assert.Equal(t, 249.0, stats.AvgReward)
}

func TestListStatsEmptyHasNoNaN(t *testing.T) {
	svc, _ := newReferralFixture(t)

	referrals, stats, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, referrals)
	assert.Zero(t, stats.AvgReward)
	assert.Zero(t, stats.TotalRewards)
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, node := newReferralFixture(t)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, node.Generate().String(), "shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, node.Generate().String(), domain.StatusCompleted)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UpdateStatus(ctx, "not-a-number", domain.StatusCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestReferralCodeLifecycle(t *testing.T) {
	svc, node := newReferralFixture(t)
	ctx := context.Background()

	code, err := svc.CreateCode(ctx, "Ana", "ana@example.com", 10)
	require.NoError(t, err)
	assert.True(t, code.Active)
	assert.Contains(t, code.Code, "REF-")

	found, err := svc.ValidateCode(ctx, code.Code)
	require.NoError(t, err)
	assert.Equal(t, "Ana", found.ReferrerName)

	_, err = svc.ValidateCode(ctx, "REF-NOPE")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
	_, err = svc.ValidateCode(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	// A signup through the code records a referral credited to the code
	// owner at the signed-up tier's reward.
	tenantID := node.Generate()
	referral, err := svc.RecordSignup(ctx, code.Code, tenantID, "New Shop", "pro")
	require.NoError(t, err)
	assert.Equal(t, "Ana", referral.ReferrerName)
	assert.Equal(t, 299.0, referral.RewardAmount)
	require.NotNil(t, referral.ReferredTenantID)
	assert.Equal(t, tenantID, *referral.ReferredTenantID)
}

func TestDeleteReferral(t *testing.T) {
	svc, node := newReferralFixture(t)
	ctx := context.Background()

	referral, err := svc.Create(ctx, domain.CreateReferralRequest{ReferrerName: "Ana", PlanTier: "basic"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, referral.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, referral.ID.String()), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, node.Generate().String()), domain.ErrNotFound)
}
