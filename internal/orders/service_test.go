package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokocargo/sokocargo/internal/pricing"
	"github.com/sokocargo/sokocargo/internal/tracking"
)

func newTestService(t *testing.T, policy Policy) (*Service, Repository) {
	t.Helper()
	engine, err := pricing.NewEngine(pricing.DefaultFees)
	require.NoError(t, err)
	repo := NewMemoryRepository()
	return NewService(repo, NewMemoryAuditLog(), engine, tracking.Canonical(), policy), repo
}

func TestCreateFromQuote(t *testing.T) {
	svc, _ := newTestService(t, Policy{})
	ctx := context.Background()

	o, err := svc.CreateFromQuote(ctx, "cust-1", "PS5 Slim", "US", "air", 500)
	require.NoError(t, err)

	assert.Equal(t, tracking.StageReceivedByAgent, o.Status)
	assert.Equal(t, int64(76613), o.TotalKES)
	assert.False(t, o.Paid)
	// Display components each round up individually.
	assert.Equal(t, int64(67500), o.BuyingPriceKES)
	assert.Equal(t, int64(5063), o.ShippingFeeKES) // ceil(37.5 * 135)
	assert.Equal(t, int64(4050), o.ServiceFeeKES)
}

func TestCreateFromQuote_NoPriceIsRejected(t *testing.T) {
	svc, _ := newTestService(t, Policy{})

	_, err := svc.CreateFromQuote(context.Background(), "cust-1", "unknown", "US", "sea", 0)
	assert.Error(t, err, "an order cannot be confirmed without a quote")
}

func TestAdvance_WalksForwardOneStep(t *testing.T) {
	svc, _ := newTestService(t, Policy{})
	ctx := context.Background()

	o, err := svc.CreateFromQuote(ctx, "cust-1", "camera", "UK", "air", 120)
	require.NoError(t, err)

	seq := tracking.Canonical()
	for i := 1; i < seq.Len(); i++ {
		got, err := svc.Advance(ctx, o.ID, "operator")
		require.NoError(t, err)
		assert.Equal(t, i, seq.IndexOf(got.Status))
	}

	_, err = svc.Advance(ctx, o.ID, "operator")
	assert.ErrorIs(t, err, ErrAlreadyDone)
}

func TestSetStatus_StrictPolicyRejectsBackwardJump(t *testing.T) {
	svc, _ := newTestService(t, Policy{StrictProgression: true})
	ctx := context.Background()

	o, err := svc.CreateFromQuote(ctx, "cust-1", "laptop", "US", "air", 900)
	require.NoError(t, err)

	// Forward jump skipping stages is allowed (missed-scan correction).
	got, err := svc.SetStatus(ctx, o.ID, tracking.StageShipping, "operator")
	require.NoError(t, err)
	assert.Equal(t, tracking.StageShipping, got.Status)

	_, err = svc.SetStatus(ctx, o.ID, tracking.StagePreparing, "operator")
	assert.ErrorIs(t, err, ErrBackwardJump)
}

func TestSetStatus_LaxPolicyAllowsAnyMember(t *testing.T) {
	svc, _ := newTestService(t, Policy{StrictProgression: false})
	ctx := context.Background()

	o, err := svc.CreateFromQuote(ctx, "cust-1", "laptop", "US", "air", 900)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, o.ID, tracking.StageDelivered, "operator")
	require.NoError(t, err)
	got, err := svc.SetStatus(ctx, o.ID, tracking.StagePreparing, "operator")
	require.NoError(t, err)
	assert.Equal(t, tracking.StagePreparing, got.Status)
}

func TestSetStatus_UnknownTargetRejected(t *testing.T) {
	svc, _ := newTestService(t, Policy{})
	ctx := context.Background()

	o, err := svc.CreateFromQuote(ctx, "cust-1", "laptop", "US", "air", 900)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, o.ID, "Lost Forever", "operator")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestTracking_ProgressAndAnomaly(t *testing.T) {
	svc, repo := newTestService(t, Policy{})
	ctx := context.Background()

	o, err := svc.CreateFromQuote(ctx, "cust-1", "shoes", "CN", "sea", 60)
	require.NoError(t, err)

	view, err := svc.Tracking(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.StageIndex)
	assert.Positive(t, view.ProgressPercent)
	assert.False(t, view.Delivered)
	assert.False(t, view.StatusUnknown)

	// Corrupt the stored status directly; the view must surface it.
	require.NoError(t, repo.SaveOrderStatus(ctx, o.ID, "GARBAGE"))
	view, err = svc.Tracking(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, view.StatusUnknown)
	assert.Equal(t, -1, view.StageIndex)
	assert.Equal(t, 0, view.ProgressPercent)
}

func TestTracking_DeliveredIs100Percent(t *testing.T) {
	svc, _ := newTestService(t, Policy{})
	ctx := context.Background()

	o, err := svc.CreateFromQuote(ctx, "cust-1", "watch", "US", "air", 250)
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, o.ID, tracking.StageDelivered, "operator")
	require.NoError(t, err)

	view, err := svc.Tracking(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, view.ProgressPercent)
	assert.True(t, view.Delivered)
}

func TestHistory_RecordsEveryTransition(t *testing.T) {
	svc, _ := newTestService(t, Policy{})
	ctx := context.Background()

	o, err := svc.CreateFromQuote(ctx, "cust-1", "drone", "US", "air", 300)
	require.NoError(t, err)
	_, err = svc.Advance(ctx, o.ID, "operator")
	require.NoError(t, err)
	_, err = svc.Advance(ctx, o.ID, "operator")
	require.NoError(t, err)

	hist, err := svc.History(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, hist, 3) // creation + two advances

	assert.Equal(t, tracking.Stage(""), hist[0].FromStatus)
	assert.Equal(t, tracking.StageReceivedByAgent, hist[0].ToStatus)
	assert.Equal(t, "system", hist[0].Actor)
	assert.Equal(t, tracking.StagePreparing, hist[1].ToStatus)
	assert.Equal(t, "operator", hist[2].Actor)
}

func TestMarkPaid(t *testing.T) {
	svc, _ := newTestService(t, Policy{})
	ctx := context.Background()

	o, err := svc.CreateFromQuote(ctx, "cust-1", "phone", "US", "air", 400)
	require.NoError(t, err)
	require.NoError(t, svc.MarkPaid(ctx, o.ID))

	got, err := svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Paid)

	assert.ErrorIs(t, svc.MarkPaid(ctx, "missing"), ErrNotFound)
}

func TestNewOrder_Validation(t *testing.T) {
	seq := tracking.Canonical()

	_, err := NewOrder(seq, "", "x", "", "", 1, 1, 1, 3)
	assert.Error(t, err)

	_, err = NewOrder(seq, "cust", "x", "", "", -1, 1, 1, 3)
	assert.ErrorIs(t, err, ErrInvalidMoney)
}
