package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokocargo/sokocargo/internal/orders"
	"github.com/sokocargo/sokocargo/internal/tracking"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newOrder(t *testing.T, customer string) *orders.Order {
	t.Helper()
	o, err := orders.NewOrder(tracking.Canonical(), customer, "PS5 Slim", "US", "air", 67500, 5063, 4050, 76613)
	require.NoError(t, err)
	return o
}

func TestRepository_RoundTrip(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	o := newOrder(t, "cust-1")
	require.NoError(t, repo.CreateOrder(ctx, o))

	got, err := repo.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, tracking.StageReceivedByAgent, got.Status)
	assert.Equal(t, int64(76613), got.TotalKES)
	assert.False(t, got.Paid)
}

func TestRepository_StatusAndPaid(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	o := newOrder(t, "cust-1")
	require.NoError(t, repo.CreateOrder(ctx, o))

	require.NoError(t, repo.SaveOrderStatus(ctx, o.ID, tracking.StageShipping))
	require.NoError(t, repo.MarkPaid(ctx, o.ID))

	got, err := repo.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, tracking.StageShipping, got.Status)
	assert.True(t, got.Paid)
}

func TestRepository_NotFound(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	_, err := repo.GetOrder(ctx, "missing")
	assert.ErrorIs(t, err, orders.ErrNotFound)
	assert.ErrorIs(t, repo.SaveOrderStatus(ctx, "missing", tracking.StagePreparing), orders.ErrNotFound)
	assert.ErrorIs(t, repo.MarkPaid(ctx, "missing"), orders.ErrNotFound)
}

func TestRepository_ListFiltersByCustomer(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateOrder(ctx, newOrder(t, "alice")))
	require.NoError(t, repo.CreateOrder(ctx, newOrder(t, "alice")))
	require.NoError(t, repo.CreateOrder(ctx, newOrder(t, "bob")))

	all, err := repo.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	alice, err := repo.ListOrders(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, alice, 2)
}
