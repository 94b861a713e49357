package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondspine/bookstore/internal/domains/orders/domain"
	"github.com/secondspine/bookstore/internal/domains/orders/ports"
)

func seedOrders(t *testing.T, repo *Repository, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := repo.Save(context.Background(), &domain.Order{
			CustomerID:   7,
			Status:       domain.StatusPending,
			DeliveryDate: "2025-06-17",
		})
		require.NoError(t, err)
	}
}

func TestList_PagesNewestFirst(t *testing.T) {
	repo := NewRepository()
	seedOrders(t, repo, 5)

	first, total, err := repo.List(context.Background(), ports.Filters{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, first, 2)
	assert.Equal(t, int64(5), first[0].ID)
	assert.Equal(t, int64(4), first[1].ID)

	second, _, err := repo.List(context.Background(), ports.Filters{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, int64(3), second[0].ID)
	assert.Equal(t, int64(2), second[1].ID)

	last, _, err := repo.List(context.Background(), ports.Filters{}, 3, 2)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, int64(1), last[0].ID)
}

func TestList_PagesAreStableAcrossCalls(t *testing.T) {
	repo := NewRepository()
	seedOrders(t, repo, 8)

	page, _, err := repo.List(context.Background(), ports.Filters{}, 2, 3)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, _, err := repo.List(context.Background(), ports.Filters{}, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, page, again)
	}
}

func TestList_StatusFilter(t *testing.T) {
	repo := NewRepository()
	seedOrders(t, repo, 3)
	_, err := repo.Save(context.Background(), &domain.Order{CustomerID: 7, Status: domain.StatusDelayed, DeliveryDate: "2025-06-17"})
	require.NoError(t, err)

	delayed := domain.StatusDelayed
	matched, total, err := repo.List(context.Background(), ports.Filters{Status: &delayed}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, matched, 1)
	assert.Equal(t, domain.StatusDelayed, matched[0].Status)
}
