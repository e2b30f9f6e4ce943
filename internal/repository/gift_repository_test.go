package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arrival(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestGiftRepository_AddStock(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewGiftRepository(db)
	ctx := context.Background()

	t.Run("create new gift", func(t *testing.T) {
		g, err := repo.AddStock(ctx, &model.Gift{
			Name:        "Mug",
			Stock:       10,
			ArrivalDate: arrival(1),
			PointsCost:  100,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(10), g.Stock)
		assert.Equal(t, uint(100), g.PointsCost)
	})

	t.Run("restock existing gift accumulates", func(t *testing.T) {
		g, err := repo.AddStock(ctx, &model.Gift{
			Name:        "Mug",
			Stock:       5,
			ArrivalDate: arrival(10),
			PointsCost:  120,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(15), g.Stock)
		assert.Equal(t, uint(120), g.PointsCost)
		assert.True(t, g.ArrivalDate.Equal(arrival(10)))
	})
}

func TestGiftRepository_Get(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewGiftRepository(db)
	ctx := context.Background()

	_, err := repo.AddStock(ctx, &model.Gift{
		Name:        "Keychain",
		Stock:       3,
		ArrivalDate: arrival(2),
		PointsCost:  40,
	})
	require.NoError(t, err)

	t.Run("existing gift", func(t *testing.T) {
		g, err := repo.Get(ctx, "Keychain")
		require.NoError(t, err)
		assert.Equal(t, uint(40), g.PointsCost)
	})

	t.Run("gift not found", func(t *testing.T) {
		_, err := repo.Get(ctx, "Yacht")
		assert.ErrorIs(t, err, ErrGiftNotFound)
	})
}

func TestGiftRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewGiftRepository(db)
	ctx := context.Background()

	t.Run("empty catalog", func(t *testing.T) {
		gifts, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, gifts, 0)
	})

	t.Run("newest arrival first", func(t *testing.T) {
		for _, g := range []model.Gift{
			{Name: "Mug", Stock: 10, ArrivalDate: arrival(1), PointsCost: 100},
			{Name: "Cap", Stock: 5, ArrivalDate: arrival(20), PointsCost: 80},
			{Name: "Bottle", Stock: 7, ArrivalDate: arrival(12), PointsCost: 150},
		} {
			_, err := repo.AddStock(ctx, &g)
			require.NoError(t, err)
		}

		gifts, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, gifts, 3)
		assert.Equal(t, "Cap", gifts[0].Name)
		assert.Equal(t, "Bottle", gifts[1].Name)
		assert.Equal(t, "Mug", gifts[2].Name)
	})
}

func TestGiftRepository_UpdateStock(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewGiftRepository(db)
	ctx := context.Background()

	_, err := repo.AddStock(ctx, &model.Gift{
		Name:        "Mug",
		Stock:       10,
		ArrivalDate: arrival(1),
		PointsCost:  100,
	})
	require.NoError(t, err)

	t.Run("overwrite stock", func(t *testing.T) {
		err := repo.UpdateStock(ctx, "Mug", 9)
		require.NoError(t, err)

		g, err := repo.Get(ctx, "Mug")
		require.NoError(t, err)
		assert.Equal(t, uint(9), g.Stock)
	})

	t.Run("gift not found", func(t *testing.T) {
		err := repo.UpdateStock(ctx, "Yacht", 1)
		assert.ErrorIs(t, err, ErrGiftNotFound)
	})
}

func TestGiftRepository_SetPointsCost(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewGiftRepository(db)
	ctx := context.Background()

	_, err := repo.AddStock(ctx, &model.Gift{
		Name:        "Mug",
		Stock:       10,
		ArrivalDate: arrival(1),
		PointsCost:  100,
	})
	require.NoError(t, err)

	t.Run("reprice leaves stock untouched", func(t *testing.T) {
		err := repo.SetPointsCost(ctx, "Mug", 150)
		require.NoError(t, err)

		g, err := repo.Get(ctx, "Mug")
		require.NoError(t, err)
		assert.Equal(t, uint(150), g.PointsCost)
		assert.Equal(t, uint(10), g.Stock)
	})

	t.Run("gift not found", func(t *testing.T) {
		err := repo.SetPointsCost(ctx, "Yacht", 1)
		assert.ErrorIs(t, err, ErrGiftNotFound)
	})
}
