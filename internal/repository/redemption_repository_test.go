package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRedemptionData(t *testing.T, db *testDB) {
	t.Helper()
	ctx := context.Background()

	customers := NewCustomerRepository(db.DB)
	gifts := NewGiftRepository(db.DB)

	for _, c := range []model.Customer{
		{ID: "CUST000001", Name: "Asha", Mobile: "9000000001", CardNumber: card("CARD000001"), CardStatus: model.CardStatusActive, Points: 120},
		{ID: "CUST000002", Name: "Ravi", Mobile: "9000000002", CardNumber: card("CARD000002"), CardStatus: model.CardStatusActive, Points: 50},
	} {
		_, err := customers.Create(ctx, &c)
		require.NoError(t, err)
	}

	for _, g := range []model.Gift{
		{Name: "Mug", Stock: 2, ArrivalDate: arrival(1), PointsCost: 100},
		{Name: "Cap", Stock: 5, ArrivalDate: arrival(2), PointsCost: 80},
	} {
		_, err := gifts.AddStock(ctx, &g)
		require.NoError(t, err)
	}
}

func TestRedemptionRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	seedRedemptionData(t, db)
	repo := NewRedemptionRepository(db.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Redemption{
		CustomerID: "CUST000001",
		GiftName:   "Mug",
		PointsCost: 100,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	_, err = repo.Create(ctx, &model.Redemption{
		CustomerID: "CUST000002",
		GiftName:   "Cap",
		PointsCost: 80,
	})
	require.NoError(t, err)

	t.Run("filter by customer", func(t *testing.T) {
		customerID := "CUST000001"
		rows, total, err := repo.List(ctx, model.RedemptionFilter{CustomerID: &customerID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rows, 1)
		assert.Equal(t, "Mug", rows[0].GiftName)
		assert.Equal(t, uint(100), rows[0].PointsCost)
	})

	t.Run("no matches", func(t *testing.T) {
		customerID := "CUST999999"
		rows, total, err := repo.List(ctx, model.RedemptionFilter{CustomerID: &customerID})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Len(t, rows, 0)
	})

	t.Run("time range excludes future window", func(t *testing.T) {
		from := time.Now().Add(time.Hour)
		rows, total, err := repo.List(ctx, model.RedemptionFilter{From: &from})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Len(t, rows, 0)
	})
}

func TestRedemptionRepository_CustomerReport(t *testing.T) {
	db := setupTestDB(t)
	seedRedemptionData(t, db)
	repo := NewRedemptionRepository(db.DB)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := repo.Create(ctx, &model.Redemption{
			CustomerID: "CUST000001",
			GiftName:   "Cap",
			PointsCost: 80,
		})
		require.NoError(t, err)
	}

	report, err := repo.CustomerReport(ctx)
	require.NoError(t, err)
	require.Len(t, report, 2)

	assert.Equal(t, "CUST000001", report[0].CustomerID)
	assert.Equal(t, int64(2), report[0].GiftsRedeemed)
	assert.Equal(t, int64(160), report[0].PointsConsumed)

	// Customers without redemptions still appear, zeroed.
	assert.Equal(t, "CUST000002", report[1].CustomerID)
	assert.Equal(t, int64(0), report[1].GiftsRedeemed)
	assert.Equal(t, int64(0), report[1].PointsConsumed)
}

func TestRedemptionRepository_RedemptionReport(t *testing.T) {
	db := setupTestDB(t)
	seedRedemptionData(t, db)
	repo := NewRedemptionRepository(db.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, &model.Redemption{
		CustomerID: "CUST000001",
		GiftName:   "Mug",
		PointsCost: 100,
	})
	require.NoError(t, err)

	rows, total, err := repo.RedemptionReport(ctx, model.RedemptionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)

	assert.Equal(t, "Asha", rows[0].CustomerName)
	assert.Equal(t, "9000000001", rows[0].Mobile)
	assert.Equal(t, "Mug", rows[0].GiftName)
	assert.Equal(t, uint(100), rows[0].PointsConsumed)
	assert.Equal(t, uint(2), rows[0].StockRemaining)
}
