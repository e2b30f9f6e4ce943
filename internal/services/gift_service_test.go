package services

import (
	"context"
	"testing"
	"time"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/nidhishshastri/loyalty-gateway/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGiftRepository struct {
	mock.Mock
}

func (m *MockGiftRepository) AddStock(ctx context.Context, gift *model.Gift) (*model.Gift, error) {
	args := m.Called(ctx, gift)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Gift), args.Error(1)
}

func (m *MockGiftRepository) Get(ctx context.Context, name string) (*model.Gift, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Gift), args.Error(1)
}

func (m *MockGiftRepository) List(ctx context.Context) ([]*model.Gift, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Gift), args.Error(1)
}

func (m *MockGiftRepository) SetPointsCost(ctx context.Context, name string, cost uint) error {
	args := m.Called(ctx, name, cost)
	return args.Error(0)
}

func TestGiftService_AddStock(t *testing.T) {
	ctx := context.Background()
	arrival := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("successful arrival", func(t *testing.T) {
		repo := new(MockGiftRepository)
		service := NewGiftService(repo)

		stored := &model.Gift{Name: "Mug", Stock: 7, ArrivalDate: arrival, PointsCost: 100}
		repo.On("AddStock", ctx, mock.MatchedBy(func(g *model.Gift) bool {
			return g.Name == "Mug" && g.Stock == 5 && g.PointsCost == 100
		})).Return(stored, nil)

		gift, err := service.AddStock(ctx, model.GiftStockRequest{
			Name:        "Mug",
			Count:       5,
			ArrivalDate: arrival,
			PointsCost:  100,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(7), gift.Stock)

		repo.AssertExpectations(t)
	})

	t.Run("invalid request", func(t *testing.T) {
		repo := new(MockGiftRepository)
		service := NewGiftService(repo)

		cases := []model.GiftStockRequest{
			{Name: "", Count: 5, ArrivalDate: arrival, PointsCost: 100},
			{Name: "Mug", Count: 0, ArrivalDate: arrival, PointsCost: 100},
			{Name: "Mug", Count: 5, ArrivalDate: arrival, PointsCost: -1},
			{Name: "Mug", Count: 5, PointsCost: 100},
		}
		for _, req := range cases {
			_, err := service.AddStock(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidArgument, "request %+v", req)
		}
	})
}

func TestGiftService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("existing gift", func(t *testing.T) {
		repo := new(MockGiftRepository)
		service := NewGiftService(repo)

		repo.On("Get", ctx, "Mug").Return(&model.Gift{Name: "Mug", Stock: 3, PointsCost: 100}, nil)

		gift, err := service.Get(ctx, "Mug")
		require.NoError(t, err)
		assert.Equal(t, uint(100), gift.PointsCost)
	})

	t.Run("unknown gift", func(t *testing.T) {
		repo := new(MockGiftRepository)
		service := NewGiftService(repo)

		repo.On("Get", ctx, "Ghost").Return(nil, repository.ErrGiftNotFound)

		_, err := service.Get(ctx, "Ghost")
		assert.ErrorIs(t, err, ErrGiftNotFound)
	})
}

func TestGiftService_SetPointsCost(t *testing.T) {
	ctx := context.Background()

	t.Run("reprice", func(t *testing.T) {
		repo := new(MockGiftRepository)
		service := NewGiftService(repo)

		repo.On("SetPointsCost", ctx, "Mug", uint(150)).Return(nil)

		assert.NoError(t, service.SetPointsCost(ctx, "Mug", 150))
		repo.AssertExpectations(t)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		repo := new(MockGiftRepository)
		service := NewGiftService(repo)

		assert.ErrorIs(t, service.SetPointsCost(ctx, "", 100), ErrInvalidArgument)
		assert.ErrorIs(t, service.SetPointsCost(ctx, "Mug", -1), ErrInvalidArgument)
	})

	t.Run("unknown gift", func(t *testing.T) {
		repo := new(MockGiftRepository)
		service := NewGiftService(repo)

		repo.On("SetPointsCost", ctx, "Ghost", uint(100)).Return(repository.ErrGiftNotFound)

		assert.ErrorIs(t, service.SetPointsCost(ctx, "Ghost", 100), ErrGiftNotFound)
	})
}
