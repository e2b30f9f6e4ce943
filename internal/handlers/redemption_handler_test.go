package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/nidhishshastri/loyalty-gateway/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRedemptionService struct {
	mock.Mock
}

func (m *MockRedemptionService) ListEligibleGifts(ctx context.Context, customerPoints int) ([]*model.Gift, error) {
	args := m.Called(ctx, customerPoints)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Gift), args.Error(1)
}

func (m *MockRedemptionService) Redeem(ctx context.Context, req model.RedeemRequest) (*model.Redemption, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Redemption), args.Error(1)
}

func (m *MockRedemptionService) History(ctx context.Context, f model.RedemptionFilter) ([]*model.Redemption, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Redemption), args.Get(1).(int64), args.Error(2)
}

func TestRedemptionHandler_ListEligibleGifts(t *testing.T) {
	t.Run("by customer id", func(t *testing.T) {
		svc := new(MockRedemptionService)
		customers := new(MockCustomerService)
		handler := NewRedemptionHandler(svc, customers)

		customers.On("Get", mock.Anything, "CUST123ABC").Return(testCustomer(), nil)
		svc.On("ListEligibleGifts", mock.Anything, 120).Return([]*model.Gift{
			{Name: "Mug", Stock: 3, PointsCost: 100},
		}, nil)

		ctx := setupTestContext("GET", "/redemptions/eligible-gifts?customer_id=CUST123ABC", nil)
		handler.ListEligibleGifts(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response giftListResponse
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Len(t, response.Items, 1)
		assert.Equal(t, "Mug", response.Items[0].Name)

		svc.AssertExpectations(t)
		customers.AssertExpectations(t)
	})

	t.Run("by raw points", func(t *testing.T) {
		svc := new(MockRedemptionService)
		customers := new(MockCustomerService)
		handler := NewRedemptionHandler(svc, customers)

		svc.On("ListEligibleGifts", mock.Anything, 80).Return([]*model.Gift{}, nil)

		ctx := setupTestContext("GET", "/redemptions/eligible-gifts?points=80", nil)
		handler.ListEligibleGifts(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("missing selector", func(t *testing.T) {
		svc := new(MockRedemptionService)
		customers := new(MockCustomerService)
		handler := NewRedemptionHandler(svc, customers)

		ctx := setupTestContext("GET", "/redemptions/eligible-gifts", nil)
		handler.ListEligibleGifts(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("unknown customer maps to 404", func(t *testing.T) {
		svc := new(MockRedemptionService)
		customers := new(MockCustomerService)
		handler := NewRedemptionHandler(svc, customers)

		customers.On("Get", mock.Anything, "CUST999999").Return(nil, services.ErrCustomerNotFound)

		ctx := setupTestContext("GET", "/redemptions/eligible-gifts?customer_id=CUST999999", nil)
		handler.ListEligibleGifts(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}

func TestRedemptionHandler_Redeem(t *testing.T) {
	redeemBody := func() []byte {
		b, _ := json.Marshal(redeemRequest{
			CustomerID: "CUST123ABC",
			GiftName:   "Mug",
			QuotedCost: 100,
		})
		return b
	}

	t.Run("successful redemption", func(t *testing.T) {
		svc := new(MockRedemptionService)
		handler := NewRedemptionHandler(svc, new(MockCustomerService))

		committed := &model.Redemption{
			ID:         1,
			CustomerID: "CUST123ABC",
			GiftName:   "Mug",
			PointsCost: 100,
			CreatedAt:  time.Now(),
		}
		svc.On("Redeem", mock.Anything, mock.MatchedBy(func(req model.RedeemRequest) bool {
			return req.CustomerID == "CUST123ABC" && req.GiftName == "Mug" && req.QuotedCost == 100
		})).Return(committed, nil)

		ctx := setupTestContext("POST", "/redemptions", redeemBody())
		handler.Redeem(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var response model.Redemption
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, int64(1), response.ID)
		assert.Equal(t, uint(100), response.PointsCost)

		svc.AssertExpectations(t)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		svc := new(MockRedemptionService)
		handler := NewRedemptionHandler(svc, new(MockCustomerService))

		ctx := setupTestContext("POST", "/redemptions", []byte("invalid"))
		handler.Redeem(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("price changed maps to 409 with current cost", func(t *testing.T) {
		svc := new(MockRedemptionService)
		handler := NewRedemptionHandler(svc, new(MockCustomerService))

		svc.On("Redeem", mock.Anything, mock.Anything).Return(nil, &services.PriceChangedError{Current: 150})

		ctx := setupTestContext("POST", "/redemptions", redeemBody())
		handler.Redeem(ctx)

		assert.Equal(t, 409, ctx.Response.StatusCode())

		var response map[string]any
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, float64(150), response["current_cost"])
	})

	t.Run("out of stock maps to 422", func(t *testing.T) {
		svc := new(MockRedemptionService)
		handler := NewRedemptionHandler(svc, new(MockCustomerService))

		svc.On("Redeem", mock.Anything, mock.Anything).Return(nil, services.ErrOutOfStock)

		ctx := setupTestContext("POST", "/redemptions", redeemBody())
		handler.Redeem(ctx)

		assert.Equal(t, 422, ctx.Response.StatusCode())
	})

	t.Run("insufficient points maps to 422", func(t *testing.T) {
		svc := new(MockRedemptionService)
		handler := NewRedemptionHandler(svc, new(MockCustomerService))

		svc.On("Redeem", mock.Anything, mock.Anything).Return(nil, services.ErrInsufficientPoints)

		ctx := setupTestContext("POST", "/redemptions", redeemBody())
		handler.Redeem(ctx)

		assert.Equal(t, 422, ctx.Response.StatusCode())
	})

	t.Run("contention maps to 503", func(t *testing.T) {
		svc := new(MockRedemptionService)
		handler := NewRedemptionHandler(svc, new(MockCustomerService))

		svc.On("Redeem", mock.Anything, mock.Anything).Return(nil, services.ErrBusy)

		ctx := setupTestContext("POST", "/redemptions", redeemBody())
		handler.Redeem(ctx)

		assert.Equal(t, 503, ctx.Response.StatusCode())
	})
}

func TestRedemptionHandler_History(t *testing.T) {
	t.Run("filter parsing", func(t *testing.T) {
		svc := new(MockRedemptionService)
		handler := NewRedemptionHandler(svc, new(MockCustomerService))

		svc.On("History", mock.Anything, mock.MatchedBy(func(f model.RedemptionFilter) bool {
			return f.CustomerID != nil && *f.CustomerID == "CUST123ABC" &&
				f.Limit == 10 && f.Offset == 5 && f.Desc
		})).Return([]*model.Redemption{}, int64(0), nil)

		ctx := setupTestContext("GET", "/redemptions?customer_id=CUST123ABC&limit=10&offset=5&order=desc", nil)
		handler.History(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("time range", func(t *testing.T) {
		svc := new(MockRedemptionService)
		handler := NewRedemptionHandler(svc, new(MockCustomerService))

		svc.On("History", mock.Anything, mock.MatchedBy(func(f model.RedemptionFilter) bool {
			return f.From != nil && f.To != nil
		})).Return([]*model.Redemption{}, int64(0), nil)

		ctx := setupTestContext("GET", "/redemptions?from=2026-01-01&to=2026-12-31", nil)
		handler.History(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}
