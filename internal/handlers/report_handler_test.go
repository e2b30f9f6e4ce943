package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) CustomerReport(ctx context.Context) ([]*model.CustomerReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CustomerReport), args.Error(1)
}

func (m *MockReportService) RedemptionReport(ctx context.Context, f model.RedemptionFilter) ([]*model.RedemptionReportRow, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.RedemptionReportRow), args.Get(1).(int64), args.Error(2)
}

func TestReportHandler_CustomerReport(t *testing.T) {
	t.Run("successful report", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)

		svc.On("CustomerReport", mock.Anything).Return([]*model.CustomerReport{
			{CustomerID: "CUST123ABC", Name: "Asha", Mobile: "9876543210", Points: 20, GiftsRedeemed: 1, PointsConsumed: 100},
		}, nil)

		ctx := setupTestContext("GET", "/reports/customers", nil)
		handler.CustomerReport(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response customerReportResponse
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		require.Len(t, response.Items, 1)
		assert.Equal(t, int64(100), response.Items[0].PointsConsumed)

		svc.AssertExpectations(t)
	})

	t.Run("service error maps to 500", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)

		svc.On("CustomerReport", mock.Anything).Return(nil, errors.New("query error"))

		ctx := setupTestContext("GET", "/reports/customers", nil)
		handler.CustomerReport(ctx)

		assert.Equal(t, 500, ctx.Response.StatusCode())
	})
}

func TestReportHandler_RedemptionReport(t *testing.T) {
	t.Run("filter parsing", func(t *testing.T) {
		svc := new(MockReportService)
		handler := NewReportHandler(svc)

		svc.On("RedemptionReport", mock.Anything, mock.MatchedBy(func(f model.RedemptionFilter) bool {
			return f.GiftName != nil && *f.GiftName == "Mug" && f.From != nil && f.Desc
		})).Return([]*model.RedemptionReportRow{
			{CustomerID: "CUST123ABC", CustomerName: "Asha", GiftName: "Mug", PointsConsumed: 100, RedeemedAt: time.Now(), StockRemaining: 2},
		}, int64(1), nil)

		ctx := setupTestContext("GET", "/reports/redemptions?gift_name=Mug&from=2026-01-01&order=desc", nil)
		handler.RedemptionReport(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response redemptionReportResponse
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, int64(1), response.Total)
		require.Len(t, response.Items, 1)
		assert.Equal(t, uint(2), response.Items[0].StockRemaining)

		svc.AssertExpectations(t)
	})
}
