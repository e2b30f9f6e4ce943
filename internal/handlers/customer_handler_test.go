package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/nidhishshastri/loyalty-gateway/internal/services"
	xhttp "github.com/nidhishshastri/loyalty-gateway/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Register(ctx context.Context, req model.RegisterRequest) (*model.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Get(ctx context.Context, id string) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) GetByMobile(ctx context.Context, mobile string) (*model.Customer, error) {
	args := m.Called(ctx, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) GetByCard(ctx context.Context, cardNumber string) (*model.Customer, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) AddPoints(ctx context.Context, id string, points int) error {
	args := m.Called(ctx, id, points)
	return args.Error(0)
}

func (m *MockCustomerService) BlockCard(ctx context.Context, id string) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) ReissueCard(ctx context.Context, id string) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func testCustomer() *model.Customer {
	cardNumber := "CARD123ABC"
	return &model.Customer{
		ID:         "CUST123ABC",
		Name:       "Asha",
		Mobile:     "9876543210",
		CardNumber: &cardNumber,
		CardStatus: model.CardStatusActive,
		Points:     120,
	}
}

func TestCustomerHandler_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		bodyBytes, _ := json.Marshal(registerCustomerRequest{Name: "Asha", Mobile: "9876543210"})

		svc.On("Register", mock.Anything, mock.MatchedBy(func(req model.RegisterRequest) bool {
			return req.Name == "Asha" && req.Mobile == "9876543210"
		})).Return(testCustomer(), nil)

		ctx := setupTestContext("POST", "/customers", bodyBytes)
		handler.Register(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var response model.Customer
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, "CUST123ABC", response.ID)
		assert.Equal(t, model.CardStatusActive, response.CardStatus)

		svc.AssertExpectations(t)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		ctx := setupTestContext("POST", "/customers", []byte("invalid json"))
		handler.Register(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response map[string]string
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Contains(t, response["error"], "invalid JSON")
	})

	t.Run("duplicate mobile maps to 409", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		bodyBytes, _ := json.Marshal(registerCustomerRequest{Name: "Ravi", Mobile: "9876543210"})
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, services.ErrDuplicateMobile)

		ctx := setupTestContext("POST", "/customers", bodyBytes)
		handler.Register(ctx)

		assert.Equal(t, 409, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("invalid argument maps to 400", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		bodyBytes, _ := json.Marshal(registerCustomerRequest{Name: "Asha", Mobile: "123"})
		svc.On("Register", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidArgument)

		ctx := setupTestContext("POST", "/customers", bodyBytes)
		handler.Register(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestCustomerHandler_GetCustomer(t *testing.T) {
	t.Run("lookup by id", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		svc.On("Get", mock.Anything, "CUST123ABC").Return(testCustomer(), nil)

		ctx := setupTestContext("GET", "/customers?id=CUST123ABC", nil)
		handler.GetCustomer(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("lookup by mobile", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		svc.On("GetByMobile", mock.Anything, "9876543210").Return(testCustomer(), nil)

		ctx := setupTestContext("GET", "/customers?mobile=9876543210", nil)
		handler.GetCustomer(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("lookup by card", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		svc.On("GetByCard", mock.Anything, "CARD123ABC").Return(testCustomer(), nil)

		ctx := setupTestContext("GET", "/customers?card=CARD123ABC", nil)
		handler.GetCustomer(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("missing selector", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		ctx := setupTestContext("GET", "/customers", nil)
		handler.GetCustomer(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		svc.On("Get", mock.Anything, "CUST999999").Return(nil, services.ErrCustomerNotFound)

		ctx := setupTestContext("GET", "/customers?id=CUST999999", nil)
		handler.GetCustomer(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}

func TestCustomerHandler_AddPoints(t *testing.T) {
	t.Run("successful accrual", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		bodyBytes, _ := json.Marshal(addPointsRequest{CustomerID: "CUST123ABC", Points: 50})

		svc.On("AddPoints", mock.Anything, "CUST123ABC", 50).Return(nil)
		svc.On("Get", mock.Anything, "CUST123ABC").Return(testCustomer(), nil)

		ctx := setupTestContext("POST", "/customers/points", bodyBytes)
		handler.AddPoints(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("missing customer_id", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		bodyBytes, _ := json.Marshal(addPointsRequest{Points: 50})

		ctx := setupTestContext("POST", "/customers/points", bodyBytes)
		handler.AddPoints(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("non-positive points map to 400", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		bodyBytes, _ := json.Marshal(addPointsRequest{CustomerID: "CUST123ABC", Points: 0})
		svc.On("AddPoints", mock.Anything, "CUST123ABC", 0).Return(services.ErrInvalidArgument)

		ctx := setupTestContext("POST", "/customers/points", bodyBytes)
		handler.AddPoints(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestCustomerHandler_CardLifecycle(t *testing.T) {
	t.Run("block card", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		blocked := testCustomer()
		blocked.CardNumber = nil
		blocked.CardStatus = model.CardStatusBlocked

		bodyBytes, _ := json.Marshal(cardRequest{CustomerID: "CUST123ABC"})
		svc.On("BlockCard", mock.Anything, "CUST123ABC").Return(blocked, nil)

		ctx := setupTestContext("POST", "/customers/card/block", bodyBytes)
		handler.BlockCard(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response model.Customer
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Nil(t, response.CardNumber)
		assert.Equal(t, model.CardStatusBlocked, response.CardStatus)

		svc.AssertExpectations(t)
	})

	t.Run("block already blocked maps to 409", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		bodyBytes, _ := json.Marshal(cardRequest{CustomerID: "CUST123ABC"})
		svc.On("BlockCard", mock.Anything, "CUST123ABC").Return(nil, services.ErrCardBlocked)

		ctx := setupTestContext("POST", "/customers/card/block", bodyBytes)
		handler.BlockCard(ctx)

		assert.Equal(t, 409, ctx.Response.StatusCode())
	})

	t.Run("reissue card", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		bodyBytes, _ := json.Marshal(cardRequest{CustomerID: "CUST123ABC"})
		svc.On("ReissueCard", mock.Anything, "CUST123ABC").Return(testCustomer(), nil)

		ctx := setupTestContext("POST", "/customers/card/reissue", bodyBytes)
		handler.ReissueCard(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("reissue active card maps to 409", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		bodyBytes, _ := json.Marshal(cardRequest{CustomerID: "CUST123ABC"})
		svc.On("ReissueCard", mock.Anything, "CUST123ABC").Return(nil, services.ErrCardNotBlocked)

		ctx := setupTestContext("POST", "/customers/card/reissue", bodyBytes)
		handler.ReissueCard(ctx)

		assert.Equal(t, 409, ctx.Response.StatusCode())
	})
}

func TestHelperFunctions(t *testing.T) {
	t.Run("readJSON", func(t *testing.T) {
		data := map[string]string{"key": "value"}
		bodyBytes, _ := json.Marshal(data)
		ctx := setupTestContext("POST", "/", bodyBytes)

		var result map[string]string
		err := readJSON(ctx, &result)
		require.NoError(t, err)
		assert.Equal(t, "value", result["key"])
	})

	t.Run("writeJSON", func(t *testing.T) {
		ctx := setupTestContext("GET", "/", nil)
		data := map[string]string{"message": "test"}

		writeJSON(ctx, 200, data)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.Contains(t, string(ctx.Response.Header.Peek("Content-Type")), "application/json")

		var result map[string]string
		err := json.Unmarshal(ctx.Response.Body(), &result)
		require.NoError(t, err)
		assert.Equal(t, "test", result["message"])
	})

	t.Run("writeError", func(t *testing.T) {
		ctx := setupTestContext("GET", "/", nil)
		writeError(ctx, 404, "not found")

		assert.Equal(t, 404, ctx.Response.StatusCode())

		var result map[string]string
		err := json.Unmarshal(ctx.Response.Body(), &result)
		require.NoError(t, err)
		assert.Equal(t, "not found", result["error"])
	})

	t.Run("parseTime RFC3339", func(t *testing.T) {
		parsed, err := parseTime("2026-01-01T12:00:00Z")
		require.NoError(t, err)
		assert.Equal(t, 2026, parsed.Year())
	})

	t.Run("parseTime date only", func(t *testing.T) {
		parsed, err := parseTime("2026-01-01")
		require.NoError(t, err)
		assert.Equal(t, 2026, parsed.Year())
		assert.Equal(t, time.Month(1), parsed.Month())
		assert.Equal(t, 1, parsed.Day())
	})

	t.Run("parseTime invalid", func(t *testing.T) {
		_, err := parseTime("invalid")
		assert.Error(t, err)
	})
}
