package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/nidhishshastri/loyalty-gateway/internal/services"
	xhttp "github.com/nidhishshastri/loyalty-gateway/pkg/http"
)

type CustomerService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.Customer, error)
	Get(ctx context.Context, id string) (*model.Customer, error)
	GetByMobile(ctx context.Context, mobile string) (*model.Customer, error)
	GetByCard(ctx context.Context, cardNumber string) (*model.Customer, error)
	AddPoints(ctx context.Context, id string, points int) error
	BlockCard(ctx context.Context, id string) (*model.Customer, error)
	ReissueCard(ctx context.Context, id string) (*model.Customer, error)
}

type CustomerHandler struct {
	svc CustomerService
}

func RegisterCustomerRoutes(e *router.Group, h *CustomerHandler) {
	e.POST("/customers", h.Register)
	e.GET("/customers", h.GetCustomer)
	e.POST("/customers/points", h.AddPoints)
	e.POST("/customers/card/block", h.BlockCard)
	e.POST("/customers/card/reissue", h.ReissueCard)
}

func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{
		svc: customerService,
	}
}

type registerCustomerRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

type addPointsRequest struct {
	CustomerID string `json:"customer_id"`
	Points     int    `json:"points"`
}

type cardRequest struct {
	CustomerID string `json:"customer_id"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *CustomerHandler) Register(ctx *xhttp.RequestCtx) {
	var req registerCustomerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	customer, err := h.svc.Register(ctx, model.RegisterRequest{
		Name:   req.Name,
		Mobile: req.Mobile,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, customer)
}

// GetCustomer looks a customer up by exactly one of id, mobile or card.
func (h *CustomerHandler) GetCustomer(ctx *xhttp.RequestCtx) {
	var (
		customer *model.Customer
		err      error
	)

	switch {
	case query(ctx, "id") != "":
		customer, err = h.svc.Get(ctx, query(ctx, "id"))
	case query(ctx, "mobile") != "":
		customer, err = h.svc.GetByMobile(ctx, query(ctx, "mobile"))
	case query(ctx, "card") != "":
		customer, err = h.svc.GetByCard(ctx, query(ctx, "card"))
	default:
		writeError(ctx, 400, "one of id, mobile or card is required")
		return
	}

	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, customer)
}

func (h *CustomerHandler) AddPoints(ctx *xhttp.RequestCtx) {
	var req addPointsRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.CustomerID == "" {
		writeError(ctx, 400, "customer_id is required")
		return
	}

	if err := h.svc.AddPoints(ctx, req.CustomerID, req.Points); err != nil {
		writeServiceError(ctx, err)
		return
	}

	customer, err := h.svc.Get(ctx, req.CustomerID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, customer)
}

func (h *CustomerHandler) BlockCard(ctx *xhttp.RequestCtx) {
	var req cardRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.CustomerID == "" {
		writeError(ctx, 400, "customer_id is required")
		return
	}

	customer, err := h.svc.BlockCard(ctx, req.CustomerID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, customer)
}

func (h *CustomerHandler) ReissueCard(ctx *xhttp.RequestCtx) {
	var req cardRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}
	if req.CustomerID == "" {
		writeError(ctx, 400, "customer_id is required")
		return
	}

	customer, err := h.svc.ReissueCard(ctx, req.CustomerID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, customer)
}

/* --------------------------------- Helpers ----------------------------------- */

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

// writeServiceError maps service sentinels onto HTTP statuses. A changed
// price gets its own payload carrying the current cost so clients can
// re-quote without another round trip.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	var priceChanged *services.PriceChangedError
	if errors.As(err, &priceChanged) {
		writeJSON(ctx, 409, map[string]any{
			"error":        priceChanged.Error(),
			"current_cost": priceChanged.Current,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		writeError(ctx, 400, err.Error())
	case errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, services.ErrGiftNotFound):
		writeError(ctx, 404, err.Error())
	case errors.Is(err, services.ErrDuplicateMobile),
		errors.Is(err, services.ErrCardBlocked),
		errors.Is(err, services.ErrCardNotBlocked):
		writeError(ctx, 409, err.Error())
	case errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrInsufficientPoints):
		writeError(ctx, 422, err.Error())
	case errors.Is(err, services.ErrBusy):
		writeError(ctx, 503, err.Error())
	default:
		writeError(ctx, 500, err.Error())
	}
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func queryInt(ctx *xhttp.RequestCtx, key string) (int, bool) {
	v := query(ctx, key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
