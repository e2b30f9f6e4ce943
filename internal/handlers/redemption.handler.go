package handlers

import (
	"context"
	"strings"

	"github.com/fasthttp/router"
	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	xhttp "github.com/nidhishshastri/loyalty-gateway/pkg/http"
)

type RedemptionService interface {
	ListEligibleGifts(ctx context.Context, customerPoints int) ([]*model.Gift, error)
	Redeem(ctx context.Context, req model.RedeemRequest) (*model.Redemption, error)
	History(ctx context.Context, f model.RedemptionFilter) ([]*model.Redemption, int64, error)
}

// RedemptionCustomerLookup resolves a customer ID to its current balance for
// the eligibility listing.
type RedemptionCustomerLookup interface {
	Get(ctx context.Context, id string) (*model.Customer, error)
}

type RedemptionHandler struct {
	svc       RedemptionService
	customers RedemptionCustomerLookup
}

func RegisterRedemptionRoutes(e *router.Group, h *RedemptionHandler) {
	e.GET("/redemptions/eligible-gifts", h.ListEligibleGifts)
	e.POST("/redemptions", h.Redeem)
	e.GET("/redemptions", h.History)
}

func NewRedemptionHandler(redemptionService RedemptionService, customers RedemptionCustomerLookup) *RedemptionHandler {
	return &RedemptionHandler{
		svc:       redemptionService,
		customers: customers,
	}
}

type redeemRequest struct {
	CustomerID string `json:"customer_id"`
	GiftName   string `json:"gift_name"`
	QuotedCost int    `json:"quoted_cost"`
}

type historyResponse struct {
	Items []*model.Redemption `json:"items"`
	Total int64               `json:"total"`
}

/* --------------------------------- Routes ----------------------------------- */

// ListEligibleGifts answers "what can this customer afford right now". The
// balance comes either from ?customer_id= or directly from ?points=.
func (h *RedemptionHandler) ListEligibleGifts(ctx *xhttp.RequestCtx) {
	var points int

	switch {
	case query(ctx, "customer_id") != "":
		customer, err := h.customers.Get(ctx, query(ctx, "customer_id"))
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		points = int(customer.Points)
	default:
		n, ok := queryInt(ctx, "points")
		if !ok {
			writeError(ctx, 400, "customer_id or points is required")
			return
		}
		points = n
	}

	items, err := h.svc.ListEligibleGifts(ctx, points)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, giftListResponse{Items: items})
}

func (h *RedemptionHandler) Redeem(ctx *xhttp.RequestCtx) {
	var req redeemRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	redemption, err := h.svc.Redeem(ctx, model.RedeemRequest{
		CustomerID: req.CustomerID,
		GiftName:   req.GiftName,
		QuotedCost: req.QuotedCost,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, redemption)
}

func (h *RedemptionHandler) History(ctx *xhttp.RequestCtx) {
	var f model.RedemptionFilter

	if v := query(ctx, "customer_id"); v != "" {
		f.CustomerID = &v
	}
	if v := query(ctx, "gift_name"); v != "" {
		f.GiftName = &v
	}
	if v := query(ctx, "from"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.From = &t
		}
	}
	if v := query(ctx, "to"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.To = &t
		}
	}
	if n, ok := queryInt(ctx, "limit"); ok {
		f.Limit = n
	}
	if n, ok := queryInt(ctx, "offset"); ok {
		f.Offset = n
	}
	if strings.EqualFold(query(ctx, "order"), "desc") {
		f.Desc = true
	}

	items, total, err := h.svc.History(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, historyResponse{Items: items, Total: total})
}
