package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	xhttp "github.com/nidhishshastri/loyalty-gateway/pkg/http"
)

type GiftService interface {
	AddStock(ctx context.Context, req model.GiftStockRequest) (*model.Gift, error)
	Get(ctx context.Context, name string) (*model.Gift, error)
	List(ctx context.Context) ([]*model.Gift, error)
	SetPointsCost(ctx context.Context, name string, cost int) error
}

type GiftHandler struct {
	svc GiftService
}

func RegisterGiftRoutes(e *router.Group, h *GiftHandler) {
	e.GET("/gifts", h.ListGifts)
	e.POST("/gifts/stock", h.AddStock)
	e.POST("/gifts/points", h.SetPointsCost)
}

func NewGiftHandler(giftService GiftService) *GiftHandler {
	return &GiftHandler{
		svc: giftService,
	}
}

type addStockRequest struct {
	ItemName    string `json:"item_name"`
	Count       int    `json:"count"`
	ArrivalDate string `json:"arrival_date"`
	PointsCost  int    `json:"points_cost"`
}

type setPointsCostRequest struct {
	ItemName   string `json:"item_name"`
	PointsCost int    `json:"points_cost"`
}

type giftListResponse struct {
	Items []*model.Gift `json:"items"`
}

/* --------------------------------- Routes ----------------------------------- */

// ListGifts returns the catalog, or a single item when ?name= is given.
func (h *GiftHandler) ListGifts(ctx *xhttp.RequestCtx) {
	if name := query(ctx, "name"); name != "" {
		gift, err := h.svc.Get(ctx, name)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		writeJSON(ctx, 200, gift)
		return
	}

	items, err := h.svc.List(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, giftListResponse{Items: items})
}

func (h *GiftHandler) AddStock(ctx *xhttp.RequestCtx) {
	var req addStockRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	arrival, err := parseTime(req.ArrivalDate)
	if err != nil {
		writeError(ctx, 400, "invalid arrival_date: "+err.Error())
		return
	}

	gift, err := h.svc.AddStock(ctx, model.GiftStockRequest{
		Name:        req.ItemName,
		Count:       uint(req.Count),
		ArrivalDate: arrival,
		PointsCost:  req.PointsCost,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, gift)
}

func (h *GiftHandler) SetPointsCost(ctx *xhttp.RequestCtx) {
	var req setPointsCostRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	if err := h.svc.SetPointsCost(ctx, req.ItemName, req.PointsCost); err != nil {
		writeServiceError(ctx, err)
		return
	}

	gift, err := h.svc.Get(ctx, req.ItemName)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, gift)
}
