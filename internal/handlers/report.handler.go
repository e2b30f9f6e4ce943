package handlers

import (
	"context"
	"strings"

	"github.com/fasthttp/router"
	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	xhttp "github.com/nidhishshastri/loyalty-gateway/pkg/http"
)

type ReportService interface {
	CustomerReport(ctx context.Context) ([]*model.CustomerReport, error)
	RedemptionReport(ctx context.Context, f model.RedemptionFilter) ([]*model.RedemptionReportRow, int64, error)
}

type ReportHandler struct {
	svc ReportService
}

func RegisterReportRoutes(e *router.Group, h *ReportHandler) {
	e.GET("/reports/customers", h.CustomerReport)
	e.GET("/reports/redemptions", h.RedemptionReport)
}

func NewReportHandler(reportService ReportService) *ReportHandler {
	return &ReportHandler{
		svc: reportService,
	}
}

type customerReportResponse struct {
	Items []*model.CustomerReport `json:"items"`
}

type redemptionReportResponse struct {
	Items []*model.RedemptionReportRow `json:"items"`
	Total int64                        `json:"total"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *ReportHandler) CustomerReport(ctx *xhttp.RequestCtx) {
	items, err := h.svc.CustomerReport(ctx)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, customerReportResponse{Items: items})
}

func (h *ReportHandler) RedemptionReport(ctx *xhttp.RequestCtx) {
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

	items, total, err := h.svc.RedemptionReport(ctx, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, redemptionReportResponse{Items: items, Total: total})
}
