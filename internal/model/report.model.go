package model

import "time"

// CustomerReport aggregates redemption activity per customer.
type CustomerReport struct {
	CustomerID     string `json:"customer_id"`
	Name           string `json:"name"`
	Mobile         string `json:"mobile"`
	Points         uint   `json:"points"`
	GiftsRedeemed  int64  `json:"gifts_redeemed"`
	PointsConsumed int64  `json:"points_consumed"`
}

// RedemptionReportRow is one redemption joined with customer identity and
// the gift's remaining stock at query time.
type RedemptionReportRow struct {
	CustomerID     string    `json:"customer_id"`
	CustomerName   string    `json:"customer_name"`
	Mobile         string    `json:"mobile"`
	GiftName       string    `json:"gift_name"`
	PointsConsumed uint      `json:"points_consumed"`
	RedeemedAt     time.Time `json:"redeemed_at"`
	StockRemaining uint      `json:"stock_remaining"`
}
