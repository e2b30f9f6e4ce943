package model

import (
	"errors"
	"time"
)

type Gift struct {
	Name        string    `json:"item_name"`
	Stock       uint      `json:"stock"`
	ArrivalDate time.Time `json:"arrival_date"`
	PointsCost  uint      `json:"points_cost"`
}

func (Gift) TableName() string { return "gifts" }

// GiftStockRequest is the input for adding catalog stock. Arriving stock for
// an item already in the catalog is added to the existing count.
type GiftStockRequest struct {
	Name        string
	Count       uint
	ArrivalDate time.Time
	PointsCost  int
}

func (r GiftStockRequest) Validate() error {
	if r.Name == "" {
		return errors.New("item_name is required")
	}
	if r.Count == 0 {
		return errors.New("count must be at least 1")
	}
	if r.PointsCost < 0 {
		return errors.New("points_cost must not be negative")
	}
	if r.ArrivalDate.IsZero() {
		return errors.New("arrival_date is required")
	}
	return nil
}
