package model

import (
	"errors"
	"time"
)

// Redemption is one committed gift purchase. PointsCost is the cost at
// commit time and is never recomputed, even if the catalog is repriced.
type Redemption struct {
	ID         int64     `json:"id"`
	CustomerID string    `json:"customer_id"`
	GiftName   string    `json:"gift_name"`
	PointsCost uint      `json:"points_cost"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Redemption) TableName() string { return "redemptions" }

// RedeemRequest is the input for committing a redemption. QuotedCost is the
// points cost the customer was shown at selection time; it is compared
// against the current catalog price before the commit.
type RedeemRequest struct {
	CustomerID string
	GiftName   string
	QuotedCost int
}

func (r RedeemRequest) Validate() error {
	if r.CustomerID == "" {
		return errors.New("customer_id is required")
	}
	if r.GiftName == "" {
		return errors.New("gift_name is required")
	}
	if r.QuotedCost < 0 {
		return errors.New("quoted_cost must not be negative")
	}
	return nil
}

// RedemptionFilter controls history queries.
type RedemptionFilter struct {
	CustomerID *string
	GiftName   *string
	From       *time.Time
	To         *time.Time
	Limit      int // default 50
	Offset     int
	Desc       bool // order by created_at
}

// RedemptionEvent is published to the event stream after a commit.
type RedemptionEvent struct {
	RedemptionID int64     `json:"redemption_id"`
	CustomerID   string    `json:"customer_id"`
	Mobile       string    `json:"mobile"`
	GiftName     string    `json:"gift_name"`
	PointsCost   uint      `json:"points_cost"`
	PointsLeft   uint      `json:"points_left"`
	CommittedAt  time.Time `json:"committed_at"`
}
