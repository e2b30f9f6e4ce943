package model

import (
	"errors"
	"regexp"
)

// CardStatus is the lifecycle state of a loyalty card.
type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusBlocked CardStatus = "BLOCKED"
)

type Customer struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Mobile     string     `json:"mobile"`
	CardNumber *string    `json:"card_number"` // nil while the card is blocked
	CardStatus CardStatus `json:"card_status"`
	Points     uint       `json:"points"`
}

func (Customer) TableName() string { return "customers" }

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// RegisterRequest is the input for registering a customer.
type RegisterRequest struct {
	Name   string
	Mobile string
}

func (r RegisterRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if !mobilePattern.MatchString(r.Mobile) {
		return errors.New("mobile must be exactly 10 digits")
	}
	return nil
}
