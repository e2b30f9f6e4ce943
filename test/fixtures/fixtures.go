package fixtures

import (
	"time"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
)

func cardPtr(s string) *string { return &s }

var (
	TestCustomerActive = model.Customer{
		ID:         "CUST123ABC",
		Name:       "Asha Rao",
		Mobile:     "9876543210",
		CardNumber: cardPtr("CARD123ABC"),
		CardStatus: model.CardStatusActive,
		Points:     500,
	}

	TestCustomerBlocked = model.Customer{
		ID:         "CUST456DEF",
		Name:       "Vikram Singh",
		Mobile:     "9812345678",
		CardNumber: nil,
		CardStatus: model.CardStatusBlocked,
		Points:     250,
	}

	TestCustomerLowPoints = model.Customer{
		ID:         "CUST789GHI",
		Name:       "Meera Nair",
		Mobile:     "9898989898",
		CardNumber: cardPtr("CARD789GHI"),
		CardStatus: model.CardStatusActive,
		Points:     10,
	}

	TestCustomerZeroPoints = model.Customer{
		ID:         "CUST000JKL",
		Name:       "Rahul Iyer",
		Mobile:     "9700000000",
		CardNumber: cardPtr("CARD000JKL"),
		CardStatus: model.CardStatusActive,
		Points:     0,
	}
)

func NewTestGift(name string, stock, pointsCost uint) *model.Gift {
	return &model.Gift{
		Name:        name,
		Stock:       stock,
		ArrivalDate: time.Now().AddDate(0, 0, -7),
		PointsCost:  pointsCost,
	}
}

func NewTestStockRequest(name string, count uint, pointsCost int) model.GiftStockRequest {
	return model.GiftStockRequest{
		Name:        name,
		Count:       count,
		ArrivalDate: time.Now(),
		PointsCost:  pointsCost,
	}
}

func NewTestRedeemRequest(customerID, giftName string, quotedCost int) model.RedeemRequest {
	return model.RedeemRequest{
		CustomerID: customerID,
		GiftName:   giftName,
		QuotedCost: quotedCost,
	}
}

var (
	ValidMobileNumbers = []string{
		"9876543210",
		"9812345678",
		"9898989898",
		"9700000000",
		"9123456789",
	}

	InvalidMobileNumbers = []string{
		"",
		"123",
		"98765432101",
		"+919876543210",
		"abcdefghij",
	}
)

func RegisterRequestValid() model.RegisterRequest {
	return model.RegisterRequest{Name: "Asha Rao", Mobile: "9876543210"}
}

func RegisterRequestInvalidMobile() model.RegisterRequest {
	return model.RegisterRequest{Name: "Asha Rao", Mobile: "123"}
}

func RegisterRequestMissingName() model.RegisterRequest {
	return model.RegisterRequest{Name: "", Mobile: "9876543210"}
}

func RedemptionFilterByCustomer(customerID string) model.RedemptionFilter {
	return model.RedemptionFilter{
		CustomerID: &customerID,
		Limit:      50,
		Offset:     0,
		Desc:       false,
	}
}

func RedemptionFilterWithPagination(customerID string, limit, offset int) model.RedemptionFilter {
	return model.RedemptionFilter{
		CustomerID: &customerID,
		Limit:      limit,
		Offset:     offset,
		Desc:       false,
	}
}

func RedemptionFilterByGift(giftName string) model.RedemptionFilter {
	return model.RedemptionFilter{
		GiftName: &giftName,
		Limit:    50,
		Offset:   0,
		Desc:     false,
	}
}

func RedemptionFilterByTimeRange(customerID string, from, to time.Time) model.RedemptionFilter {
	return model.RedemptionFilter{
		CustomerID: &customerID,
		From:       &from,
		To:         &to,
		Limit:      50,
		Offset:     0,
		Desc:       false,
	}
}
