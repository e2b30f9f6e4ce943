package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/nidhishshastri/loyalty-gateway/internal/repository"
)

type GiftRepository interface {
	AddStock(ctx context.Context, gift *model.Gift) (*model.Gift, error)
	Get(ctx context.Context, name string) (*model.Gift, error)
	List(ctx context.Context) ([]*model.Gift, error)
	SetPointsCost(ctx context.Context, name string, cost uint) error
}

type GiftService struct {
	giftRepo GiftRepository
}

func NewGiftService(giftRepo GiftRepository) *GiftService {
	return &GiftService{
		giftRepo: giftRepo,
	}
}

// AddStock records arriving inventory; an existing item accumulates stock
// and takes the new arrival date and cost.
func (s *GiftService) AddStock(ctx context.Context, req model.GiftStockRequest) (*model.Gift, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, err.Error())
	}

	return s.giftRepo.AddStock(ctx, &model.Gift{
		Name:        req.Name,
		Stock:       req.Count,
		ArrivalDate: req.ArrivalDate,
		PointsCost:  uint(req.PointsCost),
	})
}

func (s *GiftService) Get(ctx context.Context, name string) (*model.Gift, error) {
	gift, err := s.giftRepo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrGiftNotFound) {
			return nil, ErrGiftNotFound
		}
		return nil, err
	}
	return gift, nil
}

// List returns the whole catalog, newest arrivals first.
func (s *GiftService) List(ctx context.Context) ([]*model.Gift, error) {
	return s.giftRepo.List(ctx)
}

// SetPointsCost reprices a gift. Committed redemptions keep the cost they
// were settled at.
func (s *GiftService) SetPointsCost(ctx context.Context, name string, cost int) error {
	if name == "" {
		return fmt.Errorf("%w: item_name is required", ErrInvalidArgument)
	}
	if cost < 0 {
		return fmt.Errorf("%w: points_cost must not be negative", ErrInvalidArgument)
	}

	err := s.giftRepo.SetPointsCost(ctx, name, uint(cost))
	if errors.Is(err, repository.ErrGiftNotFound) {
		return ErrGiftNotFound
	}
	return err
}
