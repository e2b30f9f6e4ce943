package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/nidhishshastri/loyalty-gateway/internal/queue"
	"github.com/nidhishshastri/loyalty-gateway/internal/repository"
	"github.com/nidhishshastri/loyalty-gateway/pkg/logger"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrGiftNotFound       = errors.New("gift not found")
	ErrOutOfStock         = errors.New("gift is out of stock")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrBusy               = errors.New("redemption contended, retry")
)

// PriceChangedError rejects a stale quote and carries the current catalog
// price so the caller can re-quote.
type PriceChangedError struct {
	Current uint
}

func (e *PriceChangedError) Error() string {
	return fmt.Sprintf("gift price changed, current cost is %d", e.Current)
}

type RedemptionCustomerRepository interface {
	GetForUpdate(ctx context.Context, id string) (*model.Customer, error)
	UpdatePoints(ctx context.Context, id string, newPoints uint) error
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type RedemptionGiftRepository interface {
	List(ctx context.Context) ([]*model.Gift, error)
	GetForUpdate(ctx context.Context, name string) (*model.Gift, error)
	UpdateStock(ctx context.Context, name string, newStock uint) error
}

type RedemptionRepository interface {
	Create(ctx context.Context, redemption *model.Redemption) (*model.Redemption, error)
	List(ctx context.Context, f model.RedemptionFilter) ([]*model.Redemption, int64, error)
}

type RedemptionService struct {
	customerRepo   RedemptionCustomerRepository
	giftRepo       RedemptionGiftRepository
	redemptionRepo RedemptionRepository
	events         *queue.Queue
}

func NewRedemptionService(customerRepo RedemptionCustomerRepository, giftRepo RedemptionGiftRepository, redemptionRepo RedemptionRepository, events *queue.Queue) *RedemptionService {
	return &RedemptionService{
		customerRepo:   customerRepo,
		giftRepo:       giftRepo,
		redemptionRepo: redemptionRepo,
		events:         events,
	}
}

// ListEligibleGifts returns every gift the customer can afford right now:
// in stock and costing at most customerPoints. Results are ordered by
// ascending cost, ties broken by item name. A read with no side effects;
// an empty catalog or an empty result is not an error.
func (s *RedemptionService) ListEligibleGifts(ctx context.Context, customerPoints int) ([]*model.Gift, error) {
	if customerPoints < 0 {
		return nil, fmt.Errorf("%w: customer points must not be negative", ErrInvalidArgument)
	}

	catalog, err := s.giftRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	eligible := make([]*model.Gift, 0, len(catalog))
	for _, g := range catalog {
		if g.Stock > 0 && g.PointsCost <= uint(customerPoints) {
			eligible = append(eligible, g)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].PointsCost != eligible[j].PointsCost {
			return eligible[i].PointsCost < eligible[j].PointsCost
		}
		return eligible[i].Name < eligible[j].Name
	})

	return eligible, nil
}

// Redeem validates and commits a gift purchase as one atomic unit: debit the
// customer's points by the quoted cost, decrement the gift's stock by one,
// and append the ledger record with the cost snapshot. Every precondition
// check runs under row locks inside a single store transaction, so the state
// it saw cannot change before the commit. A stale quote is always rejected
// with PriceChangedError, never silently honored at the new price.
func (s *RedemptionService) Redeem(ctx context.Context, req model.RedeemRequest) (*model.Redemption, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, err.Error())
	}

	const maxRetries = 3
	const baseDelay = 2 * time.Millisecond

	var committed *model.Redemption
	var event model.RedemptionEvent

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := s.redeemAttempt(ctx, req, &committed, &event)

		if err == nil {
			s.publishEvent(ctx, event)
			return committed, nil
		}

		if isPermanentRedeemError(err) {
			return nil, err
		}

		// Transient lock/serialization failure: back off and retry.
		if attempt < maxRetries {
			delay := baseDelay * time.Duration(1<<attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
	}

	return nil, fmt.Errorf("%w: gave up after %d attempts", ErrBusy, maxRetries+1)
}

func (s *RedemptionService) redeemAttempt(ctx context.Context, req model.RedeemRequest, committed **model.Redemption, event *model.RedemptionEvent) error {
	return s.customerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		// Rows are locked in a fixed order (customer, then gift) so two
		// redemptions touching the same pair cannot deadlock.
		customer, err := s.customerRepo.GetForUpdate(ctx, req.CustomerID)
		if err != nil {
			if errors.Is(err, repository.ErrCustomerNotFound) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("lock customer: %w", err)
		}

		if customer.CardStatus == model.CardStatusBlocked {
			return ErrCardBlocked
		}

		gift, err := s.giftRepo.GetForUpdate(ctx, req.GiftName)
		if err != nil {
			if errors.Is(err, repository.ErrGiftNotFound) {
				return ErrGiftNotFound
			}
			return fmt.Errorf("lock gift: %w", err)
		}

		quoted := uint(req.QuotedCost)
		if gift.PointsCost != quoted {
			return &PriceChangedError{Current: gift.PointsCost}
		}

		if gift.Stock < 1 {
			return ErrOutOfStock
		}

		if customer.Points < quoted {
			return ErrInsufficientPoints
		}

		if err := s.customerRepo.UpdatePoints(ctx, customer.ID, customer.Points-quoted); err != nil {
			return fmt.Errorf("debit points: %w", err)
		}

		if err := s.giftRepo.UpdateStock(ctx, gift.Name, gift.Stock-1); err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		record, err := s.redemptionRepo.Create(ctx, &model.Redemption{
			CustomerID: customer.ID,
			GiftName:   gift.Name,
			PointsCost: quoted,
		})
		if err != nil {
			return fmt.Errorf("append redemption: %w", err)
		}

		*committed = record
		*event = model.RedemptionEvent{
			RedemptionID: record.ID,
			CustomerID:   customer.ID,
			Mobile:       customer.Mobile,
			GiftName:     gift.Name,
			PointsCost:   quoted,
			PointsLeft:   customer.Points - quoted,
			CommittedAt:  record.CreatedAt,
		}
		return nil
	})
}

// publishEvent hands the committed redemption to the notifier stream. The
// redemption is already durable at this point; a publish failure is logged
// and never unwinds the commit.
func (s *RedemptionService) publishEvent(ctx context.Context, event model.RedemptionEvent) {
	if s.events == nil {
		return
	}
	if _, err := s.events.PublishJSON(ctx, event, nil); err != nil {
		logger.Warn("failed to publish redemption event",
			"redemption_id", event.RedemptionID,
			"customer_id", event.CustomerID,
			"error", err)
	}
}

func (s *RedemptionService) History(ctx context.Context, f model.RedemptionFilter) ([]*model.Redemption, int64, error) {
	return s.redemptionRepo.List(ctx, f)
}

func isPermanentRedeemError(err error) bool {
	var priceChanged *PriceChangedError
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrGiftNotFound) ||
		errors.Is(err, ErrCardBlocked) ||
		errors.Is(err, ErrOutOfStock) ||
		errors.Is(err, ErrInsufficientPoints) ||
		errors.As(err, &priceChanged)
}
