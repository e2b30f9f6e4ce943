package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/nidhishshastri/loyalty-gateway/internal/repository"
)

var (
	ErrDuplicateMobile  = errors.New("mobile number already registered")
	ErrCardBlocked      = errors.New("card is already blocked")
	ErrCardNotBlocked   = errors.New("card is not blocked")
	ErrIDSpaceExhausted = errors.New("could not generate a unique identifier")
)

const idAttempts = 5

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	Get(ctx context.Context, id string) (*model.Customer, error)
	GetByMobile(ctx context.Context, mobile string) (*model.Customer, error)
	GetByCard(ctx context.Context, cardNumber string) (*model.Customer, error)
	AddPoints(ctx context.Context, id string, points uint) error
	SetCard(ctx context.Context, id string, cardNumber *string, status model.CardStatus) error
}

type CustomerService struct {
	customerRepo CustomerRepository
}

func NewCustomerService(customerRepo CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// Register creates a customer with a generated customer ID and card number.
// Generated identifiers are checked against the store; a random collision is
// retried a bounded number of times rather than trusted to never happen.
func (s *CustomerService) Register(ctx context.Context, req model.RegisterRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, err.Error())
	}

	if _, err := s.customerRepo.GetByMobile(ctx, req.Mobile); err == nil {
		return nil, ErrDuplicateMobile
	} else if !errors.Is(err, repository.ErrCustomerNotFound) {
		return nil, fmt.Errorf("check mobile: %w", err)
	}

	id, err := s.generateID(ctx, "CUST", func(ctx context.Context, candidate string) error {
		_, err := s.customerRepo.Get(ctx, candidate)
		return err
	})
	if err != nil {
		return nil, err
	}

	cardNumber, err := s.generateID(ctx, "CARD", func(ctx context.Context, candidate string) error {
		_, err := s.customerRepo.GetByCard(ctx, candidate)
		return err
	})
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.Create(ctx, &model.Customer{
		ID:         id,
		Name:       strings.TrimSpace(req.Name),
		Mobile:     req.Mobile,
		CardNumber: &cardNumber,
		CardStatus: model.CardStatusActive,
		Points:     0,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateMobile) {
			return nil, ErrDuplicateMobile
		}
		return nil, err
	}

	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*model.Customer, error) {
	customer, err := s.customerRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) GetByMobile(ctx context.Context, mobile string) (*model.Customer, error) {
	customer, err := s.customerRepo.GetByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) GetByCard(ctx context.Context, cardNumber string) (*model.Customer, error) {
	customer, err := s.customerRepo.GetByCard(ctx, cardNumber)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// AddPoints credits accrued points (e.g. a purchase at the till). Debits go
// exclusively through the redemption service.
func (s *CustomerService) AddPoints(ctx context.Context, id string, points int) error {
	if points <= 0 {
		return fmt.Errorf("%w: points must be positive", ErrInvalidArgument)
	}
	err := s.customerRepo.AddPoints(ctx, id, uint(points))
	if errors.Is(err, repository.ErrCustomerNotFound) {
		return ErrCustomerNotFound
	}
	return err
}

// BlockCard marks a lost or compromised card BLOCKED and clears its number;
// the points balance survives the block.
func (s *CustomerService) BlockCard(ctx context.Context, id string) (*model.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer.CardStatus == model.CardStatusBlocked {
		return nil, ErrCardBlocked
	}

	if err := s.customerRepo.SetCard(ctx, id, nil, model.CardStatusBlocked); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// ReissueCard issues a fresh card number for a blocked customer and
// reactivates the account.
func (s *CustomerService) ReissueCard(ctx context.Context, id string) (*model.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer.CardStatus != model.CardStatusBlocked {
		return nil, ErrCardNotBlocked
	}

	cardNumber, err := s.generateID(ctx, "CARD", func(ctx context.Context, candidate string) error {
		_, err := s.customerRepo.GetByCard(ctx, candidate)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.SetCard(ctx, id, &cardNumber, model.CardStatusActive); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// generateID produces prefix + 6 hex chars from a fresh UUID and verifies
// the candidate is unused. lookup must return ErrCustomerNotFound for a free
// identifier; anything else means taken (nil) or a store failure.
func (s *CustomerService) generateID(ctx context.Context, prefix string, lookup func(ctx context.Context, candidate string) error) (string, error) {
	for attempt := 0; attempt < idAttempts; attempt++ {
		candidate := prefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])

		err := lookup(ctx, candidate)
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check %s identifier: %w", prefix, err)
		}
		// Candidate already taken, roll again.
	}
	return "", fmt.Errorf("%w: %s", ErrIDSpaceExhausted, prefix)
}
