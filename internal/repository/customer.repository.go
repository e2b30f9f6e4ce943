package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/nidhishshastri/loyalty-gateway/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrDuplicateMobile    = errors.New("mobile number already registered")
	ErrDuplicateCard      = errors.New("card number already issued")
	ErrConcurrentUpdate   = errors.New("concurrent update detected")
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

type CustomerRepository struct {
	*pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{
		db,
	}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(customer)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		if isUniqueViolation(err, "mobile") {
			return nil, ErrDuplicateMobile
		}
		if isUniqueViolation(err, "card_number") {
			return nil, ErrDuplicateCard
		}
		return nil, err
	}

	return toCustomerModel(entity), nil
}

func (r *CustomerRepository) Get(ctx context.Context, id string) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	return toCustomerModel(&entity), nil
}

// GetForUpdate locks the customer row for the remainder of the surrounding
// transaction. Callers must be inside WithinTransaction.
func (r *CustomerRepository) GetForUpdate(ctx context.Context, id string) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Write(ctx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&entity).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	return toCustomerModel(&entity), nil
}

func (r *CustomerRepository) GetByMobile(ctx context.Context, mobile string) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("mobile = ?", mobile).
		First(&entity).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	return toCustomerModel(&entity), nil
}

func (r *CustomerRepository) GetByCard(ctx context.Context, cardNumber string) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("card_number = ?", cardNumber).
		First(&entity).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	return toCustomerModel(&entity), nil
}

// UpdatePoints overwrites the customer's point balance with the supplied
// post-transaction value. The caller owns the read-modify-write cycle and
// must hold the row lock (GetForUpdate) when correctness depends on it.
func (r *CustomerRepository) UpdatePoints(ctx context.Context, id string, newPoints uint) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&CustomerEntity{}).
		Where("id = ?", id).
		Update("points", newPoints)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// AddPoints performs an atomic points credit with automatic retry. This is
// the accrual entry point (e.g. a fuel purchase earning points).
func (r *CustomerRepository) AddPoints(ctx context.Context, id string, points uint) error {
	const maxRetries = 3
	const baseDelay = 2 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := r.addPointsAttempt(ctx, id, points)

		if err == nil {
			return nil
		}

		if errors.Is(err, ErrCustomerNotFound) {
			return err
		}

		if attempt < maxRetries {
			delay := baseDelay * time.Duration(1<<attempt) // 2ms, 4ms, 8ms
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
	}

	return fmt.Errorf("%w: failed after %d attempts", ErrMaxRetriesExceeded, maxRetries+1)
}

func (r *CustomerRepository) addPointsAttempt(ctx context.Context, id string, points uint) error {
	var entity CustomerEntity

	err := r.Write(ctx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&entity).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCustomerNotFound
		}
		return err
	}

	result := r.Write(ctx).WithContext(ctx).
		Model(&CustomerEntity{}).
		Where("id = ?", id).
		Update("points", gorm.Expr("points + ?", points))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}

	return nil
}

// SetCard updates the card number and status together. Blocking clears the
// card number; reissuing installs a fresh one.
func (r *CustomerRepository) SetCard(ctx context.Context, id string, cardNumber *string, status model.CardStatus) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&CustomerEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"card_number": cardNumber,
			"card_status": string(status),
		})

	if result.Error != nil {
		if isUniqueViolation(result.Error, "card_number") {
			return ErrDuplicateCard
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

func (r *CustomerRepository) GetPoints(ctx context.Context, id string) (uint, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Select("points").
		Where("id = ?", id).
		First(&entity).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCustomerNotFound
		}
		return 0, err
	}

	return entity.Points, nil
}

// isUniqueViolation matches postgres ("duplicate key ... _column_") and
// sqlite ("UNIQUE constraint failed: table.column") unique index errors.
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return strings.Contains(msg, column)
}
