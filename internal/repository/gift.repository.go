package repository

import (
	"context"
	"errors"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/nidhishshastri/loyalty-gateway/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrGiftNotFound = errors.New("gift not found")
)

type GiftRepository struct {
	*pg.DB
}

func NewGiftRepository(db *pg.DB) *GiftRepository {
	return &GiftRepository{
		db,
	}
}

// AddStock creates the gift or, when the item already exists, adds the
// arriving count to its stock and refreshes the arrival date and cost.
func (r *GiftRepository) AddStock(ctx context.Context, gift *model.Gift) (*model.Gift, error) {
	entity := toGiftEntity(gift)

	err := r.Write(ctx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"stock":        gorm.Expr("gifts.stock + ?", gift.Stock),
				"arrival_date": gift.ArrivalDate,
				"points_cost":  gift.PointsCost,
			}),
		}).
		Create(entity).
		Error
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, gift.Name)
}

func (r *GiftRepository) Get(ctx context.Context, name string) (*model.Gift, error) {
	var entity GiftEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("item_name = ?", name).
		First(&entity).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGiftNotFound
		}
		return nil, err
	}

	return toGiftModel(&entity), nil
}

// GetForUpdate locks the gift row for the remainder of the surrounding
// transaction. Callers must be inside WithinTransaction.
func (r *GiftRepository) GetForUpdate(ctx context.Context, name string) (*model.Gift, error) {
	var entity GiftEntity
	err := r.Write(ctx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_name = ?", name).
		First(&entity).
		Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGiftNotFound
		}
		return nil, err
	}

	return toGiftModel(&entity), nil
}

// List returns the full catalog, newest arrivals first.
func (r *GiftRepository) List(ctx context.Context) ([]*model.Gift, error) {
	var entities []*GiftEntity
	err := r.Read(ctx).WithContext(ctx).
		Order("arrival_date DESC, item_name ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}

	return toGiftModels(entities), nil
}

// UpdateStock overwrites the gift's stock with the supplied post-transaction
// value. The caller owns the read-modify-write cycle and must hold the row
// lock (GetForUpdate) when correctness depends on it.
func (r *GiftRepository) UpdateStock(ctx context.Context, name string, newStock uint) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&GiftEntity{}).
		Where("item_name = ?", name).
		Update("stock", newStock)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrGiftNotFound
	}

	return nil
}

// SetPointsCost reprices a gift. Pricing changes are independent of stock
// movements and of any in-flight redemption, which re-checks the price
// under its own row lock.
func (r *GiftRepository) SetPointsCost(ctx context.Context, name string, cost uint) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&GiftEntity{}).
		Where("item_name = ?", name).
		Update("points_cost", cost)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrGiftNotFound
	}

	return nil
}
