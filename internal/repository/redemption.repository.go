package repository

import (
	"context"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
	"github.com/nidhishshastri/loyalty-gateway/pkg/pg"
)

// RedemptionRepository is append-only; committed records are never mutated
// or deleted.
type RedemptionRepository struct {
	*pg.DB
}

func NewRedemptionRepository(db *pg.DB) *RedemptionRepository {
	return &RedemptionRepository{
		db,
	}
}

func (r *RedemptionRepository) Create(ctx context.Context, redemption *model.Redemption) (*model.Redemption, error) {
	entity := toRedemptionEntity(redemption)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toRedemptionModel(entity), nil
}

func (r *RedemptionRepository) List(ctx context.Context, f model.RedemptionFilter) ([]*model.Redemption, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&RedemptionEntity{})

	if f.CustomerID != nil && *f.CustomerID != "" {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.GiftName != nil && *f.GiftName != "" {
		q = q.Where("gift_name = ?", *f.GiftName)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	// Count before pagination
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at"
	if f.Desc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*RedemptionEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toRedemptionModels(entities), total, nil
}

// CustomerReport aggregates per-customer redemption totals across the whole
// customer base; customers with no redemptions appear with zero counts.
func (r *RedemptionRepository) CustomerReport(ctx context.Context) ([]*model.CustomerReport, error) {
	var rows []*model.CustomerReport
	err := r.Read(ctx).WithContext(ctx).
		Table("customers AS c").
		Select(`
            c.id                                    AS customer_id,
            c.name                                  AS name,
            c.mobile                                AS mobile,
            c.points                                AS points,
            COUNT(rd.id)                            AS gifts_redeemed,
            COALESCE(SUM(rd.points_cost), 0)        AS points_consumed
        `).
		Joins("LEFT JOIN redemptions AS rd ON rd.customer_id = c.id").
		Group("c.id, c.name, c.mobile, c.points").
		Order("c.id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// RedemptionReport joins each redemption with the customer's identity and
// the gift's remaining stock at query time.
func (r *RedemptionRepository) RedemptionReport(ctx context.Context, f model.RedemptionFilter) ([]*model.RedemptionReportRow, int64, error) {
	q := r.Read(ctx).WithContext(ctx).
		Table("redemptions AS rd").
		Joins("JOIN customers AS c ON c.id = rd.customer_id").
		Joins("JOIN gifts AS g ON g.item_name = rd.gift_name")

	if f.CustomerID != nil && *f.CustomerID != "" {
		q = q.Where("rd.customer_id = ?", *f.CustomerID)
	}
	if f.From != nil {
		q = q.Where("rd.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("rd.created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "rd.created_at ASC"
	if f.Desc {
		order = "rd.created_at DESC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var rows []*model.RedemptionReportRow
	err := q.
		Select(`
            rd.customer_id  AS customer_id,
            c.name          AS customer_name,
            c.mobile        AS mobile,
            rd.gift_name    AS gift_name,
            rd.points_cost  AS points_consumed,
            rd.created_at   AS redeemed_at,
            g.stock         AS stock_remaining
        `).
		Order(order).
		Limit(limit).
		Offset(offset).
		Scan(&rows).
		Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
