package repository

import (
	"time"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
)

type RedemptionEntity struct {
	ID         int64     `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID string    `db:"customer_id" gorm:"column:customer_id;not null;index;size:16"`
	GiftName   string    `db:"gift_name"   gorm:"column:gift_name;not null;index"`
	PointsCost uint      `db:"points_cost" gorm:"column:points_cost;not null"`
	CreatedAt  time.Time `db:"created_at"  gorm:"column:created_at;autoCreateTime"`
}

func (RedemptionEntity) TableName() string {
	return "redemptions"
}

func toRedemptionEntity(m *model.Redemption) *RedemptionEntity {
	if m == nil {
		return nil
	}
	return &RedemptionEntity{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		GiftName:   m.GiftName,
		PointsCost: m.PointsCost,
		CreatedAt:  m.CreatedAt,
	}
}

func toRedemptionModel(e *RedemptionEntity) *model.Redemption {
	if e == nil {
		return nil
	}
	return &model.Redemption{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		GiftName:   e.GiftName,
		PointsCost: e.PointsCost,
		CreatedAt:  e.CreatedAt,
	}
}

func toRedemptionModels(entities []*RedemptionEntity) []*model.Redemption {
	if entities == nil {
		return nil
	}
	models := make([]*model.Redemption, len(entities))
	for i, e := range entities {
		models[i] = toRedemptionModel(e)
	}
	return models
}
