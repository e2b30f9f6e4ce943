package repository

import (
	"time"

	"github.com/nidhishshastri/loyalty-gateway/internal/model"
)

// GiftEntity is keyed by item name; the catalog treats the name as the
// gift's identifier.
type GiftEntity struct {
	Name        string    `db:"item_name"    gorm:"primaryKey;column:item_name"`
	Stock       uint      `db:"stock"        gorm:"column:stock;not null;default:0"`
	ArrivalDate time.Time `db:"arrival_date" gorm:"column:arrival_date;not null"`
	PointsCost  uint      `db:"points_cost"  gorm:"column:points_cost;not null;default:0"`
}

func (GiftEntity) TableName() string {
	return "gifts"
}

func toGiftEntity(m *model.Gift) *GiftEntity {
	if m == nil {
		return nil
	}
	return &GiftEntity{
		Name:        m.Name,
		Stock:       m.Stock,
		ArrivalDate: m.ArrivalDate,
		PointsCost:  m.PointsCost,
	}
}

func toGiftModel(e *GiftEntity) *model.Gift {
	if e == nil {
		return nil
	}
	return &model.Gift{
		Name:        e.Name,
		Stock:       e.Stock,
		ArrivalDate: e.ArrivalDate,
		PointsCost:  e.PointsCost,
	}
}

func toGiftModels(entities []*GiftEntity) []*model.Gift {
	if entities == nil {
		return nil
	}
	models := make([]*model.Gift, len(entities))
	for i, e := range entities {
		models[i] = toGiftModel(e)
	}
	return models
}
