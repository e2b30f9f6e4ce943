package repository

import (
	"github.com/nidhishshastri/loyalty-gateway/internal/model"
)

type CustomerEntity struct {
	ID         string  `db:"id"          gorm:"primaryKey;column:id;size:16"`
	Name       string  `db:"name"        gorm:"column:name;not null"`
	Mobile     string  `db:"mobile"      gorm:"column:mobile;not null;unique;size:10"`
	CardNumber *string `db:"card_number" gorm:"column:card_number;unique;size:16"`
	CardStatus string  `db:"card_status" gorm:"column:card_status;not null;default:ACTIVE"`
	Points     uint    `db:"points"      gorm:"column:points;not null;default:0"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		ID:         m.ID,
		Name:       m.Name,
		Mobile:     m.Mobile,
		CardNumber: m.CardNumber,
		CardStatus: string(m.CardStatus),
		Points:     m.Points,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:         e.ID,
		Name:       e.Name,
		Mobile:     e.Mobile,
		CardNumber: e.CardNumber,
		CardStatus: model.CardStatus(e.CardStatus),
		Points:     e.Points,
	}
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	if entities == nil {
		return nil
	}
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}
