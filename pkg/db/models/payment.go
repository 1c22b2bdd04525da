package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrimarket/agrimarket-backend/pkg/enums"
)

// Payment records a settlement attempt against an order.
type Payment struct {
	ID                  uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey"`
	OrderID             uuid.UUID                  `gorm:"column:order_id;type:uuid;not null"`
	Order               *Order                     `gorm:"foreignKey:OrderID"`
	TransactionID       string                     `gorm:"column:transaction_id;size:100;not null;uniqueIndex"`
	Amount              decimal.Decimal            `gorm:"column:amount;type:numeric(10,2);not null"`
	Method              enums.PaymentMethod        `gorm:"column:method;type:text;not null"`
	MobileMoneyProvider *enums.MobileMoneyProvider `gorm:"column:mobile_money_provider;type:text"`
	MobileMoneyNumber   *string                    `gorm:"column:mobile_money_number;size:20"`
	Status              enums.PaymentStatus        `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentDate         *time.Time                 `gorm:"column:payment_date"`
	ResponseCode        *string                    `gorm:"column:response_code;size:50"`
	ResponseMessage     *string                    `gorm:"column:response_message"`
	CreatedAt           time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
