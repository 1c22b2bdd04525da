package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrimarket/agrimarket-backend/pkg/enums"
)

// Order is the durable result of a checkout. TotalAmount is immutable after
// creation; the status columns are moved by admins and the payment flow.
type Order struct {
	ID              uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string                   `gorm:"column:order_number;size:50;not null;uniqueIndex"`
	UserID          uuid.UUID                `gorm:"column:user_id;type:uuid;not null"`
	User            *User                    `gorm:"foreignKey:UserID"`
	TotalAmount     decimal.Decimal          `gorm:"column:total_amount;type:numeric(10,2);not null"`
	DeliveryAddress string                   `gorm:"column:delivery_address;not null"`
	PhoneNumber     string                   `gorm:"column:phone_number;size:20;not null"`
	PaymentMethod   enums.PaymentMethod      `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus   enums.OrderPaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	OrderStatus     enums.OrderStatus        `gorm:"column:order_status;type:text;not null;default:'pending'"`
	TransactionID   *string                  `gorm:"column:transaction_id;size:100"`
	Items           []OrderItem              `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment         *Payment                 `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
