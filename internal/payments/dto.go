package payments

import (
	"time"

	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	"github.com/agrimarket/agrimarket-backend/pkg/enums"
	"github.com/agrimarket/agrimarket-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MobileMoneyRequest retries settlement for an order still pending payment.
type MobileMoneyRequest struct {
	OrderID     uuid.UUID                 `json:"order_id" validate:"required"`
	Provider    enums.MobileMoneyProvider `json:"provider" validate:"required"`
	PhoneNumber string                    `json:"phone_number" validate:"required,min=7,max=20"`
}

// PaymentDTO is the transport shape for a payment attempt.
type PaymentDTO struct {
	ID                  uuid.UUID                  `json:"id"`
	OrderID             uuid.UUID                  `json:"order_id"`
	OrderNumber         string                     `json:"order_number,omitempty"`
	TransactionID       string                     `json:"transaction_id"`
	Amount              decimal.Decimal            `json:"amount"`
	Method              enums.PaymentMethod        `json:"method"`
	MobileMoneyProvider *enums.MobileMoneyProvider `json:"mobile_money_provider,omitempty"`
	Status              enums.PaymentStatus        `json:"status"`
	PaymentDate         *time.Time                 `json:"payment_date,omitempty"`
	ResponseCode        *string                    `json:"response_code,omitempty"`
	ResponseMessage     *string                    `json:"response_message,omitempty"`
	CreatedAt           time.Time                  `json:"created_at"`
}

// HistoryResponse pairs a payment page with its pagination metadata.
type HistoryResponse struct {
	Payments []PaymentDTO    `json:"payments"`
	Meta     pagination.Meta `json:"meta"`
}

// StatusDTO summarizes where an order's payment stands.
type StatusDTO struct {
	OrderID       uuid.UUID                `json:"order_id"`
	OrderNumber   string                   `json:"order_number"`
	PaymentStatus enums.OrderPaymentStatus `json:"payment_status"`
	OrderStatus   enums.OrderStatus        `json:"order_status"`
	TransactionID *string                  `json:"transaction_id,omitempty"`
	Payment       *PaymentDTO              `json:"payment,omitempty"`
}

// FromModel converts a persisted payment into its transport shape.
func FromModel(p *models.Payment) PaymentDTO {
	dto := PaymentDTO{
		ID:                  p.ID,
		OrderID:             p.OrderID,
		TransactionID:       p.TransactionID,
		Amount:              p.Amount,
		Method:              p.Method,
		MobileMoneyProvider: p.MobileMoneyProvider,
		Status:              p.Status,
		PaymentDate:         p.PaymentDate,
		ResponseCode:        p.ResponseCode,
		ResponseMessage:     p.ResponseMessage,
		CreatedAt:           p.CreatedAt,
	}
	if p.Order != nil {
		dto.OrderNumber = p.Order.OrderNumber
	}
	return dto
}
