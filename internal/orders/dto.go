package orders

import (
	"time"

	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	"github.com/agrimarket/agrimarket-backend/pkg/enums"
	"github.com/agrimarket/agrimarket-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDTO is one settled order line with its captured price.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDTO is the transport shape for a placed order.
type OrderDTO struct {
	ID              uuid.UUID               `json:"id"`
	OrderNumber     string                  `json:"order_number"`
	UserID          uuid.UUID               `json:"user_id"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	DeliveryAddress string                  `json:"delivery_address"`
	PhoneNumber     string                  `json:"phone_number"`
	PaymentMethod   enums.PaymentMethod     `json:"payment_method"`
	PaymentStatus   enums.OrderPaymentStatus `json:"payment_status"`
	OrderStatus     enums.OrderStatus       `json:"order_status"`
	TransactionID   *string                 `json:"transaction_id,omitempty"`
	Items           []ItemDTO               `json:"items,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ListResponse pairs an order page with its pagination metadata.
type ListResponse struct {
	Orders []OrderDTO      `json:"orders"`
	Meta   pagination.Meta `json:"meta"`
}

// AdminListFilters narrow the admin order listing.
type AdminListFilters struct {
	OrderStatus   *enums.OrderStatus
	PaymentStatus *enums.OrderPaymentStatus
}

// UpdateStatusRequest is the admin payload for advancing an order.
type UpdateStatusRequest struct {
	OrderStatus enums.OrderStatus `json:"order_status" validate:"required"`
}

// FromModel converts a persisted order into its transport shape.
func FromModel(o *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		DeliveryAddress: o.DeliveryAddress,
		PhoneNumber:     o.PhoneNumber,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		OrderStatus:     o.OrderStatus,
		TransactionID:   o.TransactionID,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for i := range o.Items {
		item := &o.Items[i]
		line := ItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
			LineTotal:   item.PriceAtTime.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
		}
		dto.Items = append(dto.Items, line)
	}
	return dto
}
