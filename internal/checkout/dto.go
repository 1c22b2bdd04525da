package checkout

import (
	"github.com/agrimarket/agrimarket-backend/internal/orders"
	"github.com/agrimarket/agrimarket-backend/pkg/enums"
)

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	DeliveryAddress     string                     `json:"delivery_address" validate:"required,min=5"`
	PhoneNumber         string                     `json:"phone_number" validate:"required,min=7,max=20"`
	PaymentMethod       enums.PaymentMethod        `json:"payment_method" validate:"required"`
	MobileMoneyProvider *enums.MobileMoneyProvider `json:"mobile_money_provider,omitempty"`
	MobileMoneyNumber   *string                    `json:"mobile_money_number,omitempty"`
}

// PlaceOrderResponse returns the settled order plus a settlement hint for the
// client. PaymentPending is true when mobile money settlement did not complete
// and the order is waiting for a retry.
type PlaceOrderResponse struct {
	Order          orders.OrderDTO `json:"order"`
	PaymentPending bool            `json:"payment_pending"`
	PaymentMessage string          `json:"payment_message,omitempty"`
}
