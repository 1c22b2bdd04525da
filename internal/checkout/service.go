package checkout

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/agrimarket/agrimarket-backend/internal/cart"
	"github.com/agrimarket/agrimarket-backend/internal/orders"
	"github.com/agrimarket/agrimarket-backend/internal/payments"
	"github.com/agrimarket/agrimarket-backend/internal/products"
	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	"github.com/agrimarket/agrimarket-backend/pkg/enums"
	pkgerrors "github.com/agrimarket/agrimarket-backend/pkg/errors"
	"github.com/agrimarket/agrimarket-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service turns a cart into a durable order.
type Service interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResponse, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type settler interface {
	SettleMobileMoney(ctx context.Context, order *models.Order, provider enums.MobileMoneyProvider, phoneNumber string) (*models.Payment, error)
}

type notifier interface {
	OrderPlaced(ctx context.Context, order *models.Order)
}

type orderFinder interface {
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
}

type service struct {
	db       txRunner
	orders   orderFinder
	settler  settler
	notifier notifier
	logg     *logger.Logger
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	DB       txRunner
	Orders   orderFinder
	Settler  settler
	Notifier notifier
	Logger   *logger.Logger
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order finder is required")
	}
	if params.Settler == nil {
		return nil, fmt.Errorf("payment settler is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	return &service{
		db:       params.DB,
		orders:   params.Orders,
		settler:  params.Settler,
		notifier: params.Notifier,
		logg:     params.Logger,
	}, nil
}

// PlaceOrder validates the cart, captures prices, decrements stock, and clears
// the cart in one transaction. Mobile money settlement runs after the commit
// so a declined charge keeps the order on record as pending.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := cart.NewRepository(tx)
		productRepo := products.NewRepository(tx)
		orderRepo := orders.NewRepository(tx)
		paymentRepo := payments.NewRepository(tx)

		items, err := cartRepo.ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for i := range items {
			line := &items[i]
			if line.Product == nil || !line.Product.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart contains an unavailable product")
			}
			lineTotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				PriceAtTime: line.Product.Price,
			})
		}

		order = &models.Order{
			OrderNumber:     newOrderNumber(),
			UserID:          userID,
			TotalAmount:     total,
			DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
			PhoneNumber:     strings.TrimSpace(req.PhoneNumber),
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   enums.OrderPaymentPending,
			OrderStatus:     enums.OrderStatusPending,
			Items:           orderItems,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		// Stock leaves the shelf only inside this transaction. A guard
		// rejecting any line rolls back the whole order.
		for i := range items {
			line := &items[i]
			ok, err := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("insufficient stock for %s", line.Product.Name))
			}
		}

		if req.PaymentMethod == enums.PaymentMethodCashOnDelivery {
			payment := &models.Payment{
				OrderID:       order.ID,
				TransactionID: payments.NewCashOnDeliveryTransactionID(),
				Amount:        total,
				Method:        enums.PaymentMethodCashOnDelivery,
				Status:        enums.PaymentStatusPending,
			}
			if err := paymentRepo.Create(ctx, payment); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record cod payment")
			}
			if err := orderRepo.UpdateOrderStatus(ctx, order.ID, enums.OrderStatusProcessing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "advance cod order")
			}
			order.OrderStatus = enums.OrderStatusProcessing
		}

		if err := cartRepo.Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout transaction")
	}

	resp := &PlaceOrderResponse{}

	switch req.PaymentMethod {
	case enums.PaymentMethodCashOnDelivery:
		s.notifier.OrderPlaced(ctx, order)

	case enums.PaymentMethodMobileMoney:
		payment, err := s.settler.SettleMobileMoney(ctx, order, *req.MobileMoneyProvider, *req.MobileMoneyNumber)
		if err != nil {
			// The order is already committed. Settlement can be retried
			// through the payments endpoint, so report pending, not failure.
			if s.logg != nil {
				s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "mobile money settlement errored", err)
			}
			resp.PaymentPending = true
			resp.PaymentMessage = "payment could not be processed, retry via payments endpoint"
		} else if payment.Status != enums.PaymentStatusCompleted {
			resp.PaymentPending = true
			if payment.ResponseMessage != nil {
				resp.PaymentMessage = *payment.ResponseMessage
			}
		}
	}

	final, err := s.orders.FindByID(ctx, order.ID)
	if err != nil {
		// The order exists; a reload hiccup should not fail the checkout.
		if s.logg != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, order.ID.String()), "reload placed order")
		}
		final = order
	}
	resp.Order = orders.FromModel(final)
	return resp, nil
}

func validateRequest(req PlaceOrderRequest) error {
	if strings.TrimSpace(req.DeliveryAddress) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery_address is required")
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone_number is required")
	}
	if !req.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if req.PaymentMethod == enums.PaymentMethodMobileMoney {
		if req.MobileMoneyProvider == nil || !req.MobileMoneyProvider.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "valid mobile_money_provider is required")
		}
		if req.MobileMoneyNumber == nil || strings.TrimSpace(*req.MobileMoneyNumber) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "mobile_money_number is required")
		}
	}
	return nil
}

// newOrderNumber builds a human-readable, unique order reference:
// ORD-<unix ms>-<random digits>.
func newOrderNumber() string {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	random := binary.BigEndian.Uint64(buf[:]) % 1000000
	return fmt.Sprintf("ORD-%d-%06d", time.Now().UnixMilli(), random)
}
