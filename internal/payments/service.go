package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agrimarket/agrimarket-backend/pkg/config"
	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	"github.com/agrimarket/agrimarket-backend/pkg/enums"
	pkgerrors "github.com/agrimarket/agrimarket-backend/pkg/errors"
	"github.com/agrimarket/agrimarket-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines payment behavior for customers and admins.
type Service interface {
	RetryMobileMoney(ctx context.Context, userID uuid.UUID, req MobileMoneyRequest) (*PaymentDTO, error)
	VerifyTransaction(ctx context.Context, userID uuid.UUID, transactionID string) (*PaymentDTO, error)
	StatusByOrder(ctx context.Context, userID, orderID uuid.UUID) (*StatusDTO, error)
	History(ctx context.Context, userID uuid.UUID, params pagination.Params) (*HistoryResponse, error)
	AdminRefund(ctx context.Context, paymentID uuid.UUID) (*PaymentDTO, error)

	// SettleMobileMoney runs provider settlement for a freshly placed order.
	// The order row must already be committed; this never returns a transport
	// error for a declined charge, only for infrastructure failures.
	SettleMobileMoney(ctx context.Context, order *models.Order, provider enums.MobileMoneyProvider, phoneNumber string) (*models.Payment, error)
}

type repository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	FindLatestByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Payment, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type ordersRepository interface {
	FindByIDAndUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	UpdatePaymentOutcome(ctx context.Context, orderID uuid.UUID, paymentStatus enums.OrderPaymentStatus, orderStatus enums.OrderStatus, transactionID *string) error
}

type notifier interface {
	PaymentConfirmed(ctx context.Context, order *models.Order)
}

type service struct {
	repo     repository
	orders   ordersRepository
	gateway  Gateway
	notifier notifier
	cfg      config.PaymentConfig
}

// ServiceParams bundles the dependencies required to build a payments service.
type ServiceParams struct {
	Repo          repository
	OrdersRepo    ordersRepository
	Gateway       Gateway
	Notifier      notifier
	PaymentConfig config.PaymentConfig
}

// NewService constructs a payments service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payments repository is required")
	}
	if params.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	return &service{
		repo:     params.Repo,
		orders:   params.OrdersRepo,
		gateway:  params.Gateway,
		notifier: params.Notifier,
		cfg:      params.PaymentConfig,
	}, nil
}

func (s *service) RetryMobileMoney(ctx context.Context, userID uuid.UUID, req MobileMoneyRequest) (*PaymentDTO, error) {
	if !req.Provider.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid mobile money provider")
	}

	order, err := s.orders.FindByIDAndUser(ctx, req.OrderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if order.PaymentMethod != enums.PaymentMethodMobileMoney {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not payable by mobile money")
	}
	if order.PaymentStatus != enums.OrderPaymentPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order payment is already %s", order.PaymentStatus))
	}

	payment, err := s.SettleMobileMoney(ctx, order, req.Provider, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	dto := FromModel(payment)
	return &dto, nil
}

func (s *service) SettleMobileMoney(ctx context.Context, order *models.Order, provider enums.MobileMoneyProvider, phoneNumber string) (*models.Payment, error) {
	chargeCtx := ctx
	if s.cfg.GatewayTimeout > 0 {
		var cancel context.CancelFunc
		chargeCtx, cancel = context.WithTimeout(ctx, s.cfg.GatewayTimeout)
		defer cancel()
	}

	result, err := s.gateway.Charge(chargeCtx, ChargeRequest{
		Provider:    provider,
		PhoneNumber: phoneNumber,
		Amount:      order.TotalAmount,
		Reference:   order.OrderNumber,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mobile money gateway")
	}

	now := time.Now().UTC()
	payment := &models.Payment{
		OrderID:             order.ID,
		Amount:              order.TotalAmount,
		Method:              enums.PaymentMethodMobileMoney,
		MobileMoneyProvider: &provider,
		MobileMoneyNumber:   &phoneNumber,
		ResponseCode:        &result.ResponseCode,
		ResponseMessage:     &result.ResponseMessage,
	}

	if result.Success {
		payment.TransactionID = result.TransactionID
		payment.Status = enums.PaymentStatusCompleted
		payment.PaymentDate = &now
	} else {
		payment.TransactionID = NewPendingTransactionID()
		payment.Status = enums.PaymentStatusFailed
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment attempt")
	}

	if result.Success {
		txn := result.TransactionID
		if err := s.orders.UpdatePaymentOutcome(ctx, order.ID, enums.OrderPaymentCompleted, enums.OrderStatusProcessing, &txn); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment outcome")
		}
		order.PaymentStatus = enums.OrderPaymentCompleted
		order.OrderStatus = enums.OrderStatusProcessing
		order.TransactionID = &txn
		s.notifier.PaymentConfirmed(ctx, order)
	}

	return payment, nil
}

func (s *service) VerifyTransaction(ctx context.Context, userID uuid.UUID, transactionID string) (*PaymentDTO, error) {
	payment, err := s.repo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment")
	}
	if payment.Order == nil || payment.Order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	dto := FromModel(payment)
	return &dto, nil
}

func (s *service) StatusByOrder(ctx context.Context, userID, orderID uuid.UUID) (*StatusDTO, error) {
	order, err := s.orders.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	status := &StatusDTO{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		PaymentStatus: order.PaymentStatus,
		OrderStatus:   order.OrderStatus,
		TransactionID: order.TransactionID,
	}

	payment, err := s.repo.FindLatestByOrder(ctx, orderID)
	switch {
	case err == nil:
		dto := FromModel(payment)
		status.Payment = &dto
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no settlement attempt yet
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment")
	}

	return status, nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID, params pagination.Params) (*HistoryResponse, error) {
	params = pagination.Normalize(params)
	rows, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payments")
	}
	dtos := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return &HistoryResponse{
		Payments: dtos,
		Meta:     pagination.NewMeta(params, total),
	}, nil
}

func (s *service) AdminRefund(ctx context.Context, paymentID uuid.UUID) (*PaymentDTO, error) {
	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment")
	}

	if payment.Status != enums.PaymentStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only completed payments can be refunded")
	}

	if err := s.repo.Update(ctx, payment.ID, map[string]any{"status": enums.PaymentStatusRefunded}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "refund payment")
	}
	if err := s.orders.UpdatePaymentOutcome(ctx, payment.OrderID, enums.OrderPaymentRefunded, enums.OrderStatusCancelled, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel refunded order")
	}

	payment.Status = enums.PaymentStatusRefunded
	dto := FromModel(payment)
	return &dto, nil
}
