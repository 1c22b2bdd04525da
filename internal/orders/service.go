package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	"github.com/agrimarket/agrimarket-backend/pkg/enums"
	pkgerrors "github.com/agrimarket/agrimarket-backend/pkg/errors"
	"github.com/agrimarket/agrimarket-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines order history behavior for customers and admins.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResponse, error)
	DetailForUser(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error)
	AdminList(ctx context.Context, filters AdminListFilters, params pagination.Params) (*ListResponse, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error)
}

type repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, int64, error)
	FindByIDAndUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListAll(ctx context.Context, filters AdminListFilters, params pagination.Params) ([]models.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
}

type service struct {
	repo repository
}

// NewService constructs an orders service backed by the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResponse, error) {
	params = pagination.Normalize(params)
	rows, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildListResponse(rows, params, total), nil
}

func (s *service) DetailForUser(ctx context.Context, orderID, userID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	dto := FromModel(order)
	return &dto, nil
}

func (s *service) AdminList(ctx context.Context, filters AdminListFilters, params pagination.Params) (*ListResponse, error) {
	params = pagination.Normalize(params)
	rows, total, err := s.repo.ListAll(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return buildListResponse(rows, params, total), nil
}

func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error) {
	if !req.OrderStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if !transitionAllowed(order.OrderStatus, req.OrderStatus) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.OrderStatus, req.OrderStatus))
	}

	if err := s.repo.UpdateOrderStatus(ctx, orderID, req.OrderStatus); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}

	order.OrderStatus = req.OrderStatus
	dto := FromModel(order)
	return &dto, nil
}

// transitionAllowed enforces the forward-only fulfillment ladder. Cancelled is
// reachable from any non-terminal state.
func transitionAllowed(from, to enums.OrderStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case enums.OrderStatusDelivered, enums.OrderStatusCancelled:
		return false
	}
	if to == enums.OrderStatusCancelled {
		return true
	}
	rank := map[enums.OrderStatus]int{
		enums.OrderStatusPending:    0,
		enums.OrderStatusProcessing: 1,
		enums.OrderStatusShipped:    2,
		enums.OrderStatusDelivered:  3,
	}
	fromRank, ok := rank[from]
	if !ok {
		return false
	}
	toRank, ok := rank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

func buildListResponse(rows []models.Order, params pagination.Params, total int64) *ListResponse {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return &ListResponse{
		Orders: dtos,
		Meta:   pagination.NewMeta(params, total),
	}
}
