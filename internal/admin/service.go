package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agrimarket/agrimarket-backend/internal/orders"
	"github.com/agrimarket/agrimarket-backend/internal/products"
	"github.com/agrimarket/agrimarket-backend/internal/users"
	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	pkgerrors "github.com/agrimarket/agrimarket-backend/pkg/errors"
	"github.com/agrimarket/agrimarket-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	recentOrdersLimit = 5
	ordersWindow      = 7 * 24 * time.Hour
)

// Service covers the admin-only views that cut across domains: the
// dashboard aggregate and customer account management.
type Service interface {
	Dashboard(ctx context.Context) (*DashboardDTO, error)
	ListUsers(ctx context.Context, params pagination.Params) (*ListUsersResponse, error)
	SetUserStatus(ctx context.Context, userID uuid.UUID, active bool) (*users.UserDTO, error)
}

type userRepository interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, params pagination.Params) ([]models.User, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type productRepository interface {
	Count(ctx context.Context) (int64, error)
	ListLowStock(ctx context.Context, threshold int) ([]models.Product, error)
}

type orderRepository interface {
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, cutoff time.Time) (int64, error)
	RevenueTotal(ctx context.Context) (string, error)
	ListRecent(ctx context.Context, limit int) ([]models.Order, error)
}

type service struct {
	users    userRepository
	products productRepository
	orders   orderRepository
}

// ServiceParams bundles the repositories the admin service reads from.
type ServiceParams struct {
	UserRepo    userRepository
	ProductRepo productRepository
	OrderRepo   orderRepository
}

// NewService constructs an admin service with the provided repositories.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	return &service{
		users:    params.UserRepo,
		products: params.ProductRepo,
		orders:   params.OrderRepo,
	}, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	dto := &DashboardDTO{TotalRevenue: decimal.Zero}

	var err error
	if dto.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	if dto.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}
	if dto.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}
	if dto.OrdersLastWeek, err = s.orders.CountSince(ctx, time.Now().UTC().Add(-ordersWindow)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count recent orders")
	}

	revenue, err := s.orders.RevenueTotal(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum revenue")
	}
	dto.TotalRevenue, err = decimal.NewFromString(revenue)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse revenue")
	}

	recent, err := s.orders.ListRecent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list recent orders")
	}
	dto.RecentOrders = make([]orders.OrderDTO, 0, len(recent))
	for i := range recent {
		dto.RecentOrders = append(dto.RecentOrders, orders.FromModel(&recent[i]))
	}

	low, err := s.products.ListLowStock(ctx, products.LowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list low stock")
	}
	dto.LowStock = make([]products.ProductDTO, 0, len(low))
	for i := range low {
		dto.LowStock = append(dto.LowStock, products.FromModel(&low[i]))
	}

	return dto, nil
}

func (s *service) ListUsers(ctx context.Context, params pagination.Params) (*ListUsersResponse, error) {
	params = pagination.Normalize(params)
	rows, total, err := s.users.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	dtos := make([]users.UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *users.FromModel(&rows[i]))
	}
	return &ListUsersResponse{
		Users: dtos,
		Meta:  pagination.NewMeta(params, total),
	}, nil
}

func (s *service) SetUserStatus(ctx context.Context, userID uuid.UUID, active bool) (*users.UserDTO, error) {
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user status")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
	}
	return users.FromModel(user), nil
}
