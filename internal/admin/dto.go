package admin

import (
	"github.com/agrimarket/agrimarket-backend/internal/orders"
	"github.com/agrimarket/agrimarket-backend/internal/products"
	"github.com/agrimarket/agrimarket-backend/internal/users"
	"github.com/agrimarket/agrimarket-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// DashboardDTO aggregates the storefront numbers shown on the admin landing page.
type DashboardDTO struct {
	TotalUsers     int64                 `json:"total_users"`
	TotalProducts  int64                 `json:"total_products"`
	TotalOrders    int64                 `json:"total_orders"`
	OrdersLastWeek int64                 `json:"orders_last_week"`
	TotalRevenue   decimal.Decimal       `json:"total_revenue"`
	RecentOrders   []orders.OrderDTO     `json:"recent_orders"`
	LowStock       []products.ProductDTO `json:"low_stock_products"`
}

// ListUsersResponse pairs a user page with its pagination metadata.
type ListUsersResponse struct {
	Users []users.UserDTO `json:"users"`
	Meta  pagination.Meta `json:"meta"`
}

// SetUserStatusRequest toggles a customer account on or off.
type SetUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
