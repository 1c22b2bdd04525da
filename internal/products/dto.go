package products

import (
	"time"

	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	"github.com/agrimarket/agrimarket-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sort columns accepted by the browse endpoint.
const (
	SortCreatedAt = "created_at"
	SortPrice     = "price"
	SortName      = "name"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Search          string
	CategoryID      *uuid.UUID
	Sort            string
	Descending      bool
	IncludeInactive bool
}

// ListInput captures the inputs needed to paginate/filter the catalog.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ProductDTO is the transport shape for catalog entries.
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName  *string         `json:"category_name,omitempty"`
	ImageURL      *string         `json:"image_url,omitempty"`
	IsActive      bool            `json:"is_active"`
	IsFeatured    bool            `json:"is_featured"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ListResponse pairs a product page with its pagination metadata.
type ListResponse struct {
	Products []ProductDTO    `json:"products"`
	Meta     pagination.Meta `json:"meta"`
}

// CategoryDTO is the transport shape for product categories.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

// CreateProductRequest holds the admin payload for adding a catalog entry.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=2,max=255"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	ImageURL      *string         `json:"image_url,omitempty" validate:"omitempty,url"`
	IsFeatured    bool            `json:"is_featured"`
}

// UpdateProductRequest holds the admin payload for partial catalog updates.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	CategoryID    *uuid.UUID       `json:"category_id,omitempty"`
	ImageURL      *string          `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive      *bool            `json:"is_active,omitempty"`
	IsFeatured    *bool            `json:"is_featured,omitempty"`
}

// FromModel converts a persisted product into its transport shape.
func FromModel(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		CategoryID:    p.CategoryID,
		ImageURL:      p.ImageURL,
		IsActive:      p.IsActive,
		IsFeatured:    p.IsFeatured,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Category != nil {
		name := p.Category.Name
		dto.CategoryName = &name
	}
	return dto
}

// CategoryFromModel converts a persisted category into its transport shape.
func CategoryFromModel(c *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}
