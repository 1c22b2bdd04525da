package cart

import (
	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemRequest is the payload for putting a product in the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemRequest changes the quantity of an existing cart line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// ItemDTO is one cart line joined with its product snapshot.
type ItemDTO struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	LineTotal     decimal.Decimal `json:"line_total"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      *string         `json:"image_url,omitempty"`
}

// CartDTO is the full cart with its running total.
type CartDTO struct {
	Items     []ItemDTO       `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

func itemFromModel(item *models.CartItem) ItemDTO {
	dto := ItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	if item.Product != nil {
		dto.ProductName = item.Product.Name
		dto.UnitPrice = item.Product.Price
		dto.LineTotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		dto.StockQuantity = item.Product.StockQuantity
		dto.ImageURL = item.Product.ImageURL
	}
	return dto
}

func cartFromItems(items []models.CartItem) *CartDTO {
	dto := &CartDTO{
		Items: make([]ItemDTO, 0, len(items)),
		Total: decimal.Zero,
	}
	for i := range items {
		line := itemFromModel(&items[i])
		dto.Items = append(dto.Items, line)
		dto.ItemCount += line.Quantity
		dto.Total = dto.Total.Add(line.LineTotal)
	}
	return dto
}
