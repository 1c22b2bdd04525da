package products

import (
	"context"
	"testing"

	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	pkgerrors "github.com/agrimarket/agrimarket-backend/pkg/errors"
	"github.com/agrimarket/agrimarket-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceListMapsMeta(t *testing.T) {
	db := setupProductsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		mustCreateProduct(t, db, "Bulk Rice", "100.00", 10)
	}

	resp, err := svc.List(context.Background(), ListInput{
		Pagination: pagination.Params{Page: 2, Limit: 2},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Products, 2)
	assert.EqualValues(t, 5, resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.Pages)
}

func TestServiceDetailNotFound(t *testing.T) {
	db := setupProductsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	_, err = svc.Detail(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceCreateValidatesCategory(t *testing.T) {
	db := setupProductsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	missing := uuid.New()
	_, err = svc.Create(context.Background(), CreateProductRequest{
		Name:       "Orphan Produce",
		Price:      decimal.RequireFromString("10.00"),
		CategoryID: &missing,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	category := mustCreateCategory(t, db, "Legumes")
	dto, err := svc.Create(context.Background(), CreateProductRequest{
		Name:          "  Groundnuts ",
		Price:         decimal.RequireFromString("22.505"),
		StockQuantity: 12,
		CategoryID:    &category.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Groundnuts", dto.Name)
	assert.True(t, dto.Price.Equal(decimal.RequireFromString("22.51")), "price rounded to 2dp, got %s", dto.Price)
	require.NotNil(t, dto.CategoryName)
	assert.Equal(t, "Legumes", *dto.CategoryName)
}

func TestServiceUpdatePartial(t *testing.T) {
	db := setupProductsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	product := mustCreateProduct(t, db, "Cocoa Beans", "200.00", 30)

	newStock := 7
	dto, err := svc.Update(context.Background(), product.ID, UpdateProductRequest{
		StockQuantity: &newStock,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, dto.StockQuantity)
	assert.Equal(t, "Cocoa Beans", dto.Name, "untouched fields preserved")

	_, err = svc.Update(context.Background(), product.ID, UpdateProductRequest{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Update(context.Background(), uuid.New(), UpdateProductRequest{StockQuantity: &newStock})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceDeactivateHidesFromCatalog(t *testing.T) {
	db := setupProductsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	product := mustCreateProduct(t, db, "Seasonal Okra", "8.00", 25)
	require.NoError(t, svc.Deactivate(context.Background(), product.ID))

	_, err = svc.Detail(context.Background(), product.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.False(t, reloaded.IsActive, "soft delete keeps the row")
}
