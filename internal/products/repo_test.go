package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/agrimarket/agrimarket-backend/pkg/db/models"
	"github.com/agrimarket/agrimarket-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:products_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Category{}, &models.Product{}))
	return db
}

func mustCreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func mustCreateProduct(t *testing.T, db *gorm.DB, name string, price string, stock int, opts ...func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      true,
	}
	for _, opt := range opts {
		opt(product)
	}
	require.NoError(t, db.Create(product).Error)
	// gorm drops zero-valued fields that carry a column default, so an
	// inactive fixture has to be demoted after the insert.
	if !product.IsActive {
		require.NoError(t, db.Model(product).Update("is_active", false).Error)
	}
	return product
}

func TestRepositoryListFiltersAndPaginates(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	veg := mustCreateCategory(t, db, "Vegetables")
	fruit := mustCreateCategory(t, db, "Fruits")

	mustCreateProduct(t, db, "Fresh Tomatoes", "12.50", 40, func(p *models.Product) { p.CategoryID = &veg.ID })
	mustCreateProduct(t, db, "Sweet Mangoes", "30.00", 15, func(p *models.Product) { p.CategoryID = &fruit.ID })
	mustCreateProduct(t, db, "Cherry Tomatoes", "18.00", 5, func(p *models.Product) { p.CategoryID = &veg.ID })
	mustCreateProduct(t, db, "Hidden Tomatoes", "9.99", 10, func(p *models.Product) { p.IsActive = false })

	rows, total, err := repo.List(ctx, ListInput{
		Filters:    ListFilters{Search: "tomato"},
		Pagination: pagination.Params{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total, "inactive products must not be listed")
	assert.Len(t, rows, 2)

	rows, total, err = repo.List(ctx, ListInput{
		Filters:    ListFilters{CategoryID: &veg.ID, Sort: SortPrice},
		Pagination: pagination.Params{Page: 1, Limit: 1},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Fresh Tomatoes", rows[0].Name, "ascending price sort")

	rows, _, err = repo.List(ctx, ListInput{
		Filters:    ListFilters{Sort: SortPrice, Descending: true},
		Pagination: pagination.Params{Page: 1, Limit: 1},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sweet Mangoes", rows[0].Name)
}

func TestRepositoryFeaturedAndDetail(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	featured := mustCreateProduct(t, db, "Premium Yam", "55.00", 20, func(p *models.Product) { p.IsFeatured = true })
	mustCreateProduct(t, db, "Plain Yam", "25.00", 20)
	inactive := mustCreateProduct(t, db, "Retired Yam", "10.00", 0, func(p *models.Product) {
		p.IsFeatured = true
		p.IsActive = false
	})

	rows, err := repo.ListFeatured(ctx, 8)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, featured.ID, rows[0].ID)

	got, err := repo.FindActiveByID(ctx, featured.ID)
	require.NoError(t, err)
	assert.Equal(t, "Premium Yam", got.Name)

	_, err = repo.FindActiveByID(ctx, inactive.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDecrementStockGuard(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateProduct(t, db, "Maize Sack", "80.00", 3)

	ok, err := repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok, "decrement below zero must be rejected")

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 1, reloaded.StockQuantity)

	require.NoError(t, repo.RestoreStock(ctx, product.ID, 2))
	require.NoError(t, db.First(&reloaded, "id = ?", product.ID).Error)
	assert.Equal(t, 3, reloaded.StockQuantity)
}

func TestRepositoryLowStockAndDeactivate(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	low := mustCreateProduct(t, db, "Scarce Pepper", "14.00", 4)
	mustCreateProduct(t, db, "Plenty Pepper", "14.00", 50)

	rows, err := repo.ListLowStock(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, low.ID, rows[0].ID)

	require.NoError(t, repo.Deactivate(ctx, low.ID))
	rows, err = repo.ListLowStock(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)

	err = repo.Deactivate(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCategories(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateCategory(t, db, "Tubers")
	mustCreateCategory(t, db, "Grains")

	rows, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Grains", rows[0].Name, "categories sorted by name")
}
