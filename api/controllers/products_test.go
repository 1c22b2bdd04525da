package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	productsvc "github.com/agrimarket/agrimarket-backend/internal/products"
)

func requestWithParam(method, url, key, value string) *http.Request {
	req := httptest.NewRequest(method, url, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

type stubProductService struct {
	lastInput *productsvc.ListInput
}

func (s *stubProductService) List(ctx context.Context, input productsvc.ListInput) (*productsvc.ListResponse, error) {
	s.lastInput = &input
	return &productsvc.ListResponse{Products: []productsvc.ProductDTO{}}, nil
}

func (s *stubProductService) AdminList(ctx context.Context, input productsvc.ListInput) (*productsvc.ListResponse, error) {
	input.Filters.IncludeInactive = true
	s.lastInput = &input
	return &productsvc.ListResponse{Products: []productsvc.ProductDTO{}}, nil
}

func (s *stubProductService) Featured(ctx context.Context) ([]productsvc.ProductDTO, error) {
	return []productsvc.ProductDTO{}, nil
}

func (s *stubProductService) Detail(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubProductService) Categories(ctx context.Context) ([]productsvc.CategoryDTO, error) {
	return []productsvc.CategoryDTO{}, nil
}

func (s *stubProductService) Create(ctx context.Context, req productsvc.CreateProductRequest) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubProductService) Update(ctx context.Context, id uuid.UUID, req productsvc.UpdateProductRequest) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (s *stubProductService) LowStock(ctx context.Context) ([]productsvc.ProductDTO, error) {
	return []productsvc.ProductDTO{}, nil
}

func TestProductListParsesFilters(t *testing.T) {
	logg := testLogger()
	categoryID := uuid.New()
	stub := &stubProductService{}

	url := "/api/v1/products?search=ginger&category=" + categoryID.String() + "&sort=price&order=asc&page=2&limit=5"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	ProductList(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	input := stub.lastInput
	if input == nil {
		t.Fatal("service not called")
	}
	if input.Filters.Search != "ginger" {
		t.Fatalf("search filter not parsed: %+v", input.Filters)
	}
	if input.Filters.CategoryID == nil || *input.Filters.CategoryID != categoryID {
		t.Fatalf("category filter not parsed: %+v", input.Filters)
	}
	if input.Filters.Sort != productsvc.SortPrice || input.Filters.Descending {
		t.Fatalf("sort not parsed: %+v", input.Filters)
	}
	if input.Pagination.Page != 2 || input.Pagination.Limit != 5 {
		t.Fatalf("pagination not parsed: %+v", input.Pagination)
	}
}

func TestProductListRejectsBadFilters(t *testing.T) {
	logg := testLogger()
	for _, url := range []string{
		"/api/v1/products?category=not-a-uuid",
		"/api/v1/products?sort=password_hash",
		"/api/v1/products?order=sideways",
		"/api/v1/products?page=zero",
		"/api/v1/products?limit=-4",
	} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		ProductList(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", url, rec.Code)
		}
	}
}

func TestProductDetailRejectsInvalidID(t *testing.T) {
	logg := testLogger()
	req := requestWithParam(http.MethodGet, "/api/v1/products/banana", "productId", "banana")
	rec := httptest.NewRecorder()
	ProductDetail(&stubProductService{}, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
	}
}
