package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/agrimarket/agrimarket-backend/api/responses"
	"github.com/agrimarket/agrimarket-backend/api/validators"
	productsvc "github.com/agrimarket/agrimarket-backend/internal/products"
	pkgerrors "github.com/agrimarket/agrimarket-backend/pkg/errors"
	"github.com/agrimarket/agrimarket-backend/pkg/logger"
)

// ProductList serves the public catalog with search, filter, and sort.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := parseListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductFeatured serves the homepage strip of newest products.
func ProductFeatured(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		result, err := svc.Featured(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Detail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func CategoryList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}

func parseListInput(r *http.Request) (productsvc.ListInput, error) {
	params, err := validators.ParsePagination(r)
	if err != nil {
		return productsvc.ListInput{}, err
	}

	filters := productsvc.ListFilters{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return productsvc.ListInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid category id")
		}
		filters.CategoryID = &id
	}

	switch sort := strings.TrimSpace(r.URL.Query().Get("sort")); sort {
	case "", productsvc.SortCreatedAt, productsvc.SortPrice, productsvc.SortName:
		filters.Sort = sort
	default:
		return productsvc.ListInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort field")
	}

	switch order := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("order"))); order {
	case "", "desc":
		filters.Descending = true
	case "asc":
		filters.Descending = false
	default:
		return productsvc.ListInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort order")
	}

	return productsvc.ListInput{Filters: filters, Pagination: params}, nil
}
