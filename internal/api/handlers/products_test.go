package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MertalpTasdelen/yeninesilevim/internal/api/dto"
	"github.com/MertalpTasdelen/yeninesilevim/internal/api/handlers"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/storage"
)

// withURLParam injects a chi URL parameter into the request context so
// handlers can be called without a router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestProductsHandler_List(t *testing.T) {
	t.Run("returns empty list when no products", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewProductsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response dto.ProductListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Empty(t, response.Products)
		assert.Equal(t, 0, response.TotalCount)
		assert.Equal(t, 50, response.Limit) // default limit
	})

	t.Run("returns products from repository", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.SeedProduct("B1", decimal.RequireFromString("40.00"))
		repo.SeedProduct("B2", decimal.RequireFromString("12.50"))

		handler := handlers.NewProductsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/products?limit=10", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ProductListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 2, response.TotalCount)
		assert.Len(t, response.Products, 2)
		assert.Equal(t, 10, response.Limit)
	})
}

func TestProductsHandler_Get(t *testing.T) {
	t.Run("returns product by barcode", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.SeedProduct("B1", decimal.RequireFromString("40.00"))

		handler := handlers.NewProductsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/products/B1", nil)
		req = withURLParam(req, "barcode", "B1")
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ProductResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "B1", response.Barcode)
		assert.True(t, decimal.RequireFromString("40.00").Equal(response.PurchasePrice))
	})

	t.Run("returns 404 for unknown barcode", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewProductsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/products/missing", nil)
		req = withURLParam(req, "barcode", "missing")
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeNotFound, apiErr.Code)
	})
}

func TestProductsHandler_Upsert(t *testing.T) {
	t.Run("creates a product", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewProductsHandler(repo)

		body := `{"barcode":"B1","name":"Çaydanlık","purchase_price":"40.00","sale_price":"99.90","stock":5}`
		req := httptest.NewRequest(http.MethodPut, "/api/products", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Upsert(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, repo.UpsertProductCalled)

		var response dto.ProductResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "B1", response.Barcode)
		assert.Equal(t, "Çaydanlık", response.Name)
		assert.Equal(t, 5, response.Stock)
	})

	t.Run("rejects missing barcode", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewProductsHandler(repo)

		req := httptest.NewRequest(http.MethodPut, "/api/products", strings.NewReader(`{"name":"x"}`))
		rec := httptest.NewRecorder()

		handler.Upsert(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, repo.UpsertProductCalled)
	})

	t.Run("rejects negative purchase price", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewProductsHandler(repo)

		body := `{"barcode":"B1","purchase_price":"-1.00"}`
		req := httptest.NewRequest(http.MethodPut, "/api/products", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Upsert(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, repo.UpsertProductCalled)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewProductsHandler(repo)

		req := httptest.NewRequest(http.MethodPut, "/api/products", strings.NewReader(`{nope`))
		rec := httptest.NewRecorder()

		handler.Upsert(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
