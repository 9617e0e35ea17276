package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MertalpTasdelen/yeninesilevim/internal/api/dto"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/storage"
)

// ProductsHandler handles product store HTTP requests.
type ProductsHandler struct {
	*Base
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(repo storage.Repository) *ProductsHandler {
	return &ProductsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/products - returns paginated list of products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 50)
	offset := ParseIntParam(r, "offset", 0)

	products, total, err := h.repo.ListProducts(limit, offset)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.ProductListResponse{
		Products:   make([]dto.ProductResponse, 0, len(products)),
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}
	for _, product := range products {
		response.Products = append(response.Products, toProductResponse(product))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/products/{barcode} - returns a single product.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")
	if barcode == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("barcode is required"))
		return
	}

	product, err := h.repo.GetProduct(barcode)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if product == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("product"))
		return
	}

	h.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

// Upsert handles PUT /api/products - inserts or updates a product by barcode.
func (h *ProductsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	if req.Barcode == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("barcode is required"))
		return
	}
	if req.PurchasePrice.IsNegative() {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("purchase_price cannot be negative"))
		return
	}

	product := &storage.Product{
		Barcode:       req.Barcode,
		Name:          req.Name,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		Stock:         req.Stock,
	}

	if err := h.repo.UpsertProduct(product); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	stored, err := h.repo.GetProduct(req.Barcode)
	if err != nil || stored == nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toProductResponse(stored))
}

func toProductResponse(product *storage.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            product.ID,
		Barcode:       product.Barcode,
		Name:          product.Name,
		PurchasePrice: product.PurchasePrice,
		SalePrice:     product.SalePrice,
		Stock:         product.Stock,
		UpdatedAt:     product.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
