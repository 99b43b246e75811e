package handler

import (
	"log/slog"
	"net/http"

	"loan-management/internal/api/handler/dto"
	"loan-management/internal/config"
	"loan-management/internal/domain/product"
)

type ProductHandler struct {
	service product.Service
	paging  config.PaginationConfig
	logger  *slog.Logger
}

func NewProductHandler(s product.Service, paging config.PaginationConfig, l *slog.Logger) *ProductHandler {
	if s == nil {
		panic("product service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ProductHandler{
		service: s,
		paging:  paging,
		logger:  l.With("component", "ProductHandler"),
	}
}

// ListProducts handles GET /v1/product
// @Summary List products
// @Tags Products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param itemsPerPage query int false "Page size" default(10)
// @Param order query string false "Order column" default(id)
// @Param orderType query string false "asc or desc" default(desc)
// @Success 200 {object} dto.ProductListResponse
// @Failure 422 {object} dto.ErrorResponse "Invalid paging parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /v1/product [get]
// @Security BearerAuth
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, err := parsePage(r, product.OrderColumns, h.paging)
	if err != nil {
		respondError(w, err)
		return
	}

	page, err := h.service.ListProducts(r.Context(), params)
	if err != nil {
		logServiceError(r, h.logger, "Service failed to list products", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewProductListResponse(page, "Fetched products successfully"))
}

// CreateProduct handles POST /v1/product
// @Summary Create a new product
// @Tags Products
// @Accept json
// @Produce json
// @Param request body dto.CreateProductRequest true "Product creation request"
// @Success 201 {object} dto.ProductEnvelope "Product successfully created"
// @Failure 400 {object} dto.ErrorResponse "Malformed JSON body"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error during creation"
// @Router /v1/product [post]
// @Security BearerAuth
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Rejected create product request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	created, err := h.service.CreateProduct(r.Context(), req.ToParams())
	if err != nil {
		logServiceError(r, h.logger, "Service failed to create product", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Product created successfully", "productID", created.ID)
	respondJSON(w, http.StatusCreated, dto.ProductEnvelope{
		Product: dto.NewProductResponse(created),
		Message:  "Created a new product successfully",
	})
}

// GetProduct handles GET /v1/product/{id}
// @Summary Retrieve product details
// @Tags Products
// @Produce json
// @Param id path int true "Product ID" Minimum(1)
// @Success 200 {object} dto.ProductEnvelope
// @Failure 400 {object} dto.ErrorResponse "Invalid product ID format"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Router /v1/product/{id} [get]
// @Security BearerAuth
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	c, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		logServiceError(r, h.logger, "Service failed to get product", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ProductEnvelope{
		Product: dto.NewProductResponse(c),
		Message:  "Fetched a product successfully",
	})
}

// UpdateProduct handles PUT|PATCH /v1/product/{id}
// @Summary Partially update a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID" Minimum(1)
// @Param request body dto.UpdateProductRequest true "Fields to change"
// @Success 200 {object} dto.ProductEnvelope
// @Failure 400 {object} dto.ErrorResponse "Invalid ID or body"
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Router /v1/product/{id} [put]
// @Router /v1/product/{id} [patch]
// @Security BearerAuth
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateProductRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Rejected update product request", "productID", id, slog.Any("error", err))
		respondError(w, err)
		return
	}

	updated, err := h.service.UpdateProduct(r.Context(), id, req.ToPatch())
	if err != nil {
		logServiceError(r, h.logger, "Service failed to update product", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ProductEnvelope{
		Product: dto.NewProductResponse(updated),
		Message:  "Product updated successfully",
	})
}

// DeleteProduct handles DELETE /v1/product/{id}
// @Summary Delete a product
// @Description Loans keep their product_id; approving them later fails.
// @Tags Products
// @Produce json
// @Param id path int true "Product ID" Minimum(1)
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Product not found"
// @Router /v1/product/{id} [delete]
// @Security BearerAuth
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		logServiceError(r, h.logger, "Service failed to delete product", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Product deleted", "productID", id)
	respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Product deleted"})
}
