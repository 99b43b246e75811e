package handler

import (
	"log/slog"
	"net/http"

	"loan-management/internal/api/handler/dto"
	"loan-management/internal/config"
	"loan-management/internal/domain/customer"
)

type CustomerHandler struct {
	service customer.Service
	paging  config.PaginationConfig
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.Service, paging config.PaginationConfig, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		paging:  paging,
		logger:  l.With("component", "CustomerHandler"),
	}
}

// ListCustomers handles GET /v1/customer
// @Summary List customers
// @Tags Customers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param itemsPerPage query int false "Page size" default(10)
// @Param order query string false "Order column" default(id)
// @Param orderType query string false "asc or desc" default(desc)
// @Success 200 {object} dto.CustomerListResponse
// @Failure 422 {object} dto.ErrorResponse "Invalid paging parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /v1/customer [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	params, err := parsePage(r, customer.OrderColumns, h.paging)
	if err != nil {
		respondError(w, err)
		return
	}

	page, err := h.service.ListCustomers(r.Context(), params)
	if err != nil {
		logServiceError(r, h.logger, "Service failed to list customers", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerListResponse(page, "Fetched customers successfully"))
}

// CreateCustomer handles POST /v1/customer
// @Summary Create a new customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer creation request"
// @Success 201 {object} dto.CustomerEnvelope "Customer successfully created"
// @Failure 400 {object} dto.ErrorResponse "Malformed JSON body"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error during creation"
// @Router /v1/customer [post]
// @Security BearerAuth
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Rejected create customer request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	created, err := h.service.CreateCustomer(r.Context(), req.ToParams())
	if err != nil {
		logServiceError(r, h.logger, "Service failed to create customer", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer created successfully", "customerID", created.ID)
	respondJSON(w, http.StatusCreated, dto.CustomerEnvelope{
		Customer: dto.NewCustomerResponse(created),
		Message:  "Created a new customer successfully",
	})
}

// GetCustomer handles GET /v1/customer/{id}
// @Summary Retrieve customer details
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CustomerEnvelope
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /v1/customer/{id} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	c, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		logServiceError(r, h.logger, "Service failed to get customer", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.CustomerEnvelope{
		Customer: dto.NewCustomerResponse(c),
		Message:  "Fetched a customer successfully",
	})
}

// UpdateCustomer handles PUT|PATCH /v1/customer/{id}
// @Summary Partially update a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path int true "Customer ID" Minimum(1)
// @Param request body dto.UpdateCustomerRequest true "Fields to change"
// @Success 200 {object} dto.CustomerEnvelope
// @Failure 400 {object} dto.ErrorResponse "Invalid ID or body"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Router /v1/customer/{id} [put]
// @Router /v1/customer/{id} [patch]
// @Security BearerAuth
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateCustomerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Rejected update customer request", "customerID", id, slog.Any("error", err))
		respondError(w, err)
		return
	}

	updated, err := h.service.UpdateCustomer(r.Context(), id, req.ToPatch())
	if err != nil {
		logServiceError(r, h.logger, "Service failed to update customer", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.CustomerEnvelope{
		Customer: dto.NewCustomerResponse(updated),
		Message:  "Customer updated successfully",
	})
}

// DeleteCustomer handles DELETE /v1/customer/{id}
// @Summary Delete a customer
// @Description Loans and payments of the customer are kept.
// @Tags Customers
// @Produce json
// @Param id path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /v1/customer/{id} [delete]
// @Security BearerAuth
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		logServiceError(r, h.logger, "Service failed to delete customer", err)
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer deleted", "customerID", id)
	respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Customer deleted"})
}
