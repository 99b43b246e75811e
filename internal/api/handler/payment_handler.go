package handler

import (
	"log/slog"
	"net/http"

	"loan-management/internal/api/handler/dto"
	"loan-management/internal/config"
	"loan-management/internal/domain/payment"
)

type PaymentHandler struct {
	service payment.PaymentService
	paging  config.PaginationConfig
	logger  *slog.Logger
}

func NewPaymentHandler(s payment.PaymentService, paging config.PaginationConfig, l *slog.Logger) *PaymentHandler {
	if s == nil {
		panic("payment service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &PaymentHandler{
		service: s,
		paging:  paging,
		logger:  l.With("component", "PaymentHandler"),
	}
}

// ListPayments handles GET /v1/payment
// @Summary List payments
// @Tags Payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param itemsPerPage query int false "Page size" default(10)
// @Param order query string false "Order column" default(id)
// @Param orderType query string false "asc or desc" default(desc)
// @Success 200 {object} dto.PaymentListResponse
// @Router /v1/payment [get]
// @Security BearerAuth
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	params, err := parsePage(r, payment.OrderColumns, h.paging)
	if err != nil {
		respondError(w, err)
		return
	}

	page, err := h.service.ListPayments(r.Context(), params)
	if err != nil {
		logServiceError(r, h.logger, "Service failed to list payments", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPaymentListResponse(page, "Fetched payments successfully"))
}

// ListCustomerPayments handles GET /v1/customer-payments?id={customerID}
// @Summary List the payments of a customer
// @Tags Payments
// @Produce json
// @Param id query int true "Customer ID"
// @Success 200 {object} dto.PaymentListResponse
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /v1/customer-payments [get]
// @Security BearerAuth
func (h *PaymentHandler) ListCustomerPayments(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}
	params, err := parsePage(r, payment.OrderColumns, h.paging)
	if err != nil {
		respondError(w, err)
		return
	}

	page, err := h.service.ListCustomerPayments(r.Context(), customerID, params)
	if err != nil {
		logServiceError(r, h.logger, "Service failed to list customer payments", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPaymentListResponse(page, "Fetched payments successfully"))
}

// CreatePayment records the payment of a loan, or a standalone payment when
// no loan_id is given.
//
// @Summary Create a payment
// @Description With loan_id the remaining amount is derived from the loan. Without it remaining_amount is required.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentRequest true "Payment payload"
// @Success 201 {object} dto.PaymentEnvelope
// @Failure 400 {object} dto.ErrorResponse "Malformed JSON body"
// @Failure 422 {object} dto.ErrorResponse "Validation failed or loan already has a payment"
// @Failure 500 {object} dto.ErrorResponse "Payment rejected"
// @Router /v1/payment [post]
// @Security BearerAuth
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Rejected create payment request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	created, err := h.service.CreatePayment(r.Context(), req.ToParams())
	if err != nil {
		logServiceError(r, h.logger, "Service failed to create payment", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.PaymentEnvelope{
		Payment: dto.NewPaymentResponse(created),
		Message: "Created a new payment successfully",
	})
}

// GetPayment handles GET /v1/payment/{id}
// @Summary Get a payment
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.PaymentEnvelope
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Router /v1/payment/{id} [get]
// @Security BearerAuth
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	p, err := h.service.GetPayment(r.Context(), id)
	if err != nil {
		logServiceError(r, h.logger, "Service failed to get payment", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.PaymentEnvelope{
		Payment: dto.NewPaymentResponse(p),
		Message: "Fetched a payment successfully",
	})
}

// UpdatePayment applies a repayment to the remaining balance.
//
// @Summary Record a repayment
// @Description paid_amount is the amount repaid now and is added to the cumulative paid amount.
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param request body dto.UpdatePaymentRequest true "Repayment"
// @Success 200 {object} dto.PaymentEnvelope
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Repayment exceeds the remaining amount"
// @Router /v1/payment/{id} [put]
// @Router /v1/payment/{id} [patch]
// @Security BearerAuth
func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdatePaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Rejected update payment request", "paymentID", id, slog.Any("error", err))
		respondError(w, err)
		return
	}

	updated, err := h.service.RecordRepayment(r.Context(), id, *req.PaidAmount)
	if err != nil {
		logServiceError(r, h.logger, "Service failed to record repayment", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.PaymentEnvelope{
		Payment: dto.NewPaymentResponse(updated),
		Message: "Payment updated successfully",
	})
}

// DeletePayment handles DELETE /v1/payment/{id}
// @Summary Delete a payment
// @Tags Payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Router /v1/payment/{id} [delete]
// @Security BearerAuth
func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeletePayment(r.Context(), id); err != nil {
		logServiceError(r, h.logger, "Service failed to delete payment", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Payment deleted"})
}
