package handler

import (
	"log/slog"
	"net/http"

	"loan-management/internal/api/handler/dto"
	"loan-management/internal/config"
	"loan-management/internal/domain/loan"
	"loan-management/internal/infrastructure/auth"
)

type LoanHandler struct {
	service loan.LoanService
	paging  config.PaginationConfig
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, paging config.PaginationConfig, l *slog.Logger) *LoanHandler {
	if s == nil {
		panic("loan service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &LoanHandler{
		service: s,
		paging:  paging,
		logger:  l.With("component", "LoanHandler"),
	}
}

// ListLoans returns a page of loans.
//
// @Summary List loans
// @Tags Loans
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param itemsPerPage query int false "Page size" default(10)
// @Param order query string false "Order column" default(id)
// @Param orderType query string false "asc or desc" default(desc)
// @Success 200 {object} dto.LoanListResponse
// @Failure 422 {object} dto.ErrorResponse "Invalid paging parameters"
// @Router /v1/loan [get]
// @Security BearerAuth
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	params, err := parsePage(r, loan.OrderColumns, h.paging)
	if err != nil {
		respondError(w, err)
		return
	}

	page, err := h.service.ListLoans(r.Context(), params)
	if err != nil {
		logServiceError(r, h.logger, "Service failed to list loans", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanListResponse(page, "Fetched loans successfully"))
}

// ListCustomerLoans returns the loans of the customer given by the id query parameter.
//
// @Summary List the loans of a customer
// @Tags Loans
// @Produce json
// @Param id query int true "Customer ID"
// @Param page query int false "Page number" default(1)
// @Param itemsPerPage query int false "Page size" default(10)
// @Success 200 {object} dto.LoanListResponse
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 422 {object} dto.ErrorResponse "Missing customer id"
// @Router /v1/customer-loans [get]
// @Security BearerAuth
func (h *LoanHandler) ListCustomerLoans(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromQuery(r)
	if err != nil {
		respondError(w, err)
		return
	}
	params, err := parsePage(r, loan.OrderColumns, h.paging)
	if err != nil {
		respondError(w, err)
		return
	}

	page, err := h.service.ListCustomerLoans(r.Context(), customerID, params)
	if err != nil {
		logServiceError(r, h.logger, "Service failed to list customer loans", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanListResponse(page, "Fetched loans successfully"))
}

// CreateLoan handles the creation of a new loan.
//
// @Summary Create a new loan
// @Description The loan always starts in NEW, whatever status is sent.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CreateLoanRequest true "Loan creation request payload"
// @Success 201 {object} dto.LoanEnvelope "Loan successfully created"
// @Failure 400 {object} dto.ErrorResponse "Malformed JSON body"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /v1/loan [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Rejected create loan request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	created, err := h.service.CreateLoan(r.Context(), req.ToParams())
	if err != nil {
		logServiceError(r, h.logger, "Service failed to create loan", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.LoanEnvelope{
		Loan:    dto.NewLoanResponse(created),
		Message: "Created a new loan successfully",
	})
}

// GetLoan retrieves a loan by ID.
//
// @Summary Get loan details
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} dto.LoanEnvelope
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Router /v1/loan/{id} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	l, err := h.service.GetLoan(r.Context(), id)
	if err != nil {
		logServiceError(r, h.logger, "Service failed to get loan", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.LoanEnvelope{
		Loan:    dto.NewLoanResponse(l),
		Message: "Fetched a loan successfully",
	})
}

// UpdateLoan patches a loan. A status of APPROVED or COMPLETED goes through
// the eligibility and settlement checks; the caller becomes the approver.
//
// @Summary Update a loan
// @Description Approval is skipped silently when the customer's credit point is below the product minimum. Completion is skipped silently while the payment has a remaining balance.
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path int true "Loan ID"
// @Param request body dto.UpdateLoanRequest true "Fields to change"
// @Success 200 {object} dto.LoanEnvelope
// @Failure 400 {object} dto.ErrorResponse "Invalid ID or body"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Status transition rejected"
// @Router /v1/loan/{id} [put]
// @Router /v1/loan/{id} [patch]
// @Security BearerAuth
func (h *LoanHandler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateLoanRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Rejected update loan request", "loanID", id, slog.Any("error", err))
		respondError(w, err)
		return
	}

	actor := auth.ActorFromContext(r.Context())
	updated, err := h.service.UpdateLoan(r.Context(), id, req.ToPatch(), actor)
	if err != nil {
		logServiceError(r, h.logger, "Service failed to update loan", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.LoanEnvelope{
		Loan:    dto.NewLoanResponse(updated),
		Message: "Loan updated successfully",
	})
}

// DeleteLoan removes a loan.
//
// @Summary Delete a loan
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Router /v1/loan/{id} [delete]
// @Security BearerAuth
func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteLoan(r.Context(), id); err != nil {
		logServiceError(r, h.logger, "Service failed to delete loan", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Loan deleted"})
}
