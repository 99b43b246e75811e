package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"loan-management/internal/api/handler/dto"
	"loan-management/internal/config"
	"loan-management/internal/pkg/apperrors"
	"loan-management/internal/pkg/pagination"

	"github.com/go-chi/chi/v5"
)

const msgInvalidCredentials = "Invalid Credentials."

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// decodeAndValidate reads the body into v and runs its validation tags.
func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := decodeJSON(r, v); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	return dto.Validate(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// respondError maps the error taxonomy onto HTTP. Business-rule rejections
// are checked first because some of them also wrap ErrNotFound.
func respondError(w http.ResponseWriter, err error) {
	status, detail := http.StatusInternalServerError, dto.ErrorDetail{Message: "An unexpected error occurred."}
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrBusinessRule) && errors.As(err, &appErr):
		detail.Message = appErr.Message
	case errors.As(err, &validationError):
		status = http.StatusUnprocessableEntity
		detail = dto.ErrorDetail{
			Message: validationError.Message,
			Field:   validationError.Field,
			Fields:  validationError.Fields,
		}
	case errors.Is(err, apperrors.ErrValidation):
		status, detail.Message = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status, detail.Message = http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, detail.Message = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrInvalidArgument):
		status, detail.Message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status, detail.Message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrAlreadyExists):
		status, detail.Message = http.StatusConflict, "Resource already exists."
	case errors.Is(err, apperrors.ErrConflict):
		status, detail.Message = http.StatusConflict, "Resource is still referenced."
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	respondJSON(w, status, dto.ErrorResponse{Error: detail})
}

func getIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		return 0, fmt.Errorf("%w: id not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// getCustomerIDFromQuery reads the customer id of the customer-loans and
// customer-payments listings.
func getCustomerIDFromQuery(r *http.Request) (int64, error) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		return 0, apperrors.NewValidationError("id", "The id field is required.")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid customer id: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

func parsePage(r *http.Request, columns map[string]string, cfg config.PaginationConfig) (pagination.Params, error) {
	query := r.URL.Query()
	params, err := pagination.Parse(query, columns, cfg.MaxPerPage)
	if err != nil {
		return pagination.Params{}, err
	}
	if query.Get("itemsPerPage") == "" && cfg.DefaultPerPage > 0 {
		params.PerPage = cfg.DefaultPerPage
		if cfg.MaxPerPage > 0 && params.PerPage > cfg.MaxPerPage {
			params.PerPage = cfg.MaxPerPage
		}
	}
	return params, nil
}

func logServiceError(r *http.Request, logger *slog.Logger, msg string, err error) {
	level := slog.LevelError
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrBusinessRule) || errors.Is(err, apperrors.ErrInvalidCredentials) {
		level = slog.LevelWarn
	}
	logger.Log(r.Context(), level, msg, slog.Any("error", err))
}
