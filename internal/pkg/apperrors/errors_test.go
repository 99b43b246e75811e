package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "BUSINESS_RULE",
				Message: "Unable to complete loan as it is not yet paid",
			},
			expected: "[BUSINESS_RULE] Unable to complete loan as it is not yet paid",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "plain message",
			},
			expected: "plain message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appError.Error())
		})
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("loan_id", "has already been taken")

	assert.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "loan_id", ve.Field)
	assert.Equal(t, "has already been taken", ve.Message)
	assert.Equal(t, "validation failed for field 'loan_id': has already been taken", ve.Error())
}

func TestNewFieldsValidationError(t *testing.T) {
	err := NewFieldsValidationError(map[string]string{
		"phone_number": "must be at most 15 characters",
		"name":         "is required",
	})

	assert.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, "is required", ve.Message)
	assert.Len(t, ve.Fields, 2)
	assert.Equal(t, "validation failed: name: is required; phone_number: must be at most 15 characters", ve.Error())
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapDatabaseError(cause, "failed to insert loan")

	assert.ErrorIs(t, err, ErrDatabase)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[DB_ERROR] failed to insert loan", err.Error())
}

func TestNewBusinessError(t *testing.T) {
	t.Run("without reason", func(t *testing.T) {
		err := NewBusinessError("Unable to complete loan as it is not yet paid", nil)
		assert.ErrorIs(t, err, ErrBusinessRule)

		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "BUSINESS_RULE", appErr.Code)
		assert.Equal(t, "Unable to complete loan as it is not yet paid", appErr.Message)
	})

	t.Run("with reason", func(t *testing.T) {
		err := NewBusinessError("Cannot create a new payment for a completed loan", ErrLoanCompleted)
		assert.ErrorIs(t, err, ErrBusinessRule)
		assert.ErrorIs(t, err, ErrLoanCompleted)
		assert.NotErrorIs(t, err, ErrInvalidPaymentAmount)
	})
}
