package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"loan-management/internal/pkg/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var (
	interestRatePattern = regexp.MustCompile(`^-?[0-9]+(?:\.[0-9]{1,2})?$`)
	validate            = newValidator()
)

// maxInterestRate is the largest magnitude a NUMERIC(5,2) column holds.
var maxInterestRate = decimal.RequireFromString("999.99")

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("interest_rate", func(fl validator.FieldLevel) bool {
		return validInterestRate(fl.Field().String())
	})
	return v
}

func validInterestRate(raw string) bool {
	if !interestRatePattern.MatchString(raw) {
		return false
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return false
	}
	return rate.Abs().LessThanOrEqual(maxInterestRate)
}

// ParseDate accepts a calendar date or a full RFC 3339 timestamp.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t, nil
}

// Validate runs the struct tags of v and reports every failing field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if fe.Tag() == "eqfield" {
			name = strings.TrimSuffix(name, "_confirmation")
		}
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = fieldMessage(name, fe)
	}
	return apperrors.NewFieldsValidationError(fields)
}

func fieldMessage(name string, fe validator.FieldError) string {
	label := strings.ReplaceAll(name, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", label, fe.Param())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", label)
	case "date":
		return fmt.Sprintf("The %s is not a valid date.", label)
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", label)
	case "interest_rate":
		return fmt.Sprintf("The %s format is invalid.", label)
	default:
		return fmt.Sprintf("The %s is invalid.", label)
	}
}

// mustParseDate is used after Validate has accepted the value. Timestamps are
// cut to their calendar day, which is all a DATE column keeps.
func mustParseDate(raw string) time.Time {
	t, _ := ParseDate(raw)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
