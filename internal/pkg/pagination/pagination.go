package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"loan-management/internal/pkg/apperrors"
)

const (
	DefaultPerPage = 10
	DefaultOrderBy = "id"
)

type Params struct {
	Page      int
	PerPage   int
	OrderBy   string
	OrderDesc bool
}

func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

func (p Params) Direction() string {
	if p.OrderDesc {
		return "DESC"
	}
	return "ASC"
}

// OrderClause renders "ORDER BY <col> <dir>" using the column mapped from the
// public order key. Keys are validated by Parse, so the column is trusted.
func (p Params) OrderClause(columns map[string]string) string {
	col, ok := columns[p.OrderBy]
	if !ok {
		col = columns[DefaultOrderBy]
	}
	return fmt.Sprintf("ORDER BY %s %s", col, p.Direction())
}

type Page[T any] struct {
	Items       []T
	Total       int64
	CurrentPage int
	PerPage     int
}

func (p Page[T]) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

type Query interface {
	Get(key string) string
}

// Parse reads page, itemsPerPage, order and orderType. Unknown order keys are
// rejected so they never reach SQL.
func Parse(q Query, allowedOrder map[string]string, maxPerPage int) (Params, error) {
	params := Params{
		Page:      1,
		PerPage:   DefaultPerPage,
		OrderBy:   DefaultOrderBy,
		OrderDesc: true,
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Params{}, apperrors.NewValidationError("page", "must be a positive integer")
		}
		params.Page = page
	}

	if raw := q.Get("itemsPerPage"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			return Params{}, apperrors.NewValidationError("itemsPerPage", "must be a positive integer")
		}
		params.PerPage = perPage
	}
	if maxPerPage > 0 && params.PerPage > maxPerPage {
		params.PerPage = maxPerPage
	}

	if raw := q.Get("order"); raw != "" {
		if _, ok := allowedOrder[raw]; !ok {
			return Params{}, apperrors.NewValidationError("order", fmt.Sprintf("unsupported order column %q", raw))
		}
		params.OrderBy = raw
	}

	switch strings.ToLower(q.Get("orderType")) {
	case "", "desc":
		params.OrderDesc = true
	case "asc":
		params.OrderDesc = false
	default:
		return Params{}, apperrors.NewValidationError("orderType", "must be asc or desc")
	}

	return params, nil
}
