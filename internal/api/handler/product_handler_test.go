package handler_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"loan-management/internal/api/handler"
	"loan-management/internal/domain/product"
	"loan-management/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductHandler(t *testing.T) {
	mockService := new(MockProductService)
	h := handler.NewProductHandler(mockService, testPaging, testLogger)
	minimum := 600
	p := &product.Product{ID: 4, Name: "KPR", Type: "mortgage", Amount: 500000000, MinimumCreditPointRequirement: &minimum}

	t.Run("Create", func(t *testing.T) {
		mockService.On("CreateProduct", mock.Anything, product.CreateParams{
			Name: "KPR", Type: "mortgage", Amount: 500000000, MinimumCreditPointRequirement: &minimum,
		}).Return(p, nil).Once()

		body := `{"name":"KPR","type":"mortgage","amount":500000000,"minimum_credit_point_requirement":600}`
		rec := httptest.NewRecorder()
		h.CreateProduct(rec, httptest.NewRequest(http.MethodPost, "/v1/product", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"minimum_credit_point_requirement":600`)
		assert.Contains(t, rec.Body.String(), "Created a new product successfully")
	})

	t.Run("Create without amount", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.CreateProduct(rec, httptest.NewRequest(http.MethodPost, "/v1/product", bytes.NewBufferString(`{"name":"KPR","type":"mortgage"}`)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "The amount field is required.")
	})

	t.Run("Get", func(t *testing.T) {
		mockService.On("GetProduct", mock.Anything, int64(4)).Return(p, nil).Once()

		rec := httptest.NewRecorder()
		h.GetProduct(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/v1/product/4", nil), "id", "4"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"product":{"id":4`)
	})

	t.Run("Update", func(t *testing.T) {
		mockService.On("UpdateProduct", mock.Anything, int64(4), mock.MatchedBy(func(patch product.Patch) bool {
			return patch.Amount != nil && *patch.Amount == 1000
		})).Return(p, nil).Once()

		rec := httptest.NewRecorder()
		h.UpdateProduct(rec, withURLParam(httptest.NewRequest(http.MethodPut, "/v1/product/4", bytes.NewBufferString(`{"amount":1000}`)), "id", "4"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Product updated successfully")
	})

	t.Run("Delete missing", func(t *testing.T) {
		mockService.On("DeleteProduct", mock.Anything, int64(5)).Return(apperrors.ErrNotFound).Once()

		rec := httptest.NewRecorder()
		h.DeleteProduct(rec, withURLParam(httptest.NewRequest(http.MethodDelete, "/v1/product/5", nil), "id", "5"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	mockService.AssertExpectations(t)
}
