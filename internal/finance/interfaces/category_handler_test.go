package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubCategoryService struct {
	used       []string
	shouldFail bool
}

func (s *stubCategoryService) GetAllCategories() []string {
	return domain.Categories
}

func (s *stubCategoryService) GetUsedCategories(context.Context, string) ([]string, error) {
	if s.shouldFail {
		return nil, errors.New("service error")
	}
	return s.used, nil
}

func TestGetCategories_All(t *testing.T) {
	handler := NewCategoryHandler(&stubCategoryService{}, respondJSON, respondError)

	w := httptest.NewRecorder()
	handler.GetCategories(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, domain.Categories, response.Categories)
}

func TestGetCategories_Used(t *testing.T) {
	handler := NewCategoryHandler(&stubCategoryService{used: []string{"Food"}}, respondJSON, respondError)

	w := httptest.NewRecorder()
	handler.GetCategories(w, withUser(httptest.NewRequest(http.MethodGet, "/api/categories?scope=used", nil), "owner"))

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, []string{"Food"}, response.Categories)
}

func TestGetCategories_InvalidScope(t *testing.T) {
	handler := NewCategoryHandler(&stubCategoryService{}, respondJSON, respondError)

	w := httptest.NewRecorder()
	handler.GetCategories(w, httptest.NewRequest(http.MethodGet, "/api/categories?scope=income", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Invalid category scope", response["message"])
}

func TestGetCategories_ErrorFromService(t *testing.T) {
	handler := NewCategoryHandler(&stubCategoryService{shouldFail: true}, respondJSON, respondError)

	w := httptest.NewRecorder()
	handler.GetCategories(w, withUser(httptest.NewRequest(http.MethodGet, "/api/categories?scope=used", nil), "owner"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
