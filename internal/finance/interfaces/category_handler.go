package interfaces

import (
	"context"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"log"
	"net/http"
)

type CategoryServiceInterface interface {
	GetAllCategories() []string
	GetUsedCategories(ctx context.Context, ownerID string) ([]string, error)
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *CategoryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		log.Fatal("Service and response functions must not be nil")
		return nil
	}
	return &CategoryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// GetCategories lists every category, or with ?scope=used only those the
// caller has expenses in.
func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("scope")
	if scope != "" && scope != "all" && scope != "used" {
		h.respondError(w, http.StatusBadRequest, "Invalid category scope")
		return
	}

	categories := h.service.GetAllCategories()
	if scope == "used" {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			h.respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		var err error
		categories, err = h.service.GetUsedCategories(r.Context(), userID)
		if err != nil {
			h.respondError(w, http.StatusInternalServerError, "Failed to retrieve categories")
			return
		}
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "success",
		"message":    "Categories retrieved successfully.",
		"categories": categories,
	})
}
