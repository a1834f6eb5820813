package interfaces

import (
	"encoding/json"
	"errors"
	"github.com/gorilla/mux"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"log"
	"net/http"
	"time"
)

type expenseRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *string          `json:"date"`
}

type expenseResponse struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Amount      json.Number `json:"amount"`
	Date        time.Time   `json:"date"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func toExpenseResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		UserID:      e.OwnerID,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Amount:      decimalNumber(e.Amount),
		Date:        e.OccurredAt,
		CreatedAt:   e.CreatedAt,
	}
}

type PersonalExpenseHandler struct {
	service      application.ExpenseService
	logger       logrus.FieldLogger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewPersonalExpenseHandler(
	service application.ExpenseService,
	logger logrus.FieldLogger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *PersonalExpenseHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	if respondJSON == nil {
		log.Fatal("RespondJSON function must not be nil")
		return nil
	}
	if respondError == nil {
		log.Fatal("RespondError function must not be nil")
		return nil
	}
	return &PersonalExpenseHandler{
		service:      service,
		logger:       logger.WithField("component", "expense_handler"),
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *PersonalExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense := domain.Expense{OwnerID: userID}
	if update.Title != nil {
		expense.Title = *update.Title
	}
	if update.Description != nil {
		expense.Description = *update.Description
	}
	if update.Category != nil {
		expense.Category = *update.Category
	}
	if update.Amount != nil {
		expense.Amount = *update.Amount
	}
	if update.Date != nil {
		expense.OccurredAt = *update.Date
	}

	created, err := h.service.CreateExpense(r.Context(), expense)
	if err != nil {
		h.handleError(w, err, "Failed to create expense")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Expense added",
		"expense": toExpenseResponse(*created),
	})
}

func (h *PersonalExpenseHandler) GetUserExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	expenses, err := h.service.GetUserExpenses(r.Context(), userID)
	if err != nil {
		h.handleError(w, err, "Failed to retrieve expenses")
		return
	}

	response := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		response = append(response, toExpenseResponse(e))
	}
	h.respondJSON(w, http.StatusOK, response)
}

func (h *PersonalExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	expense, err := h.service.GetExpense(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		h.handleError(w, err, "Failed to retrieve expense")
		return
	}
	h.respondJSON(w, http.StatusOK, toExpenseResponse(*expense))
}

func (h *PersonalExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := h.service.UpdateExpense(r.Context(), userID, mux.Vars(r)["id"], update)
	if err != nil {
		h.handleError(w, err, "Failed to update expense")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expense updated",
		"expense": toExpenseResponse(*expense),
	})
}

func (h *PersonalExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteExpense(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		h.handleError(w, err, "Failed to delete expense")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Expense deleted",
	})
}

func (h *PersonalExpenseHandler) handleError(w http.ResponseWriter, err error, fallback string) {
	var validationErrors *financeErrors.ValidationErrors
	switch {
	case errors.As(err, &validationErrors):
		h.respondError(w, http.StatusBadRequest, "Validation failed", validationErrors.Messages())
	case financeErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, financeErrors.ErrExpenseNotFound):
		h.respondError(w, http.StatusNotFound, "Expense not found")
	case errors.Is(err, financeErrors.ErrForbidden):
		h.respondError(w, http.StatusForbidden, "Not authorized")
	default:
		h.logger.WithError(err).Error(fallback)
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}

func (req expenseRequest) toUpdate() (application.ExpenseUpdate, error) {
	update := application.ExpenseUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
	}
	if req.Date != nil && *req.Date != "" {
		date, err := parseDate(*req.Date)
		if err != nil {
			return application.ExpenseUpdate{}, financeErrors.NewValidationError("Invalid date format")
		}
		update.Date = &date
	}
	return update, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", value)
}
