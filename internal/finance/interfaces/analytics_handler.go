package interfaces

import (
	"encoding/json"
	"github.com/gorilla/mux"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"log"
	"net/http"
	"strconv"
)

const skippedRecordsHeader = "X-Data-Quality-Skipped"

const (
	categoryGranularity = "granularity"
	categoryStore       = "store"
	categoryDataQuality = "data_quality"
)

// rollupResponse keeps the {_id, total, count} shape existing clients read.
type rollupResponse struct {
	ID    string      `json:"_id"`
	Total json.Number `json:"total"`
	Count int         `json:"count"`
}

type totalResponse struct {
	TotalAmount   json.Number `json:"totalAmount"`
	TotalExpenses int         `json:"totalExpenses"`
}

type AnalyticsHandler struct {
	service     application.AnalyticsService
	logger      logrus.FieldLogger
	respondJSON func(w http.ResponseWriter, status int, payload interface{})
}

func NewAnalyticsHandler(
	service application.AnalyticsService,
	logger logrus.FieldLogger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
) *AnalyticsHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	if respondJSON == nil {
		log.Fatal("RespondJSON function must not be nil")
		return nil
	}
	return &AnalyticsHandler{
		service:     service,
		logger:      logger.WithField("component", "analytics_handler"),
		respondJSON: respondJSON,
	}
}

func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondAnalyticsError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	buckets, skipped, err := h.service.Summary(r.Context(), userID, mux.Vars(r)["period"])
	if err != nil {
		h.handleError(w, userID, err)
		return
	}

	response := make([]rollupResponse, 0, len(buckets))
	for _, b := range buckets {
		response = append(response, rollupResponse{ID: b.Key, Total: decimalNumber(b.Total), Count: b.Count})
	}
	h.reportSkipped(w, userID, skipped)
	h.respondJSON(w, http.StatusOK, response)
}

func (h *AnalyticsHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondAnalyticsError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	categories, skipped, err := h.service.Categories(r.Context(), userID)
	if err != nil {
		h.handleError(w, userID, err)
		return
	}

	response := make([]rollupResponse, 0, len(categories))
	for _, c := range categories {
		response = append(response, rollupResponse{ID: c.Category, Total: decimalNumber(c.Total), Count: c.Count})
	}
	h.reportSkipped(w, userID, skipped)
	h.respondJSON(w, http.StatusOK, response)
}

func (h *AnalyticsHandler) GetTotal(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondAnalyticsError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	total, skipped, err := h.service.Total(r.Context(), userID)
	if err != nil {
		h.handleError(w, userID, err)
		return
	}

	h.reportSkipped(w, userID, skipped)
	h.respondJSON(w, http.StatusOK, totalResponse{
		TotalAmount:   decimalNumber(total.Amount),
		TotalExpenses: total.Count,
	})
}

func (h *AnalyticsHandler) handleError(w http.ResponseWriter, userID string, err error) {
	entry := h.logger.WithField("owner_id", userID)
	switch {
	case financeErrors.IsGranularityError(err):
		entry.WithError(err).Info("rejected analytics period")
		h.respondAnalyticsError(w, http.StatusBadRequest, "Invalid period", categoryGranularity)
	case financeErrors.IsDataQualityError(err):
		entry.WithError(err).Error("analytics aborted on malformed record")
		h.respondAnalyticsError(w, http.StatusInternalServerError, "Stored expense data is malformed", categoryDataQuality)
	default:
		entry.WithError(err).Error("analytics query failed")
		h.respondAnalyticsError(w, http.StatusInternalServerError, "Server error", categoryStore)
	}
}

func (h *AnalyticsHandler) respondAnalyticsError(w http.ResponseWriter, status int, message, category string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if category != "" {
		payload["category"] = category
	}
	h.respondJSON(w, status, payload)
}

func (h *AnalyticsHandler) reportSkipped(w http.ResponseWriter, userID string, skipped int) {
	if skipped == 0 {
		return
	}
	h.logger.WithFields(logrus.Fields{"owner_id": userID, "skipped": skipped}).Warn("malformed expense records skipped")
	w.Header().Set(skippedRecordsHeader, strconv.Itoa(skipped))
}

func decimalNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
