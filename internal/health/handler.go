package health

import (
	"log"
	"net/http"
	"time"
)

type Handler struct {
	monitor     *Monitor
	respondJSON func(w http.ResponseWriter, status int, payload interface{})
}

func NewHandler(monitor *Monitor, respondJSON func(w http.ResponseWriter, status int, payload interface{})) *Handler {
	if monitor == nil {
		log.Fatal("Monitor must not be nil")
		return nil
	}
	if respondJSON == nil {
		log.Fatal("RespondJSON function must not be nil")
		return nil
	}
	return &Handler{monitor: monitor, respondJSON: respondJSON}
}

// HandleHealth is a liveness check and never touches the backend.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) HandleReady(w http.ResponseWriter, _ *http.Request) {
	status := h.monitor.Status()
	if !status.Ready {
		h.respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unavailable",
			"error":     status.Error,
			"checkedAt": status.CheckedAt,
		})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"checkedAt": status.CheckedAt,
	})
}
