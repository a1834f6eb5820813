package main

import (
	"encoding/json"
	"github.com/gorilla/mux"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/interfaces"
	"github.com/sebuszqo/ExpenseTracker/internal/health"
	"github.com/sebuszqo/ExpenseTracker/internal/middleware"
	"github.com/sirupsen/logrus"
	"net/http"
)

type Response struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}
	respondJSON(w, status, payload)
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusNotFound, Response{Message: "Path not found"})
}

type Server struct {
	router           *mux.Router
	logger           logrus.FieldLogger
	authHandler      *auth.Handler
	authService      auth.Service
	expenseHandler   *interfaces.PersonalExpenseHandler
	analyticsHandler *interfaces.AnalyticsHandler
	categoryHandler  *interfaces.CategoryHandler
	healthHandler    *health.Handler
}

func NewServer(
	logger logrus.FieldLogger,
	authHandler *auth.Handler,
	authService auth.Service,
	expenseHandler *interfaces.PersonalExpenseHandler,
	analyticsHandler *interfaces.AnalyticsHandler,
	categoryHandler *interfaces.CategoryHandler,
	healthHandler *health.Handler,
) *Server {
	return &Server{
		router:           mux.NewRouter(),
		logger:           logger,
		authHandler:      authHandler,
		authService:      authService,
		expenseHandler:   expenseHandler,
		analyticsHandler: analyticsHandler,
		categoryHandler:  categoryHandler,
		healthHandler:    healthHandler,
	}
}

func (s *Server) RegisterRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", s.healthHandler.HandleHealth).Methods(http.MethodGet)
	api.HandleFunc("/ready", s.healthHandler.HandleReady).Methods(http.MethodGet)
	api.HandleFunc("/auth/signup", s.authHandler.HandleSignUp).Methods(http.MethodPost)
	api.HandleFunc("/auth/signin", s.authHandler.HandleSignIn).Methods(http.MethodPost)

	// Protected routes (using JWT Access Token Middleware)
	profile := api.PathPrefix("/auth/profile").Subrouter()
	profile.Use(s.authService.JWTAccessTokenMiddleware())
	profile.HandleFunc("", s.authHandler.HandleGetProfile).Methods(http.MethodGet)

	expenses := api.PathPrefix("/expenses").Subrouter()
	expenses.Use(s.authService.JWTAccessTokenMiddleware())
	expenses.HandleFunc("", s.expenseHandler.CreateExpense).Methods(http.MethodPost)
	expenses.HandleFunc("", s.expenseHandler.GetUserExpenses).Methods(http.MethodGet)
	expenses.HandleFunc("/{id}", s.expenseHandler.GetExpense).Methods(http.MethodGet)
	expenses.HandleFunc("/{id}", s.expenseHandler.UpdateExpense).Methods(http.MethodPut)
	expenses.HandleFunc("/{id}", s.expenseHandler.DeleteExpense).Methods(http.MethodDelete)

	analytics := api.PathPrefix("/analytics").Subrouter()
	analytics.Use(s.authService.JWTAccessTokenMiddleware())
	analytics.HandleFunc("/summary/{period}", s.analyticsHandler.GetSummary).Methods(http.MethodGet)
	analytics.HandleFunc("/categories", s.analyticsHandler.GetCategories).Methods(http.MethodGet)
	analytics.HandleFunc("/total", s.analyticsHandler.GetTotal).Methods(http.MethodGet)

	categories := api.PathPrefix("/categories").Subrouter()
	categories.Use(s.authService.JWTAccessTokenMiddleware())
	categories.HandleFunc("", s.categoryHandler.GetCategories).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(notFoundHandler)
}

// Handler wraps the router in the request-scoped middleware chain.
func (s *Server) Handler() http.Handler {
	// RequestID runs first so recovered panics are logged with the request id.
	return middleware.RequestID(
		middleware.Recovery(s.logger)(
			middleware.Logger(s.logger)(
				middleware.CORS(s.router),
			),
		),
	)
}
