package main

import (
	"context"
	"errors"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	"github.com/sebuszqo/ExpenseTracker/internal/backend"
	"github.com/sebuszqo/ExpenseTracker/internal/config"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/interfaces"
	"github.com/sebuszqo/ExpenseTracker/internal/health"
	"github.com/sebuszqo/ExpenseTracker/internal/logging"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Missing configuration, update to start server: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("could not initialize data backend")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.WithError(err).Error("closing data backend")
		}
	}()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	userService := user.NewUserService(store.Users)
	authService := auth.NewAuthService(userService, jwtManager)
	authHandler := auth.NewHandler(authService, logger)

	expenseService := application.NewPersonalExpenseService(store.Expenses)
	expenseHandler := interfaces.NewPersonalExpenseHandler(expenseService, logger, respondJSON, respondError)

	analyticsService := application.NewAnalyticsService(store.Expenses, cfg.Policy(), logger)
	analyticsHandler := interfaces.NewAnalyticsHandler(analyticsService, logger, respondJSON)

	categoryService := application.NewCategoryService(store.Expenses)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, respondJSON, respondError)

	monitor := health.NewMonitor(store, logger)
	scheduler, err := monitor.Start(ctx, cfg.HealthCheckSchedule)
	if err != nil {
		logger.WithError(err).Fatal("scheduler didn't start, stopping the app")
	}
	healthHandler := health.NewHandler(monitor, respondJSON)

	server := NewServer(logger, authHandler, authService, expenseHandler, analyticsHandler, categoryHandler, healthHandler)
	server.RegisterRoutes()

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithFields(logrus.Fields{
			"port":             cfg.Port,
			"backend":          store.Type,
			"malformed_policy": cfg.Policy().String(),
		}).Info("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server")

		<-scheduler.Stop().Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server stopped with error")
		return
	}
	logger.Info("server exited")
}
