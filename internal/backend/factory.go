package backend

import (
	"context"
	"fmt"
	"github.com/sebuszqo/ExpenseTracker/internal/config"
	database "github.com/sebuszqo/ExpenseTracker/internal/db"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/infrastructure"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"github.com/sirupsen/logrus"
)

// ExpenseStore is what the expense CRUD and analytics layers need from storage.
type ExpenseStore interface {
	domain.ExpenseRepository
	domain.RecordSource
}

// Backend bundles the repositories of one storage engine with its lifecycle.
type Backend struct {
	Type     string
	Expenses ExpenseStore
	Users    user.Repository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func New(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*Backend, error) {
	logger = logger.WithField("backend", cfg.DataBackend)

	switch cfg.DataBackend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendPostgres:
		return newPostgres(ctx, cfg, logger)
	case config.BackendMongo:
		return newMongo(ctx, cfg, logger)
	}
	return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
}

func NewMemory() *Backend {
	expenses := infrastructure.NewMemoryExpenseRepository()
	return &Backend{
		Type:     config.BackendMemory,
		Expenses: expenses,
		Users:    user.NewMemoryRepository(),
		ping:     expenses.Ping,
		close:    func(context.Context) error { return nil },
	}
}

func newPostgres(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*Backend, error) {
	if cfg.RunMigrations {
		// The migrator closes the connection it is given.
		migrationDB, err := database.Open(cfg.DBConnectionString)
		if err != nil {
			return nil, err
		}
		if err := infrastructure.RunMigrations(migrationDB); err != nil {
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, logger)
	if err != nil {
		return nil, err
	}

	return &Backend{
		Type:     config.BackendPostgres,
		Expenses: infrastructure.NewPersonalExpenseRepository(dbService.DB),
		Users:    user.NewUserRepository(dbService.DB),
		ping:     dbService.Ping,
		close:    func(context.Context) error { return dbService.Close() },
	}, nil
}

func newMongo(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*Backend, error) {
	mongoService, err := database.NewMongoService(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	if err != nil {
		return nil, err
	}

	expenses := infrastructure.NewMongoExpenseRepository(mongoService.DB)
	if err := expenses.EnsureIndexes(ctx); err != nil {
		mongoService.Close(ctx)
		return nil, fmt.Errorf("ensure expense indexes: %w", err)
	}
	if err := user.EnsureMongoIndexes(ctx, mongoService.DB); err != nil {
		mongoService.Close(ctx)
		return nil, fmt.Errorf("ensure user indexes: %w", err)
	}

	return &Backend{
		Type:     config.BackendMongo,
		Expenses: expenses,
		Users:    user.NewMongoRepository(mongoService.DB),
		ping:     mongoService.Ping,
		close:    mongoService.Close,
	}, nil
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.ping(ctx)
}

func (b *Backend) Close(ctx context.Context) error {
	return b.close(ctx)
}
