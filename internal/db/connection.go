package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	"time"
)

const (
	maxOpenConns    = 50
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// DBService owns the postgres connection pool.
type DBService struct {
	DB     *sql.DB
	logger logrus.FieldLogger
}

// Open opens a pgx-backed *sql.DB without pooling tweaks or a ping.
func Open(connStr string) (*sql.DB, error) {
	if connStr == "" {
		return nil, errors.New("missing DB_CONNECTION_STRING")
	}
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("could not open db connection: %w", err)
	}
	return db, nil
}

// NewDBService opens the pool, applies the connection limits and pings once.
func NewDBService(ctx context.Context, connStr string, logger logrus.FieldLogger) (*DBService, error) {
	db, err := Open(connStr)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	s := &DBService{DB: db, logger: logger.WithField("component", "postgres")}
	if err := s.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to the database: %w", err)
	}
	return s, nil
}

func (s *DBService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.DB.PingContext(ctx)
}

// Health reports the pool state in a form suitable for a status payload.
func (s *DBService) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)

	if err := s.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	dbStats := s.DB.Stats()
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["open_connections"] = fmt.Sprint(dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprint(dbStats.InUse)
	stats["idle"] = fmt.Sprint(dbStats.Idle)
	return stats
}

func (s *DBService) Close() error {
	s.logger.Info("closing database connection")
	return s.DB.Close()
}
