package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/sirupsen/logrus"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

var validBackends = []string{BackendMemory, BackendPostgres, BackendMongo}

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration

	// Backend selection
	DataBackend string

	// Postgres
	DBConnectionString string
	RunMigrations      bool

	// MongoDB
	MongoURI      string
	MongoDatabase string

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// Logging
	LogLevel string

	// Analytics
	MalformedPolicy string

	// Health
	HealthCheckSchedule string

	// values present in the environment that could not be parsed
	parseErrors []string
}

// Load reads .env when present and falls back to the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	cfg := &Config{}

	cfg.Port = getEnv("PORT", "5000")
	cfg.ShutdownTimeout = cfg.getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	cfg.DataBackend = getEnv("DATA_BACKEND", BackendMemory)

	cfg.DBConnectionString = getEnv("DB_CONNECTION_STRING", "")
	cfg.RunMigrations = cfg.getEnvBool("RUN_MIGRATIONS", true)

	cfg.MongoURI = getEnv("MONGODB_URI", "mongodb://localhost:27017")
	cfg.MongoDatabase = getEnv("MONGODB_DATABASE", "expense-tracker")

	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.JWTTTL = cfg.getEnvDuration("JWT_TTL", 7*24*time.Hour)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.MalformedPolicy = getEnv("ANALYTICS_MALFORMED_POLICY", "skip")

	cfg.HealthCheckSchedule = getEnv("HEALTH_CHECK_SCHEDULE", "@every 1m")

	return cfg
}

// Validate validates the configuration and returns every problem at once.
func (c *Config) Validate() error {
	errors := append([]string(nil), c.parseErrors...)

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == BackendPostgres && c.DBConnectionString == "" {
		errors = append(errors, "DB_CONNECTION_STRING is required when using postgres backend")
	}

	if c.DataBackend == BackendMongo {
		if !strings.HasPrefix(c.MongoURI, "mongodb://") && !strings.HasPrefix(c.MongoURI, "mongodb+srv://") {
			errors = append(errors, fmt.Sprintf("invalid MongoDB URI '%s': must start with mongodb:// or mongodb+srv://", c.MongoURI))
		}
		if c.MongoDatabase == "" {
			errors = append(errors, "MongoDB database name cannot be empty when using mongo backend")
		}
	}

	if c.JWTSecret == "" {
		errors = append(errors, "no JWT_SECRET provided")
	}
	if c.JWTTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid JWT TTL %v: must be at least 1 minute", c.JWTTTL))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if _, err := domain.ParseMalformedPolicy(c.MalformedPolicy); err != nil {
		errors = append(errors, fmt.Sprintf("invalid analytics malformed policy '%s': must be skip or fail", c.MalformedPolicy))
	}

	if _, err := cron.ParseStandard(c.HealthCheckSchedule); err != nil {
		errors = append(errors, fmt.Sprintf("invalid health check schedule '%s': %v", c.HealthCheckSchedule, err))
	}

	if c.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Policy returns the parsed malformed record policy. Call after Validate.
func (c *Config) Policy() domain.MalformedPolicy {
	policy, _ := domain.ParseMalformedPolicy(c.MalformedPolicy)
	return policy
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("invalid %s '%s': must be a boolean", key, value))
	}
	return defaultValue
}

func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
		c.parseErrors = append(c.parseErrors, fmt.Sprintf("invalid %s '%s': must be a duration such as 10s or 168h", key, value))
	}
	return defaultValue
}
