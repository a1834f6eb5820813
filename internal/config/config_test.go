package config

import (
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:                "5000",
		ShutdownTimeout:     10 * time.Second,
		DataBackend:         BackendMemory,
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "expense-tracker",
		JWTSecret:           "secret",
		JWTTTL:              time.Hour,
		LogLevel:            "info",
		MalformedPolicy:     "skip",
		HealthCheckSchedule: "@every 1m",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid memory backend config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid postgres backend config",
			mutate: func(c *Config) { c.DataBackend = BackendPostgres; c.DBConnectionString = "postgres://localhost/db" },
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "sqlite" },
			wantErr:     true,
			errorString: "invalid data backend 'sqlite': must be one of [memory postgres mongo]",
		},
		{
			name:        "postgres backend missing connection string",
			mutate:      func(c *Config) { c.DataBackend = BackendPostgres },
			wantErr:     true,
			errorString: "DB_CONNECTION_STRING is required when using postgres backend",
		},
		{
			name:        "mongo backend with bad uri",
			mutate:      func(c *Config) { c.DataBackend = BackendMongo; c.MongoURI = "localhost:27017" },
			wantErr:     true,
			errorString: "invalid MongoDB URI 'localhost:27017'",
		},
		{
			name:        "missing jwt secret",
			mutate:      func(c *Config) { c.JWTSecret = "" },
			wantErr:     true,
			errorString: "no JWT_SECRET provided",
		},
		{
			name:        "unknown malformed policy",
			mutate:      func(c *Config) { c.MalformedPolicy = "ignore" },
			wantErr:     true,
			errorString: "invalid analytics malformed policy 'ignore'",
		},
		{
			name:        "bad cron schedule",
			mutate:      func(c *Config) { c.HealthCheckSchedule = "sometimes" },
			wantErr:     true,
			errorString: "invalid health check schedule 'sometimes'",
		},
		{
			name:        "bad log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.JWTSecret = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 'abc'")
	assert.Contains(t, err.Error(), "no JWT_SECRET provided")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "JWT_TTL", "SHUTDOWN_TIMEOUT", "RUN_MIGRATIONS", "ANALYTICS_MALFORMED_POLICY"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.DataBackend)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, domain.SkipMalformed, cfg.Policy())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "postgres")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("ANALYTICS_MALFORMED_POLICY", "fail")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.DataBackend)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, domain.FailOnMalformed, cfg.Policy())
}

func TestLoad_UnparsableValuesAreReported(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JWT_TTL", "a week")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	t.Setenv("RUN_MIGRATIONS", "maybe")

	cfg := Load()
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JWT_TTL 'a week'")
	assert.Contains(t, err.Error(), "invalid SHUTDOWN_TIMEOUT 'not-a-duration'")
	assert.Contains(t, err.Error(), "invalid RUN_MIGRATIONS 'maybe': must be a boolean")
}
