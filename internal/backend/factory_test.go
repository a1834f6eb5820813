package backend

import (
	"context"
	"github.com/sebuszqo/ExpenseTracker/internal/config"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestNew_Memory(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx := context.Background()

	b, err := New(ctx, &config.Config{DataBackend: config.BackendMemory}, logger)
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, b.Type)
	assert.NoError(t, b.Ping(ctx))

	expense := &domain.Expense{
		OwnerID:    "owner",
		Title:      "Coffee",
		Category:   domain.CategoryFood,
		Amount:     decimal.RequireFromString("3.20"),
		OccurredAt: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, b.Expenses.Save(ctx, expense))

	records, err := b.Expenses.FetchRecords(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, records, 1)

	created := &user.User{Name: "Anna", Email: "anna@example.com"}
	require.NoError(t, b.Users.Create(ctx, created))
	found, err := b.Users.GetByEmail(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	assert.NoError(t, b.Close(ctx))
}

func TestNew_UnknownBackend(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := New(context.Background(), &config.Config{DataBackend: "sheets"}, logger)
	assert.EqualError(t, err, "unsupported data backend: sheets")
}

func TestNew_PostgresRequiresConnectionString(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, err := New(context.Background(), &config.Config{DataBackend: config.BackendPostgres, RunMigrations: true}, logger)
	assert.Error(t, err)
}
