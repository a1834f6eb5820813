package infrastructure

import (
	"context"
	"github.com/google/uuid"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"sort"
	"sync"
)

// MemoryExpenseRepository keeps expenses in process memory and backs the
// memory data backend.
type MemoryExpenseRepository struct {
	mu       sync.RWMutex
	expenses []domain.Expense
}

func NewMemoryExpenseRepository(expenses ...domain.Expense) *MemoryExpenseRepository {
	return &MemoryExpenseRepository{expenses: expenses}
}

func (m *MemoryExpenseRepository) Save(_ context.Context, expense *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	m.expenses = append(m.expenses, *expense)
	return nil
}

func (m *MemoryExpenseRepository) FindByID(_ context.Context, expenseID string) (*domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.expenses {
		if e.ID == expenseID {
			found := e
			return &found, nil
		}
	}
	return nil, financeErrors.ErrExpenseNotFound
}

func (m *MemoryExpenseRepository) FindByOwner(_ context.Context, ownerID string) ([]domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	expenses := make([]domain.Expense, 0)
	for _, e := range m.expenses {
		if e.OwnerID == ownerID {
			expenses = append(expenses, e)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].OccurredAt.After(expenses[j].OccurredAt)
	})
	return expenses, nil
}

func (m *MemoryExpenseRepository) Update(_ context.Context, expense *domain.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.expenses {
		if m.expenses[i].ID == expense.ID {
			m.expenses[i] = *expense
			return nil
		}
	}
	return financeErrors.ErrExpenseNotFound
}

func (m *MemoryExpenseRepository) Delete(_ context.Context, expenseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.expenses {
		if m.expenses[i].ID == expenseID {
			m.expenses = append(m.expenses[:i], m.expenses[i+1:]...)
			return nil
		}
	}
	return financeErrors.ErrExpenseNotFound
}

// FetchRecords returns the owner's records in insertion order.
func (m *MemoryExpenseRepository) FetchRecords(_ context.Context, ownerID string) ([]domain.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var records []domain.Expense
	for _, e := range m.expenses {
		if e.OwnerID == ownerID {
			records = append(records, e)
		}
	}
	return records, nil
}

func (m *MemoryExpenseRepository) Ping(context.Context) error {
	return nil
}
