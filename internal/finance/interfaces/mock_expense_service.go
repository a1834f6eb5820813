package interfaces

import (
	"context"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/application"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
)

// MockExpenseService keeps expenses in a map keyed by id.
type MockExpenseService struct {
	Expenses map[string]domain.Expense
	Err      error
}

func (m *MockExpenseService) CreateExpense(_ context.Context, expense domain.Expense) (*domain.Expense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}
	if m.Expenses == nil {
		m.Expenses = make(map[string]domain.Expense)
	}
	expense.ID = "generated-id"
	m.Expenses[expense.ID] = expense
	return &expense, nil
}

func (m *MockExpenseService) GetUserExpenses(_ context.Context, userID string) ([]domain.Expense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var expenses []domain.Expense
	for _, e := range m.Expenses {
		if e.OwnerID == userID {
			expenses = append(expenses, e)
		}
	}
	return expenses, nil
}

func (m *MockExpenseService) GetExpense(_ context.Context, userID, expenseID string) (*domain.Expense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	e, ok := m.Expenses[expenseID]
	if !ok {
		return nil, financeErrors.ErrExpenseNotFound
	}
	if e.OwnerID != userID {
		return nil, financeErrors.ErrForbidden
	}
	return &e, nil
}

func (m *MockExpenseService) UpdateExpense(ctx context.Context, userID, expenseID string, update application.ExpenseUpdate) (*domain.Expense, error) {
	e, err := m.GetExpense(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		e.Title = *update.Title
	}
	if update.Amount != nil {
		e.Amount = *update.Amount
	}
	if update.Category != nil {
		e.Category = *update.Category
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	m.Expenses[expenseID] = *e
	return e, nil
}

func (m *MockExpenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	if _, err := m.GetExpense(ctx, userID, expenseID); err != nil {
		return err
	}
	delete(m.Expenses, expenseID)
	return nil
}
