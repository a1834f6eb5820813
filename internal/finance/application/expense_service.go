package application

import (
	"context"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"time"
)

// ExpenseUpdate carries the fields of a partial update; nil means unchanged.
type ExpenseUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Amount      *decimal.Decimal
	Date        *time.Time
}

type ExpenseService interface {
	CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	GetUserExpenses(ctx context.Context, userID string) ([]domain.Expense, error)
	GetExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, userID, expenseID string, update ExpenseUpdate) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) error
}

type PersonalExpenseService struct {
	repo domain.ExpenseRepository
	now  func() time.Time
}

func NewPersonalExpenseService(repo domain.ExpenseRepository) *PersonalExpenseService {
	return &PersonalExpenseService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *PersonalExpenseService) CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	now := s.now()
	if expense.OccurredAt.IsZero() {
		expense.OccurredAt = now
	}
	expense.OccurredAt = expense.OccurredAt.UTC()
	expense.CreatedAt = now
	if err := expense.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *PersonalExpenseService) GetUserExpenses(ctx context.Context, userID string) ([]domain.Expense, error) {
	return s.repo.FindByOwner(ctx, userID)
}

func (s *PersonalExpenseService) GetExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	expense, err := s.repo.FindByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.OwnerID != userID {
		return nil, financeErrors.ErrForbidden
	}
	return expense, nil
}

func (s *PersonalExpenseService) UpdateExpense(ctx context.Context, userID, expenseID string, update ExpenseUpdate) (*domain.Expense, error) {
	expense, err := s.GetExpense(ctx, userID, expenseID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		expense.Title = *update.Title
	}
	if update.Description != nil {
		expense.Description = *update.Description
	}
	if update.Category != nil {
		expense.Category = *update.Category
	}
	if update.Amount != nil {
		expense.Amount = *update.Amount
	}
	if update.Date != nil {
		expense.OccurredAt = update.Date.UTC()
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *PersonalExpenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	if _, err := s.GetExpense(ctx, userID, expenseID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, expenseID)
}
