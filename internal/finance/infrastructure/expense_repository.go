package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"github.com/google/uuid"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
)

const expenseColumns = `id, user_id, title, description, category, amount::text, date, created_at`

type PersonalExpenseRepository struct {
	db *sql.DB
}

func NewPersonalExpenseRepository(db *sql.DB) *PersonalExpenseRepository {
	return &PersonalExpenseRepository{db: db}
}

func (r *PersonalExpenseRepository) Save(ctx context.Context, expense *domain.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses
        (id, user_id, title, description, category, amount, date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		expense.ID, expense.OwnerID, expense.Title, expense.Description, expense.Category,
		expense.Amount.String(), expense.OccurredAt, expense.CreatedAt,
	)
	return err
}

func (r *PersonalExpenseRepository) FindByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	if _, err := uuid.Parse(expenseID); err != nil {
		return nil, financeErrors.ErrExpenseNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, expenseID)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, financeErrors.ErrExpenseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *PersonalExpenseRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	expenses := make([]domain.Expense, 0)
	err := r.query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE user_id = $1 ORDER BY date DESC`, ownerID, func(e domain.Expense) error {
		expenses = append(expenses, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *PersonalExpenseRepository) Update(ctx context.Context, expense *domain.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET title = $2, description = $3, category = $4, amount = $5, date = $6 WHERE id = $1`,
		expense.ID, expense.Title, expense.Description, expense.Category, expense.Amount.String(), expense.OccurredAt,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *PersonalExpenseRepository) Delete(ctx context.Context, expenseID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, expenseID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *PersonalExpenseRepository) FetchRecords(ctx context.Context, ownerID string) ([]domain.Expense, error) {
	var records []domain.Expense
	err := r.StreamRecords(ctx, ownerID, func(e domain.Expense) error {
		records = append(records, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// StreamRecords walks the owner's rows without buffering them.
func (r *PersonalExpenseRepository) StreamRecords(ctx context.Context, ownerID string, fn func(domain.Expense) error) error {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE user_id = $1 ORDER BY created_at, id`, ownerID, fn)
}

func (r *PersonalExpenseRepository) query(ctx context.Context, query, ownerID string, fn func(domain.Expense) error) error {
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return err
		}
		if err := fn(expense); err != nil {
			return err
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (domain.Expense, error) {
	var (
		expense    domain.Expense
		amount     sql.NullString
		occurredAt sql.NullTime
	)
	if err := row.Scan(&expense.ID, &expense.OwnerID, &expense.Title, &expense.Description, &expense.Category,
		&amount, &occurredAt, &expense.CreatedAt); err != nil {
		return domain.Expense{}, err
	}

	parsed, err := decimal.NewFromString(amount.String)
	if !amount.Valid || err != nil {
		expense.MarkAmountUnreadable()
	} else {
		expense.Amount = parsed
	}
	if occurredAt.Valid {
		expense.OccurredAt = occurredAt.Time.UTC()
	}
	return expense, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return financeErrors.ErrExpenseNotFound
	}
	return nil
}
