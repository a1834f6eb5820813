package domain

import (
	"context"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"strings"
	"time"
)

const (
	maxTitleLength = 200
	// amounts are persisted as NUMERIC(14,2)
	amountScale = 2
	maxYear     = 9999
)

var maxAmount = decimal.New(1, 12)

type ExpenseRepository interface {
	Save(ctx context.Context, expense *Expense) error
	FindByID(ctx context.Context, expenseID string) (*Expense, error)
	FindByOwner(ctx context.Context, ownerID string) ([]Expense, error)
	Update(ctx context.Context, expense *Expense) error
	Delete(ctx context.Context, expenseID string) error
}

type Expense struct {
	ID          string
	OwnerID     string // user UUID
	Title       string
	Description string
	Category    string
	Amount      decimal.Decimal
	OccurredAt  time.Time
	CreatedAt   time.Time

	// set by stores when the persisted amount could not be decoded
	amountUnreadable bool
}

// MarkAmountUnreadable flags the record so analytics treats it as malformed.
func (e *Expense) MarkAmountUnreadable() {
	e.amountUnreadable = true
}

// Quality returns a non-empty reason when the record cannot take part in aggregation.
func (e *Expense) Quality() string {
	switch {
	case e.amountUnreadable:
		return "amount is not a number"
	case e.Amount.IsNegative():
		return "amount is negative"
	case e.OccurredAt.IsZero():
		return "date is missing"
	case e.OccurredAt.UTC().Year() > maxYear:
		return "date is out of range"
	}
	return ""
}

// Validate applies the write-time rules. It does not run on analytics reads.
func (e *Expense) Validate() error {
	var ve errors.ValidationErrors
	if strings.TrimSpace(e.Title) == "" {
		ve.Add(errors.NewValidationError("Title is required"))
	} else if len(e.Title) > maxTitleLength {
		ve.Add(errors.NewValidationError("Title must be of length less than 200"))
	}
	if !IsKnownCategory(e.Category) {
		ve.Add(errors.NewValidationError("Category must be one of: " + strings.Join(Categories, ", ")))
	}
	if !e.Amount.IsPositive() {
		ve.Add(errors.NewValidationError("Amount must be greater than 0"))
	} else if !e.Amount.Equal(e.Amount.Round(amountScale)) {
		ve.Add(errors.NewValidationError("Amount must have at most 2 decimal places"))
	} else if e.Amount.GreaterThanOrEqual(maxAmount) {
		ve.Add(errors.NewValidationError("Amount must be less than 1000000000000"))
	}
	if e.OccurredAt.UTC().Year() > maxYear {
		ve.Add(errors.NewValidationError("Date must be before year 10000"))
	}
	return ve.ErrOrNil()
}
