package application

import (
	"github.com/sebuszqo/ExpenseTracker/internal/finance/domain"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/shopspring/decimal"
	"sort"
)

type rollup struct {
	sum   decimal.Decimal
	count int
}

// Accumulator folds expenses into rollups one record at a time.
// It is not safe for concurrent use; every query gets its own.
type Accumulator struct {
	granularity domain.Granularity
	policy      domain.MalformedPolicy

	buckets       map[string]*rollup
	categories    map[string]*rollup
	categoryOrder []string
	total         rollup
	skipped       int
}

func NewAccumulator(granularity domain.Granularity, policy domain.MalformedPolicy) *Accumulator {
	return &Accumulator{
		granularity: granularity,
		policy:      policy,
		buckets:     make(map[string]*rollup),
		categories:  make(map[string]*rollup),
	}
}

// Add returns a *financeErrors.DataQualityError only under FailOnMalformed.
func (a *Accumulator) Add(expense domain.Expense) error {
	if reason := expense.Quality(); reason != "" {
		if a.policy == domain.FailOnMalformed {
			return &financeErrors.DataQualityError{RecordID: expense.ID, Reason: reason}
		}
		a.skipped++
		return nil
	}

	key := domain.BucketKey(expense.OccurredAt, a.granularity)
	b, ok := a.buckets[key]
	if !ok {
		b = &rollup{}
		a.buckets[key] = b
	}
	b.sum = b.sum.Add(expense.Amount)
	b.count++

	c, ok := a.categories[expense.Category]
	if !ok {
		c = &rollup{}
		a.categories[expense.Category] = c
		a.categoryOrder = append(a.categoryOrder, expense.Category)
	}
	c.sum = c.sum.Add(expense.Amount)
	c.count++

	a.total.sum = a.total.sum.Add(expense.Amount)
	a.total.count++
	return nil
}

func (a *Accumulator) Result() domain.Rollups {
	buckets := make([]domain.TimeBucket, 0, len(a.buckets))
	for key, b := range a.buckets {
		buckets = append(buckets, domain.TimeBucket{
			Key:         key,
			Granularity: a.granularity,
			Total:       b.sum,
			Count:       b.count,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Key < buckets[j].Key
	})

	categories := make([]domain.CategoryRollup, 0, len(a.categoryOrder))
	for _, name := range a.categoryOrder {
		c := a.categories[name]
		categories = append(categories, domain.CategoryRollup{
			Category: name,
			Total:    c.sum,
			Count:    c.count,
		})
	}
	// ties keep first-seen order
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Total.GreaterThan(categories[j].Total)
	})

	return domain.Rollups{
		Buckets:    buckets,
		Categories: categories,
		Total: domain.GrandTotal{
			Amount: a.total.sum,
			Count:  a.total.count,
		},
		Skipped: a.skipped,
	}
}

// Aggregate computes all three rollups over records without any I/O.
func Aggregate(records []domain.Expense, granularity domain.Granularity, policy domain.MalformedPolicy) (domain.Rollups, error) {
	acc := NewAccumulator(granularity, policy)
	for _, record := range records {
		if err := acc.Add(record); err != nil {
			return domain.Rollups{}, err
		}
	}
	return acc.Result(), nil
}
