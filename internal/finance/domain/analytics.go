package domain

import (
	"context"
	"fmt"
	"github.com/shopspring/decimal"
	"strings"
)

// RecordSource is the read side of the expense store used by analytics.
type RecordSource interface {
	FetchRecords(ctx context.Context, ownerID string) ([]Expense, error)
}

// RecordStreamer is implemented by stores that can hand records over one by one.
// Returning an error from fn stops the stream and is returned unchanged.
type RecordStreamer interface {
	StreamRecords(ctx context.Context, ownerID string, fn func(Expense) error) error
}

// MalformedPolicy decides what aggregation does with a record that fails Quality.
type MalformedPolicy int

const (
	SkipMalformed MalformedPolicy = iota
	FailOnMalformed
)

func (p MalformedPolicy) String() string {
	if p == FailOnMalformed {
		return "fail"
	}
	return "skip"
}

// ParseMalformedPolicy accepts "skip" or "fail"; an empty value means skip.
func ParseMalformedPolicy(value string) (MalformedPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "skip":
		return SkipMalformed, nil
	case "fail":
		return FailOnMalformed, nil
	}
	return SkipMalformed, fmt.Errorf("unknown malformed record policy %q", value)
}

type TimeBucket struct {
	Key         string
	Granularity Granularity
	Total       decimal.Decimal
	Count       int
}

type CategoryRollup struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

type GrandTotal struct {
	Amount decimal.Decimal
	Count  int
}

type Rollups struct {
	Buckets    []TimeBucket
	Categories []CategoryRollup
	Total      GrandTotal
	// Skipped counts malformed records dropped under SkipMalformed.
	Skipped int
}
