package domain

import (
	"fmt"
	"github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"time"
)

// Granularity is the resolution of a time bucket.
type Granularity int

const (
	Minute Granularity = iota
	Hour
	Day
	Week
	Month
	Year
)

var granularityNames = map[Granularity]string{
	Minute: "minute",
	Hour:   "hour",
	Day:    "day",
	Week:   "week",
	Month:  "month",
	Year:   "year",
}

func (g Granularity) String() string {
	if name, ok := granularityNames[g]; ok {
		return name
	}
	return fmt.Sprintf("Granularity(%d)", int(g))
}

// ParseGranularity is the only way a period string enters the domain.
func ParseGranularity(s string) (Granularity, error) {
	for g, name := range granularityNames {
		if name == s {
			return g, nil
		}
	}
	return 0, &errors.GranularityError{Value: s}
}

// BucketKey maps t to a key that sorts lexicographically in chronological order.
// Bucketing always happens in UTC.
func BucketKey(t time.Time, g Granularity) string {
	t = t.UTC()
	switch g {
	case Minute:
		return t.Format("2006-01-02 15:04")
	case Hour:
		return t.Format("2006-01-02 15:00")
	case Day:
		return t.Format("2006-01-02")
	case Week:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case Month:
		return t.Format("2006-01")
	default:
		return t.Format("2006")
	}
}
