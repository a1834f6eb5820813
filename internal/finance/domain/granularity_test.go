package domain

import (
	"github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestParseGranularity(t *testing.T) {
	for _, name := range []string{"minute", "hour", "day", "week", "month", "year"} {
		g, err := ParseGranularity(name)
		require.NoError(t, err)
		assert.Equal(t, name, g.String())
	}

	for _, bad := range []string{"fortnight", "", "Day", "weeks"} {
		_, err := ParseGranularity(bad)
		assert.True(t, errors.IsGranularityError(err), "expected GranularityError for %q", bad)
	}
}

func TestBucketKey(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 33, 0, time.UTC)

	tests := []struct {
		granularity Granularity
		want        string
	}{
		{Minute, "2024-03-05 14:07"},
		{Hour, "2024-03-05 14:00"},
		{Day, "2024-03-05"},
		{Week, "2024-W10"},
		{Month, "2024-03"},
		{Year, "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.granularity.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, BucketKey(ts, tt.granularity))
		})
	}
}

func TestBucketKey_ISOWeekCrossesYear(t *testing.T) {
	ts := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2025-W01", BucketKey(ts, Week))

	// 2021-01-03 is a Sunday that still belongs to 2020's last ISO week.
	assert.Equal(t, "2020-W53", BucketKey(time.Date(2021, time.January, 3, 12, 0, 0, 0, time.UTC), Week))
}

func TestBucketKey_UsesUTC(t *testing.T) {
	warsaw := time.FixedZone("CET", 3600)
	local := time.Date(2024, time.January, 1, 0, 30, 0, 0, warsaw)

	assert.Equal(t, "2023-12-31", BucketKey(local, Day))
	assert.Equal(t, "2023", BucketKey(local, Year))
	assert.Equal(t, "2023-12-31 23:00", BucketKey(local, Hour))
}

func TestBucketKey_Monotonic(t *testing.T) {
	start := time.Date(2019, time.December, 28, 22, 0, 0, 0, time.UTC)
	steps := []time.Duration{time.Minute * 17, time.Hour * 5, time.Hour * 31, time.Hour * 24 * 9}

	for g := Minute; g <= Year; g++ {
		for _, step := range steps {
			prev := start
			for i := 0; i < 200; i++ {
				next := prev.Add(step)
				assert.LessOrEqual(t, BucketKey(prev, g), BucketKey(next, g), "%s step %s at %s", g, step, prev)
				prev = next
			}
		}
	}
}

func TestExpenseQuality(t *testing.T) {
	ok := Expense{ID: "1", OccurredAt: time.Now()}
	assert.Empty(t, ok.Quality())

	missingDate := Expense{ID: "2"}
	assert.Equal(t, "date is missing", missingDate.Quality())

	unreadable := Expense{ID: "3", OccurredAt: time.Now()}
	unreadable.MarkAmountUnreadable()
	assert.Equal(t, "amount is not a number", unreadable.Quality())
}

func TestParseMalformedPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    MalformedPolicy
		wantErr bool
	}{
		{"", SkipMalformed, false},
		{"skip", SkipMalformed, false},
		{" FAIL ", FailOnMalformed, false},
		{"ignore", SkipMalformed, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMalformedPolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
