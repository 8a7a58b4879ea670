package reservations

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/luxurydrive/backoffice/pkg/errors"
)

func TestCost(t *testing.T) {
	t.Parallel()

	price := decimal.NewFromInt(50)
	day := func(d int) time.Time {
		return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  string
	}{
		{"two full days", day(1), day(3), "100"},
		{"same day bills one day", day(5), day(5), "50"},
		{"partial day rounds up", day(1), day(2).Add(6 * time.Hour), "100"},
		{"single day", day(1), day(2), "50"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Cost(price, tc.start, tc.end)
			if err != nil {
				t.Fatalf("cost: %v", err)
			}
			if got.String() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCostRejectsReversedRange(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	_, err := Cost(decimal.NewFromInt(50), start, end)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}
