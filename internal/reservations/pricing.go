package reservations

import (
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/luxurydrive/backoffice/pkg/errors"
)

// Cost computes the total charge for renting at pricePerDay between start and
// end: price times the span rounded up to whole days. A zero-length window
// still bills one day; that is the billing policy, not an accident.
//
// An end date before the start date is rejected. (The legacy API silently
// produced a negative total here.)
func Cost(pricePerDay decimal.Decimal, start, end time.Time) (decimal.Decimal, error) {
	if end.Before(start) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "end_date must not be before start_date")
	}
	return pricePerDay.Mul(decimal.NewFromInt(billableDays(start, end))), nil
}

func billableDays(start, end time.Time) int64 {
	span := end.Sub(start)
	days := int64(span / (24 * time.Hour))
	if span%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}
