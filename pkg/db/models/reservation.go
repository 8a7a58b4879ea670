package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/luxurydrive/backoffice/pkg/enums"
)

// Reservation joins a customer to a car for a date range. Status is stored
// as-is; values outside the known set are legal and simply have no effect on
// car availability.
type Reservation struct {
	ID         uint                    `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID uint                    `gorm:"column:customer_id;not null;index"`
	CarID      uint                    `gorm:"column:car_id;not null;index"`
	StartDate  time.Time               `gorm:"column:start_date;type:date;not null"`
	EndDate    time.Time               `gorm:"column:end_date;type:date;not null"`
	Total      decimal.Decimal         `gorm:"column:total;type:numeric(12,2);not null"`
	Status     enums.ReservationStatus `gorm:"column:status;not null"`
}
