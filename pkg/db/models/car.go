package models

import (
	"github.com/shopspring/decimal"
)

// Car represents a rentable vehicle in the fleet.
//
// Available and ReservationsCount are cached state derived from the car's
// reservations; only the reservation lifecycle mutates them.
type Car struct {
	ID                uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Name              string          `gorm:"column:name;not null"`
	Brand             string          `gorm:"column:brand;not null"`
	PricePerDay       decimal.Decimal `gorm:"column:price_per_day;type:numeric(12,2);not null"`
	Available         bool            `gorm:"column:available;not null;default:true"`
	ImageURL          *string         `gorm:"column:image_url"`
	Description       string          `gorm:"column:description"`
	Acceleration      string          `gorm:"column:acceleration"`
	Consumption       string          `gorm:"column:consumption"`
	Power             string          `gorm:"column:power"`
	ReservationsCount int             `gorm:"column:reservations_count;not null;default:0"`
	Vote              int             `gorm:"column:vote;not null;default:0"`
	Reservations      []Reservation   `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE"`
}
