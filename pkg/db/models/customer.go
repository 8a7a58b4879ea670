package models

import (
	"github.com/shopspring/decimal"
)

// Customer is a renter. ReservationsCount and TotalSpent are cached
// aggregates over the customer's reservations, maintained exclusively by the
// reservation lifecycle.
type Customer struct {
	ID                uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Name              string          `gorm:"column:name;not null"`
	Phone             string          `gorm:"column:phone;not null"`
	Email             *string         `gorm:"column:email"`
	ReservationsCount int             `gorm:"column:reservations_count;not null;default:0"`
	TotalSpent        decimal.Decimal `gorm:"column:total_spent;type:numeric(12,2);not null;default:0"`
	Reservations      []Reservation   `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}
