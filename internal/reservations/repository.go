package reservations

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luxurydrive/backoffice/pkg/db/models"
)

// Repository wires together reservation persistence plus the car/customer
// aggregate writes the lifecycle needs.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a reservation row.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindCarForUpdate loads and row-locks a car inside the current transaction.
// SQLite ignores the locking clause and serializes writers on its own.
func (r *Repository) FindCarForUpdate(ctx context.Context, id uint) (*models.Car, error) {
	var car models.Car
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&car, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &car, nil
}

// FindCustomerForUpdate loads and row-locks a customer.
func (r *Repository) FindCustomerForUpdate(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&customer, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create inserts a reservation row.
func (r *Repository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// Save overwrites a reservation row.
func (r *Repository) Save(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// Delete removes a reservation row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Reservation{}).Error
}

// AdjustCarOnBooking flips availability and moves the cached reservation
// count by delta. No zero floor is applied; unbalanced deletes can drive the
// count negative, matching the documented behavior of the aggregates.
func (r *Repository) AdjustCarOnBooking(ctx context.Context, carID uint, available bool, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Car{}).
		Where("id = ?", carID).
		Updates(map[string]any{
			"available":          available,
			"reservations_count": gorm.Expr("reservations_count + ?", delta),
		}).
		Error
}

// SetCarAvailability flips the availability flag only.
func (r *Repository) SetCarAvailability(ctx context.Context, carID uint, available bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Car{}).
		Where("id = ?", carID).
		Update("available", available).
		Error
}

// AdjustCustomerAggregates moves the cached reservation count and spend.
func (r *Repository) AdjustCustomerAggregates(ctx context.Context, customerID uint, delta int, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"reservations_count": gorm.Expr("reservations_count + ?", delta),
			"total_spent":        gorm.Expr("total_spent + ?", amount),
		}).
		Error
}

// DetailRow is a reservation joined with the customer and car columns the
// back-office list view renders.
type DetailRow struct {
	ID            uint            `json:"id"`
	CustomerID    uint            `json:"customer_id"`
	CarID         uint            `json:"car_id"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	CarName       string          `json:"car_name"`
	CarPrice      decimal.Decimal `json:"car_price"`
}

// ListDetailed returns all reservations with the joined customer/car fields.
func (r *Repository) ListDetailed(ctx context.Context) ([]DetailRow, error) {
	var rows []DetailRow
	err := r.db.WithContext(ctx).
		Table("reservations r").
		Select(
			"r.id, r.customer_id, r.car_id, r.start_date, r.end_date, r.total, r.status, " +
				"c.name AS customer_name, c.phone AS customer_phone, " +
				"ca.name AS car_name, ca.price_per_day AS car_price",
		).
		Joins("JOIN customers c ON r.customer_id = c.id").
		Joins("JOIN cars ca ON r.car_id = ca.id").
		Order("r.id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
