package cars

import (
	"context"

	"gorm.io/gorm"

	"github.com/luxurydrive/backoffice/pkg/db/models"
)

// Repository handles car persistence.
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

// List returns all cars ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Car, error) {
	var cars []models.Car
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// FindByID loads a car row.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Car, error) {
	var car models.Car
	if err := r.db.WithContext(ctx).First(&car, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// Create inserts a car row.
func (r *Repository) Create(ctx context.Context, car *models.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

// Save overwrites a car row.
func (r *Repository) Save(ctx context.Context, car *models.Car) error {
	return r.db.WithContext(ctx).Save(car).Error
}

// DeleteReservations removes every reservation referencing the car.
func (r *Repository) DeleteReservations(ctx context.Context, carID uint) error {
	return r.db.WithContext(ctx).Where("car_id = ?", carID).Delete(&models.Reservation{}).Error
}

// Delete removes the car row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Car{}).Error
}
