package customers

import (
	"context"

	"gorm.io/gorm"

	"github.com/luxurydrive/backoffice/pkg/db/models"
)

// Repository handles customer persistence.
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

// List returns all customers ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// FindByID loads a customer row.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// Create inserts a customer row.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// Save overwrites a customer row.
func (r *Repository) Save(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// DeleteReservations removes every reservation referencing the customer.
func (r *Repository) DeleteReservations(ctx context.Context, customerID uint) error {
	return r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.Reservation{}).Error
}

// Delete removes the customer row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Customer{}).Error
}
