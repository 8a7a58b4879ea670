package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luxurydrive/backoffice/pkg/db"
	"github.com/luxurydrive/backoffice/pkg/db/models"
	pkgerrors "github.com/luxurydrive/backoffice/pkg/errors"
)

// Service exposes customer CRUD.
type Service interface {
	List(ctx context.Context) ([]CustomerDTO, error)
	Create(ctx context.Context, input Input) (*CustomerDTO, error)
	Update(ctx context.Context, id uint, input Input) (*CustomerDTO, error)
	Delete(ctx context.Context, id uint) error
}

// Input models the create/update payload.
type Input struct {
	Name  string  `json:"name" validate:"required"`
	Phone string  `json:"phone" validate:"required"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// CustomerDTO is the API shape of a customer row.
type CustomerDTO struct {
	ID                uint            `json:"id"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	Email             *string         `json:"email"`
	ReservationsCount int             `json:"reservations_count"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
}

func newCustomerDTO(m *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:                m.ID,
		Name:              m.Name,
		Phone:             m.Phone,
		Email:             m.Email,
		ReservationsCount: m.ReservationsCount,
		TotalSpent:        m.TotalSpent,
	}
}

type service struct {
	repo     *Repository
	readRepo *Repository
	dbClient *db.Client
}

// NewService constructs the customer service.
func NewService(repo, readRepo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if readRepo == nil {
		readRepo = repo
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, readRepo: readRepo, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context) ([]CustomerDTO, error) {
	rows, err := s.readRepo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customers")
	}
	dtos := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *newCustomerDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Create(ctx context.Context, input Input) (*CustomerDTO, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:       strings.TrimSpace(input.Name),
		Phone:      strings.TrimSpace(input.Phone),
		Email:      input.Email,
		TotalSpent: decimal.Zero,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
	}
	return newCustomerDTO(customer), nil
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*CustomerDTO, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}

	customer.Name = strings.TrimSpace(input.Name)
	customer.Phone = strings.TrimSpace(input.Phone)
	customer.Email = input.Email
	if err := s.repo.Save(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save customer")
	}
	return newCustomerDTO(customer), nil
}

// Delete removes the customer and their reservations in one transaction. Car
// availability and counters stay as they are; only the reservation lifecycle
// maintains those.
func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		customer, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
		}

		if err := txRepo.DeleteReservations(ctx, customer.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete customer reservations")
		}
		if err := txRepo.Delete(ctx, customer.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete customer")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return nil
}

func validate(input Input) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	return nil
}
