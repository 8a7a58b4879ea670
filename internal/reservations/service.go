package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luxurydrive/backoffice/pkg/db"
	"github.com/luxurydrive/backoffice/pkg/db/models"
	"github.com/luxurydrive/backoffice/pkg/enums"
	pkgerrors "github.com/luxurydrive/backoffice/pkg/errors"
)

// Service is the reservation ledger: every operation that couples a
// reservation row to the cached car/customer aggregates runs through here,
// atomically.
type Service interface {
	List(ctx context.Context) ([]DetailRow, error)
	Create(ctx context.Context, input Input) (*ReservationDTO, error)
	Update(ctx context.Context, id uint, input Input) (*ReservationDTO, error)
	Delete(ctx context.Context, id uint) error
}

// Input holds the validated payload for create and update.
type Input struct {
	CustomerID uint
	CarID      uint
	StartDate  time.Time
	EndDate    time.Time
	Status     enums.ReservationStatus
}

// ReservationDTO is the API shape of a reservation row.
type ReservationDTO struct {
	ID         uint            `json:"id"`
	CustomerID uint            `json:"customer_id"`
	CarID      uint            `json:"car_id"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
}

const dateLayout = "2006-01-02"

func newReservationDTO(m *models.Reservation) *ReservationDTO {
	return &ReservationDTO{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		CarID:      m.CarID,
		StartDate:  m.StartDate.Format(dateLayout),
		EndDate:    m.EndDate.Format(dateLayout),
		Total:      m.Total,
		Status:     m.Status.String(),
	}
}

type service struct {
	repo     *Repository
	readRepo *Repository
	dbClient *db.Client
}

// NewService constructs the ledger over the write repository, a read(-replica)
// repository for listings, and the transactional client.
func NewService(repo, readRepo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	if readRepo == nil {
		readRepo = repo
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, readRepo: readRepo, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context) ([]DetailRow, error) {
	rows, err := s.readRepo.ListDetailed(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reservations")
	}
	return rows, nil
}

// Create books a car. The availability check, the insert, and both aggregate
// updates commit or roll back together; the car row is locked first so two
// concurrent bookings cannot both see it available.
func (s *service) Create(ctx context.Context, input Input) (*ReservationDTO, error) {
	if _, err := Cost(decimal.Zero, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = enums.ReservationStatusPending
	}

	var created *models.Reservation
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		car, err := txRepo.FindCarForUpdate(ctx, input.CarID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "car not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load car")
		}

		customer, err := txRepo.FindCustomerForUpdate(ctx, input.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
		}

		if !car.Available {
			return pkgerrors.New(pkgerrors.CodeConflict, "car is not available")
		}

		total, err := Cost(car.PricePerDay, input.StartDate, input.EndDate)
		if err != nil {
			return err
		}

		reservation := &models.Reservation{
			CustomerID: customer.ID,
			CarID:      car.ID,
			StartDate:  input.StartDate,
			EndDate:    input.EndDate,
			Total:      total,
			Status:     status,
		}
		if err := txRepo.Create(ctx, reservation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert reservation")
		}

		if err := txRepo.AdjustCarOnBooking(ctx, car.ID, false, 1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update car aggregates")
		}
		if err := txRepo.AdjustCustomerAggregates(ctx, customer.ID, 1, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer aggregates")
		}

		created = reservation
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reservation")
	}

	return newReservationDTO(created), nil
}

// Update overwrites the reservation and recomputes the total from the
// current car price, whatever changed. Only availability follows the new
// status; the cached counters and spend belong to create/delete alone.
func (s *service) Update(ctx context.Context, id uint, input Input) (*ReservationDTO, error) {
	status := input.Status
	if status == "" {
		status = enums.ReservationStatusPending
	}

	var updated *models.Reservation
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		reservation, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load reservation")
		}

		car, err := txRepo.FindCarForUpdate(ctx, input.CarID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "car not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load car")
		}

		total, err := Cost(car.PricePerDay, input.StartDate, input.EndDate)
		if err != nil {
			return err
		}

		reservation.CustomerID = input.CustomerID
		reservation.CarID = car.ID
		reservation.StartDate = input.StartDate
		reservation.EndDate = input.EndDate
		reservation.Total = total
		reservation.Status = status
		if err := txRepo.Save(ctx, reservation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save reservation")
		}

		// Availability is keyed by the new status only. Statuses outside
		// the known set leave the flag untouched.
		switch {
		case status.Releases():
			err = txRepo.SetCarAvailability(ctx, car.ID, true)
		case status.Occupies():
			err = txRepo.SetCarAvailability(ctx, car.ID, false)
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update car availability")
		}

		updated = reservation
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reservation")
	}

	return newReservationDTO(updated), nil
}

// Delete removes the reservation and reverses its effect on the car and
// customer aggregates, atomically. The decrements are deliberately not
// floored at zero.
func (s *service) Delete(ctx context.Context, id uint) error {
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		reservation, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load reservation")
		}

		if err := txRepo.Delete(ctx, reservation.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete reservation")
		}
		if err := txRepo.AdjustCarOnBooking(ctx, reservation.CarID, true, -1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update car aggregates")
		}
		if err := txRepo.AdjustCustomerAggregates(ctx, reservation.CustomerID, -1, reservation.Total.Neg()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer aggregates")
		}

		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete reservation")
	}
	return nil
}
