package cars

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luxurydrive/backoffice/pkg/db"
	"github.com/luxurydrive/backoffice/pkg/db/models"
	pkgerrors "github.com/luxurydrive/backoffice/pkg/errors"
	"github.com/luxurydrive/backoffice/pkg/logger"
	"github.com/luxurydrive/backoffice/pkg/storage/cloudinary"
)

var allowedImageMimes = map[string]struct{}{
	"image/gif":  {},
	"image/jpeg": {},
	"image/png":  {},
}

// MediaHost stores car images and serves them back by URL.
type MediaHost interface {
	Upload(ctx context.Context, data []byte, filename string) (*cloudinary.UploadResult, error)
	Destroy(ctx context.Context, imageURL string) error
}

// Service exposes the car catalog operations.
type Service interface {
	List(ctx context.Context) ([]CarDTO, error)
	Create(ctx context.Context, input Input) (*CarDTO, error)
	Update(ctx context.Context, id uint, input Input) (*CarDTO, error)
	Delete(ctx context.Context, id uint) error
}

// ImageFile is an uploaded image payload.
type ImageFile struct {
	Data     []byte
	Filename string
}

// Input models the create/update form. Image is required on create and
// optional on update.
type Input struct {
	Name         string
	Brand        string
	PricePerDay  decimal.Decimal
	Available    bool
	Description  string
	Acceleration string
	Consumption  string
	Power        string
	Image        *ImageFile
}

// CarDTO is the API shape of a car row.
type CarDTO struct {
	ID                uint            `json:"id"`
	Name              string          `json:"name"`
	Brand             string          `json:"brand"`
	PricePerDay       decimal.Decimal `json:"price_per_day"`
	Available         bool            `json:"available"`
	ImageURL          *string         `json:"image_url"`
	Description       string          `json:"description"`
	Acceleration      string          `json:"acceleration"`
	Consumption       string          `json:"consumption"`
	Power             string          `json:"power"`
	ReservationsCount int             `json:"reservations_count"`
	Vote              int             `json:"vote"`
}

func newCarDTO(m *models.Car) *CarDTO {
	return &CarDTO{
		ID:                m.ID,
		Name:              m.Name,
		Brand:             m.Brand,
		PricePerDay:       m.PricePerDay,
		Available:         m.Available,
		ImageURL:          m.ImageURL,
		Description:       m.Description,
		Acceleration:      m.Acceleration,
		Consumption:       m.Consumption,
		Power:             m.Power,
		ReservationsCount: m.ReservationsCount,
		Vote:              m.Vote,
	}
}

type service struct {
	repo           *Repository
	readRepo       *Repository
	dbClient       *db.Client
	media          MediaHost
	logg           *logger.Logger
	maxUploadBytes int64
}

// NewService constructs the car service. A nil media host is allowed: reads
// and deletes keep working, but operations that need to store an image are
// rejected until hosting is configured.
func NewService(repo, readRepo *Repository, dbClient *db.Client, media MediaHost, logg *logger.Logger, maxUploadBytes int64) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("car repository required")
	}
	if readRepo == nil {
		readRepo = repo
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if maxUploadBytes <= 0 {
		return nil, fmt.Errorf("max upload bytes must be positive")
	}
	return &service{
		repo:           repo,
		readRepo:       readRepo,
		dbClient:       dbClient,
		media:          media,
		logg:           logg,
		maxUploadBytes: maxUploadBytes,
	}, nil
}

func (s *service) List(ctx context.Context) ([]CarDTO, error) {
	rows, err := s.readRepo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list cars")
	}
	dtos := make([]CarDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *newCarDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Create(ctx context.Context, input Input) (*CarDTO, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	if input.Image == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}
	if s.media == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "image hosting is not configured")
	}
	if err := s.validateImage(input.Image); err != nil {
		return nil, err
	}

	upload, err := s.media.Upload(ctx, input.Image.Data, input.Image.Filename)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "media host: upload image")
	}

	car := &models.Car{
		Name:         input.Name,
		Brand:        input.Brand,
		PricePerDay:  input.PricePerDay,
		Available:    input.Available,
		ImageURL:     &upload.SecureURL,
		Description:  input.Description,
		Acceleration: input.Acceleration,
		Consumption:  input.Consumption,
		Power:        input.Power,
	}
	if err := s.repo.Create(ctx, car); err != nil {
		// The asset is already hosted; drop it so a failed insert does not
		// leak orphaned images.
		s.destroyBestEffort(ctx, upload.SecureURL)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert car")
	}

	return newCarDTO(car), nil
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*CarDTO, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	if input.Image != nil {
		if s.media == nil {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "image hosting is not configured")
		}
		if err := s.validateImage(input.Image); err != nil {
			return nil, err
		}
	}

	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "car not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load car")
	}

	var oldImageURL string
	if input.Image != nil {
		upload, err := s.media.Upload(ctx, input.Image.Data, input.Image.Filename)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "media host: upload image")
		}
		if car.ImageURL != nil {
			oldImageURL = *car.ImageURL
		}
		car.ImageURL = &upload.SecureURL
	}

	car.Name = input.Name
	car.Brand = input.Brand
	car.PricePerDay = input.PricePerDay
	car.Available = input.Available
	car.Description = input.Description
	car.Acceleration = input.Acceleration
	car.Consumption = input.Consumption
	car.Power = input.Power

	if err := s.repo.Save(ctx, car); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save car")
	}

	if oldImageURL != "" {
		s.destroyBestEffort(ctx, oldImageURL)
	}

	return newCarDTO(car), nil
}

// Delete removes the car and its reservations in one transaction, then drops
// the hosted image. The reservation rows go away without reversing any
// customer aggregates; only the ledger's own delete does that.
func (s *service) Delete(ctx context.Context, id uint) error {
	var imageURL string
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		car, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "car not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load car")
		}
		if car.ImageURL != nil {
			imageURL = *car.ImageURL
		}

		if err := txRepo.DeleteReservations(ctx, car.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete car reservations")
		}
		if err := txRepo.Delete(ctx, car.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete car")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete car")
	}

	if imageURL != "" {
		s.destroyBestEffort(ctx, imageURL)
	}
	return nil
}

func (s *service) destroyBestEffort(ctx context.Context, imageURL string) {
	if s.media == nil {
		return
	}
	if err := s.media.Destroy(ctx, imageURL); err != nil && s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"image_url": imageURL, "error": err.Error()})
		s.logg.Warn(ctx, "failed to destroy hosted image")
	}
}

func (s *service) validate(input Input) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Brand) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "brand is required")
	}
	if !input.PricePerDay.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_per_day must be positive")
	}
	return nil
}

func (s *service) validateImage(image *ImageFile) error {
	if len(image.Data) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "image payload is empty")
	}
	if int64(len(image.Data)) > s.maxUploadBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("image must be ≤ %d bytes", s.maxUploadBytes))
	}
	mimeType := http.DetectContentType(image.Data)
	if _, ok := allowedImageMimes[mimeType]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "image must be a gif, jpeg, or png")
	}
	return nil
}
