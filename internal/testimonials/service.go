package testimonials

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/luxurydrive/backoffice/pkg/db"
	"github.com/luxurydrive/backoffice/pkg/db/models"
	pkgerrors "github.com/luxurydrive/backoffice/pkg/errors"
)

// Service exposes testimonial CRUD.
type Service interface {
	List(ctx context.Context) ([]TestimonialDTO, error)
	Create(ctx context.Context, input Input) (*TestimonialDTO, error)
	Update(ctx context.Context, id uint, input Input) (*TestimonialDTO, error)
	Delete(ctx context.Context, id uint) error
}

// Input models the create/update payload.
type Input struct {
	Name    string `json:"name" validate:"required"`
	Role    string `json:"role" validate:"required"`
	Content string `json:"content" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

// TestimonialDTO is the API shape of a testimonial row.
type TestimonialDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func newTestimonialDTO(m *models.Testimonial) *TestimonialDTO {
	return &TestimonialDTO{
		ID:        m.ID,
		Name:      m.Name,
		Role:      m.Role,
		Content:   m.Content,
		Rating:    m.Rating,
		CreatedAt: m.CreatedAt,
	}
}

type service struct {
	dbClient *db.Client
}

// NewService constructs the testimonial service.
func NewService(dbClient *db.Client) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{dbClient: dbClient}, nil
}

// List returns testimonials newest first.
func (s *service) List(ctx context.Context) ([]TestimonialDTO, error) {
	var rows []models.Testimonial
	err := s.dbClient.Read().WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list testimonials")
	}
	dtos := make([]TestimonialDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *newTestimonialDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Create(ctx context.Context, input Input) (*TestimonialDTO, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	row := &models.Testimonial{
		Name:    strings.TrimSpace(input.Name),
		Role:    strings.TrimSpace(input.Role),
		Content: strings.TrimSpace(input.Content),
		Rating:  input.Rating,
	}
	if err := s.dbClient.DB().WithContext(ctx).Create(row).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert testimonial")
	}
	return newTestimonialDTO(row), nil
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*TestimonialDTO, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	var row models.Testimonial
	if err := s.dbClient.DB().WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "testimonial not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load testimonial")
	}

	row.Name = strings.TrimSpace(input.Name)
	row.Role = strings.TrimSpace(input.Role)
	row.Content = strings.TrimSpace(input.Content)
	row.Rating = input.Rating
	if err := s.dbClient.DB().WithContext(ctx).Save(&row).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save testimonial")
	}
	return newTestimonialDTO(&row), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	result := s.dbClient.DB().WithContext(ctx).Where("id = ?", id).Delete(&models.Testimonial{})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "db: delete testimonial")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "testimonial not found")
	}
	return nil
}

func validate(input Input) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Role) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "role is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "content is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	return nil
}
