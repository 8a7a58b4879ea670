package settings

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/luxurydrive/backoffice/pkg/db"
	"github.com/luxurydrive/backoffice/pkg/db/models"
	pkgerrors "github.com/luxurydrive/backoffice/pkg/errors"
)

// settingsRowID pins the single settings row.
const settingsRowID = 1

// Defaults returned before anyone has saved settings.
var defaultSettings = SettingsDTO{
	SiteName:        "Luxury Drive",
	Phone:           "212000000",
	ContactEmail:    "admin@luxurydrive.com",
	Facebook:        "facebook.com",
	Instagram:       "instagram.com",
	Address:         "address",
	GPS:             "gps",
	MaintenanceMode: false,
}

// Service reads and writes the site-wide settings row.
type Service interface {
	Get(ctx context.Context) (*SettingsDTO, error)
	Put(ctx context.Context, input SettingsDTO) (*SettingsDTO, error)
}

// SettingsDTO is the API shape of the settings row.
type SettingsDTO struct {
	SiteName        string `json:"site_name"`
	Phone           string `json:"phone"`
	ContactEmail    string `json:"contact_email"`
	Facebook        string `json:"facebook"`
	Instagram       string `json:"instagram"`
	Address         string `json:"address"`
	GPS             string `json:"gps"`
	MaintenanceMode bool   `json:"maintenance_mode"`
}

type service struct {
	dbClient *db.Client
}

// NewService constructs the settings service.
func NewService(dbClient *db.Client) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{dbClient: dbClient}, nil
}

// Get returns the stored settings, or the compiled defaults when nothing has
// been saved yet.
func (s *service) Get(ctx context.Context) (*SettingsDTO, error) {
	var row models.Setting
	err := s.dbClient.Read().WithContext(ctx).First(&row, "id = ?", settingsRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			defaults := defaultSettings
			return &defaults, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load settings")
	}
	return newSettingsDTO(&row), nil
}

// Put upserts the single settings row.
func (s *service) Put(ctx context.Context, input SettingsDTO) (*SettingsDTO, error) {
	row := models.Setting{
		ID:              settingsRowID,
		SiteName:        input.SiteName,
		Phone:           input.Phone,
		ContactEmail:    input.ContactEmail,
		Facebook:        input.Facebook,
		Instagram:       input.Instagram,
		Address:         input.Address,
		GPS:             input.GPS,
		MaintenanceMode: input.MaintenanceMode,
	}

	err := s.dbClient.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&row).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save settings")
	}
	return newSettingsDTO(&row), nil
}

func newSettingsDTO(m *models.Setting) *SettingsDTO {
	return &SettingsDTO{
		SiteName:        m.SiteName,
		Phone:           m.Phone,
		ContactEmail:    m.ContactEmail,
		Facebook:        m.Facebook,
		Instagram:       m.Instagram,
		Address:         m.Address,
		GPS:             m.GPS,
		MaintenanceMode: m.MaintenanceMode,
	}
}
