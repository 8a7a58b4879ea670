package models

// Setting is the single-row site configuration; the row always has ID 1.
type Setting struct {
	ID              uint   `gorm:"column:id;primaryKey"`
	SiteName        string `gorm:"column:site_name"`
	Phone           string `gorm:"column:phone"`
	ContactEmail    string `gorm:"column:contact_email"`
	Facebook        string `gorm:"column:facebook"`
	Instagram       string `gorm:"column:instagram"`
	Address         string `gorm:"column:address"`
	GPS             string `gorm:"column:gps"`
	MaintenanceMode bool   `gorm:"column:maintenance_mode;not null;default:false"`
}
