package models

import "time"

// Testimonial is a public customer review shown on the site.
type Testimonial struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	Role      string    `gorm:"column:role;not null"`
	Content   string    `gorm:"column:content;not null"`
	Rating    int       `gorm:"column:rating;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
