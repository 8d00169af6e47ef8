package model

import (
	"time"

	"gorm.io/gorm"
)

// UseCase is a customer testimonial shown on the storefront landing pages:
// who said it, what they said, and the company it came from.
type UseCase struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Company   string         `gorm:"not null" json:"company"`
	LogoURL   string         `json:"logo_url"`
	Quote     string         `gorm:"type:text;not null" json:"quote"`
	Name      string         `gorm:"not null" json:"name"`
	Position  string         `json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UseCase) TableName() string {
	return "use_cases"
}
