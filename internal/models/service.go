package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a bookable makeup prestation.
type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name            string          `gorm:"size:150;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	Content         string          `gorm:"type:text" json:"content"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Image           string          `gorm:"size:255" json:"image"`
	ImageAlt        string          `gorm:"size:255" json:"image_alt"`
	Icon            string          `gorm:"size:100" json:"icon"`
	Category        string          `gorm:"size:100;index" json:"category"`
	Tags            []string        `gorm:"type:text;serializer:json" json:"tags"`
	Steps           []string        `gorm:"type:text;serializer:json" json:"steps"`
	DurationLabel   string          `gorm:"size:50" json:"duration_label"`
	DurationMinutes int             `json:"duration_minutes"`
	Slug            string          `gorm:"size:180;uniqueIndex;not null" json:"slug"`
	IsActive        bool            `json:"is_active"`
	IsFeatured      bool            `json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Formation is a training course. Same catalogue shape as Service plus a
// certification label.
type Formation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title           string          `gorm:"size:150;not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	Content         string          `gorm:"type:text" json:"content"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Image           string          `gorm:"size:255" json:"image"`
	ImageAlt        string          `gorm:"size:255" json:"image_alt"`
	Icon            string          `gorm:"size:100" json:"icon"`
	Category        string          `gorm:"size:100;index" json:"category"`
	Tags            []string        `gorm:"type:text;serializer:json" json:"tags"`
	Steps           []string        `gorm:"type:text;serializer:json" json:"steps"`
	DurationLabel   string          `gorm:"size:50" json:"duration_label"`
	DurationMinutes int             `json:"duration_minutes"`
	Certification   string          `gorm:"size:150" json:"certification"`
	Slug            string          `gorm:"size:180;uniqueIndex;not null" json:"slug"`
	IsActive        bool            `json:"is_active"`
	IsFeatured      bool            `json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
