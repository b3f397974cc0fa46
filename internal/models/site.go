package models

import "time"

// SiteIdentity is a singleton row (ID 1) holding the public business card.
type SiteIdentity struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name           string `gorm:"size:150;not null" json:"name"`
	Slogan         string `gorm:"size:255" json:"slogan"`
	Description    string `gorm:"type:text" json:"description"`
	Address        string `gorm:"size:255" json:"address"`
	PostalCode     string `gorm:"size:20" json:"postal_code"`
	City           string `gorm:"size:100" json:"city"`
	Country        string `gorm:"size:100" json:"country"`
	Phone          string `gorm:"size:30" json:"phone"`
	Email          string `gorm:"size:100" json:"email"`
	SiteURL        string `gorm:"size:255" json:"site_url"`
	Logo           string `gorm:"size:255" json:"logo"`
	Facebook       string `gorm:"size:255" json:"facebook"`
	Instagram      string `gorm:"size:255" json:"instagram"`
	LinkedIn       string `gorm:"size:255" json:"linkedin"`
	TikTok         string `gorm:"size:255" json:"tiktok"`
	YouTube        string `gorm:"size:255" json:"youtube"`
	LegalNotice    string `gorm:"type:text" json:"legal_notice"`
	PrivacyPolicy  string `gorm:"type:text" json:"privacy_policy"`
	MainDiploma    string `gorm:"size:255" json:"main_diploma"`
	Certifications string `gorm:"type:text" json:"certifications"`
	OpeningHours   string `gorm:"size:255" json:"opening_hours"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (SiteIdentity) TableName() string {
	return "site_identity"
}

type TeamMember struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name           string `gorm:"size:100;not null" json:"name"`
	Role           string `gorm:"size:100" json:"role"`
	Bio            string `gorm:"type:text" json:"bio"`
	Photo          string `gorm:"size:255" json:"photo"`
	Email          string `gorm:"size:100" json:"email"`
	Phone          string `gorm:"size:30" json:"phone"`
	LinkedIn       string `gorm:"size:255" json:"linkedin"`
	Instagram      string `gorm:"size:255" json:"instagram"`
	Certifications string `gorm:"type:text" json:"certifications"`
	Diploma        string `gorm:"size:255" json:"diploma"`
	Position       int    `json:"position"`
	IsActive       bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ContactMessage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:100;not null" json:"email"`
	Message string `gorm:"type:text;not null" json:"message"`

	CreatedAt time.Time `json:"created_at"`
}
