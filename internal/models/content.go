package models

import "time"

// Scope is the visibility target shared by reviews, gallery items and FAQ
// entries.
type Scope struct {
	Global           bool
	ServicesGlobal   bool
	FormationsGlobal bool
	ServiceID        *uint
	FormationID      *uint
}

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Author  string `gorm:"size:100;not null" json:"author"`
	Comment string `gorm:"type:text;not null" json:"comment"`
	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`

	Global           bool       `json:"global"`
	ServicesGlobal   bool       `json:"services_global"`
	FormationsGlobal bool       `json:"formations_global"`
	ServiceID        *uint      `gorm:"index" json:"service_id"`
	Service          *Service   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FormationID      *uint      `gorm:"index" json:"formation_id"`
	Formation        *Formation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r Review) Scope() Scope {
	return Scope{r.Global, r.ServicesGlobal, r.FormationsGlobal, r.ServiceID, r.FormationID}
}

type GalleryItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title       string `gorm:"size:150" json:"title"`
	ImageURL    string `gorm:"size:255;not null" json:"image_url"`
	WebPURL     string `gorm:"size:255" json:"webp_url"`
	Alt         string `gorm:"size:255" json:"alt"`
	Description string `gorm:"type:text" json:"description"`
	UploadedBy  *uint  `json:"uploaded_by"`

	Global           bool       `json:"global"`
	ServicesGlobal   bool       `json:"services_global"`
	FormationsGlobal bool       `json:"formations_global"`
	ServiceID        *uint      `gorm:"index" json:"service_id"`
	Service          *Service   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FormationID      *uint      `gorm:"index" json:"formation_id"`
	Formation        *Formation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (g GalleryItem) TableName() string {
	return "gallery_items"
}

func (g GalleryItem) Scope() Scope {
	return Scope{g.Global, g.ServicesGlobal, g.FormationsGlobal, g.ServiceID, g.FormationID}
}

type FAQ struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Question string `gorm:"type:text;not null" json:"question"`
	Answer   string `gorm:"type:text;not null" json:"answer"`

	Global           bool       `json:"global"`
	ServicesGlobal   bool       `json:"services_global"`
	FormationsGlobal bool       `json:"formations_global"`
	ServiceID        *uint      `gorm:"index" json:"service_id"`
	Service          *Service   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FormationID      *uint      `gorm:"index" json:"formation_id"`
	Formation        *Formation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FAQ) TableName() string {
	return "faqs"
}

func (f FAQ) Scope() Scope {
	return Scope{f.Global, f.ServicesGlobal, f.FormationsGlobal, f.ServiceID, f.FormationID}
}
