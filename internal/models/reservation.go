package models

import "time"

const DefaultReservationMinutes = 60

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	ServiceID uint     `gorm:"not null;index" json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service,omitempty"`

	// Date is YYYY-MM-DD and Time is HH:MM, both in the studio timezone.
	Date            string `gorm:"size:10;not null;index" json:"date"`
	Time            string `gorm:"size:5;not null" json:"time"`
	DurationMinutes int    `gorm:"not null" json:"duration_minutes"`

	Status string `gorm:"size:20;not null;index" json:"status"`
	Notes  string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlockedSlot is an admin-defined unavailability. End is optional; a nil End
// means the block is a single instant (or the whole day when AllDay is set).
type BlockedSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title  string     `gorm:"size:150;not null" json:"title"`
	Start  time.Time  `gorm:"column:starts_at;not null;index" json:"start"`
	End    *time.Time `gorm:"column:ends_at" json:"end"`
	AllDay bool       `json:"all_day"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
