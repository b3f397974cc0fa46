package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

type Invoice struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReservationID *uint        `gorm:"index" json:"reservation_id"`
	Reservation   *Reservation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	UserID uint  `gorm:"not null;index" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	Amount     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status     string          `gorm:"size:20;not null;index" json:"status"`
	PdfURL     string          `gorm:"size:255" json:"pdf_url"`
	PaymentURL string          `gorm:"size:255" json:"payment_url"`
	PaymentRef string          `gorm:"size:100" json:"payment_ref"`
	PaidAt     *time.Time      `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsInvoiceStatus(s string) bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceCancelled:
		return true
	}
	return false
}
