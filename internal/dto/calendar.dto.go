package dto

import "time"

// CalendarEvent matches the event object the admin calendar consumes.
type CalendarEvent struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Start    time.Time          `json:"start"`
	End      *time.Time         `json:"end,omitempty"`
	AllDay   bool               `json:"allDay"`
	Color    string             `json:"color"`
	Editable bool               `json:"editable"`
	Props    CalendarEventProps `json:"extendedProps"`
}

type CalendarEventProps struct {
	Kind          string `json:"kind"`
	ReservationID uint   `json:"reservation_id,omitempty"`
	BlockedSlotID uint   `json:"blocked_slot_id,omitempty"`
	Status        string `json:"status,omitempty"`
	ServiceName   string `json:"service_name,omitempty"`
	UserName      string `json:"user_name,omitempty"`
	UserEmail     string `json:"user_email,omitempty"`
	Notes         string `json:"notes,omitempty"`
}
