package dto

import "time"

type ReservationListDTO struct {
	ID              uint      `json:"id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes"`
	UserID          uint      `json:"user_id"`
	UserName        string    `json:"user_name"`
	UserEmail       string    `json:"user_email"`
	ServiceID       uint      `json:"service_id"`
	ServiceName     string    `json:"service_name"`
	CreatedAt       time.Time `json:"created_at"`
}
