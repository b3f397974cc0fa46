package schedule

import (
	"context"
	"time"

	"github.com/neillmakeup/studio-api/internal/models"
)

type Repository interface {
	// -------- Catalogue --------
	GetService(ctx context.Context, id uint) (*models.Service, error)

	// -------- Reservations --------
	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)
	UpdateReservation(ctx context.Context, r *models.Reservation) error

	// ListActiveBookings returns non-cancelled reservations dated between
	// fromDate and toDate inclusive (YYYY-MM-DD).
	ListActiveBookings(ctx context.Context, fromDate, toDate string) ([]models.Reservation, error)

	// ListReservationsForPeriod preloads user and service for the calendar.
	ListReservationsForPeriod(ctx context.Context, fromDate, toDate string) ([]models.Reservation, error)

	// -------- Blocked slots --------
	CreateBlockedSlot(ctx context.Context, s *models.BlockedSlot) error
	GetBlockedSlot(ctx context.Context, id uint) (*models.BlockedSlot, error)
	UpdateBlockedSlot(ctx context.Context, s *models.BlockedSlot) error

	// ListBlocksNear returns every block that may intersect [start, end).
	// Callers refine with Interval.Overlaps.
	ListBlocksNear(ctx context.Context, start, end time.Time) ([]models.BlockedSlot, error)
}
