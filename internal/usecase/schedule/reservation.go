package schedule

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/audit"
	domain "github.com/neillmakeup/studio-api/internal/domain/schedule"
	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/notify"
	"github.com/neillmakeup/studio-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateReservationInput struct {
	ActorID uint

	UserID    uint
	ServiceID uint
	Date      string
	Time      string
	Duration  int
	Status    string
	Notes     string

	// Public marks a booking made from the website: the service must be
	// active, the slot in the future and within opening hours, and the
	// status is forced to pending.
	// Customer is only used to word the owner notification.
	Public   bool
	Customer *models.User
}

type UpdateReservationInput struct {
	ActorID uint
	ID      uint

	UserID    *uint
	ServiceID *uint
	Date      *string
	Time      *string
	Duration  *int
	Status    *string
	Notes     *string
}

type RescheduleInput struct {
	ActorID uint
	ID      uint

	Date     string
	Time     string
	Duration *int
}

// Position is where a reservation sits on the calendar. It is returned on
// every reschedule so a client can put the event back when the move fails.
type Position struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration int    `json:"duration"`
}

func positionOf(r *models.Reservation) Position {
	return Position{Date: r.Date, Time: r.Time, Duration: r.DurationMinutes}
}

// ======================================================
// USE CASE
// ======================================================

type Reservations struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier notify.Notifier
	hours    OpeningHours
	loc      *time.Location
	now      func() time.Time
}

// NewReservations checks public bookings against hours. Admin bookings may
// be placed outside them.
func NewReservations(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier notify.Notifier,
	hours OpeningHours,
	loc *time.Location,
) *Reservations {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Reservations{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		hours:    hours,
		loc:      loc,
		now:      func() time.Time { return timezone.NowIn(loc) },
	}
}

// ======================================================
// CREATE
// ======================================================

func (uc *Reservations) Create(
	ctx context.Context,
	in CreateReservationInput,
) (*models.Reservation, error) {

	// --------------------------------------------------
	// Prestation
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}
	if in.Public && !svc.IsActive {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	// --------------------------------------------------
	// Statut
	// --------------------------------------------------
	status := domain.InitialStatus()
	if !in.Public && in.Status != "" {
		if status, err = domain.ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Créneau
	// --------------------------------------------------
	duration := in.Duration
	if duration <= 0 {
		duration = svc.DurationMinutes
	}
	if duration <= 0 {
		duration = models.DefaultReservationMinutes
	}

	span, err := domain.BookingSpan(in.Date, in.Time, duration, uc.loc)
	if err != nil {
		return nil, err
	}
	if in.Public {
		if !span.Start.After(uc.now()) {
			return nil, httperr.ErrBusiness("too_soon")
		}
		if uc.hours.Start != "" && uc.hours.End != "" {
			if err := domain.CheckOpeningHours(span, in.Date, uc.hours.Start, uc.hours.End, uc.loc); err != nil {
				return nil, err
			}
		}
	}

	if err := uc.checkSlot(ctx, in.Date, span, 0, status == domain.StatusCancelled); err != nil {
		return nil, err
	}

	res := &models.Reservation{
		UserID:          in.UserID,
		ServiceID:       svc.ID,
		Date:            in.Date,
		Time:            in.Time,
		DurationMinutes: duration,
		Status:          string(status),
		Notes:           strings.TrimSpace(in.Notes),
	}

	if err := uc.repo.CreateReservation(ctx, res); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor(in.ActorID),
		Action:   "reservation_created",
		Entity:   "reservation",
		EntityID: &res.ID,
	})

	if in.Public {
		_ = uc.notifier.Notify(ctx, notify.NewBookingText(res, in.Customer, svc))
	}

	return res, nil
}

// ======================================================
// UPDATE (admin edit)
// ======================================================

func (uc *Reservations) Update(
	ctx context.Context,
	in UpdateReservationInput,
) (*models.Reservation, error) {

	res, err := uc.load(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	before := positionOf(res)
	wasCancelled := isCancelled(res)

	if in.UserID != nil {
		res.UserID = *in.UserID
	}
	if in.ServiceID != nil {
		if _, err := uc.repo.GetService(ctx, *in.ServiceID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrBusiness("service_not_found")
			}
			return nil, err
		}
		res.ServiceID = *in.ServiceID
	}
	if in.Date != nil {
		res.Date = *in.Date
	}
	if in.Time != nil {
		res.Time = *in.Time
	}
	if in.Duration != nil && *in.Duration > 0 {
		res.DurationMinutes = *in.Duration
	}
	if in.Status != nil {
		status, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		res.Status = string(status)
	}
	if in.Notes != nil {
		res.Notes = strings.TrimSpace(*in.Notes)
	}

	if positionOf(res) != before || (wasCancelled && !isCancelled(res)) {
		span, err := domain.BookingSpan(res.Date, res.Time, res.DurationMinutes, uc.loc)
		if err != nil {
			return nil, err
		}
		if err := uc.checkSlot(ctx, res.Date, span, res.ID, isCancelled(res)); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.UpdateReservation(ctx, res); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor(in.ActorID),
		Action:   "reservation_updated",
		Entity:   "reservation",
		EntityID: &res.ID,
		Metadata: map[string]any{"status": res.Status},
	})

	return res, nil
}

// ======================================================
// RESCHEDULE (calendar drag / resize)
// ======================================================

// Reschedule is a partial update of date, time and duration. The previous
// position is returned whether or not the move succeeds.
func (uc *Reservations) Reschedule(
	ctx context.Context,
	in RescheduleInput,
) (*models.Reservation, Position, error) {

	res, err := uc.load(ctx, in.ID)
	if err != nil {
		return nil, Position{}, err
	}
	prev := positionOf(res)

	duration := res.DurationMinutes
	if in.Duration != nil {
		duration = *in.Duration
	}
	if duration <= 0 {
		duration = models.DefaultReservationMinutes
	}

	span, err := domain.BookingSpan(in.Date, in.Time, duration, uc.loc)
	if err != nil {
		return nil, prev, err
	}
	if err := uc.checkSlot(ctx, in.Date, span, res.ID, isCancelled(res)); err != nil {
		return nil, prev, err
	}

	res.Date = in.Date
	res.Time = in.Time
	res.DurationMinutes = duration

	if err := uc.repo.UpdateReservation(ctx, res); err != nil {
		return nil, prev, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor(in.ActorID),
		Action:   "reservation_rescheduled",
		Entity:   "reservation",
		EntityID: &res.ID,
		Metadata: map[string]any{"from": prev, "to": positionOf(res)},
	})

	return res, prev, nil
}

func (uc *Reservations) load(ctx context.Context, id uint) (*models.Reservation, error) {
	res, err := uc.repo.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("reservation_not_found")
		}
		return nil, err
	}
	return res, nil
}

func isCancelled(r *models.Reservation) bool {
	return domain.Status(r.Status) == domain.StatusCancelled
}

// checkSlot runs the blocked-slot guard, then the booking guard unless the
// reservation is cancelled. skipID is the reservation being edited.
func (uc *Reservations) checkSlot(
	ctx context.Context,
	date string,
	span domain.Interval,
	skipID uint,
	cancelled bool,
) error {
	blocks, err := uc.repo.ListBlocksNear(ctx, span.Start, span.End)
	if err != nil {
		return err
	}
	if err := domain.CheckBlocks(span, blocks, 0, uc.loc); err != nil {
		return err
	}
	if cancelled {
		return nil
	}

	bookings, err := activeBookingsAround(ctx, uc.repo, date)
	if err != nil {
		return err
	}
	return domain.CheckBookingSpans(span, bookings, skipID, uc.loc)
}

// activeBookingsAround loads the active reservations of date and of the days
// either side, so spans crossing midnight are seen.
func activeBookingsAround(ctx context.Context, repo domain.Repository, date string) ([]models.Reservation, error) {
	day, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	return repo.ListActiveBookings(ctx,
		day.AddDate(0, 0, -1).Format(domain.DateLayout),
		day.AddDate(0, 0, 1).Format(domain.DateLayout),
	)
}
