package schedule

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/neillmakeup/studio-api/internal/domain/schedule"
	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/timezone"
)

// OpeningHours is the daily window offered for public bookings.
type OpeningHours struct {
	Start string
	End   string
	Step  time.Duration
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Availability struct {
	repo  domain.Repository
	hours OpeningHours
	loc   *time.Location
	now   func() time.Time
}

func NewAvailability(repo domain.Repository, hours OpeningHours, loc *time.Location) *Availability {
	if hours.Step <= 0 {
		hours.Step = 30 * time.Minute
	}
	return &Availability{
		repo:  repo,
		hours: hours,
		loc:   loc,
		now:   func() time.Time { return timezone.NowIn(loc) },
	}
}

// Slots lists the free starts of a day for the service duration. A slot is
// dropped when it is past, intersects a blocked slot or overlaps an active
// booking.
func (uc *Availability) Slots(
	ctx context.Context,
	serviceID uint,
	date string,
) ([]TimeSlot, error) {

	svc, err := uc.repo.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}
	if !svc.IsActive {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	dayStart, err := domain.BookingStart(date, uc.hours.Start, uc.loc)
	if err != nil {
		return nil, err
	}
	dayEnd, err := domain.BookingStart(date, uc.hours.End, uc.loc)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(svc.DurationMinutes) * time.Minute
	if duration <= 0 {
		duration = models.DefaultReservationMinutes * time.Minute
	}

	bookings, err := activeBookingsAround(ctx, uc.repo, date)
	if err != nil {
		return nil, err
	}

	blocks, err := uc.repo.ListBlocksNear(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	slots := make([]TimeSlot, 0)

	for cur := dayStart; !cur.Add(duration).After(dayEnd); cur = cur.Add(uc.hours.Step) {
		slot := domain.Interval{Start: cur, End: cur.Add(duration)}

		if !cur.After(now) {
			continue
		}
		if domain.CheckBlocks(slot, blocks, 0, uc.loc) != nil {
			continue
		}
		if domain.CheckBookingSpans(slot, bookings, 0, uc.loc) != nil {
			continue
		}
		slots = append(slots, TimeSlot{
			Start: slot.Start.Format(domain.TimeLayout),
			End:   slot.End.Format(domain.TimeLayout),
		})
	}

	return slots, nil
}
