package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	domain "github.com/neillmakeup/studio-api/internal/domain/schedule"
	"github.com/neillmakeup/studio-api/internal/dto"
)

type Calendar struct {
	repo domain.Repository
	loc  *time.Location
}

func NewCalendar(repo domain.Repository, loc *time.Location) *Calendar {
	return &Calendar{repo: repo, loc: loc}
}

// Events lists bookings and blocked slots between from and to as calendar
// events sorted by start.
func (uc *Calendar) Events(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]dto.CalendarEvent, error) {

	reservations, err := uc.repo.ListReservationsForPeriod(
		ctx,
		from.In(uc.loc).Format(domain.DateLayout),
		to.In(uc.loc).Format(domain.DateLayout),
	)
	if err != nil {
		return nil, err
	}

	blocks, err := uc.repo.ListBlocksNear(ctx, from, to)
	if err != nil {
		return nil, err
	}

	events := make([]dto.CalendarEvent, 0, len(reservations)+len(blocks))

	for _, r := range reservations {
		span, err := domain.BookingSpan(r.Date, r.Time, r.DurationMinutes, uc.loc)
		if err != nil {
			continue
		}
		title := "Réservation"
		props := dto.CalendarEventProps{
			Kind:          "reservation",
			ReservationID: r.ID,
			Status:        r.Status,
			Notes:         r.Notes,
		}
		if r.Service != nil {
			title = r.Service.Name
			props.ServiceName = r.Service.Name
		}
		if r.User != nil {
			props.UserName = r.User.Name
			props.UserEmail = r.User.Email
		}
		events = append(events, dto.CalendarEvent{
			ID:       fmt.Sprintf("%d", r.ID),
			Title:    title,
			Start:    span.Start,
			End:      &span.End,
			Color:    domain.Status(r.Status).Color(),
			Editable: true,
			Props:    props,
		})
	}

	window := domain.Interval{Start: from, End: to}
	for _, b := range blocks {
		iv := domain.SlotInterval(b, uc.loc)
		inWindow := window.Overlaps(iv) ||
			(iv.Duration() == 0 && !iv.Start.Before(from) && iv.Start.Before(to))
		if !inWindow {
			continue
		}
		ev := dto.CalendarEvent{
			ID:     fmt.Sprintf("block-%d", b.ID),
			Title:  b.Title,
			Start:  b.Start.In(uc.loc),
			AllDay: b.AllDay,
			Color:  domain.BlockedColor,
			Props:  dto.CalendarEventProps{Kind: "blocked", BlockedSlotID: b.ID},
		}
		if b.End != nil {
			end := b.End.In(uc.loc)
			ev.End = &end
		}
		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	return events, nil
}
