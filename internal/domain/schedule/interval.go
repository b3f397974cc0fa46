package schedule

import (
	"strings"
	"time"

	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/models"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Interval is half-open: [Start, End). A zero-width interval is an instant.
type Interval struct {
	Start time.Time
	End   time.Time
}

func Instant(t time.Time) Interval {
	return Interval{Start: t, End: t}
}

// Overlaps is the guard used everywhere:
// a.Start < b.End AND b.Start < a.End.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func (a Interval) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

var slotLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	DateLayout,
}

// ParseSlotTime reads the timestamps sent by the calendar. Values without a
// zone are taken in loc.
func ParseSlotTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, l := range slotLayouts {
		if t, err := time.ParseInLocation(l, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, httperr.ErrBusiness("invalid_date_or_time")
}

// BookingStart is the instant a reservation begins.
func BookingStart(date, hm string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+hm, loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date_or_time")
	}
	return t, nil
}

// BookingInstant is how a reservation is seen by the blocked-slot guard.
func BookingInstant(r models.Reservation, loc *time.Location) (Interval, error) {
	t, err := BookingStart(r.Date, r.Time, loc)
	if err != nil {
		return Interval{}, err
	}
	return Instant(t), nil
}

// BookingSpan is the reservation with its duration, used when the booking
// itself is the candidate.
func BookingSpan(date, hm string, minutes int, loc *time.Location) (Interval, error) {
	start, err := BookingStart(date, hm, loc)
	if err != nil {
		return Interval{}, err
	}
	if minutes <= 0 {
		minutes = models.DefaultReservationMinutes
	}
	return Interval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}, nil
}

// BlockedInterval turns a stored or candidate block into its effective
// interval. A missing end means the start instant, except for all-day
// blocks which cover their whole day.
func BlockedInterval(start time.Time, end *time.Time, allDay bool, loc *time.Location) Interval {
	start = start.In(loc)
	if allDay {
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		if end == nil {
			return Interval{Start: day, End: day.AddDate(0, 0, 1)}
		}
		return Interval{Start: day, End: end.In(loc)}
	}
	if end == nil {
		return Instant(start)
	}
	return Interval{Start: start, End: end.In(loc)}
}

func SlotInterval(s models.BlockedSlot, loc *time.Location) Interval {
	return BlockedInterval(s.Start, s.End, s.AllDay, loc)
}

// ValidateBlock checks the mandatory fields of a blocked slot. An explicit
// end must be strictly after the start.
func ValidateBlock(title string, start time.Time, end *time.Time) error {
	if strings.TrimSpace(title) == "" {
		return httperr.ErrBusiness("missing_title")
	}
	if start.IsZero() {
		return httperr.ErrBusiness("missing_start")
	}
	if end != nil && !end.After(start) {
		return httperr.ErrBusiness("invalid_interval")
	}
	return nil
}
