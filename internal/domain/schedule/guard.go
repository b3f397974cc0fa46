package schedule

import (
	"time"

	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/models"
)

const (
	ConflictBooking = "booking_conflict"
	ConflictBlocked = "blocked_conflict"
)

// CheckBookings rejects a candidate block that contains the start instant of
// a non-cancelled reservation.
func CheckBookings(cand Interval, bookings []models.Reservation, loc *time.Location) error {
	for _, r := range bookings {
		if Status(r.Status) == StatusCancelled {
			continue
		}
		at, err := BookingInstant(r, loc)
		if err != nil {
			continue
		}
		if cand.Overlaps(at) {
			return httperr.ErrBusiness(ConflictBooking)
		}
	}
	return nil
}

// CheckBlocks rejects a candidate that intersects another blocked slot.
// skipID excludes the slot being edited; pass 0 on create.
func CheckBlocks(cand Interval, blocks []models.BlockedSlot, skipID uint, loc *time.Location) error {
	for _, b := range blocks {
		if skipID != 0 && b.ID == skipID {
			continue
		}
		if cand.Overlaps(SlotInterval(b, loc)) {
			return httperr.ErrBusiness(ConflictBlocked)
		}
	}
	return nil
}

// CheckBookingSpans rejects a candidate booking that overlaps the span of a
// non-cancelled reservation. skipID excludes the reservation being moved;
// pass 0 on create.
func CheckBookingSpans(cand Interval, bookings []models.Reservation, skipID uint, loc *time.Location) error {
	for _, r := range bookings {
		if skipID != 0 && r.ID == skipID {
			continue
		}
		if Status(r.Status) == StatusCancelled {
			continue
		}
		span, err := BookingSpan(r.Date, r.Time, r.DurationMinutes, loc)
		if err != nil {
			continue
		}
		if cand.Overlaps(span) {
			return httperr.ErrBusiness(ConflictBooking)
		}
	}
	return nil
}

// CheckOpeningHours rejects a booking that starts before opening or ends
// after closing on its own day. Both hours are HH:MM.
func CheckOpeningHours(span Interval, date, opens, closes string, loc *time.Location) error {
	dayStart, err := BookingStart(date, opens, loc)
	if err != nil {
		return err
	}
	dayEnd, err := BookingStart(date, closes, loc)
	if err != nil {
		return err
	}
	if span.Start.Before(dayStart) || span.End.After(dayEnd) {
		return httperr.ErrBusiness("outside_opening_hours")
	}
	return nil
}
