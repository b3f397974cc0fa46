package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/infra/repository"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/testutil"
	"github.com/neillmakeup/studio-api/internal/timezone"
	"github.com/neillmakeup/studio-api/internal/usecase/schedule"
)

type fixture struct {
	db      *gorm.DB
	user    *models.User
	service *models.Service
	blocks  *schedule.BlockedSlots
	resv    *schedule.Reservations
	cal     *schedule.Calendar
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)
	repo := repository.NewScheduleGormRepository(gdb)
	loc := timezone.Location("Europe/Paris")

	return &fixture{
		db:      gdb,
		user:    testutil.CreateUser(t, gdb, "sophie@example.fr", models.RoleClient),
		service: testutil.CreateService(t, gdb, "Maquillage Mariée", "maquillage-mariee"),
		blocks:  schedule.NewBlockedSlots(repo, nil, loc),
		resv:    schedule.NewReservations(repo, nil, nil, schedule.OpeningHours{Start: "09:00", End: "19:00"}, loc),
		cal:     schedule.NewCalendar(repo, loc),
	}
}

func TestCreateBlockRejectsBookingInside(t *testing.T) {
	f := setup(t)
	testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "12:30", "confirmed")

	_, err := f.blocks.Create(context.Background(), schedule.BlockedSlotInput{
		Title: "Rdv perso", Start: "2025-07-01T12:00", End: "2025-07-01T13:00",
	})
	assert.True(t, httperr.IsBusiness(err, "booking_conflict"))

	var n int64
	f.db.Model(&models.BlockedSlot{}).Count(&n)
	assert.Zero(t, n)
}

func TestCreateBlockWithoutBookingSucceeds(t *testing.T) {
	f := setup(t)

	slot, err := f.blocks.Create(context.Background(), schedule.BlockedSlotInput{
		Title: "Rdv perso", Start: "2025-07-01T12:00", End: "2025-07-01T13:00",
	})
	require.NoError(t, err)
	assert.NotZero(t, slot.ID)
}

func TestCreateBlockIgnoresCancelledAndEdgeBookings(t *testing.T) {
	f := setup(t)
	testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "12:30", "cancelled")
	testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "12:00", "confirmed")
	testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "13:00", "pending")

	_, err := f.blocks.Create(context.Background(), schedule.BlockedSlotInput{
		Title: "Rdv perso", Start: "2025-07-01T12:00", End: "2025-07-01T13:00",
	})
	assert.NoError(t, err)
}

func TestCreateBlockRejectsOverlappingBlock(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.blocks.Create(ctx, schedule.BlockedSlotInput{Title: "A", Start: "2025-07-01T12:00", End: "2025-07-01T13:00"})
	require.NoError(t, err)

	_, err = f.blocks.Create(ctx, schedule.BlockedSlotInput{Title: "B", Start: "2025-07-01T12:30", End: "2025-07-01T14:00"})
	assert.True(t, httperr.IsBusiness(err, "blocked_conflict"))

	_, err = f.blocks.Create(ctx, schedule.BlockedSlotInput{Title: "C", Start: "2025-07-01T13:00", End: "2025-07-01T14:00"})
	assert.NoError(t, err, "adjacent blocks are allowed")
}

func TestCreateBlockValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.blocks.Create(ctx, schedule.BlockedSlotInput{Start: "2025-07-01T12:00"})
	assert.True(t, httperr.IsBusiness(err, "missing_title"))

	_, err = f.blocks.Create(ctx, schedule.BlockedSlotInput{Title: "X"})
	assert.True(t, httperr.IsBusiness(err, "missing_start"))

	_, err = f.blocks.Create(ctx, schedule.BlockedSlotInput{Title: "X", Start: "2025-07-01T12:00", End: "2025-07-01T11:00"})
	assert.True(t, httperr.IsBusiness(err, "invalid_interval"))
}

func TestUpdateBlockExcludesItself(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	slot, err := f.blocks.Create(ctx, schedule.BlockedSlotInput{Title: "A", Start: "2025-07-01T12:00", End: "2025-07-01T13:00"})
	require.NoError(t, err)

	end := "2025-07-01T14:00"
	moved, err := f.blocks.Update(ctx, schedule.BlockedSlotPatch{ID: slot.ID, End: &end})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, moved.End.Sub(moved.Start))

	testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "15:00", "confirmed")
	late := "2025-07-01T16:00"
	_, err = f.blocks.Update(ctx, schedule.BlockedSlotPatch{ID: slot.ID, End: &late})
	assert.True(t, httperr.IsBusiness(err, "booking_conflict"))
}

func TestRescheduleMovesReservation(t *testing.T) {
	f := setup(t)
	r := testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "10:00", "confirmed")

	dur := 90
	got, prev, err := f.resv.Reschedule(context.Background(), schedule.RescheduleInput{
		ID: r.ID, Date: "2025-07-02", Time: "14:30", Duration: &dur,
	})
	require.NoError(t, err)
	assert.Equal(t, schedule.Position{Date: "2025-07-01", Time: "10:00", Duration: 60}, prev)
	assert.Equal(t, "2025-07-02", got.Date)
	assert.Equal(t, "14:30", got.Time)

	var stored models.Reservation
	require.NoError(t, f.db.First(&stored, r.ID).Error)
	assert.Equal(t, "14:30", stored.Time)
	assert.Equal(t, 90, stored.DurationMinutes)
}

func TestRescheduleIntoBlockReturnsPreviousPosition(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	r := testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "10:00", "confirmed")

	_, err := f.blocks.Create(ctx, schedule.BlockedSlotInput{Title: "Congés", Start: "2025-07-03", AllDay: true})
	require.NoError(t, err)

	_, prev, err := f.resv.Reschedule(ctx, schedule.RescheduleInput{ID: r.ID, Date: "2025-07-03", Time: "11:00"})
	assert.True(t, httperr.IsBusiness(err, "blocked_conflict"))
	assert.Equal(t, schedule.Position{Date: "2025-07-01", Time: "10:00", Duration: 60}, prev)

	var stored models.Reservation
	require.NoError(t, f.db.First(&stored, r.ID).Error)
	assert.Equal(t, "2025-07-01", stored.Date)
}

func TestRescheduleUnknownReservation(t *testing.T) {
	f := setup(t)

	_, _, err := f.resv.Reschedule(context.Background(), schedule.RescheduleInput{ID: 999, Date: "2025-07-01", Time: "10:00"})
	assert.True(t, httperr.IsBusiness(err, "reservation_not_found"))
}

func TestUpdateReservationStatusIsUnconstrained(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	r := testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "10:00", "pending")

	for _, s := range []string{"confirmed", "cancelled", "pending"} {
		status := s
		got, err := f.resv.Update(ctx, schedule.UpdateReservationInput{ID: r.ID, Status: &status})
		require.NoError(t, err)
		assert.Equal(t, s, got.Status)
	}

	bad := "done"
	_, err := f.resv.Update(ctx, schedule.UpdateReservationInput{ID: r.ID, Status: &bad})
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestPublicCreateRules(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	loc := timezone.Location("Europe/Paris")
	tomorrow := time.Now().In(loc).AddDate(0, 0, 1).Format("2006-01-02")

	res, err := f.resv.Create(ctx, schedule.CreateReservationInput{
		UserID: f.user.ID, ServiceID: f.service.ID, Date: tomorrow, Time: "10:00", Status: "confirmed", Public: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", res.Status, "public bookings always start pending")
	assert.Equal(t, 60, res.DurationMinutes)

	_, err = f.resv.Create(ctx, schedule.CreateReservationInput{
		UserID: f.user.ID, ServiceID: f.service.ID, Date: "2020-01-01", Time: "10:00", Public: true,
	})
	assert.True(t, httperr.IsBusiness(err, "too_soon"))

	_, err = f.resv.Create(ctx, schedule.CreateReservationInput{
		UserID: f.user.ID, ServiceID: 999, Date: tomorrow, Time: "10:00", Public: true,
	})
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
}

func TestCreateRejectsOverlappingBooking(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	loc := timezone.Location("Europe/Paris")
	day := time.Now().In(loc).AddDate(0, 0, 2).Format("2006-01-02")
	other := testutil.CreateUser(t, f.db, "lea@example.fr", models.RoleClient)

	_, err := f.resv.Create(ctx, schedule.CreateReservationInput{UserID: f.user.ID, ServiceID: f.service.ID, Date: day, Time: "10:00", Public: true})
	require.NoError(t, err)

	_, err = f.resv.Create(ctx, schedule.CreateReservationInput{UserID: other.ID, ServiceID: f.service.ID, Date: day, Time: "10:00", Public: true})
	assert.True(t, httperr.IsBusiness(err, "booking_conflict"))

	_, err = f.resv.Create(ctx, schedule.CreateReservationInput{UserID: other.ID, ServiceID: f.service.ID, Date: day, Time: "10:30", Status: "confirmed"})
	assert.True(t, httperr.IsBusiness(err, "booking_conflict"), "admin bookings are guarded too")

	_, err = f.resv.Create(ctx, schedule.CreateReservationInput{UserID: other.ID, ServiceID: f.service.ID, Date: day, Time: "11:00", Public: true})
	assert.NoError(t, err, "back to back is allowed")
}

func TestPublicCreateRespectsOpeningHours(t *testing.T) {
	f := setup(t)
	loc := timezone.Location("Europe/Paris")
	day := time.Now().In(loc).AddDate(0, 0, 2).Format("2006-01-02")

	for _, hm := range []string{"03:00", "18:30"} {
		_, err := f.resv.Create(context.Background(), schedule.CreateReservationInput{
			UserID: f.user.ID, ServiceID: f.service.ID, Date: day, Time: hm, Public: true,
		})
		assert.True(t, httperr.IsBusiness(err, "outside_opening_hours"), hm)
	}

	_, err := f.resv.Create(context.Background(), schedule.CreateReservationInput{
		UserID: f.user.ID, ServiceID: f.service.ID, Date: day, Time: "07:00", Status: "confirmed",
	})
	assert.NoError(t, err, "the owner may book outside opening hours")
}

func TestRescheduleOntoAnotherBooking(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	r := testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "10:00", "confirmed")
	testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "14:00", "pending")
	testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "16:00", "cancelled")

	_, prev, err := f.resv.Reschedule(ctx, schedule.RescheduleInput{ID: r.ID, Date: "2025-07-01", Time: "13:30"})
	assert.True(t, httperr.IsBusiness(err, "booking_conflict"))
	assert.Equal(t, "10:00", prev.Time)

	dur := 120
	_, _, err = f.resv.Reschedule(ctx, schedule.RescheduleInput{ID: r.ID, Date: "2025-07-01", Time: "09:30", Duration: &dur})
	assert.NoError(t, err, "overlapping its own old position is fine")

	_, _, err = f.resv.Reschedule(ctx, schedule.RescheduleInput{ID: r.ID, Date: "2025-07-01", Time: "16:00"})
	assert.NoError(t, err, "cancelled bookings free their slot")
}

func TestReactivatingCancelledBookingIsGuarded(t *testing.T) {
	f := setup(t)
	r := testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "10:00", "cancelled")
	testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "10:30", "confirmed")

	status := "confirmed"
	_, err := f.resv.Update(context.Background(), schedule.UpdateReservationInput{ID: r.ID, Status: &status})
	assert.True(t, httperr.IsBusiness(err, "booking_conflict"))
}

func TestCalendarEvents(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	loc := timezone.Location("Europe/Paris")

	testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "10:00", "confirmed")
	testutil.CreateReservation(t, f.db, f.user.ID, f.service.ID, "2025-07-01", "15:00", "cancelled")
	_, err := f.blocks.Create(ctx, schedule.BlockedSlotInput{Title: "Déjeuner", Start: "2025-07-01T12:00", End: "2025-07-01T13:00"})
	require.NoError(t, err)

	from := time.Date(2025, 7, 1, 0, 0, 0, 0, loc)
	events, err := f.cal.Events(ctx, from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "Maquillage Mariée", events[0].Title)
	assert.Equal(t, "#22c55e", events[0].Color)
	assert.Equal(t, "sophie@example.fr", events[0].Props.UserEmail)

	assert.Equal(t, "Déjeuner", events[1].Title)
	assert.Equal(t, "#a1a1aa", events[1].Color)
	assert.Equal(t, "blocked", events[1].Props.Kind)

	assert.Equal(t, "#ef4444", events[2].Color)
}
