package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/neillmakeup/studio-api/internal/domain/schedule"
	"github.com/neillmakeup/studio-api/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Catalogue
// --------------------------------------------------

func (r *ScheduleGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Reservations
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *ScheduleGormRepository) GetReservation(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ScheduleGormRepository) UpdateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).
		Model(res).
		Select("user_id", "service_id", "date", "time", "duration_minutes", "status", "notes", "updated_at").
		Updates(res).Error
}

func (r *ScheduleGormRepository) ListActiveBookings(
	ctx context.Context,
	fromDate string,
	toDate string,
) ([]models.Reservation, error) {

	var rows []models.Reservation
	if err := r.db.WithContext(ctx).
		Where(
			"date >= ? AND date <= ? AND status <> ?",
			fromDate, toDate, string(domain.StatusCancelled),
		).
		Order("date ASC, time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ScheduleGormRepository) ListReservationsForPeriod(
	ctx context.Context,
	fromDate string,
	toDate string,
) ([]models.Reservation, error) {

	var rows []models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Where("date >= ? AND date <= ?", fromDate, toDate).
		Order("date ASC, time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// --------------------------------------------------
// Blocked slots
// --------------------------------------------------

// Timestamps are written in UTC so SQLite's text comparison and Postgres
// agree on ordering.
func normalizeSlot(s *models.BlockedSlot) {
	s.Start = s.Start.UTC()
	if s.End != nil {
		end := s.End.UTC()
		s.End = &end
	}
}

func (r *ScheduleGormRepository) CreateBlockedSlot(
	ctx context.Context,
	s *models.BlockedSlot,
) error {
	normalizeSlot(s)
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *ScheduleGormRepository) GetBlockedSlot(
	ctx context.Context,
	id uint,
) (*models.BlockedSlot, error) {

	var s models.BlockedSlot
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleGormRepository) UpdateBlockedSlot(
	ctx context.Context,
	s *models.BlockedSlot,
) error {
	normalizeSlot(s)
	return r.db.WithContext(ctx).
		Model(s).
		Select("title", "starts_at", "ends_at", "all_day", "updated_at").
		Updates(s).Error
}

func (r *ScheduleGormRepository) ListBlocksNear(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.BlockedSlot, error) {

	// open-ended blocks span at most one (possibly 25h) day
	horizon := start.Add(-48 * time.Hour).UTC()

	var rows []models.BlockedSlot
	if err := r.db.WithContext(ctx).
		Where(
			"starts_at <= ? AND (ends_at > ? OR (ends_at IS NULL AND starts_at >= ?))",
			end.UTC(), start.UTC(), horizon,
		).
		Order("starts_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
