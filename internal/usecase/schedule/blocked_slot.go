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
)

// ======================================================
// INPUT
// ======================================================

type BlockedSlotInput struct {
	ActorID uint

	Title  string
	Start  string
	End    string
	AllDay bool
}

// BlockedSlotPatch leaves nil fields untouched.
type BlockedSlotPatch struct {
	ActorID uint
	ID      uint

	Title  *string
	Start  *string
	End    *string
	AllDay *bool
}

// ======================================================
// USE CASE
// ======================================================

type BlockedSlots struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	loc   *time.Location
}

func NewBlockedSlots(
	repo domain.Repository,
	audit *audit.Dispatcher,
	loc *time.Location,
) *BlockedSlots {
	return &BlockedSlots{
		repo:  repo,
		audit: audit,
		loc:   loc,
	}
}

// Create validates the slot, runs the overlap guard against bookings then
// other blocks, and persists it.
func (uc *BlockedSlots) Create(
	ctx context.Context,
	in BlockedSlotInput,
) (*models.BlockedSlot, error) {

	slot, err := uc.build(in.Title, in.Start, in.End, in.AllDay)
	if err != nil {
		return nil, err
	}

	if err := uc.guard(ctx, slot, 0); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateBlockedSlot(ctx, slot); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor(in.ActorID),
		Action:   "blocked_slot_created",
		Entity:   "blocked_slot",
		EntityID: &slot.ID,
		Metadata: map[string]any{"title": slot.Title, "start": slot.Start, "end": slot.End},
	})

	return slot, nil
}

// Update moves or edits a slot, excluding itself from the overlap guard.
func (uc *BlockedSlots) Update(
	ctx context.Context,
	in BlockedSlotPatch,
) (*models.BlockedSlot, error) {

	current, err := uc.repo.GetBlockedSlot(ctx, in.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("blocked_slot_not_found")
		}
		return nil, err
	}

	title := current.Title
	if in.Title != nil {
		title = *in.Title
	}
	start := current.Start.In(uc.loc).Format(time.RFC3339)
	if in.Start != nil {
		start = *in.Start
	}
	end := ""
	if current.End != nil {
		end = current.End.In(uc.loc).Format(time.RFC3339)
	}
	if in.End != nil {
		end = *in.End
	}
	allDay := current.AllDay
	if in.AllDay != nil {
		allDay = *in.AllDay
	}

	slot, err := uc.build(title, start, end, allDay)
	if err != nil {
		return nil, err
	}
	slot.ID = current.ID
	slot.CreatedAt = current.CreatedAt

	if err := uc.guard(ctx, slot, slot.ID); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBlockedSlot(ctx, slot); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor(in.ActorID),
		Action:   "blocked_slot_updated",
		Entity:   "blocked_slot",
		EntityID: &slot.ID,
	})

	return slot, nil
}

func (uc *BlockedSlots) build(title, startRaw, endRaw string, allDay bool) (*models.BlockedSlot, error) {
	title = strings.TrimSpace(title)

	var start time.Time
	if strings.TrimSpace(startRaw) != "" {
		t, err := domain.ParseSlotTime(startRaw, uc.loc)
		if err != nil {
			return nil, err
		}
		start = t
	}

	var end *time.Time
	if strings.TrimSpace(endRaw) != "" {
		t, err := domain.ParseSlotTime(endRaw, uc.loc)
		if err != nil {
			return nil, err
		}
		end = &t
	}

	if err := domain.ValidateBlock(title, start, end); err != nil {
		return nil, err
	}

	if allDay {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, uc.loc)
	}

	return &models.BlockedSlot{
		Title:  title,
		Start:  start,
		End:    end,
		AllDay: allDay,
	}, nil
}

func (uc *BlockedSlots) guard(ctx context.Context, slot *models.BlockedSlot, skipID uint) error {
	cand := domain.SlotInterval(*slot, uc.loc)

	from := cand.Start.In(uc.loc).Format(domain.DateLayout)
	to := cand.End.In(uc.loc).Format(domain.DateLayout)
	bookings, err := uc.repo.ListActiveBookings(ctx, from, to)
	if err != nil {
		return err
	}
	if err := domain.CheckBookings(cand, bookings, uc.loc); err != nil {
		return err
	}

	blocks, err := uc.repo.ListBlocksNear(ctx, cand.Start, cand.End)
	if err != nil {
		return err
	}
	return domain.CheckBlocks(cand, blocks, skipID, uc.loc)
}

func actor(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
