package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/neillmakeup/studio-api/internal/domain/schedule"
	"github.com/neillmakeup/studio-api/internal/middleware"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/pagination"
	"github.com/neillmakeup/studio-api/internal/usecase/schedule"
)

type BlockedSlotHandler struct {
	responder
	db  *gorm.DB
	uc  *schedule.BlockedSlots
	loc *time.Location
}

func NewBlockedSlotHandler(db *gorm.DB, uc *schedule.BlockedSlots, loc *time.Location, r responder) *BlockedSlotHandler {
	return &BlockedSlotHandler{responder: r, db: db, uc: uc, loc: loc}
}

type BlockedSlotRequest struct {
	Title  string `json:"title"`
	Start  string `json:"start"`
	End    string `json:"end"`
	AllDay bool   `json:"allDay"`
}

type BlockedSlotPatchRequest struct {
	Title  *string `json:"title"`
	Start  *string `json:"start"`
	End    *string `json:"end"`
	AllDay *bool   `json:"allDay"`
}

func (h *BlockedSlotHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c, pagination.Options{
		Sortable: map[string]string{
			"id":    "id",
			"start": "starts_at",
			"title": "title",
		},
		DefaultSort: "start",
		Searchable:  []string{"title"},
	})

	q := h.db.WithContext(c.Request.Context()).Model(&models.BlockedSlot{})
	if from := c.Query("from"); from != "" {
		if t, err := domain.ParseSlotTime(from, h.loc); err == nil {
			q = q.Where("ends_at >= ? OR (ends_at IS NULL AND starts_at >= ?)", t.UTC(), t.UTC().Add(-24*time.Hour))
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := domain.ParseSlotTime(to, h.loc); err == nil {
			q = q.Where("starts_at <= ?", t.UTC())
		}
	}

	res, err := pagination.Run[models.BlockedSlot](q, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Create answers 201 with the new id, or 409 when the slot overlaps a
// booking or another block.
func (h *BlockedSlotHandler) Create(c *gin.Context) {
	var req BlockedSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	slot, err := h.uc.Create(c.Request.Context(), schedule.BlockedSlotInput{
		ActorID: middleware.ActorID(c),
		Title:   req.Title,
		Start:   req.Start,
		End:     req.End,
		AllDay:  req.AllDay,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": slot.ID})
}

func (h *BlockedSlotHandler) Update(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var req BlockedSlotPatchRequest
	if !bindJSON(c, &req) {
		return
	}

	slot, err := h.uc.Update(c.Request.Context(), schedule.BlockedSlotPatch{
		ActorID: middleware.ActorID(c),
		ID:      id,
		Title:   req.Title,
		Start:   req.Start,
		End:     req.End,
		AllDay:  req.AllDay,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *BlockedSlotHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(&models.BlockedSlot{}, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ======================================================
// CALENDAR
// ======================================================

type CalendarHandler struct {
	responder
	uc  *schedule.Calendar
	loc *time.Location
}

func NewCalendarHandler(uc *schedule.Calendar, loc *time.Location, r responder) *CalendarHandler {
	return &CalendarHandler{responder: r, uc: uc, loc: loc}
}

// Events defaults to the current month with a week of margin on each side.
func (h *CalendarHandler) Events(c *gin.Context) {
	now := time.Now().In(h.loc)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.loc)
	from := first.AddDate(0, 0, -7)
	to := first.AddDate(0, 1, 7)

	if raw := c.Query("from"); raw != "" {
		t, err := domain.ParseSlotTime(raw, h.loc)
		if err != nil {
			h.fail(c, err)
			return
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := domain.ParseSlotTime(raw, h.loc)
		if err != nil {
			h.fail(c, err)
			return
		}
		to = t
	}

	events, err := h.uc.Events(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
