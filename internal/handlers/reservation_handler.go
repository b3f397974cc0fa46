package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/dto"
	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/middleware"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/pagination"
	"github.com/neillmakeup/studio-api/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ReservationHandler struct {
	responder
	db *gorm.DB
	uc *schedule.Reservations
}

func NewReservationHandler(db *gorm.DB, uc *schedule.Reservations, r responder) *ReservationHandler {
	return &ReservationHandler{responder: r, db: db, uc: uc}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReservationRequest struct {
	UserID    uint   `json:"user_id" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required,ymd"`
	Time      string `json:"time" binding:"required,hhmm"`
	Duration  int    `json:"duration" binding:"omitempty,min=1"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

type UpdateReservationRequest struct {
	UserID    *uint   `json:"user_id"`
	ServiceID *uint   `json:"service_id"`
	Date      *string `json:"date" binding:"omitempty,ymd"`
	Time      *string `json:"time" binding:"omitempty,hhmm"`
	Duration  *int    `json:"duration" binding:"omitempty,min=1"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

type RescheduleRequest struct {
	Date     string `json:"date" binding:"required,ymd"`
	Time     string `json:"time" binding:"required,hhmm"`
	Duration *int   `json:"duration" binding:"omitempty,min=1"`
}

type BookReservationRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required,ymd"`
	Time      string `json:"time" binding:"required,hhmm"`
	Notes     string `json:"notes"`
}

// ======================================================
// LIST
// ======================================================

const reservationColumns = `reservations.id, reservations.date, reservations.time,
	reservations.duration_minutes, reservations.status, reservations.notes,
	reservations.user_id, users.name AS user_name, users.email AS user_email,
	reservations.service_id, services.name AS service_name, reservations.created_at`

func (h *ReservationHandler) listQuery(c *gin.Context) *gorm.DB {
	return h.db.WithContext(c.Request.Context()).
		Table("reservations").
		Joins("LEFT JOIN users ON users.id = reservations.user_id").
		Joins("LEFT JOIN services ON services.id = reservations.service_id")
}

func (h *ReservationHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c, pagination.Options{
		Sortable: map[string]string{
			"id":         "reservations.id",
			"date":       "reservations.date",
			"time":       "reservations.time",
			"status":     "reservations.status",
			"created_at": "reservations.created_at",
			"user":       "users.name",
			"service":    "services.name",
		},
		DefaultSort: "date",
		DefaultDesc: true,
		Searchable:  []string{"users.name", "users.email", "services.name"},
		Tiebreak:    []string{"reservations.time", "reservations.id"},
	})

	q := h.listQuery(c)
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		q = q.Where("reservations.status = ?", s)
	}
	if id := queryUint(c, "userId"); id != nil {
		q = q.Where("reservations.user_id = ?", *id)
	}
	if id := queryUint(c, "serviceId"); id != nil {
		q = q.Where("reservations.service_id = ?", *id)
	}
	if from := strings.TrimSpace(c.Query("from")); from != "" {
		q = q.Where("reservations.date >= ?", from)
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		q = q.Where("reservations.date <= ?", to)
	}
	q = p.Filter(q)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		h.fail(c, err)
		return
	}

	rows := make([]dto.ReservationListDTO, 0, p.PageSize)
	if err := p.Apply(q.Session(&gorm.Session{}).Select(reservationColumns)).Scan(&rows).Error; err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.Result[dto.ReservationListDTO]{
		Data:     rows,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	})
}

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	var row dto.ReservationListDTO
	res := h.listQuery(c).Select(reservationColumns).Where("reservations.id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		h.fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.Business(c, httperr.ErrBusiness("reservation_not_found"))
		return
	}
	c.JSON(http.StatusOK, row)
}

// ======================================================
// WRITE
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).Model(&models.User{}).Where("id = ?", req.UserID).Count(&count).Error; err != nil {
		h.fail(c, err)
		return
	}
	if count == 0 {
		httperr.Business(c, httperr.ErrBusiness("user_not_found"))
		return
	}

	res, err := h.uc.Create(c.Request.Context(), schedule.CreateReservationInput{
		ActorID:   middleware.ActorID(c),
		UserID:    req.UserID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
		Duration:  req.Duration,
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": res.ID})
}

func (h *ReservationHandler) Update(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var req UpdateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.uc.Update(c.Request.Context(), schedule.UpdateReservationInput{
		ActorID:   middleware.ActorID(c),
		ID:        id,
		UserID:    req.UserID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
		Duration:  req.Duration,
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Reschedule answers errors with the previous position so the calendar can
// put the event back.
func (h *ReservationHandler) Reschedule(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var req RescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	res, prev, err := h.uc.Reschedule(c.Request.Context(), schedule.RescheduleInput{
		ActorID:  middleware.ActorID(c),
		ID:       id,
		Date:     req.Date,
		Time:     req.Time,
		Duration: req.Duration,
	})
	if err != nil {
		code, ok := httperr.CodeOf(err)
		if !ok || code == "reservation_not_found" {
			h.fail(c, err)
			return
		}
		if httperr.IsConflict(code) {
			h.metrics.IncConflict(code)
		}
		c.JSON(httperr.StatusFor(code), gin.H{
			"error_code": code,
			"message":    httperr.MessageFor(code),
			"previous":   prev,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reservation": res, "previous": prev})
}

func (h *ReservationHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reservation_id = ?", id).Delete(&models.Invoice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Reservation{}, id).Error
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ======================================================
// CLIENT SIDE
// ======================================================

// Book is the public booking made by a signed-in client.
func (h *ReservationHandler) Book(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req BookReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.uc.Create(c.Request.Context(), schedule.CreateReservationInput{
		ActorID:   user.ID,
		UserID:    user.ID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
		Public:    true,
		Customer:  user,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": res.ID, "status": res.Status})
}

func (h *ReservationHandler) Mine(c *gin.Context) {
	rows := make([]dto.ReservationListDTO, 0)
	err := h.listQuery(c).
		Select(reservationColumns).
		Where("reservations.user_id = ?", middleware.ActorID(c)).
		Order("reservations.date DESC, reservations.time DESC").
		Scan(&rows).Error
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
