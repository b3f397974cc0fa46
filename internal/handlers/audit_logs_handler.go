package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/pagination"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	responder
	db  *gorm.DB
	loc *time.Location
}

func NewAuditLogsHandler(db *gorm.DB, loc *time.Location, r responder) *AuditLogsHandler {
	return &AuditLogsHandler{responder: r, db: db, loc: loc}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	p := pagination.FromQuery(c, pagination.Options{
		Sortable: map[string]string{
			"id":         "id",
			"action":     "action",
			"created_at": "created_at",
		},
		DefaultSort: "created_at",
		DefaultDesc: true,
		Searchable:  []string{"action", "entity", "metadata"},
	})

	// --------------------------------------------------
	// Filtres optionnels
	// --------------------------------------------------

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if id := queryUint(c, "userId"); id != nil {
		q = q.Where("user_id = ?", *id)
	}

	if fromStr != "" {
		if from, err := time.ParseInLocation("2006-01-02", fromStr, h.loc); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}

	if toStr != "" {
		if to, err := time.ParseInLocation("2006-01-02", toStr, h.loc); err == nil {
			q = q.Where("created_at < ?", to.Add(24*time.Hour))
		}
	}

	// --------------------------------------------------
	// Listage
	// --------------------------------------------------

	res, err := pagination.Run[models.AuditLog](q, p)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
