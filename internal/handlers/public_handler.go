package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler serves the read-only catalogue pages of the site. Only
// active services and formations are visible.
type PublicHandler struct {
	responder
	db           *gorm.DB
	availability *schedule.Availability
}

func NewPublicHandler(db *gorm.DB, availability *schedule.Availability, r responder) *PublicHandler {
	return &PublicHandler{responder: r, db: db, availability: availability}
}

// scopedContent is what a detail page shows next to the item itself.
type scopedContent struct {
	Reviews []models.Review      `json:"reviews"`
	Gallery []models.GalleryItem `json:"gallery"`
	FAQ     []models.FAQ         `json:"faq"`
}

// ======================================================
// SERVICES
// ======================================================

func (h *PublicHandler) Services(c *gin.Context) {
	services := make([]models.Service, 0)
	q := h.catalogue(c, &models.Service{}, "name")
	if err := q.Find(&services).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *PublicHandler) Service(c *gin.Context) {
	var svc models.Service
	err := h.db.WithContext(c.Request.Context()).
		Where("slug = ? AND is_active = ?", c.Param("slug"), true).
		First(&svc).Error
	if err != nil {
		if dbNotFound(err) {
			httperr.Business(c, httperr.ErrBusiness("service_not_found"))
			return
		}
		h.fail(c, err)
		return
	}

	content, err := h.content(c, "service_id", "services_global", svc.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"service": svc,
		"reviews": content.Reviews,
		"gallery": content.Gallery,
		"faq":     content.FAQ,
	})
}

// ======================================================
// FORMATIONS
// ======================================================

func (h *PublicHandler) Formations(c *gin.Context) {
	formations := make([]models.Formation, 0)
	q := h.catalogue(c, &models.Formation{}, "title")
	if err := q.Find(&formations).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, formations)
}

func (h *PublicHandler) Formation(c *gin.Context) {
	var f models.Formation
	err := h.db.WithContext(c.Request.Context()).
		Where("slug = ? AND is_active = ?", c.Param("slug"), true).
		First(&f).Error
	if err != nil {
		if dbNotFound(err) {
			httperr.Business(c, httperr.ErrBusiness("formation_not_found"))
			return
		}
		h.fail(c, err)
		return
	}

	content, err := h.content(c, "formation_id", "formations_global", f.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"formation": f,
		"reviews":   content.Reviews,
		"gallery":   content.Gallery,
		"faq":       content.FAQ,
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *PublicHandler) Availability(c *gin.Context) {
	serviceID := queryUint(c, "serviceId")
	date := strings.TrimSpace(c.Query("date"))
	if serviceID == nil || date == "" {
		httperr.Business(c, httperr.ErrBusiness("missing_fields"))
		return
	}

	slots, err := h.availability.Slots(c.Request.Context(), *serviceID, date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"slots": slots,
	})
}

// ======================================================
// HEALTH
// ======================================================

func (h *PublicHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.logger().Error(c.Request.Context(), "health check failed", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// QUERIES
// ======================================================

// catalogue builds the active-only list query with the optional category,
// featured and search filters.
func (h *PublicHandler) catalogue(c *gin.Context, model any, label string) *gorm.DB {
	q := h.db.WithContext(c.Request.Context()).Model(model).Where("is_active = ?", true)

	if cat := strings.ToLower(strings.TrimSpace(c.Query("category"))); cat != "" {
		q = q.Where("LOWER(category) = ?", cat)
	}
	if b := queryBool(c, "featured"); b != nil {
		q = q.Where("is_featured = ?", *b)
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("search"))); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER("+label+") LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	return q.Order("is_featured DESC").Order(label + " ASC")
}

func (h *PublicHandler) content(c *gin.Context, targetCol, globalCol string, id uint) (*scopedContent, error) {
	db := h.db.WithContext(c.Request.Context())
	cond := targetCol + " = ? OR " + globalCol + " = ?"

	out := &scopedContent{
		Reviews: make([]models.Review, 0),
		Gallery: make([]models.GalleryItem, 0),
		FAQ:     make([]models.FAQ, 0),
	}
	if err := db.Where(cond, id, true).Order("created_at DESC").Find(&out.Reviews).Error; err != nil {
		return nil, err
	}
	if err := db.Where(cond, id, true).Order("created_at DESC").Find(&out.Gallery).Error; err != nil {
		return nil, err
	}
	if err := db.Where(cond, id, true).Order("id ASC").Find(&out.FAQ).Error; err != nil {
		return nil, err
	}
	return out, nil
}
