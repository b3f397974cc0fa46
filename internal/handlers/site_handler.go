package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/audit"
	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/notify"
	"github.com/neillmakeup/studio-api/internal/pagination"
	"github.com/neillmakeup/studio-api/internal/validators"
)

// ======================================================
// SITE IDENTITY
// ======================================================

const siteIdentityID = 1

type SiteHandler struct {
	responder
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewSiteHandler(db *gorm.DB, a *audit.Dispatcher, r responder) *SiteHandler {
	return &SiteHandler{responder: r, db: db, audit: a}
}

func (h *SiteHandler) Get(c *gin.Context) {
	var site models.SiteIdentity
	if err := h.db.WithContext(c.Request.Context()).First(&site, siteIdentityID).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, site)
}

// Update is a partial update: keys absent from the body keep their value.
func (h *SiteHandler) Update(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())

	var site models.SiteIdentity
	err := db.First(&site, siteIdentityID).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		h.fail(c, err)
		return
	}

	if !bindJSON(c, &site) {
		return
	}
	site.ID = siteIdentityID
	site.Name = strings.TrimSpace(site.Name)
	if site.Name == "" {
		httperr.Business(c, httperr.ErrBusiness("missing_name"))
		return
	}

	if err := db.Save(&site).Error; err != nil {
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "site_identity_updated", "site_identity", site.ID, nil)
	c.JSON(http.StatusOK, site)
}

// ======================================================
// TEAM
// ======================================================

type TeamHandler struct {
	responder
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewTeamHandler(db *gorm.DB, a *audit.Dispatcher, r responder) *TeamHandler {
	return &TeamHandler{responder: r, db: db, audit: a}
}

func (h *TeamHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c, pagination.Options{
		Sortable: map[string]string{
			"id":       "id",
			"name":     "name",
			"position": "position",
		},
		DefaultSort: "position",
		Searchable:  []string{"name", "role"},
	})
	q := h.db.WithContext(c.Request.Context()).Model(&models.TeamMember{})
	if b := queryBool(c, "active"); b != nil {
		q = q.Where("is_active = ?", *b)
	}

	res, err := pagination.Run[models.TeamMember](q, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *TeamHandler) Create(c *gin.Context) {
	member := models.TeamMember{IsActive: true}
	if !bindJSON(c, &member) {
		return
	}
	member.ID = 0
	member.Name = strings.TrimSpace(member.Name)
	if member.Name == "" {
		httperr.Business(c, httperr.ErrBusiness("missing_name"))
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&member).Error; err != nil {
		h.fail(c, err)
		return
	}
	writeAudit(c, h.audit, "team_member_created", "team_member", member.ID, nil)
	c.JSON(http.StatusCreated, gin.H{"id": member.ID})
}

func (h *TeamHandler) Update(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	db := h.db.WithContext(c.Request.Context())

	var member models.TeamMember
	if err := db.First(&member, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	if !bindJSON(c, &member) {
		return
	}
	member.ID = id
	member.Name = strings.TrimSpace(member.Name)
	if member.Name == "" {
		httperr.Business(c, httperr.ErrBusiness("missing_name"))
		return
	}

	if err := db.Save(&member).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *TeamHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(&models.TeamMember{}, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	writeAudit(c, h.audit, "team_member_deleted", "team_member", id, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *TeamHandler) Public(c *gin.Context) {
	members := make([]models.TeamMember, 0)
	err := h.db.WithContext(c.Request.Context()).
		Where("is_active = ?", true).
		Order("position ASC, id ASC").
		Find(&members).Error
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// ======================================================
// CONTACT
// ======================================================

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ContactHandler struct {
	responder
	db       *gorm.DB
	notifier notify.Notifier
}

func NewContactHandler(db *gorm.DB, notifier notify.Notifier, r responder) *ContactHandler {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &ContactHandler{responder: r, db: db, notifier: notifier}
}

// Create stores a message from the public contact form and pings the owner.
func (h *ContactHandler) Create(c *gin.Context) {
	var req ContactRequest
	if !bindJSON(c, &req) {
		return
	}
	msg := models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		httperr.Business(c, httperr.ErrBusiness("missing_fields"))
		return
	}
	if msg.Email = validators.NormalizeEmail(msg.Email); msg.Email == "" {
		httperr.Business(c, httperr.ErrBusiness("invalid_email"))
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&msg).Error; err != nil {
		h.fail(c, err)
		return
	}
	_ = h.notifier.Notify(c.Request.Context(), notify.ContactText(&msg))

	c.JSON(http.StatusCreated, gin.H{"id": msg.ID})
}

func (h *ContactHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c, pagination.Options{
		Sortable: map[string]string{
			"id":         "id",
			"name":       "name",
			"created_at": "created_at",
		},
		DefaultSort: "created_at",
		DefaultDesc: true,
		Searchable:  []string{"name", "email", "message"},
	})
	res, err := pagination.Run[models.ContactMessage](h.db.WithContext(c.Request.Context()).Model(&models.ContactMessage{}), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(&models.ContactMessage{}, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
