package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/audit"
	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/middleware"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/pagination"
	"github.com/neillmakeup/studio-api/internal/upload"
	"github.com/neillmakeup/studio-api/internal/validators"
)

// Reviews, gallery items and FAQ entries share the same visibility scope:
// the whole site, every service page, every formation page, or a single
// service or formation.

// ======================================================
// SCOPE
// ======================================================

type scopeRequest struct {
	Global           *bool `json:"global"`
	ServicesGlobal   *bool `json:"services_global"`
	FormationsGlobal *bool `json:"formations_global"`
	ServiceID        *uint `json:"service_id"`
	FormationID      *uint `json:"formation_id"`
}

// merge overlays the request on the current scope. A zero id clears the
// target.
func (r scopeRequest) merge(s models.Scope) models.Scope {
	if r.Global != nil {
		s.Global = *r.Global
	}
	if r.ServicesGlobal != nil {
		s.ServicesGlobal = *r.ServicesGlobal
	}
	if r.FormationsGlobal != nil {
		s.FormationsGlobal = *r.FormationsGlobal
	}
	if r.ServiceID != nil {
		s.ServiceID = nil
		if *r.ServiceID != 0 {
			id := *r.ServiceID
			s.ServiceID = &id
		}
	}
	if r.FormationID != nil {
		s.FormationID = nil
		if *r.FormationID != 0 {
			id := *r.FormationID
			s.FormationID = &id
		}
	}
	return s
}

// checkScope enforces the single-target rule and that targets exist.
func checkScope(db *gorm.DB, s models.Scope) error {
	if err := validators.ValidateScope(s); err != nil {
		return err
	}
	if s.ServiceID != nil {
		var n int64
		if err := db.Model(&models.Service{}).Where("id = ?", *s.ServiceID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return httperr.ErrBusiness("service_not_found")
		}
	}
	if s.FormationID != nil {
		var n int64
		if err := db.Model(&models.Formation{}).Where("id = ?", *s.FormationID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return httperr.ErrBusiness("formation_not_found")
		}
	}
	return nil
}

// scopeFilters applies the admin list filters.
func scopeFilters(c *gin.Context, q *gorm.DB) *gorm.DB {
	if id := queryUint(c, "serviceId"); id != nil {
		q = q.Where("service_id = ?", *id)
	}
	if id := queryUint(c, "formationId"); id != nil {
		q = q.Where("formation_id = ?", *id)
	}
	if b := queryBool(c, "global"); b != nil {
		q = q.Where("global = ?", *b)
	}
	if b := queryBool(c, "servicesGlobal"); b != nil {
		q = q.Where("services_global = ?", *b)
	}
	if b := queryBool(c, "formationsGlobal"); b != nil {
		q = q.Where("formations_global = ?", *b)
	}
	return q
}

// publicScope picks what a public page shows. Without parameters only
// site-wide items are returned.
func publicScope(c *gin.Context, q *gorm.DB) *gorm.DB {
	if id := queryUint(c, "serviceId"); id != nil {
		return q.Where("service_id = ? OR services_global = ?", *id, true)
	}
	if id := queryUint(c, "formationId"); id != nil {
		return q.Where("formation_id = ? OR formations_global = ?", *id, true)
	}
	switch strings.ToLower(c.Query("scope")) {
	case "services":
		return q.Where("services_global = ?", true)
	case "formations":
		return q.Where("formations_global = ?", true)
	}
	return q.Where("global = ?", true)
}

// ======================================================
// REVIEWS
// ======================================================

type ReviewRequest struct {
	scopeRequest
	Author  *string `json:"author"`
	Comment *string `json:"comment"`
	Rating  *int    `json:"rating"`
}

type ReviewHandler struct {
	responder
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewReviewHandler(db *gorm.DB, a *audit.Dispatcher, r responder) *ReviewHandler {
	return &ReviewHandler{responder: r, db: db, audit: a}
}

func (h *ReviewHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c, pagination.Options{
		Sortable: map[string]string{
			"id":         "id",
			"author":     "author",
			"rating":     "rating",
			"created_at": "created_at",
		},
		DefaultSort: "created_at",
		DefaultDesc: true,
		Searchable:  []string{"author", "comment"},
	})
	q := scopeFilters(c, h.db.WithContext(c.Request.Context()).Model(&models.Review{}))
	if r := queryUint(c, "rating"); r != nil {
		q = q.Where("rating = ?", *r)
	}

	res, err := pagination.Run[models.Review](q, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	if trimmed(req.Author) == "" || trimmed(req.Comment) == "" || req.Rating == nil {
		httperr.Business(c, httperr.ErrBusiness("missing_fields"))
		return
	}

	review := models.Review{}
	if err := h.apply(c, &review, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&review).Error; err != nil {
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "review_created", "review", review.ID, nil)
	c.JSON(http.StatusCreated, gin.H{"id": review.ID})
}

func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	var review models.Review
	if err := h.db.WithContext(c.Request.Context()).First(&review, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	if err := h.apply(c, &review, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Save(&review).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(&models.Review{}, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	writeAudit(c, h.audit, "review_deleted", "review", id, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ReviewHandler) Public(c *gin.Context) {
	reviews := make([]models.Review, 0)
	q := publicScope(c, h.db.WithContext(c.Request.Context()).Model(&models.Review{}))
	if err := q.Order("created_at DESC").Find(&reviews).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) apply(c *gin.Context, r *models.Review, req *ReviewRequest) error {
	setString(&r.Author, req.Author)
	setString(&r.Comment, req.Comment)
	if req.Rating != nil {
		if err := validators.ValidateRating(*req.Rating); err != nil {
			return err
		}
		r.Rating = *req.Rating
	}

	s := req.merge(r.Scope())
	if err := checkScope(h.db.WithContext(c.Request.Context()), s); err != nil {
		return err
	}
	r.Global, r.ServicesGlobal, r.FormationsGlobal = s.Global, s.ServicesGlobal, s.FormationsGlobal
	r.ServiceID, r.FormationID = s.ServiceID, s.FormationID
	return nil
}

// ======================================================
// FAQ
// ======================================================

type FAQRequest struct {
	scopeRequest
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

type FAQHandler struct {
	responder
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewFAQHandler(db *gorm.DB, a *audit.Dispatcher, r responder) *FAQHandler {
	return &FAQHandler{responder: r, db: db, audit: a}
}

func (h *FAQHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c, pagination.Options{
		Sortable: map[string]string{
			"id":         "id",
			"question":   "question",
			"created_at": "created_at",
		},
		Searchable: []string{"question", "answer"},
	})
	q := scopeFilters(c, h.db.WithContext(c.Request.Context()).Model(&models.FAQ{}))

	res, err := pagination.Run[models.FAQ](q, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *FAQHandler) Create(c *gin.Context) {
	var req FAQRequest
	if !bindJSON(c, &req) {
		return
	}
	if trimmed(req.Question) == "" || trimmed(req.Answer) == "" {
		httperr.Business(c, httperr.ErrBusiness("missing_fields"))
		return
	}

	entry := models.FAQ{}
	if err := h.apply(c, &entry, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&entry).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": entry.ID})
}

func (h *FAQHandler) Update(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var req FAQRequest
	if !bindJSON(c, &req) {
		return
	}

	var entry models.FAQ
	if err := h.db.WithContext(c.Request.Context()).First(&entry, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	if err := h.apply(c, &entry, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Save(&entry).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *FAQHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(&models.FAQ{}, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *FAQHandler) Public(c *gin.Context) {
	entries := make([]models.FAQ, 0)
	q := publicScope(c, h.db.WithContext(c.Request.Context()).Model(&models.FAQ{}))
	if err := q.Order("id ASC").Find(&entries).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *FAQHandler) apply(c *gin.Context, f *models.FAQ, req *FAQRequest) error {
	setString(&f.Question, req.Question)
	setString(&f.Answer, req.Answer)

	s := req.merge(f.Scope())
	if err := checkScope(h.db.WithContext(c.Request.Context()), s); err != nil {
		return err
	}
	f.Global, f.ServicesGlobal, f.FormationsGlobal = s.Global, s.ServicesGlobal, s.FormationsGlobal
	f.ServiceID, f.FormationID = s.ServiceID, s.FormationID
	return nil
}

// ======================================================
// GALLERY
// ======================================================

type GalleryRequest struct {
	scopeRequest
	Title       *string `json:"title"`
	ImageURL    *string `json:"image_url"`
	WebPURL     *string `json:"webp_url"`
	Alt         *string `json:"alt"`
	Description *string `json:"description"`
}

type GalleryHandler struct {
	responder
	db      *gorm.DB
	audit   *audit.Dispatcher
	uploads *upload.Service
}

func NewGalleryHandler(db *gorm.DB, a *audit.Dispatcher, uploads *upload.Service, r responder) *GalleryHandler {
	return &GalleryHandler{responder: r, db: db, audit: a, uploads: uploads}
}

func (h *GalleryHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c, pagination.Options{
		Sortable: map[string]string{
			"id":         "id",
			"title":      "title",
			"created_at": "created_at",
		},
		DefaultSort: "created_at",
		DefaultDesc: true,
		Searchable:  []string{"title", "alt", "description"},
	})
	q := scopeFilters(c, h.db.WithContext(c.Request.Context()).Model(&models.GalleryItem{}))

	res, err := pagination.Run[models.GalleryItem](q, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *GalleryHandler) Create(c *gin.Context) {
	var req GalleryRequest
	if !bindJSON(c, &req) {
		return
	}
	if trimmed(req.ImageURL) == "" {
		httperr.Business(c, httperr.ErrBusiness("missing_image"))
		return
	}

	item := models.GalleryItem{}
	if err := h.apply(c, &item, &req); err != nil {
		h.fail(c, err)
		return
	}
	h.create(c, &item)
}

// Upload stores the multipart file then creates the gallery row pointing
// at it. Scope and labels come from the form fields.
func (h *GalleryHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		httperr.Business(c, httperr.ErrBusiness("missing_file"))
		return
	}

	req := GalleryRequest{}
	for key, dst := range map[string]**string{
		"title":       &req.Title,
		"alt":         &req.Alt,
		"description": &req.Description,
	} {
		if v, ok := c.GetPostForm(key); ok {
			*dst = &v
		}
	}
	for key, dst := range map[string]**bool{
		"global":            &req.Global,
		"services_global":   &req.ServicesGlobal,
		"formations_global": &req.FormationsGlobal,
	} {
		if v, ok := c.GetPostForm(key); ok {
			b := v == "true" || v == "1" || v == "on"
			*dst = &b
		}
	}
	for key, dst := range map[string]**uint{
		"service_id":   &req.ServiceID,
		"formation_id": &req.FormationID,
	} {
		if n, err := strconv.ParseUint(c.PostForm(key), 10, 64); err == nil {
			id := uint(n)
			*dst = &id
		}
	}

	item := models.GalleryItem{}
	if err := h.apply(c, &item, &req); err != nil {
		h.fail(c, err)
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = item.Title
	}
	file, err := h.uploads.Save(c.Request.Context(), fh, name)
	if err != nil {
		h.fail(c, err)
		return
	}
	item.ImageURL = file.URL
	item.WebPURL = file.WebPURL

	h.create(c, &item)
}

func (h *GalleryHandler) create(c *gin.Context, item *models.GalleryItem) {
	if uid := middleware.ActorID(c); uid != 0 {
		item.UploadedBy = &uid
	}
	if err := h.db.WithContext(c.Request.Context()).Create(item).Error; err != nil {
		h.fail(c, err)
		return
	}
	writeAudit(c, h.audit, "gallery_item_created", "gallery_item", item.ID, map[string]any{"image": item.ImageURL})
	c.JSON(http.StatusCreated, gin.H{"id": item.ID, "image_url": item.ImageURL, "webp_url": item.WebPURL})
}

func (h *GalleryHandler) Update(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var req GalleryRequest
	if !bindJSON(c, &req) {
		return
	}

	var item models.GalleryItem
	if err := h.db.WithContext(c.Request.Context()).First(&item, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	if err := h.apply(c, &item, &req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Save(&item).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *GalleryHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if err := h.db.WithContext(c.Request.Context()).Delete(&models.GalleryItem{}, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	writeAudit(c, h.audit, "gallery_item_deleted", "gallery_item", id, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *GalleryHandler) Public(c *gin.Context) {
	items := make([]models.GalleryItem, 0)
	q := publicScope(c, h.db.WithContext(c.Request.Context()).Model(&models.GalleryItem{}))
	if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *GalleryHandler) apply(c *gin.Context, g *models.GalleryItem, req *GalleryRequest) error {
	setString(&g.Title, req.Title)
	setString(&g.ImageURL, req.ImageURL)
	setString(&g.WebPURL, req.WebPURL)
	setString(&g.Alt, req.Alt)
	setString(&g.Description, req.Description)

	s := req.merge(g.Scope())
	if err := checkScope(h.db.WithContext(c.Request.Context()), s); err != nil {
		return err
	}
	g.Global, g.ServicesGlobal, g.FormationsGlobal = s.Global, s.ServicesGlobal, s.FormationsGlobal
	g.ServiceID, g.FormationID = s.ServiceID, s.FormationID
	return nil
}

// ======================================================
// RAW UPLOADS
// ======================================================

type UploadHandler struct {
	responder
	uploads *upload.Service
}

func NewUploadHandler(uploads *upload.Service, r responder) *UploadHandler {
	return &UploadHandler{responder: r, uploads: uploads}
}

// Create stores an image and answers with its public URL.
func (h *UploadHandler) Create(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		httperr.Business(c, httperr.ErrBusiness("missing_file"))
		return
	}
	file, err := h.uploads.Save(c.Request.Context(), fh, c.PostForm("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, file)
}
