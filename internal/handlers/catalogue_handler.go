package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/audit"
	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/pagination"
	"github.com/neillmakeup/studio-api/internal/validators"
)

// ======================================================
// REQUESTS
// ======================================================

// catalogueRequest is shared by services (name) and formations (title).
// Nil fields are left untouched on PATCH.
type catalogueRequest struct {
	Name            *string          `json:"name"`
	Title           *string          `json:"title"`
	Description     *string          `json:"description"`
	Content         *string          `json:"content"`
	Notes           *string          `json:"notes"`
	Price           *decimal.Decimal `json:"price"`
	Image           *string          `json:"image"`
	ImageAlt        *string          `json:"image_alt"`
	Icon            *string          `json:"icon"`
	Category        *string          `json:"category"`
	Tags            []any            `json:"tags"`
	Steps           []any            `json:"steps"`
	DurationLabel   *string          `json:"duration_label"`
	DurationMinutes *int             `json:"duration_minutes"`
	Certification   *string          `json:"certification"`
	Slug            *string          `json:"slug"`
	IsActive        *bool            `json:"is_active"`
	IsFeatured      *bool            `json:"is_featured"`
}

// stringList keeps the non-empty string entries of a JSON array.
func stringList(in []any) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// resolveSlug derives the slug from the label when none is given.
func resolveSlug(requested *string, label string) (string, error) {
	slug := validators.Slugify(trimmed(requested))
	if slug == "" {
		slug = validators.Slugify(label)
	}
	if slug == "" {
		return "", httperr.ErrBusiness("invalid_slug")
	}
	return slug, nil
}

func slugTaken(db *gorm.DB, model any, slug string, exceptID uint) (bool, error) {
	var count int64
	err := db.Model(model).Where("slug = ? AND id <> ?", slug, exceptID).Count(&count).Error
	return count > 0, err
}

var serviceSortable = map[string]string{
	"id":               "id",
	"name":             "name",
	"price":            "price",
	"duration_minutes": "duration_minutes",
	"created_at":       "created_at",
}

var formationSortable = map[string]string{
	"id":               "id",
	"title":            "title",
	"price":            "price",
	"duration_minutes": "duration_minutes",
	"created_at":       "created_at",
}

func catalogueFilters(c *gin.Context, q *gorm.DB) *gorm.DB {
	if cat := strings.ToLower(strings.TrimSpace(c.Query("category"))); cat != "" {
		q = q.Where("LOWER(category) = ?", cat)
	}
	if b := queryBool(c, "active"); b != nil {
		q = q.Where("is_active = ?", *b)
	}
	if b := queryBool(c, "featured"); b != nil {
		q = q.Where("is_featured = ?", *b)
	}
	return q
}

// ======================================================
// SERVICES
// ======================================================

type ServiceHandler struct {
	responder
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, a *audit.Dispatcher, r responder) *ServiceHandler {
	return &ServiceHandler{responder: r, db: db, audit: a}
}

func (h *ServiceHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c, pagination.Options{
		Sortable:   serviceSortable,
		Searchable: []string{"name", "description", "category"},
	})
	q := catalogueFilters(c, h.db.WithContext(c.Request.Context()).Model(&models.Service{}))

	res, err := pagination.Run[models.Service](q, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var svc models.Service
	if err := h.db.WithContext(c.Request.Context()).First(&svc, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req catalogueRequest
	if !bindJSON(c, &req) {
		return
	}
	if trimmed(req.Name) == "" {
		httperr.Business(c, httperr.ErrBusiness("missing_name"))
		return
	}

	svc := models.Service{IsActive: true, Price: decimal.Zero}
	if err := h.apply(&svc, &req); err != nil {
		h.fail(c, err)
		return
	}
	slug, err := resolveSlug(req.Slug, svc.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	svc.Slug = slug

	if err := h.save(c, &svc, true); err != nil {
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "service_created", "service", svc.ID, map[string]any{"slug": svc.Slug})
	c.JSON(http.StatusCreated, gin.H{"id": svc.ID, "slug": svc.Slug})
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var req catalogueRequest
	if !bindJSON(c, &req) {
		return
	}

	var svc models.Service
	if err := h.db.WithContext(c.Request.Context()).First(&svc, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	if err := h.apply(&svc, &req); err != nil {
		h.fail(c, err)
		return
	}
	if req.Slug != nil {
		slug, err := resolveSlug(req.Slug, svc.Name)
		if err != nil {
			h.fail(c, err)
			return
		}
		svc.Slug = slug
	}

	if err := h.save(c, &svc, false); err != nil {
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "service_updated", "service", svc.ID, nil)
	c.JSON(http.StatusOK, svc)
}

// Delete removes the service and everything attached to it.
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		reservations := tx.Model(&models.Reservation{}).Select("id").Where("service_id = ?", id)
		if err := tx.Where("reservation_id IN (?)", reservations).Delete(&models.Invoice{}).Error; err != nil {
			return err
		}
		for _, m := range []any{&models.Reservation{}, &models.Review{}, &models.GalleryItem{}, &models.FAQ{}} {
			if err := tx.Where("service_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Service{}, id).Error
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "service_deleted", "service", id, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ServiceHandler) apply(svc *models.Service, req *catalogueRequest) error {
	setString(&svc.Name, req.Name)
	setString(&svc.Description, req.Description)
	setString(&svc.Content, req.Content)
	setString(&svc.Notes, req.Notes)
	setString(&svc.Image, req.Image)
	setString(&svc.ImageAlt, req.ImageAlt)
	setString(&svc.Icon, req.Icon)
	setString(&svc.Category, req.Category)
	setString(&svc.DurationLabel, req.DurationLabel)
	if req.Price != nil {
		if req.Price.IsNegative() {
			return httperr.ErrBusiness("invalid_price")
		}
		svc.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Tags != nil {
		svc.Tags = stringList(req.Tags)
	}
	if req.Steps != nil {
		svc.Steps = stringList(req.Steps)
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		svc.IsFeatured = *req.IsFeatured
	}
	if svc.Name == "" {
		return httperr.ErrBusiness("missing_name")
	}
	return nil
}

func (h *ServiceHandler) save(c *gin.Context, svc *models.Service, create bool) error {
	db := h.db.WithContext(c.Request.Context())
	taken, err := slugTaken(db, &models.Service{}, svc.Slug, svc.ID)
	if err != nil {
		return err
	}
	if taken {
		return httperr.ErrBusiness("slug_already_exists")
	}

	if create {
		err = db.Create(svc).Error
	} else {
		err = db.Save(svc).Error
	}
	if err != nil && isUniqueViolation(err) {
		return httperr.ErrBusiness("slug_already_exists")
	}
	return err
}

// ======================================================
// FORMATIONS
// ======================================================

type FormationHandler struct {
	responder
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewFormationHandler(db *gorm.DB, a *audit.Dispatcher, r responder) *FormationHandler {
	return &FormationHandler{responder: r, db: db, audit: a}
}

func (h *FormationHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c, pagination.Options{
		Sortable:   formationSortable,
		Searchable: []string{"title", "description", "category"},
	})
	q := catalogueFilters(c, h.db.WithContext(c.Request.Context()).Model(&models.Formation{}))

	res, err := pagination.Run[models.Formation](q, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *FormationHandler) Get(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var f models.Formation
	if err := h.db.WithContext(c.Request.Context()).First(&f, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *FormationHandler) Create(c *gin.Context) {
	var req catalogueRequest
	if !bindJSON(c, &req) {
		return
	}
	if trimmed(req.Title) == "" {
		httperr.Business(c, httperr.ErrBusiness("missing_title"))
		return
	}

	f := models.Formation{IsActive: true, Price: decimal.Zero}
	if err := h.apply(&f, &req); err != nil {
		h.fail(c, err)
		return
	}
	slug, err := resolveSlug(req.Slug, f.Title)
	if err != nil {
		h.fail(c, err)
		return
	}
	f.Slug = slug

	if err := h.save(c, &f, true); err != nil {
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "formation_created", "formation", f.ID, map[string]any{"slug": f.Slug})
	c.JSON(http.StatusCreated, gin.H{"id": f.ID, "slug": f.Slug})
}

func (h *FormationHandler) Update(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var req catalogueRequest
	if !bindJSON(c, &req) {
		return
	}

	var f models.Formation
	if err := h.db.WithContext(c.Request.Context()).First(&f, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	if err := h.apply(&f, &req); err != nil {
		h.fail(c, err)
		return
	}
	if req.Slug != nil {
		slug, err := resolveSlug(req.Slug, f.Title)
		if err != nil {
			h.fail(c, err)
			return
		}
		f.Slug = slug
	}

	if err := h.save(c, &f, false); err != nil {
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "formation_updated", "formation", f.ID, nil)
	c.JSON(http.StatusOK, f)
}

func (h *FormationHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.Review{}, &models.GalleryItem{}, &models.FAQ{}} {
			if err := tx.Where("formation_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Formation{}, id).Error
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "formation_deleted", "formation", id, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *FormationHandler) apply(f *models.Formation, req *catalogueRequest) error {
	setString(&f.Title, req.Title)
	setString(&f.Description, req.Description)
	setString(&f.Content, req.Content)
	setString(&f.Notes, req.Notes)
	setString(&f.Image, req.Image)
	setString(&f.ImageAlt, req.ImageAlt)
	setString(&f.Icon, req.Icon)
	setString(&f.Category, req.Category)
	setString(&f.DurationLabel, req.DurationLabel)
	setString(&f.Certification, req.Certification)
	if req.Price != nil {
		if req.Price.IsNegative() {
			return httperr.ErrBusiness("invalid_price")
		}
		f.Price = *req.Price
	}
	if req.DurationMinutes != nil {
		f.DurationMinutes = *req.DurationMinutes
	}
	if req.Tags != nil {
		f.Tags = stringList(req.Tags)
	}
	if req.Steps != nil {
		f.Steps = stringList(req.Steps)
	}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		f.IsFeatured = *req.IsFeatured
	}
	if f.Title == "" {
		return httperr.ErrBusiness("missing_title")
	}
	return nil
}

func (h *FormationHandler) save(c *gin.Context, f *models.Formation, create bool) error {
	db := h.db.WithContext(c.Request.Context())
	taken, err := slugTaken(db, &models.Formation{}, f.Slug, f.ID)
	if err != nil {
		return err
	}
	if taken {
		return httperr.ErrBusiness("slug_already_exists")
	}

	if create {
		err = db.Create(f).Error
	} else {
		err = db.Save(f).Error
	}
	if err != nil && isUniqueViolation(err) {
		return httperr.ErrBusiness("slug_already_exists")
	}
	return err
}
