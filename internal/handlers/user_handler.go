package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/audit"
	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/middleware"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/pagination"
	"github.com/neillmakeup/studio-api/internal/validators"
)

type UserHandler struct {
	responder
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, a *audit.Dispatcher, r responder) *UserHandler {
	return &UserHandler{responder: r, db: db, audit: a}
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"omitempty,oneof=admin client"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin client"`
}

func (h *UserHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c, pagination.Options{
		Sortable: map[string]string{
			"id":         "id",
			"name":       "name",
			"email":      "email",
			"role":       "role",
			"created_at": "created_at",
		},
		Searchable: []string{"name", "email", "phone"},
	})
	q := h.db.WithContext(c.Request.Context()).Model(&models.User{})
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		q = q.Where("role = ?", role)
	}

	res, err := pagination.Run[models.User](q, p)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	email := validators.NormalizeEmail(req.Email)
	if email == "" {
		httperr.Business(c, httperr.ErrBusiness("invalid_email"))
		return
	}
	role := req.Role
	if role == "" {
		role = models.RoleClient
	}

	user, err := createUser(h.db.WithContext(c.Request.Context()), strings.TrimSpace(req.Name), email, req.Password, req.Phone, role)
	if err != nil {
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "user_created", "user", user.ID, map[string]any{"role": role})
	c.JSON(http.StatusCreated, gin.H{"id": user.ID})
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	db := h.db.WithContext(c.Request.Context())
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		h.fail(c, err)
		return
	}

	if req.Name != nil && trimmed(req.Name) != "" {
		user.Name = trimmed(req.Name)
	}
	setString(&user.Phone, req.Phone)
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Email != nil {
		email := validators.NormalizeEmail(*req.Email)
		if email == "" {
			httperr.Business(c, httperr.ErrBusiness("invalid_email"))
			return
		}
		var count int64
		if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, user.ID).Count(&count).Error; err != nil {
			h.fail(c, err)
			return
		}
		if count > 0 {
			httperr.Business(c, httperr.ErrBusiness("email_already_exists"))
			return
		}
		user.Email = email
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.fail(c, err)
			return
		}
		user.PasswordHash = string(hashed)
	}

	if err := db.Save(&user).Error; err != nil {
		if isUniqueViolation(err) {
			httperr.Business(c, httperr.ErrBusiness("email_already_exists"))
			return
		}
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "user_updated", "user", user.ID, nil)
	c.JSON(http.StatusOK, user)
}

// Delete removes the account with its reservations and invoices. An admin
// cannot delete the account it is signed in with.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	if id == middleware.ActorID(c) {
		httperr.Business(c, httperr.ErrBusiness("cannot_delete_self"))
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Invoice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	writeAudit(c, h.audit, "user_deleted", "user", id, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
