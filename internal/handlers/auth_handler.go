package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/config"
	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/middleware"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/session"
	"github.com/neillmakeup/studio-api/internal/validators"
)

type AuthHandler struct {
	responder
	db       *gorm.DB
	sessions *session.Manager
	cfg      config.AuthConfig
}

func NewAuthHandler(db *gorm.DB, sessions *session.Manager, cfg config.AuthConfig, r responder) *AuthHandler {
	return &AuthHandler{responder: r, db: db, sessions: sessions, cfg: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates a client account and opens its session.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if email == "" {
		httperr.Business(c, httperr.ErrBusiness("invalid_email"))
		return
	}
	if h.cfg.CheckMX && !validators.IsEmailDomainValid(c.Request.Context(), email) {
		httperr.Business(c, httperr.ErrBusiness("invalid_email"))
		return
	}

	user, err := createUser(h.db.WithContext(c.Request.Context()), strings.TrimSpace(req.Name), email, req.Password, req.Phone, models.RoleClient)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.open(c, user)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.Business(c, httperr.ErrBusiness("invalid_credentials"))
			return
		}
		h.fail(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Business(c, httperr.ErrBusiness("invalid_credentials"))
		return
	}

	token, err := h.open(c, &user)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sid := c.GetString(middleware.ContextSessionID); sid != "" {
		if err := h.sessions.Revoke(c.Request.Context(), sid); err != nil {
			h.logger().Error(c.Request.Context(), "revoke session", err)
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}

// --------- Session ---------

func (h *AuthHandler) open(c *gin.Context, user *models.User) (string, error) {
	token, _, err := h.sessions.Issue(c.Request.Context(), user)
	if err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", h.cfg.CookieSecure, true)
	return token, nil
}

// createUser hashes the password and maps a duplicate address to
// email_already_exists.
func createUser(db *gorm.DB, name, email, password, phone, role string) (*models.User, error) {
	if name == "" {
		return nil, httperr.ErrBusiness("missing_name")
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, httperr.ErrBusiness("email_already_exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        strings.TrimSpace(phone),
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, httperr.ErrBusiness("email_already_exists")
		}
		return nil, err
	}
	return user, nil
}
