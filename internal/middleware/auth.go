package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/session"
)

const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextSessionID = "sessionID"
	ContextUser      = "user"
)

const LoginPath = "/login"

// Auth resolves the session token from the auth cookie or a Bearer header
// and loads the user. Requests without a valid session continue anonymous.
type Auth struct {
	db         *gorm.DB
	sessions   *session.Manager
	cookieName string
}

func NewAuth(db *gorm.DB, sessions *session.Manager, cookieName string) *Auth {
	return &Auth{db: db, sessions: sessions, cookieName: cookieName}
}

func (a *Auth) token(c *gin.Context) string {
	if cookie, err := c.Cookie(a.cookieName); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Load attaches the user to the context when a valid session is present.
func (a *Auth) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := a.token(c)
		if raw == "" {
			c.Next()
			return
		}

		claims, err := a.sessions.Resolve(c.Request.Context(), raw)
		if err != nil {
			c.Next()
			return
		}

		var user models.User
		if err := a.db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			c.Next()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Set(ContextSessionID, claims.SessionID)
		c.Set(ContextUser, &user)
		c.Next()
	}
}

// RequireUser rejects anonymous API calls with 401.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			httperr.Unauthorized(c, "unauthorized", "Connexion requise.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminAPI answers 401 for anonymous calls and 403 for non-admins.
func RequireAdminAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			httperr.Unauthorized(c, "unauthorized", "Connexion requise.")
			c.Abort()
			return
		}
		if !u.IsAdmin() {
			httperr.Forbidden(c, "forbidden", "Accès réservé à l'administration.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminPage redirects anyone who is not an admin to the login page.
func RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !u.IsAdmin() {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// ActorID is the current user id, 0 when anonymous.
func ActorID(c *gin.Context) uint {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return 0
}
