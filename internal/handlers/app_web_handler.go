package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/neillmakeup/studio-api/internal/middleware"
	"github.com/neillmakeup/studio-api/internal/web"
)

// AppWebHandler renders the admin shell. Data is loaded client side from
// /api/admin.
type AppWebHandler struct{}

func NewAppWebHandler() *AppWebHandler {
	return &AppWebHandler{}
}

func (h *AppWebHandler) LoginPage(c *gin.Context) {
	if u := middleware.CurrentUser(c); u != nil && u.IsAdmin() {
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	next := c.Query("next")
	if !strings.HasPrefix(next, "/admin") {
		next = "/admin"
	}
	c.HTML(http.StatusOK, "base", gin.H{
		"Page":  "login",
		"Title": "Connexion",
		"Next":  next,
	})
}

func (h *AppWebHandler) Dashboard(c *gin.Context) {
	h.render(c, "dashboard", "Tableau de bord")
}

func (h *AppWebHandler) Section(c *gin.Context) {
	section := c.Param("section")
	if !web.IsSection(section) {
		c.String(http.StatusNotFound, "Page introuvable.")
		return
	}
	h.render(c, section, strings.ToUpper(section[:1])+section[1:])
}

func (h *AppWebHandler) render(c *gin.Context, page, title string) {
	c.HTML(http.StatusOK, "base", gin.H{
		"Page":     page,
		"Title":    title,
		"User":     middleware.CurrentUser(c),
		"Sections": web.Sections,
	})
}
