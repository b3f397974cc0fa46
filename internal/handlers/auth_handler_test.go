package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/testutil"
)

func TestLoginOpensAdminPages(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/admin", nil, "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = e.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "admin@studio.fr", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "Admin@Studio.fr", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	w = e.do(http.MethodGet, "/admin/calendar", nil, cookie.Value)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-section="calendar"`)
	assert.Contains(t, w.Body.String(), `src="/static/admin.js"`)

	w = e.do(http.MethodGet, "/admin/nope", nil, cookie.Value)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodGet, "/login", nil, cookie.Value)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAdminScriptIsServed(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/static/admin.js", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "javascript")

	body := w.Body.String()
	assert.Contains(t, body, "/reservations/reschedule?id=")
	assert.Contains(t, body, "data.previous")
	assert.Contains(t, body, "eventDrop")
}

func TestLogoutRevokesSession(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/api/auth/logout", nil, e.adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/api/admin/dashboard", nil, e.adminToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	body := map[string]any{"name": "Sophie", "email": "sophie@example.fr", "password": "secret123"}

	w := e.do(http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var u models.User
	require.NoError(t, e.db.Where("email = ?", "sophie@example.fr").First(&u).Error)
	assert.Equal(t, models.RoleClient, u.Role)

	w = e.do(http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_already_exists", decode(t, w)["error_code"])
}

func TestAdminUserCreateAndSelfDelete(t *testing.T) {
	e := newEnv(t)
	body := map[string]any{"name": "Léa", "email": "lea@example.fr", "password": "secret123", "role": "client"}

	w := e.asAdmin(http.MethodPost, "/api/admin/users", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.asAdmin(http.MethodPost, "/api/admin/users", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email_already_exists", decode(t, w)["error_code"])

	w = e.asAdmin(http.MethodPost, "/api/admin/users", map[string]any{"name": "X", "email": "x@example.fr", "password": "secret123", "role": "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.asAdmin(http.MethodDelete, fmt.Sprintf("/api/admin/users?id=%d", e.admin.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cannot_delete_self", decode(t, w)["error_code"])

	testutil.CreateUser(t, e.db, "sophie@example.fr", models.RoleClient)
	w = e.asAdmin(http.MethodGet, "/api/admin/users?role=client", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["total"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestHealth(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}
