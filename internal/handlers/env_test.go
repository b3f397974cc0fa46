package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/config"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/payments"
	"github.com/neillmakeup/studio-api/internal/routes"
	"github.com/neillmakeup/studio-api/internal/session"
	"github.com/neillmakeup/studio-api/internal/storage"
	"github.com/neillmakeup/studio-api/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ======================================================
// FAKES
// ======================================================

type fakeGateway struct {
	checkouts []payments.CheckoutRequest
	payment   payments.Payment
}

func (f *fakeGateway) CreateCheckout(_ context.Context, req payments.CheckoutRequest) (*payments.Checkout, error) {
	f.checkouts = append(f.checkouts, req)
	return &payments.Checkout{PreferenceID: "pref-1", URL: "https://pay.example/checkout/pref-1"}, nil
}

func (f *fakeGateway) GetPayment(_ context.Context, id int) (*payments.Payment, error) {
	p := f.payment
	p.ID = id
	return &p, nil
}

type recorder struct {
	mu    sync.Mutex
	texts []string
}

func (r *recorder) Notify(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.texts)
}

// ======================================================
// ENV
// ======================================================

type env struct {
	t        *testing.T
	db       *gorm.DB
	router   *gin.Engine
	sessions *session.Manager
	gateway  *fakeGateway
	notes    *recorder
	uploads  string

	admin      *models.User
	adminToken string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	gdb := testutil.NewDB(t)
	dir := t.TempDir()

	cfg := &config.Config{
		App: config.AppConfig{Timezone: "Europe/Paris", CORSOrigin: "*"},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			SessionTTL: time.Hour,
			CookieName: "auth",
		},
		Booking: config.BookingConfig{DayStart: "09:00", DayEnd: "19:00", SlotStep: 30 * time.Minute},
		Uploads: config.UploadsConfig{
			Backend:      "local",
			Dir:          dir,
			PublicPrefix: "/assets",
			MaxBytes:     5 << 20,
		},
		Payments: config.PaymentsConfig{Currency: "EUR"},
	}

	e := &env{
		t:        t,
		db:       gdb,
		sessions: session.NewManager(session.NewMemoryStore(), cfg.Auth.JWTSecret, cfg.Auth.SessionTTL),
		gateway:  &fakeGateway{},
		notes:    &recorder{},
		uploads:  dir,
	}

	router, err := routes.New(routes.Deps{
		DB:       gdb,
		Config:   cfg,
		Sessions: e.sessions,
		Notifier: e.notes,
		Store:    storage.NewLocal(dir, "/assets"),
		Payments: e.gateway,
	})
	require.NoError(t, err)
	e.router = router

	e.admin = testutil.CreateUser(t, gdb, "admin@studio.fr", models.RoleAdmin)
	e.adminToken = e.tokenFor(e.admin)
	return e
}

func (e *env) tokenFor(u *models.User) string {
	e.t.Helper()
	token, _, err := e.sessions.Issue(context.Background(), u)
	require.NoError(e.t, err)
	return token
}

// do sends body as JSON. An empty token makes an anonymous call.
func (e *env) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(req, token)
}

func (e *env) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "auth", Value: token})
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) asAdmin(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	return e.do(method, path, body, e.adminToken)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
