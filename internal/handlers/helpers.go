package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	dbpkg "github.com/neillmakeup/studio-api/internal/db"
	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/logger"
	"github.com/neillmakeup/studio-api/internal/metrics"
)

// ======================================================
// REQUEST HELPERS
// ======================================================

// queryID reads the mandatory ?id= of single-record endpoints.
func queryID(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Query("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if raw == "" || err != nil || id == 0 {
		httperr.BadRequest(c, "missing_id", httperr.MessageFor("missing_id"))
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.BadRequest(c, "invalid_request", httperr.MessageFor("invalid_request"))
		return false
	}
	return true
}

// queryUint returns nil when the parameter is absent or not a number.
func queryUint(c *gin.Context, key string) *uint {
	v, err := strconv.ParseUint(strings.TrimSpace(c.Query(key)), 10, 64)
	if err != nil || v == 0 {
		return nil
	}
	u := uint(v)
	return &u
}

func queryBool(c *gin.Context, key string) *bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "true", "1":
		b := true
		return &b
	case "false", "0":
		b := false
		return &b
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return dbpkg.IsUniqueViolation(err)
}

func dbNotFound(err error) bool {
	return dbpkg.IsNotFound(err)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// ======================================================
// ERROR MAPPING
// ======================================================

type responder struct {
	log     *logger.Logger
	metrics *metrics.HTTP
}

// NewResponder is shared by every handler of a router. Both arguments may
// be nil.
func NewResponder(log *logger.Logger, m *metrics.HTTP) responder {
	return responder{log: log, metrics: m}
}

// fail writes a business error with its catalogue status, a missing row as
// 404 and anything else as 500.
func (r responder) fail(c *gin.Context, err error) {
	code, business := httperr.CodeOf(err)
	switch {
	case business:
		if httperr.IsConflict(code) {
			r.metrics.IncConflict(code)
		}
		httperr.Business(c, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		httperr.NotFound(c, "not_found", httperr.MessageFor("not_found"))
	case dbpkg.IsUniqueViolation(err):
		httperr.Conflict(c, "already_exists", "Cet enregistrement existe déjà.")
	default:
		r.logger().Error(c.Request.Context(), "request failed", err)
		httperr.Internal(c, "internal_error", "Erreur interne.")
	}
}

func (r responder) logger() *logger.Logger {
	if r.log == nil {
		return logger.Nop()
	}
	return r.log
}
