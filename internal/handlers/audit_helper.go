package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/neillmakeup/studio-api/internal/audit"
	"github.com/neillmakeup/studio-api/internal/middleware"
)

// writeAudit queues an admin action for the audit trail.
func writeAudit(
	c *gin.Context,
	d *audit.Dispatcher,
	action string,
	entity string,
	entityID uint,
	meta any,
) {
	ev := audit.Event{
		Action:   action,
		Entity:   entity,
		Metadata: meta,
	}
	if uid := middleware.ActorID(c); uid != 0 {
		ev.UserID = &uid
	}
	if entityID != 0 {
		ev.EntityID = &entityID
	}
	d.Dispatch(ev)
}
