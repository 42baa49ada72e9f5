package rest

import (
	"net/http"

	"github.com/Justin21523/procedural-3d-maze/journal"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// EventHandler serves the persisted brain journal.
type EventHandler struct {
	db    *gorm.DB
	simID string
}

// NewEventHandler creates an EventHandler scoped to one sim run.
func NewEventHandler(db *gorm.DB, simID string) *EventHandler {
	return &EventHandler{db: db, simID: simID}
}

// List returns journal rows, newest first.
// GET /api/events?monster_id=&event=&limit=50
func (h *EventHandler) List(c *gin.Context) {
	events, err := journal.Recent(c.Request.Context(), h.db, journal.Query{
		SimID:     h.simID,
		MonsterID: c.Query("monster_id"),
		Event:     c.Query("event"),
		Limit:     queryLimit(c, 50, 500),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
