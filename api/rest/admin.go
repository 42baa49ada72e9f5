package rest

import (
	"net/http"

	"github.com/Justin21523/procedural-3d-maze/game/ai"
	"github.com/Justin21523/procedural-3d-maze/game/world"
	mw "github.com/Justin21523/procedural-3d-maze/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes operator controls over the sim. Mount it behind
// middleware.AdminKey.
type AdminHandler struct {
	sim    *world.Sim
	jobs   JobLister
	logger *zap.Logger
}

// NewAdminHandler creates an AdminHandler. jobs may be nil.
func NewAdminHandler(sim *world.Sim, jobs JobLister, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{sim: sim, jobs: jobs, logger: logger}
}

type enabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetEnabled switches a brain on or off.
// POST /api/monsters/:id/enabled {"enabled": false}
func (h *AdminHandler) SetEnabled(c *gin.Context) {
	var req enabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, `body must be {"enabled": bool}`)
		return
	}
	id := c.Param("id")
	if err := h.sim.SetBrainEnabled(id, *req.Enabled, mw.GetTraceID(c)); err != nil {
		fail(c, err)
		return
	}
	h.logger.Info("admin set brain enabled",
		zap.String("monster", id), zap.Bool("enabled", *req.Enabled),
		zap.String("trace_id", mw.GetTraceID(c)))
	c.JSON(http.StatusOK, gin.H{"id": id, "enabled": *req.Enabled})
}

// Kill marks a monster dead.
// POST /api/monsters/:id/kill
func (h *AdminHandler) Kill(c *gin.Context) {
	id := c.Param("id")
	if err := h.sim.Kill(id, mw.GetTraceID(c)); err != nil {
		fail(c, err)
		return
	}
	h.logger.Info("admin killed monster", zap.String("monster", id), zap.String("trace_id", mw.GetTraceID(c)))
	c.JSON(http.StatusOK, gin.H{"id": id, "dead": true})
}

type playerRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

// MovePlayer teleports the player.
// PUT /api/player {"x": 3, "y": 4}
func (h *AdminHandler) MovePlayer(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, `body must be {"x": int, "y": int}`)
		return
	}
	cell := ai.Cell{X: *req.X, Y: *req.Y}
	if err := h.sim.MovePlayer(cell); err != nil {
		fail(c, err)
		return
	}
	h.logger.Info("admin moved player", zap.Int("x", cell.X), zap.Int("y", cell.Y))
	c.JSON(http.StatusOK, gin.H{"player": cell})
}

// Jobs lists the housekeeping jobs and their last outcome.
// GET /api/admin/jobs
func (h *AdminHandler) Jobs(c *gin.Context) {
	if h.jobs == nil {
		c.JSON(http.StatusOK, gin.H{"jobs": []interface{}{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": h.jobs.Tasks()})
}
