package rest

import (
	"net/http"

	"github.com/Justin21523/procedural-3d-maze/game/ai"
	"github.com/Justin21523/procedural-3d-maze/game/world"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SimHandler serves read-only views of the running simulation.
type SimHandler struct {
	sim    *world.Sim
	pub    *world.CachePublisher
	logger *zap.Logger
}

// NewSimHandler creates a SimHandler.
func NewSimHandler(sim *world.Sim, pub *world.CachePublisher, logger *zap.Logger) *SimHandler {
	return &SimHandler{sim: sim, pub: pub, logger: logger}
}

// Health reports liveness.
// GET /api/health
func (h *SimHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sim_id": h.sim.ID, "frame": h.sim.FrameCount()})
}

// SimInfo is the summary returned by GET /api/sim.
type SimInfo struct {
	ID        string  `json:"id"`
	Seed      int64   `json:"seed"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Rooms     int     `json:"rooms"`
	TickMs    int64   `json:"tick_ms"`
	Frame     int64   `json:"frame"`
	SimTimeMs int64   `json:"sim_time_ms"`
	Player    ai.Cell `json:"player"`
	Monsters  int     `json:"monsters"`
}

// Info summarises the sim.
// GET /api/sim
func (h *SimHandler) Info(c *gin.Context) {
	g := h.sim.Grid()
	f := h.sim.Frame()
	c.JSON(http.StatusOK, SimInfo{
		ID:        h.sim.ID,
		Seed:      h.sim.Seed(),
		Width:     g.Width,
		Height:    g.Height,
		Rooms:     len(g.Rooms()),
		TickMs:    h.sim.TickInterval().Milliseconds(),
		Frame:     f.Frame,
		SimTimeMs: f.SimTimeMs,
		Player:    f.Player,
		Monsters:  len(f.Monsters),
	})
}

type roomView struct {
	ai.Rect
	Type string `json:"type"`
}

// Map returns the maze as '#'/'.' rows plus the room list.
// GET /api/sim/map
func (h *SimHandler) Map(c *gin.Context) {
	g := h.sim.Grid()
	rects := g.Rooms()
	rooms := make([]roomView, len(rects))
	for i, r := range rects {
		rooms[i] = roomView{Rect: r, Type: g.RoomType(r.Center()).String()}
	}
	c.JSON(http.StatusOK, gin.H{"width": g.Width, "height": g.Height, "rows": g.Rows(), "rooms": rooms})
}

// Monsters lists every monster with its brain snapshot.
// GET /api/monsters
func (h *SimHandler) Monsters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"monsters": h.sim.Monsters()})
}

// Monster returns one monster.
// GET /api/monsters/:id
func (h *SimHandler) Monster(c *gin.Context) {
	m, err := h.sim.Monster(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Frame returns the last frame published to the cache.
// GET /api/frame
func (h *SimHandler) Frame(c *gin.Context) {
	f, err := h.pub.LatestFrame(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// Feed returns recent special actions, newest first.
// GET /api/feed?limit=50
func (h *SimHandler) Feed(c *gin.Context) {
	items, err := h.pub.Feed(c.Request.Context(), queryLimit(c, 50, 500))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
