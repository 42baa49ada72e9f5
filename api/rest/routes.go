package rest

import (
	"github.com/Justin21523/procedural-3d-maze/game/world"
	mw "github.com/Justin21523/procedural-3d-maze/middleware"
	"github.com/Justin21523/procedural-3d-maze/scheduler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JobLister reports housekeeping jobs. *scheduler.Scheduler implements it.
type JobLister interface {
	Tasks() []scheduler.TaskInfo
}

// Deps is everything the debug API reads from.
type Deps struct {
	Sim       *world.Sim
	Publisher *world.CachePublisher
	DB        *gorm.DB
	Jobs      JobLister // optional
	AdminKey  string
	Logger    *zap.Logger
}

// Register mounts every debug route on api. Mutating routes sit behind the
// admin key.
func Register(api *gin.RouterGroup, d Deps) {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	simH := NewSimHandler(d.Sim, d.Publisher, d.Logger)
	eventH := NewEventHandler(d.DB, d.Sim.ID)
	adminH := NewAdminHandler(d.Sim, d.Jobs, d.Logger)

	api.GET("/health", simH.Health)
	api.GET("/sim", simH.Info)
	api.GET("/sim/map", simH.Map)
	api.GET("/monsters", simH.Monsters)
	api.GET("/monsters/:id", simH.Monster)
	api.GET("/frame", simH.Frame)
	api.GET("/feed", simH.Feed)
	api.GET("/events", eventH.List)

	admin := api.Group("", mw.AdminKey(d.AdminKey))
	admin.POST("/monsters/:id/enabled", adminH.SetEnabled)
	admin.POST("/monsters/:id/kill", adminH.Kill)
	admin.PUT("/player", adminH.MovePlayer)
	admin.GET("/admin/jobs", adminH.Jobs)
}
