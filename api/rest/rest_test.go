package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Justin21523/procedural-3d-maze/game/ai"
	"github.com/Justin21523/procedural-3d-maze/game/world"
	"github.com/Justin21523/procedural-3d-maze/journal"
	mw "github.com/Justin21523/procedural-3d-maze/middleware"
	"github.com/Justin21523/procedural-3d-maze/model"
	"github.com/Justin21523/procedural-3d-maze/scheduler"
	"github.com/Justin21523/procedural-3d-maze/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func init() { gin.SetMode(gin.TestMode) }

const testKey = "secret"

type staticJobs []scheduler.TaskInfo

func (j staticJobs) Tasks() []scheduler.TaskInfo { return j }

type fixture struct {
	eng *gin.Engine
	sim *world.Sim
	pub *world.CachePublisher
	db  *gorm.DB
	mon *world.Monster
}

func setup(t *testing.T) *fixture {
	t.Helper()
	g, err := world.ParseGrid([]string{
		"#########",
		"#.......#",
		"#.......#",
		"#...#...#",
		"#.......#",
		"#########",
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	db := testutil.SetupTestDB(t)
	store, ps := testutil.SetupTestCache(t)
	pub := world.NewCachePublisher(store, ps, "sim-test", 10, 0)
	sim := world.NewSim(g, world.NewPlayer(ai.Cell{X: 7, Y: 4}, 1),
		world.SimConfig{ID: "sim-test", Seed: 7}, nil, pub, zap.NewNop())
	mon := sim.Spawn(ai.TypeAutopilotWanderer, "walker", ai.Cell{X: 1, Y: 1}, ai.Overrides{})

	eng := gin.New()
	eng.Use(mw.TraceID())
	Register(eng.Group("/api"), Deps{
		Sim:       sim,
		Publisher: pub,
		DB:        db,
		Jobs:      staticJobs{{Name: "prune_events", Runs: 2}},
		AdminKey:  testKey,
	})
	return &fixture{eng: eng, sim: sim, pub: pub, db: db, mon: mon}
}

func (f *fixture) do(method, path string, body interface{}, admin bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set(mw.AdminKeyHeader, testKey)
	}
	w := httptest.NewRecorder()
	f.eng.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealthAndInfo(t *testing.T) {
	f := setup(t)
	f.sim.Step(context.Background(), f.sim.TickInterval())

	w := f.do(http.MethodGet, "/api/health", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]interface{}
	decode(t, w, &health)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "sim-test", health["sim_id"])

	w = f.do(http.MethodGet, "/api/sim", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var info SimInfo
	decode(t, w, &info)
	assert.Equal(t, int64(7), info.Seed)
	assert.Equal(t, 9, info.Width)
	assert.Equal(t, 6, info.Height)
	assert.Equal(t, int64(1), info.Frame)
	assert.Equal(t, 1, info.Monsters)
	assert.Equal(t, ai.Cell{X: 7, Y: 4}, info.Player)
}

func TestMap(t *testing.T) {
	f := setup(t)
	w := f.do(http.MethodGet, "/api/sim/map", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var m struct {
		Rows []string `json:"rows"`
	}
	decode(t, w, &m)
	require.Len(t, m.Rows, 6)
	assert.Equal(t, "#...#...#", m.Rows[3])
}

func TestMonsters(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/api/monsters", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Monsters []world.MonsterView `json:"monsters"`
	}
	decode(t, w, &list)
	require.Len(t, list.Monsters, 1)
	assert.Equal(t, "walker", list.Monsters[0].Name)
	assert.Equal(t, ai.TypeAutopilotWanderer, list.Monsters[0].Brain.Type)

	w = f.do(http.MethodGet, "/api/monsters/"+f.mon.ID, nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/monsters/nope", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFrameAndFeed(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/api/frame", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code, "nothing published yet")

	f.sim.Step(context.Background(), f.sim.TickInterval())
	w = f.do(http.MethodGet, "/api/frame", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var frame world.Frame
	decode(t, w, &frame)
	assert.Equal(t, int64(1), frame.Frame)

	ctx := context.Background()
	require.NoError(t, f.pub.PushFeed(ctx, world.FeedItem{Frame: 1, Action: ai.ActionTeleport}))
	require.NoError(t, f.pub.PushFeed(ctx, world.FeedItem{Frame: 2, Action: ai.ActionRespawn}))
	w = f.do(http.MethodGet, "/api/feed?limit=1", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var feed struct {
		Items []world.FeedItem `json:"items"`
	}
	decode(t, w, &feed)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, ai.ActionRespawn, feed.Items[0].Action)
}

func TestEvents(t *testing.T) {
	f := setup(t)
	empty := datatypes.JSON("{}")
	require.NoError(t, f.db.Create(&[]model.BrainEvent{
		{SimID: "sim-test", MonsterID: "m1", Event: journal.EventSpawn, Detail: empty},
		{SimID: "sim-test", MonsterID: "m1", Event: journal.EventTeleport, Detail: empty},
		{SimID: "other", MonsterID: "m2", Event: journal.EventTeleport, Detail: empty},
	}).Error)

	w := f.do(http.MethodGet, "/api/events?event=teleport", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Events []model.BrainEvent `json:"events"`
	}
	decode(t, w, &out)
	require.Len(t, out.Events, 1, "scoped to this sim")
	assert.Equal(t, "m1", out.Events[0].MonsterID)
}

func TestAdmin_RequiresKey(t *testing.T) {
	f := setup(t)
	w := f.do(http.MethodPost, "/api/monsters/"+f.mon.ID+"/kill", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, f.mon.IsDead())
}

func TestAdmin_SetEnabledAndKill(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/api/monsters/"+f.mon.ID+"/enabled", gin.H{"enabled": false}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.mon.Brain.Enabled())

	w = f.do(http.MethodPost, "/api/monsters/"+f.mon.ID+"/enabled", gin.H{}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code, "enabled is required")

	w = f.do(http.MethodPost, "/api/monsters/"+f.mon.ID+"/kill", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.mon.IsDead())

	w = f.do(http.MethodPost, "/api/monsters/ghost/kill", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_MovePlayer(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPut, "/api/player", gin.H{"x": 2, "y": 2}, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ai.Cell{X: 2, Y: 2}, f.sim.Player().GridPosition())

	w = f.do(http.MethodPut, "/api/player", gin.H{"x": 4, "y": 3}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code, "wall")

	w = f.do(http.MethodPut, "/api/player", gin.H{"x": 0, "y": 1}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code, "border wall")

	w = f.do(http.MethodPut, "/api/player", gin.H{"x": 3}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code, "y missing")
	assert.Equal(t, ai.Cell{X: 2, Y: 2}, f.sim.Player().GridPosition())
}

func TestAdmin_Jobs(t *testing.T) {
	f := setup(t)
	w := f.do(http.MethodGet, "/api/admin/jobs", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Jobs []scheduler.TaskInfo `json:"jobs"`
	}
	decode(t, w, &out)
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, "prune_events", out.Jobs[0].Name)
	assert.Equal(t, int64(2), out.Jobs[0].Runs)
}
