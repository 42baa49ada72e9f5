package testutil

import (
	"testing"

	"github.com/Justin21523/procedural-3d-maze/cache"
	"github.com/Justin21523/procedural-3d-maze/config"
	dbadapter "github.com/Justin21523/procedural-3d-maze/db"
	"github.com/Justin21523/procedural-3d-maze/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SetupTestDB creates an in-memory sqlite DB and runs AutoMigrate.
// Every call gets its own database, so it is safe in parallel tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbadapter.Open(config.DatabaseConfig{
		Mode: dbadapter.ModeMemory,
	})
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SetupTestCache creates an in-process Store and PubSub (no Redis required).
func SetupTestCache(t *testing.T) (cache.Store, cache.PubSub) {
	t.Helper()
	store, ps, err := cache.New(config.CacheConfig{}) // empty RedisAddr → local
	require.NoError(t, err, "SetupTestCache: New")
	t.Cleanup(func() { _ = store.Close() })
	return store, ps
}
