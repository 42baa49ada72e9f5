package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Justin21523/procedural-3d-maze/cache"
	"github.com/Justin21523/procedural-3d-maze/game/world"
	"github.com/gin-gonic/gin"
)

// fail maps domain errors onto status codes and writes {"error": ...}.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, world.ErrUnknownMonster), errors.Is(err, cache.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, world.ErrBlocked):
		status = http.StatusBadRequest
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// queryLimit parses ?limit= within (0, max], falling back to def.
func queryLimit(c *gin.Context, def, max int) int {
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= max {
		return l
	}
	return def
}
