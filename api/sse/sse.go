package sse

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Justin21523/procedural-3d-maze/cache"
	"github.com/Justin21523/procedural-3d-maze/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const keepaliveInterval = 30 * time.Second

// FrameSource is the subscription side of the frame publisher.
// *world.CachePublisher implements it.
type FrameSource interface {
	Subscribe(ctx context.Context) (<-chan *cache.Message, func(), error)
}

// Handler streams sim frames over server-sent events.
type Handler struct {
	src       FrameSource
	sec       config.SecurityConfig
	keepalive time.Duration
	logger    *zap.Logger
}

// NewHandler creates a new SSE Handler.
func NewHandler(src FrameSource, sec config.SecurityConfig, logger *zap.Logger) *Handler {
	return &Handler{src: src, sec: sec, keepalive: keepaliveInterval, logger: logger}
}

func (h *Handler) originAllowed(origin string) bool {
	if origin == "" || len(h.sec.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range h.sec.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// ServeSSE handles GET /api/stream. Each published frame is sent as an
// "event: frame" with the JSON frame as data.
func (h *Handler) ServeSSE(c *gin.Context) {
	origin := c.GetHeader("Origin")
	if !h.originAllowed(origin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "origin not allowed"})
		return
	}

	subCtx, subCancel := context.WithCancel(c.Request.Context())
	defer subCancel()

	msgCh, unsub, err := h.src.Subscribe(subCtx)
	if err != nil {
		h.logger.Error("sse subscribe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscribe failed"})
		return
	}
	defer unsub()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", origin)
	}
	c.Status(http.StatusOK)

	fmt.Fprintf(c.Writer, "event: connected\ndata: {}\n\n")
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: frame\ndata: %s\n\n", msg.Payload)
			c.Writer.Flush()

		case <-ticker.C:
			fmt.Fprintf(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()

		case <-subCtx.Done():
			return
		}
	}
}
