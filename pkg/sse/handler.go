package sse

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// KeepAliveInterval is how often an idle stream receives a comment line
var KeepAliveInterval = 25 * time.Second

// Handler streams one topic of a hub as Server-Sent Events
func Handler(h *Hub, topic string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h == nil {
			c.String(http.StatusInternalServerError, "sse hub not initialized")
			return
		}

		flusher, ok := c.Writer.(http.Flusher)
		if !ok {
			c.String(http.StatusInternalServerError, "streaming unsupported")
			return
		}

		ctx := c.Request.Context()
		msgCh := make(chan []byte, clientBuffer)
		if !h.Subscribe(ctx, msgCh, topic) {
			return
		}
		defer func() {
			unsubCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			h.Unsubscribe(unsubCtx, msgCh, topic)
		}()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")
		c.Status(http.StatusOK)

		fmt.Fprintf(c.Writer, ": connected\n\n")
		flusher.Flush()

		ticker := time.NewTicker(KeepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fmt.Fprintf(c.Writer, ": ping\n\n")
				flusher.Flush()
			case msg := <-msgCh:
				fmt.Fprintf(c.Writer, "data: %s\n\n", msg)
				flusher.Flush()
			}
		}
	}
}
