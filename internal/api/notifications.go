package api

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
)

// handleNotifications streams transient notifications to the UI over SSE.
// The stream ends when the client disconnects.
func (s *Server) handleNotifications(c *gin.Context) {
	ch, cancel := s.hub.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case n, ok := <-ch:
			if !ok {
				return false
			}
			payload, err := json.Marshal(n)
			if err != nil {
				return true
			}
			c.SSEvent("notification", string(payload))
			return true
		}
	})
}
