package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/botifyx/botifyx/internal/chat"
)

// chatRequest is one conversational turn from the UI. Transcript context
// arrives pre-joined, double newlines between turns.
type chatRequest struct {
	Query            string `json:"query" binding:"required"`
	PreviousQuery    string `json:"previousQuery"`
	PreviousResponse string `json:"previousResponse"`
}

type chatResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// handleChat relays a prompt to the chat service, enriched with the current
// session's email and access token. A downstream failure becomes a
// system-level chat message plus an error notification; the HTTP status
// stays 200 so the transcript keeps flowing.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	state := s.controller.State()
	var email string
	if state.User != nil {
		email = state.User.EmailAddress
	}

	message, err := s.chatClient.Send(c.Request.Context(), chat.Request{
		Query:            req.Query,
		EmailAddress:     email,
		AccessToken:      state.AccessToken,
		PreviousQuery:    req.PreviousQuery,
		PreviousResponse: req.PreviousResponse,
	})
	if err != nil {
		chatRelays.WithLabelValues("failure").Inc()
		var remoteErr *chat.RemoteServiceError
		if errors.As(err, &remoteErr) {
			log.Errorf("chat relay failed: %v", remoteErr)
		} else {
			log.Errorf("chat relay failed: %v", err)
		}
		s.hub.Error("Error", "The chat service is unavailable right now")
		c.JSON(http.StatusOK, chatResponse{
			Role:    "system",
			Content: "Sorry, I couldn't process your request.",
		})
		return
	}

	chatRelays.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, chatResponse{Role: "assistant", Content: message})
}
