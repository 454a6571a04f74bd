package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleAuthState returns the current authentication state for UI bootstrap.
func (s *Server) handleAuthState(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.State())
}

// handleLogout resets the auth state. Idempotent; logging out while already
// unauthenticated returns the same default state.
func (s *Server) handleLogout(c *gin.Context) {
	s.controller.Logout()
	c.JSON(http.StatusOK, s.controller.State())
}

// handleProjects triggers a project fetch and returns the resulting state's
// project list. When the fetch fails the prior list (usually absent) is
// returned; the failure itself is logged by the controller, not surfaced.
func (s *Server) handleProjects(c *gin.Context) {
	state := s.controller.State()
	if !state.IsAuthenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	_ = s.controller.FetchProjects(c.Request.Context())

	state = s.controller.State()
	c.JSON(http.StatusOK, gin.H{"projects": state.Projects})
}
