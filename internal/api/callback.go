package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// callbackPageHTML is the interstitial shown at the end of the OAuth
// redirect. It reports a status line and then navigates to the chat surface
// after a short delay; the user always lands on /chat, whatever happened.
const callbackPageHTML = `<html><head><meta charset="utf-8"><title>Jira authentication</title><meta http-equiv="refresh" content="%d;url=/chat"></head><body><h1>%s</h1><p>Please wait while we take you back to the chat.</p></body></html>`

func (s *Server) renderCallbackPage(c *gin.Context, status string, delaySeconds int) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, fmt.Sprintf(callbackPageHTML, delaySeconds, status))
}

// handleLogin sends the browser to the identity provider. Fire and forget;
// the provider redirects back to the callback route with a code.
func (s *Server) handleLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, s.controller.LoginURL())
}

// handleCallback is the OAuth redirect target. It extracts the authorization
// code from the query, drives the auth controller, and navigates the user
// onward. A missing code is a handled condition, not a crash: the page
// degrades to the chat surface instead of stranding the user.
func (s *Server) handleCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		log.Warnf("identity provider returned error on callback: %s", errParam)
		authFailures.WithLabelValues("provider_error").Inc()
		s.renderCallbackPage(c, "Error: No authentication code received", 2)
		return
	}

	code := c.Query("code")
	if code == "" {
		authFailures.WithLabelValues("no_code").Inc()
		s.renderCallbackPage(c, "Error: No authentication code received", 2)
		return
	}

	// HandleCallback owns its failures: state rollback, logging and the
	// user notification all happen inside. Here the error only picks the
	// status line.
	if err := s.controller.HandleCallback(c.Request.Context(), code); err != nil {
		authFailures.WithLabelValues("exchange").Inc()
		s.renderCallbackPage(c, "Authentication failed. Redirecting...", 2)
		return
	}

	authSuccesses.Inc()
	s.renderCallbackPage(c, "Authentication successful! Redirecting...", 1)
}
