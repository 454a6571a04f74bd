package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/botifyx/botifyx/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/sjson"
)

// TokenExchanger performs the OAuth2 authorization-code-for-access-token
// exchange against the Atlassian token endpoint.
type TokenExchanger struct {
	httpClient   *http.Client
	authBaseURL  string
	clientID     string
	clientSecret string
	redirectURI  string
	audience     string
}

// NewTokenExchanger creates a token exchanger from the application
// configuration.
func NewTokenExchanger(cfg *config.Config) *TokenExchanger {
	return &TokenExchanger{
		httpClient:   &http.Client{},
		authBaseURL:  strings.TrimSuffix(cfg.Jira.AuthBaseURL, "/"),
		clientID:     cfg.Jira.ClientID,
		clientSecret: cfg.Jira.ClientSecret,
		redirectURI:  cfg.RedirectURI(),
		audience:     cfg.Jira.Audience,
	}
}

// ExchangeCode exchanges an authorization code for an access token. The
// Atlassian token endpoint takes a JSON body, not a form-encoded one. A
// non-2xx response yields a *TokenExchangeError carrying the status and the
// provider's error body; the caller decides whether anything is retried.
func (e *TokenExchanger) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	if code == "" {
		return nil, fmt.Errorf("authorization code is required")
	}

	body := `{"grant_type":"authorization_code"}`
	body, _ = sjson.Set(body, "client_id", e.clientID)
	body, _ = sjson.Set(body, "client_secret", e.clientSecret)
	body, _ = sjson.Set(body, "code", code)
	body, _ = sjson.Set(body, "redirect_uri", e.redirectURI)
	body, _ = sjson.Set(body, "audience", e.audience)

	endpoint := e.authBaseURL + "/oauth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange request failed: %w", err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Errorf("failed to close response body: %v", errClose)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &TokenExchangeError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var tokenResp TokenResponse
	if err = json.Unmarshal(respBody, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, &TokenExchangeError{StatusCode: resp.StatusCode, Body: "response contained no access token"}
	}

	return &tokenResp, nil
}
