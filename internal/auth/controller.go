package auth

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/botifyx/botifyx/internal/config"
	"github.com/botifyx/botifyx/internal/jira"
	"github.com/botifyx/botifyx/internal/notify"
	"github.com/botifyx/botifyx/internal/session"
	log "github.com/sirupsen/logrus"
)

// TokenExchanger exchanges an authorization code for an access token.
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*jira.TokenResponse, error)
}

// ProfileResolver resolves the accessible cloud resource and fetches
// user-scoped data from it.
type ProfileResolver interface {
	ResolveCloudID(ctx context.Context, accessToken string) (string, error)
	FetchProfile(ctx context.Context, accessToken, cloudID string) (*jira.UserProfile, error)
	FetchProjects(ctx context.Context, accessToken, cloudID string) ([]jira.Project, error)
}

// Controller is the single source of truth for authentication state. All
// mutation happens under its lock; observers receive value copies through
// Subscribe.
type Controller struct {
	exchanger TokenExchanger
	resolver  ProfileResolver
	store     session.Store
	notifier  notify.Notifier

	authBaseURL string
	clientID    string
	redirectURI string
	audience    string
	scopes      []string

	mu    sync.Mutex
	state State
	subs  map[chan State]struct{}
}

// NewController wires the controller and rehydrates state from the session
// store once. A malformed persisted record is treated as absent; the store
// deletes it on its own.
func NewController(cfg *config.Config, exchanger TokenExchanger, resolver ProfileResolver, store session.Store, notifier notify.Notifier) *Controller {
	c := &Controller{
		exchanger:   exchanger,
		resolver:    resolver,
		store:       store,
		notifier:    notifier,
		authBaseURL: strings.TrimSuffix(cfg.Jira.AuthBaseURL, "/"),
		clientID:    cfg.Jira.ClientID,
		redirectURI: cfg.RedirectURI(),
		audience:    cfg.Jira.Audience,
		scopes:      append([]string(nil), cfg.Jira.Scopes...),
		subs:        make(map[chan State]struct{}),
	}

	var persisted State
	ok, err := store.Load(&persisted)
	if err != nil {
		log.Warnf("failed to read session record, starting unauthenticated: %v", err)
	}
	if ok && persisted.AccessToken != "" {
		persisted.IsAuthenticated = true
		persisted.IsLoading = false
		persisted.Error = ""
		c.state = persisted
		log.Infof("restored authenticated session for %s", persisted.userLabel())
	}
	return c
}

func (s State) userLabel() string {
	if s.User != nil && s.User.DisplayName != "" {
		return s.User.DisplayName
	}
	return "unknown user"
}

// LoginURL builds the identity-provider authorization URL. The HTTP layer
// issues the actual redirect; there is nothing to wait for here.
func (c *Controller) LoginURL() string {
	params := url.Values{
		"audience":      {c.audience},
		"client_id":     {c.clientID},
		"scope":         {strings.Join(c.scopes, " ")},
		"redirect_uri":  {c.redirectURI},
		"response_type": {"code"},
		"prompt":        {"consent"},
	}
	return c.authBaseURL + "/authorize?" + params.Encode()
}

// HandleCallback exchanges the authorization code, resolves the user's
// profile and commits the authenticated state, strictly in that order. Any
// failure leaves the state unauthenticated, logs the cause and raises one
// error notification. The returned error is informational; callers serving
// UI traffic are not expected to propagate it.
func (c *Controller) HandleCallback(ctx context.Context, code string) error {
	c.setLoading(true)

	token, err := c.exchanger.ExchangeCode(ctx, code)
	if err != nil {
		return c.failCallback("token exchange failed", err)
	}

	cloudID, err := c.resolver.ResolveCloudID(ctx, token.AccessToken)
	if err != nil {
		return c.failCallback("cloud resource resolution failed", err)
	}

	profile, err := c.resolver.FetchProfile(ctx, token.AccessToken, cloudID)
	if err != nil {
		return c.failCallback("profile fetch failed", err)
	}

	newState := State{
		IsAuthenticated: true,
		AccessToken:     token.AccessToken,
		User:            profile,
		IsLoading:       false,
	}

	c.mu.Lock()
	c.state = newState
	c.mu.Unlock()

	if errSave := c.store.Save(newState); errSave != nil {
		// The in-memory state stays authoritative; persistence is best effort.
		log.Errorf("failed to persist session record: %v", errSave)
	}

	log.WithFields(log.Fields{
		"account_id": profile.AccountID,
		"user":       profile.DisplayName,
	}).Info("jira authentication succeeded")
	c.notifier.Success("Success", "Welcome, "+profile.DisplayName+"!")
	c.broadcast()
	return nil
}

func (c *Controller) failCallback(stage string, err error) error {
	log.WithField("stage", stage).Errorf("jira authentication failed: %v", err)

	c.mu.Lock()
	c.state = State{Error: "Failed to authenticate with Jira"}
	c.mu.Unlock()

	c.notifier.Error("Error", "Failed to authenticate with Jira")
	c.broadcast()
	return err
}

// FetchProjects loads the project list using the stored access token. It is
// a no-op when unauthenticated or while another fetch is in flight. On
// failure the prior state is kept and the error only logged; the caller sees
// the project list stay absent.
func (c *Controller) FetchProjects(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.IsAuthenticated || c.state.IsLoading {
		c.mu.Unlock()
		return nil
	}
	token := c.state.AccessToken
	c.state.IsLoading = true
	c.mu.Unlock()
	c.broadcast()

	projects, err := c.loadProjects(ctx, token)

	c.mu.Lock()
	c.state.IsLoading = false
	if err == nil && c.state.IsAuthenticated {
		c.state.Projects = projects
	}
	c.mu.Unlock()
	c.broadcast()

	if err != nil {
		log.Errorf("failed to fetch jira projects: %v", err)
	}
	return err
}

func (c *Controller) loadProjects(ctx context.Context, token string) ([]jira.Project, error) {
	cloudID, err := c.resolver.ResolveCloudID(ctx, token)
	if err != nil {
		return nil, err
	}
	return c.resolver.FetchProjects(ctx, token, cloudID)
}

// Logout resets the state to the unauthenticated default, clears the
// persisted record and raises a confirmation. Subscribers receive the reset
// state as their teardown signal; no reload is needed. Idempotent.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.state = State{}
	c.mu.Unlock()

	if err := c.store.Clear(); err != nil {
		log.Errorf("failed to clear session record: %v", err)
	}

	c.notifier.Success("Logged out", "Successfully logged out from Jira")
	c.broadcast()
}

// State returns a snapshot of the current authentication state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers an observer for state changes. Observers get a value
// copy on every transition; the cancel function detaches them.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 8)
	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subs[ch]; ok {
			delete(c.subs, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

func (c *Controller) setLoading(loading bool) {
	c.mu.Lock()
	c.state.IsLoading = loading
	c.state.Error = ""
	c.mu.Unlock()
	c.broadcast()
}

func (c *Controller) broadcast() {
	c.mu.Lock()
	snapshot := c.state.clone()
	targets := make([]chan State, 0, len(c.subs))
	for ch := range c.subs {
		targets = append(targets, ch)
	}
	c.mu.Unlock()

	for _, ch := range targets {
		select {
		case ch <- snapshot:
		default:
			log.Debug("state subscriber full, dropping update")
		}
	}
}
