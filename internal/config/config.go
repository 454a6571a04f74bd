// Package config provides configuration management for the Botifyx backend.
// It handles loading and parsing the YAML configuration file, applying
// environment overrides for secrets, and validating the result before the
// service starts.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAuthBaseURL is the Atlassian identity provider base URL.
	DefaultAuthBaseURL = "https://auth.atlassian.com"
	// DefaultAPIBaseURL is the Atlassian API gateway base URL.
	DefaultAPIBaseURL = "https://api.atlassian.com"
	// DefaultAudience is the audience parameter required by the Atlassian
	// authorization-code flow.
	DefaultAudience = "api.atlassian.com"
	// CallbackPath is the OAuth redirect path. It must match the redirect
	// URI registered with the identity provider exactly.
	CallbackPath = "/oauth/callback"
)

// DefaultScopes are the Jira scopes requested during login: read access to
// work items and to the authenticated user's identity.
var DefaultScopes = []string{"read:jira-work", "read:jira-user"}

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int `yaml:"port"`

	// BaseURL is the public origin of this deployment. The OAuth redirect
	// URI is derived from it as BaseURL + CallbackPath.
	BaseURL string `yaml:"base-url"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug"`

	// LoggingToFile redirects log output to rotating files instead of stdout.
	LoggingToFile bool `yaml:"logging-to-file"`

	// LogsDir is the directory for rotating log files when LoggingToFile is set.
	LogsDir string `yaml:"logs-dir"`

	// RequestLog enables per-request HTTP logging.
	RequestLog bool `yaml:"request-log"`

	// SessionFile is the path of the persisted session record. It lives in
	// the OS temp directory by default so the record does not outlive the
	// host session; access tokens are short-lived and must not be written
	// to long-term storage.
	SessionFile string `yaml:"session-file"`

	// Jira holds the identity-provider settings for the OAuth flow.
	Jira JiraConfig `yaml:"jira"`

	// Chat holds the downstream chat-completion service settings.
	Chat ChatConfig `yaml:"chat"`
}

// JiraConfig holds the Atlassian OAuth client settings.
type JiraConfig struct {
	// ClientID is the OAuth client identifier issued by Atlassian.
	ClientID string `yaml:"client-id"`

	// ClientSecret is the OAuth client secret. Prefer the JIRA_CLIENT_SECRET
	// environment variable over committing it to the config file.
	ClientSecret string `yaml:"client-secret"`

	// Audience is the token audience, fixed to api.atlassian.com for Jira.
	Audience string `yaml:"audience"`

	// Scopes are the OAuth scopes requested during login.
	Scopes []string `yaml:"scopes"`

	// AuthBaseURL overrides the identity provider base URL (tests only).
	AuthBaseURL string `yaml:"auth-base-url"`

	// APIBaseURL overrides the Atlassian API base URL (tests only).
	APIBaseURL string `yaml:"api-base-url"`
}

// ChatConfig holds the downstream chat service settings.
type ChatConfig struct {
	// Endpoint is the chat-completion HTTP endpoint.
	Endpoint string `yaml:"endpoint"`

	// TimeoutSeconds bounds a single chat round trip. <= 0 means the
	// transport default.
	TimeoutSeconds int `yaml:"timeout-seconds"`
}

// RedirectURI returns the OAuth redirect URI derived from the public origin.
func (c *Config) RedirectURI() string {
	return strings.TrimSuffix(c.BaseURL, "/") + CallbackPath
}

// LoadConfig reads the YAML file at path, applies environment overrides and
// defaults, and returns the resulting configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnvOverrides lets the environment win for secrets and deploy-specific
// values so they never need to live in the config file.
func (c *Config) applyEnvOverrides() {
	if v := lookupEnv("JIRA_CLIENT_ID"); v != "" {
		c.Jira.ClientID = v
	}
	if v := lookupEnv("JIRA_CLIENT_SECRET"); v != "" {
		c.Jira.ClientSecret = v
	}
	if v := lookupEnv("CHAT_ENDPOINT"); v != "" {
		c.Chat.Endpoint = v
	}
	if v := lookupEnv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8318
	}
	if c.BaseURL == "" {
		c.BaseURL = fmt.Sprintf("http://localhost:%d", c.Port)
	}
	if c.SessionFile == "" {
		c.SessionFile = DefaultSessionFile()
	}
	if c.Jira.Audience == "" {
		c.Jira.Audience = DefaultAudience
	}
	if len(c.Jira.Scopes) == 0 {
		c.Jira.Scopes = append([]string(nil), DefaultScopes...)
	}
	if c.Jira.AuthBaseURL == "" {
		c.Jira.AuthBaseURL = DefaultAuthBaseURL
	}
	if c.Jira.APIBaseURL == "" {
		c.Jira.APIBaseURL = DefaultAPIBaseURL
	}
	if c.LogsDir == "" {
		c.LogsDir = "logs"
	}
}

// ValidateConfig performs semantic validation of the loaded configuration.
// It returns non-fatal warnings alongside a fatal error, if any.
func ValidateConfig(cfg *Config) ([]string, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is nil")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Jira.ClientID == "" {
		return nil, fmt.Errorf("jira client id is required (config jira.client-id or JIRA_CLIENT_ID)")
	}

	var warnings []string
	if cfg.Jira.ClientSecret == "" {
		warnings = append(warnings, "jira client secret is empty; token exchange will fail")
	}
	if cfg.Chat.Endpoint == "" {
		warnings = append(warnings, "chat endpoint is empty; chat relay is disabled")
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		warnings = append(warnings, fmt.Sprintf("base-url %q has no scheme; redirect URI may not match the registered one", cfg.BaseURL))
	}
	return warnings, nil
}

// DefaultSessionFile returns the default session record path. It lives under
// the OS temp directory so it does not survive host cleanup.
func DefaultSessionFile() string {
	return filepath.Join(os.TempDir(), "botifyx", "jira_auth_data.json")
}

func lookupEnv(key string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return ""
}
