package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
port: 9000
base-url: https://app.example.com
debug: true
jira:
  client-id: client-1
  client-secret: secret-1
chat:
  endpoint: https://chat.example.com/new_chat
  timeout-seconds: 30
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.Jira.ClientID != "client-1" {
		t.Errorf("ClientID = %q", cfg.Jira.ClientID)
	}
	if cfg.Chat.Endpoint != "https://chat.example.com/new_chat" {
		t.Errorf("Chat.Endpoint = %q", cfg.Chat.Endpoint)
	}
	if got := cfg.RedirectURI(); got != "https://app.example.com/oauth/callback" {
		t.Errorf("RedirectURI() = %q", got)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
jira:
  client-id: client-1
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Port != 8318 {
		t.Errorf("Port = %d, want default 8318", cfg.Port)
	}
	if cfg.Jira.Audience != DefaultAudience {
		t.Errorf("Audience = %q, want %q", cfg.Jira.Audience, DefaultAudience)
	}
	if len(cfg.Jira.Scopes) != 2 {
		t.Errorf("Scopes = %v, want defaults", cfg.Jira.Scopes)
	}
	if cfg.Jira.AuthBaseURL != DefaultAuthBaseURL {
		t.Errorf("AuthBaseURL = %q", cfg.Jira.AuthBaseURL)
	}
	if cfg.SessionFile == "" {
		t.Error("SessionFile is empty, want temp-dir default")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("JIRA_CLIENT_SECRET", "env-secret")
	t.Setenv("CHAT_ENDPOINT", "https://env.example.com/new_chat")

	path := writeConfig(t, `
jira:
  client-id: client-1
  client-secret: file-secret
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Jira.ClientSecret != "env-secret" {
		t.Errorf("ClientSecret = %q, want env override", cfg.Jira.ClientSecret)
	}
	if cfg.Chat.Endpoint != "https://env.example.com/new_chat" {
		t.Errorf("Chat.Endpoint = %q, want env override", cfg.Chat.Endpoint)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing client id", mutate: func(c *Config) { c.Jira.ClientID = "" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.Port = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Port: 8318, BaseURL: "https://app.example.com"}
			cfg.Jira.ClientID = "client-1"
			cfg.Jira.ClientSecret = "secret-1"
			cfg.Chat.Endpoint = "https://chat.example.com"
			tt.mutate(cfg)

			_, err := ValidateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateConfig_Warnings(t *testing.T) {
	cfg := &Config{Port: 8318, BaseURL: "app.example.com"}
	cfg.Jira.ClientID = "client-1"

	warnings, err := ValidateConfig(cfg)
	if err != nil {
		t.Fatalf("ValidateConfig() error = %v", err)
	}
	// Empty secret, empty chat endpoint and a scheme-less base URL each warn.
	if len(warnings) != 3 {
		t.Errorf("warnings = %v, want 3 entries", warnings)
	}
}
