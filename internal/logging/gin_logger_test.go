package logging

import (
	"strings"
	"testing"
)

func TestMaskSensitiveQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "no sensitive params", raw: "page=2&limit=50", want: "page=2&limit=50"},
		{name: "auth code", raw: "code=abc123", want: "code=%2A%2A%2A"},
		{name: "mixed", raw: "code=abc123&foo=bar", want: "code=%2A%2A%2A&foo=bar"},
		{name: "case insensitive", raw: "Token=secret", want: "Token=%2A%2A%2A"},
		{name: "unparseable", raw: "a=%zz", want: "<unparseable-query>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskSensitiveQuery(tt.raw); got != tt.want {
				t.Errorf("maskSensitiveQuery(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMaskSensitiveQuery_NeverLeaksCode(t *testing.T) {
	got := maskSensitiveQuery("state=xyz&code=super-secret-code")
	if strings.Contains(got, "super-secret-code") || strings.Contains(got, "xyz") {
		t.Errorf("masked query still contains secrets: %q", got)
	}
}
