package jira

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestProfileResolver_ResolveCloudID(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr bool
	}{
		{
			name:   "first resource wins",
			status: http.StatusOK,
			body:   `[{"id":"cloud-1","name":"First"},{"id":"cloud-2","name":"Second"}]`,
			want:   "cloud-1",
		},
		{
			name:    "empty resource list",
			status:  http.StatusOK,
			body:    `[]`,
			wantErr: true,
		},
		{
			name:    "request fails",
			status:  http.StatusForbidden,
			body:    `{"error":"forbidden"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/oauth/token/accessible-resources" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				if got := r.Header.Get("Authorization"); got != "Bearer tok1" {
					t.Errorf("Authorization = %q, want Bearer tok1", got)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resolver := NewProfileResolver(testConfig(srv.URL, srv.URL))
			cloudID, err := resolver.ResolveCloudID(context.Background(), "tok1")

			if tt.wantErr {
				var noResource *NoAccessibleResourceError
				if !errors.As(err, &noResource) {
					t.Fatalf("error = %v, want *NoAccessibleResourceError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveCloudID() error = %v", err)
			}
			if cloudID != tt.want {
				t.Errorf("cloudID = %q, want %q", cloudID, tt.want)
			}
		})
	}
}

// The profile endpoint must never be touched when no cloud resource resolves.
func TestProfileResolver_EmptyListNeverCallsProfile(t *testing.T) {
	var profileCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token/accessible-resources":
			_, _ = w.Write([]byte(`[]`))
		default:
			profileCalls.Add(1)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	resolver := NewProfileResolver(testConfig(srv.URL, srv.URL))
	_, err := resolver.ResolveCloudID(context.Background(), "tok1")

	var noResource *NoAccessibleResourceError
	if !errors.As(err, &noResource) {
		t.Fatalf("error = %v, want *NoAccessibleResourceError", err)
	}
	if profileCalls.Load() != 0 {
		t.Errorf("profile endpoint called %d times, want 0", profileCalls.Load())
	}
}

func TestProfileResolver_FetchProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ex/jira/cloud-1/rest/api/3/myself" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"accountId":"u1","displayName":"Jane","emailAddress":"jane@example.com","avatarUrls":{"48x48":"https://avatar.example.com/48"}}`))
	}))
	defer srv.Close()

	resolver := NewProfileResolver(testConfig(srv.URL, srv.URL))
	profile, err := resolver.FetchProfile(context.Background(), "tok1", "cloud-1")
	if err != nil {
		t.Fatalf("FetchProfile() error = %v", err)
	}
	if profile.AccountID != "u1" {
		t.Errorf("AccountID = %q, want u1", profile.AccountID)
	}
	if profile.DisplayName != "Jane" {
		t.Errorf("DisplayName = %q, want Jane", profile.DisplayName)
	}
	if profile.AvatarURLs["48x48"] != "https://avatar.example.com/48" {
		t.Errorf("AvatarURLs[48x48] = %q", profile.AvatarURLs["48x48"])
	}
}

func TestProfileResolver_FetchProfileError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"expired"}`))
	}))
	defer srv.Close()

	resolver := NewProfileResolver(testConfig(srv.URL, srv.URL))
	_, err := resolver.FetchProfile(context.Background(), "tok1", "cloud-1")

	var fetchErr *ProfileFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want *ProfileFetchError", err)
	}
	if fetchErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want %d", fetchErr.StatusCode, http.StatusUnauthorized)
	}
}

func TestProfileResolver_FetchProjects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ex/jira/cloud-1/rest/api/3/project" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"10001","key":"BOT","name":"Botifyx Development"},{"id":"10002","key":"CRM","name":"Customer Management"}]`))
	}))
	defer srv.Close()

	resolver := NewProfileResolver(testConfig(srv.URL, srv.URL))
	projects, err := resolver.FetchProjects(context.Background(), "tok1", "cloud-1")
	if err != nil {
		t.Fatalf("FetchProjects() error = %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("len(projects) = %d, want 2", len(projects))
	}
	if projects[0].Key != "BOT" || projects[1].Key != "CRM" {
		t.Errorf("unexpected project keys: %q, %q", projects[0].Key, projects[1].Key)
	}
}
