// Package auth owns the authentication state for the Jira integration and
// orchestrates the OAuth collaborators: token exchange, profile resolution
// and session persistence. The controller is the single writer of the state;
// every UI surface is a read-only observer.
package auth

import "github.com/botifyx/botifyx/internal/jira"

// State is the process-wide authentication state.
//
// AccessToken and User are both present or both absent, except transiently
// while IsLoading is true during the callback exchange.
type State struct {
	IsAuthenticated bool              `json:"isAuthenticated"`
	AccessToken     string            `json:"accessToken,omitempty"`
	User            *jira.UserProfile `json:"user,omitempty"`
	Projects        []jira.Project    `json:"projects,omitempty"`
	IsLoading       bool              `json:"isLoading"`
	Error           string            `json:"error,omitempty"`
}

// clone returns a value copy safe to hand to observers.
func (s State) clone() State {
	out := s
	if s.User != nil {
		user := *s.User
		if s.User.AvatarURLs != nil {
			user.AvatarURLs = make(map[string]string, len(s.User.AvatarURLs))
			for k, v := range s.User.AvatarURLs {
				user.AvatarURLs[k] = v
			}
		}
		out.User = &user
	}
	if s.Projects != nil {
		out.Projects = append([]jira.Project(nil), s.Projects...)
	}
	return out
}
