// Package jira implements the Atlassian OAuth2 authorization-code exchange
// and the cloud-scoped Jira REST calls the chat surface depends on: resolving
// the accessible cloud resource, fetching the authenticated user's profile,
// and listing projects.
package jira

// TokenResponse is the provider's answer to a successful code exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// UserProfile is the authenticated Jira user as returned by the "myself"
// endpoint, reduced to the fields the chat surface consumes.
type UserProfile struct {
	AccountID    string            `json:"accountId"`
	DisplayName  string            `json:"displayName"`
	EmailAddress string            `json:"emailAddress,omitempty"`
	AvatarURLs   map[string]string `json:"avatarUrls,omitempty"`
}

// Project is a Jira project descriptor from the project listing endpoint.
type Project struct {
	ID         string            `json:"id"`
	Key        string            `json:"key"`
	Name       string            `json:"name"`
	AvatarURLs map[string]string `json:"avatarUrls,omitempty"`
}
