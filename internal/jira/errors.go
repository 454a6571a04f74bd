package jira

import "fmt"

// TokenExchangeError indicates the identity provider rejected the
// authorization code or client credentials. It carries the HTTP status and
// the provider-supplied error body; the exchange is never retried
// automatically.
type TokenExchangeError struct {
	StatusCode int
	Body       string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed with status %d: %s", e.StatusCode, e.Body)
}

// NoAccessibleResourceError indicates the user authenticated but no
// authorized cloud resource could be resolved, either because the
// accessible-resources call failed or the list came back empty.
type NoAccessibleResourceError struct {
	StatusCode int
	Err        error
}

func (e *NoAccessibleResourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no accessible cloud resource: %v", e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("no accessible cloud resource: request failed with status %d", e.StatusCode)
	}
	return "no accessible cloud resource"
}

// Unwrap returns the underlying error.
func (e *NoAccessibleResourceError) Unwrap() error {
	return e.Err
}

// ProfileFetchError indicates the cloud resource was resolved but the
// profile call itself failed.
type ProfileFetchError struct {
	StatusCode int
	Body       string
}

func (e *ProfileFetchError) Error() string {
	return fmt.Sprintf("profile fetch failed with status %d: %s", e.StatusCode, e.Body)
}

// ProjectListError indicates the project listing call failed. Callers keep
// their prior project state when they see it.
type ProjectListError struct {
	StatusCode int
	Body       string
}

func (e *ProjectListError) Error() string {
	return fmt.Sprintf("project list failed with status %d: %s", e.StatusCode, e.Body)
}
