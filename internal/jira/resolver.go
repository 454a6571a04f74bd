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
	"github.com/tidwall/gjson"
)

// ProfileResolver discovers the accessible cloud resource for an access
// token and fetches the authenticated user's profile from it. Both steps are
// required: the Jira user API is scoped to a cloud resource, not global.
type ProfileResolver struct {
	httpClient *http.Client
	apiBaseURL string
}

// NewProfileResolver creates a profile resolver from the application
// configuration.
func NewProfileResolver(cfg *config.Config) *ProfileResolver {
	return &ProfileResolver{
		httpClient: &http.Client{},
		apiBaseURL: strings.TrimSuffix(cfg.Jira.APIBaseURL, "/"),
	}
}

// ResolveCloudID returns the identifier of the first accessible cloud
// resource. When several tenants are authorized the first one wins; tenant
// selection UI is out of scope. The id is resolved fresh on every login,
// never cached across sessions.
func (r *ProfileResolver) ResolveCloudID(ctx context.Context, accessToken string) (string, error) {
	body, status, err := r.get(ctx, r.apiBaseURL+"/oauth/token/accessible-resources", accessToken)
	if err != nil {
		return "", &NoAccessibleResourceError{Err: err}
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return "", &NoAccessibleResourceError{StatusCode: status}
	}

	cloudID := gjson.GetBytes(body, "0.id").String()
	if cloudID == "" {
		return "", &NoAccessibleResourceError{}
	}
	log.Debugf("resolved jira cloud resource %s", cloudID)
	return cloudID, nil
}

// FetchProfile fetches the authenticated user's profile from the "myself"
// endpoint scoped to cloudID.
func (r *ProfileResolver) FetchProfile(ctx context.Context, accessToken, cloudID string) (*UserProfile, error) {
	endpoint := fmt.Sprintf("%s/ex/jira/%s/rest/api/3/myself", r.apiBaseURL, cloudID)
	body, status, err := r.get(ctx, endpoint, accessToken)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &ProfileFetchError{StatusCode: status, Body: string(body)}
	}

	var profile UserProfile
	if err = json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}
	return &profile, nil
}

// FetchProjects lists the projects visible to the access token within the
// resolved cloud resource.
func (r *ProfileResolver) FetchProjects(ctx context.Context, accessToken, cloudID string) ([]Project, error) {
	endpoint := fmt.Sprintf("%s/ex/jira/%s/rest/api/3/project", r.apiBaseURL, cloudID)
	body, status, err := r.get(ctx, endpoint, accessToken)
	if err != nil {
		return nil, fmt.Errorf("project list request failed: %w", err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &ProjectListError{StatusCode: status, Body: string(body)}
	}

	var projects []Project
	if err = json.Unmarshal(body, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse project list response: %w", err)
	}
	return projects, nil
}

func (r *ProfileResolver) get(ctx context.Context, endpoint, accessToken string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Errorf("failed to close response body: %v", errClose)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
