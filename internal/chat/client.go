// Package chat relays user prompts to the remote chat-completion service.
// The service is consumed as an opaque HTTP endpoint; this package only owns
// the wire contract and the error surfacing policy.
package chat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/botifyx/botifyx/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// RemoteServiceError indicates the downstream chat service failed or
// returned a malformed response. The API layer turns it into a system-level
// chat message plus an error notification.
type RemoteServiceError struct {
	StatusCode int
	Body       string
}

func (e *RemoteServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("chat service responded with status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("chat service request failed: %s", e.Body)
}

// Request carries one conversational turn to the chat service. Previous
// queries and responses travel as double-newline joined transcripts, the
// format the service expects.
type Request struct {
	Query            string
	EmailAddress     string
	AccessToken      string
	PreviousQuery    string
	PreviousResponse string
}

// Client posts chat turns to the configured endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a chat client from the application configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Chat.TimeoutSeconds) * time.Second
	if cfg.Chat.TimeoutSeconds <= 0 {
		timeout = 0 // transport default
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Chat.Endpoint,
	}
}

// Send posts one chat turn and returns the assistant message. Any transport
// failure, non-2xx status or response without a message field yields a
// *RemoteServiceError.
func (c *Client) Send(ctx context.Context, r Request) (string, error) {
	if c.endpoint == "" {
		return "", &RemoteServiceError{Body: "chat endpoint is not configured"}
	}

	body := "{}"
	body, _ = sjson.Set(body, "query", r.Query)
	body, _ = sjson.Set(body, "email_id", r.EmailAddress)
	body, _ = sjson.Set(body, "access_token", r.AccessToken)
	body, _ = sjson.Set(body, "previous_query", r.PreviousQuery)
	body, _ = sjson.Set(body, "previous_response", r.PreviousResponse)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RemoteServiceError{Body: err.Error()}
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.Errorf("failed to close response body: %v", errClose)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RemoteServiceError{StatusCode: resp.StatusCode, Body: "failed to read response"}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &RemoteServiceError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	message := gjson.GetBytes(respBody, "message")
	if !message.Exists() {
		return "", &RemoteServiceError{StatusCode: resp.StatusCode, Body: "response contained no message field"}
	}
	return message.String(), nil
}
