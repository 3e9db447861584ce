// Package push provides a client for the platform's push gateway.
//
// The gateway contract distinguishes three outcomes: the message was
// accepted for delivery, the device token was rejected as invalid or
// unregistered, or the call failed for a transient reason. Callers use
// the first two to settle a notification permanently and the third to
// let the job queue retry.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Token error codes the gateway reports for dead registrations.
const (
	errNotRegistered       = "NotRegistered"
	errInvalidRegistration = "InvalidRegistration"
)

// Payload is the device-facing push message.
type Payload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Badge int               `json:"badge"`          // unread counter shown on the app icon
	Data  map[string]string `json:"data,omitempty"` // passed through to the app untouched
}

// Client represents a push gateway client.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
}

// NewClient creates a new push gateway Client. The circuit breaker opens
// after repeated transient failures so a struggling gateway is not
// hammered by the whole worker pool; rejected tokens do not count as
// failures.
func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:        "push-gateway",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     1 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.TotalFailures >= 3
		},
	}

	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		breaker:  gobreaker.NewCircuitBreaker(settings),
	}
}

// sendRequest is the gateway's send API payload.
type sendRequest struct {
	To           string  `json:"to"` // device token
	Notification Payload `json:"notification"`
}

// sendResponse is the gateway's send API response body.
type sendResponse struct {
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// Send pushes a payload to a single device token.
//
// It returns (true, nil) when the gateway accepted the message,
// (false, nil) when the gateway rejected the token as invalid or
// unregistered, and a non-nil error for transient failures (network
// errors, gateway 5xx, open circuit breaker).
func (c *Client) Send(ctx context.Context, token string, p Payload) (bool, error) {
	body, err := json.Marshal(sendRequest{To: token, Notification: p})
	if err != nil {
		return false, fmt.Errorf("marshal request: %w", err)
	}

	accepted, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return false, fmt.Errorf("build request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "key="+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return false, fmt.Errorf("send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return false, fmt.Errorf("push gateway error: %s", resp.Status)
		}

		var sr sendResponse
		if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
			return false, fmt.Errorf("decode response: %w", err)
		}

		if len(sr.Results) > 0 {
			switch sr.Results[0].Error {
			case "":
			case errNotRegistered, errInvalidRegistration:
				return false, nil
			default:
				return false, fmt.Errorf("push gateway result error: %s", sr.Results[0].Error)
			}
		}

		return true, nil
	})
	if err != nil {
		return false, err
	}

	return accepted.(bool), nil
}
