// Package client is the dashboard-side core shared by the citizen, officer
// and admin views: a REST client, an in-memory grievance store reloaded
// wholesale after successful mutations, and a mutation gateway that
// validates before it sends.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"civicpulse-be/lifecycle"
	"civicpulse-be/models"
)

// ErrValidation marks failures caught before any request is sent. Callers
// re-enable the triggering control and show the message.
var ErrValidation = errors.New("validation failed")

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (%d)", e.StatusCode)
}

const defaultTimeout = 15 * time.Second

// Client talks to the grievance backend.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds every request. A hung backend surfaces as an error
// instead of leaving the view stuck in a submitting state.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the given backend base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken updates the bearer token after login.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			apiErr.Message = msg.Error
			if apiErr.Message == "" {
				apiErr.Message = msg.Message
			}
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func canonicalize(raw []models.RawGrievance) []models.Grievance {
	out := make([]models.Grievance, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.Canonical())
	}
	return out
}

// Grievances fetches the full grievance list.
func (c *Client) Grievances(ctx context.Context) ([]models.Grievance, error) {
	var raw []models.RawGrievance
	if err := c.do(ctx, http.MethodGet, "/api/grievances", nil, nil, &raw); err != nil {
		return nil, err
	}
	return canonicalize(raw), nil
}

// Grievance fetches one grievance by id.
func (c *Client) Grievance(ctx context.Context, id int64) (models.Grievance, error) {
	var raw models.RawGrievance
	path := "/api/grievances/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return models.Grievance{}, err
	}
	return raw.Canonical(), nil
}

// CitizenGrievances fetches one citizen's grievances.
func (c *Client) CitizenGrievances(ctx context.Context, userID int64) ([]models.Grievance, error) {
	var raw []models.RawGrievance
	path := "/api/grievances/citizen/" + strconv.FormatInt(userID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	return canonicalize(raw), nil
}

// AssignedGrievances fetches the grievances routed to one officer.
func (c *Client) AssignedGrievances(ctx context.Context, officerID int64) ([]models.Grievance, error) {
	var raw []models.RawGrievance
	path := "/api/grievances/assigned/" + strconv.FormatInt(officerID, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	return canonicalize(raw), nil
}

// Users fetches the account directory, optionally narrowed by role.
func (c *Client) Users(ctx context.Context, role string) ([]models.User, error) {
	query := url.Values{}
	if role != "" {
		query.Set("role", role)
	}
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/api/users", query, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FeedbackForGrievance fetches the feedback for a grievance. A missing
// feedback is normal (the form has not been filled yet) and returns nil
// without error.
func (c *Client) FeedbackForGrievance(ctx context.Context, grievanceID int64) (*models.Feedback, error) {
	var feedback models.Feedback
	path := "/api/feedback/grievance/" + strconv.FormatInt(grievanceID, 10)
	err := c.do(ctx, http.MethodGet, path, nil, nil, &feedback)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &feedback, nil
}

// Dashboard fetches the analytics snapshot.
func (c *Client) Dashboard(ctx context.Context) (lifecycle.DashboardStats, error) {
	var stats lifecycle.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/analytics/dashboard", nil, nil, &stats); err != nil {
		return lifecycle.DashboardStats{}, err
	}
	return stats, nil
}
