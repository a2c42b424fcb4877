package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"civicpulse-be/models"
)

// HighRatingThreshold: reopening right after a rating this high gets a soft
// confirmation in the UI, not a hard block.
const HighRatingThreshold = 4

// Gateway issues state-changing requests and reloads the store after each
// success. Validation failures return ErrValidation without touching the
// network; request failures leave the store snapshot untouched.
type Gateway struct {
	client *Client
	store  *Store
}

// NewGateway wires a gateway to its client and store.
func NewGateway(c *Client, s *Store) *Gateway {
	return &Gateway{client: c, store: s}
}

func (g *Gateway) mutate(ctx context.Context, method, path string, query url.Values, body interface{}) error {
	if err := g.client.do(ctx, method, path, query, body, nil); err != nil {
		return err
	}
	return g.store.Reload(ctx)
}

// Verify approves or rejects a grievance. Rejection requires a reason;
// approval with an empty reason lets the backend store its default message.
func (g *Gateway) Verify(ctx context.Context, id int64, approved bool, reason string) error {
	if !approved && strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}

	path := "/api/grievances/" + strconv.FormatInt(id, 10) + "/verify"
	body := map[string]interface{}{
		"approved": approved,
		"reason":   reason,
	}
	return g.mutate(ctx, http.MethodPatch, path, nil, body)
}

// Assign links a grievance to an officer. Unverified grievances are blocked
// here, before any request goes out.
func (g *Gateway) Assign(ctx context.Context, id, officerID int64) error {
	grievance, ok := g.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: unknown grievance %d", ErrValidation, id)
	}
	if !grievance.IsApproved() {
		return fmt.Errorf("%w: cannot assign unverified grievance", ErrValidation)
	}

	path := "/api/grievances/" + strconv.FormatInt(id, 10) + "/assign"
	query := url.Values{"officerId": {strconv.FormatInt(officerID, 10)}}
	return g.mutate(ctx, http.MethodPatch, path, query, nil)
}

// UpdateStatus advances a grievance's status. Notes are mandatory.
func (g *Gateway) UpdateStatus(ctx context.Context, id int64, status models.GrievanceStatus, notes, updatedBy string) error {
	if strings.TrimSpace(notes) == "" {
		return fmt.Errorf("%w: notes are required", ErrValidation)
	}

	path := "/api/grievances/" + strconv.FormatInt(id, 10) + "/status"
	body := map[string]interface{}{
		"status":    string(status),
		"notes":     notes,
		"updatedBy": updatedBy,
	}
	return g.mutate(ctx, http.MethodPut, path, nil, body)
}

// SubmitFeedback rates a resolved grievance. The rating is mandatory; an
// empty comment is serialized as null. Non-resolved grievances short-
// circuit here so the caller can redirect.
func (g *Gateway) SubmitFeedback(ctx context.Context, grievanceID, userID int64, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	grievance, ok := g.store.Get(grievanceID)
	if !ok {
		fetched, err := g.client.Grievance(ctx, grievanceID)
		if err != nil {
			return err
		}
		grievance = fetched
	}
	if grievance.Status != models.StatusResolved {
		return fmt.Errorf("%w: feedback is only allowed for resolved complaints", ErrValidation)
	}

	var commentField *string
	if strings.TrimSpace(comment) != "" {
		commentField = &comment
	}
	body := map[string]interface{}{
		"grievanceId": grievanceID,
		"userId":      userID,
		"rating":      rating,
		"comment":     commentField,
	}
	return g.mutate(ctx, http.MethodPost, "/api/feedback", nil, body)
}

// WarnHighRating reports whether reopening should ask for the soft
// confirmation first, given the rating just submitted.
func WarnHighRating(rating int) bool {
	return rating >= HighRatingThreshold
}

// Reopen resets a grievance back into the queue. The reason is mandatory.
func (g *Gateway) Reopen(ctx context.Context, grievanceID, userID int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: reopen reason is required", ErrValidation)
	}

	path := "/api/feedback/reopen/" + strconv.FormatInt(grievanceID, 10)
	query := url.Values{
		"userId": {strconv.FormatInt(userID, 10)},
		"reason": {reason},
	}
	return g.mutate(ctx, http.MethodPost, path, query, nil)
}

// Delete removes a grievance for good. The UI asks for explicit
// confirmation before calling this.
func (g *Gateway) Delete(ctx context.Context, id int64) error {
	path := "/api/grievances/" + strconv.FormatInt(id, 10)
	return g.mutate(ctx, http.MethodDelete, path, nil, nil)
}
