package client

import (
	"context"
	"sync"

	"civicpulse-be/lifecycle"
	"civicpulse-be/models"
)

// Scope selects which slice of the grievance collection a view works on.
// The zero Scope loads everything (admin view).
type Scope struct {
	Role   models.Role
	UserID int64
}

// Store is the in-memory grievance collection backing one dashboard view.
// It is only ever replaced wholesale by Reload after a successful fetch;
// readers always observe a consistent snapshot.
type Store struct {
	mu         sync.RWMutex
	client     *Client
	scope      Scope
	grievances []models.Grievance
}

// NewStore creates an empty store for the given view scope.
func NewStore(c *Client, scope Scope) *Store {
	return &Store{client: c, scope: scope}
}

// Reload fetches the scoped grievance list and atomically replaces the
// snapshot. On any error the previous snapshot stays in place.
func (s *Store) Reload(ctx context.Context) error {
	var (
		grievances []models.Grievance
		err        error
	)
	switch s.scope.Role {
	case models.RoleCitizen:
		grievances, err = s.client.CitizenGrievances(ctx, s.scope.UserID)
	case models.RoleOfficer:
		grievances, err = s.client.AssignedGrievances(ctx, s.scope.UserID)
	default:
		grievances, err = s.client.Grievances(ctx)
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.grievances = grievances
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current grievance list.
func (s *Store) Snapshot() []models.Grievance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Grievance, len(s.grievances))
	copy(out, s.grievances)
	return out
}

// Get looks up one grievance in the current snapshot.
func (s *Store) Get(id int64) (models.Grievance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.grievances {
		if g.ID == id {
			return g, true
		}
	}
	return models.Grievance{}, false
}

// Filter projects the snapshot through the given criteria.
func (s *Store) Filter(c lifecycle.Criteria) []models.Grievance {
	return lifecycle.Filter(s.Snapshot(), c)
}

// PendingVerification projects the snapshot's pending-verification view.
func (s *Store) PendingVerification() []models.Grievance {
	return lifecycle.PendingVerification(s.Snapshot())
}

// Stats summarizes the snapshot for the dashboard header.
func (s *Store) Stats() lifecycle.CitizenStats {
	return lifecycle.Stats(s.Snapshot())
}
