package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"civicpulse-be/models"
)

// fakeBackend serves a mutable grievance list and records every mutation
// request it sees.
type fakeBackend struct {
	grievances []models.Grievance
	mutations  int64
	lastBody   string
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/api/grievances" {
			_ = json.NewEncoder(w).Encode(f.grievances)
			return
		}

		atomic.AddInt64(&f.mutations, 1)
		body, _ := io.ReadAll(r.Body)
		f.lastBody = string(body)

		switch {
		case strings.HasSuffix(r.URL.Path, "/verify"):
			var req struct {
				Approved bool   `json:"approved"`
				Reason   string `json:"reason"`
			}
			_ = json.Unmarshal(body, &req)
			for i := range f.grievances {
				if req.Approved {
					f.grievances[i].VerificationStatus = models.VerificationApproved
				} else {
					f.grievances[i].VerificationStatus = models.VerificationRejected
					f.grievances[i].Status = models.StatusRejected
				}
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusOK)
		}
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
}

func (f *fakeBackend) mutationCount() int64 {
	return atomic.LoadInt64(&f.mutations)
}

func newGateway(t *testing.T, backend *fakeBackend) (*Gateway, *Store) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithToken("test-token"))
	s := NewStore(c, Scope{})
	assert.NoError(t, s.Reload(context.Background()))
	return NewGateway(c, s), s
}

func TestAssignUnverifiedSendsNoRequest(t *testing.T) {
	backend := &fakeBackend{grievances: []models.Grievance{
		{ID: 1, Status: models.StatusPending},
	}}
	gw, _ := newGateway(t, backend)

	err := gw.Assign(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(0), backend.mutationCount())
}

func TestAssignUnknownGrievanceSendsNoRequest(t *testing.T) {
	backend := &fakeBackend{}
	gw, _ := newGateway(t, backend)

	err := gw.Assign(context.Background(), 999, 10)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(0), backend.mutationCount())
}

func TestAssignApprovedGoesThrough(t *testing.T) {
	backend := &fakeBackend{grievances: []models.Grievance{
		{ID: 1, Status: models.StatusPending, VerificationStatus: models.VerificationApproved},
	}}
	gw, _ := newGateway(t, backend)

	assert.NoError(t, gw.Assign(context.Background(), 1, 10))
	assert.Equal(t, int64(1), backend.mutationCount())
}

func TestRejectWithoutReasonBlocked(t *testing.T) {
	backend := &fakeBackend{grievances: []models.Grievance{
		{ID: 1, Status: models.StatusPending},
	}}
	gw, _ := newGateway(t, backend)

	err := gw.Verify(context.Background(), 1, false, "   ")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(0), backend.mutationCount())
}

func TestApproveWithEmptyReasonAllowed(t *testing.T) {
	backend := &fakeBackend{grievances: []models.Grievance{
		{ID: 42, Status: models.StatusPending},
	}}
	gw, store := newGateway(t, backend)

	assert.NoError(t, gw.Verify(context.Background(), 42, true, ""))

	g, ok := store.Get(42)
	assert.True(t, ok)
	assert.True(t, g.IsApproved(), "reload picks up the server-side approval")
}

func TestFeedbackRatingOutOfRangeBlocked(t *testing.T) {
	backend := &fakeBackend{grievances: []models.Grievance{
		{ID: 1, Status: models.StatusResolved},
	}}
	gw, _ := newGateway(t, backend)

	assert.ErrorIs(t, gw.SubmitFeedback(context.Background(), 1, 7, 0, ""), ErrValidation)
	assert.ErrorIs(t, gw.SubmitFeedback(context.Background(), 1, 7, 6, ""), ErrValidation)
	assert.Equal(t, int64(0), backend.mutationCount())
}

func TestFeedbackOnUnresolvedBlocked(t *testing.T) {
	backend := &fakeBackend{grievances: []models.Grievance{
		{ID: 1, Status: models.StatusInProgress},
	}}
	gw, _ := newGateway(t, backend)

	err := gw.SubmitFeedback(context.Background(), 1, 7, 4, "fast work")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(0), backend.mutationCount())
}

func TestFeedbackEmptyCommentSerializedAsNull(t *testing.T) {
	backend := &fakeBackend{grievances: []models.Grievance{
		{ID: 1, Status: models.StatusResolved},
	}}
	gw, _ := newGateway(t, backend)

	assert.NoError(t, gw.SubmitFeedback(context.Background(), 1, 7, 5, "  "))
	assert.Contains(t, backend.lastBody, `"comment":null`)
	assert.Contains(t, backend.lastBody, `"rating":5`)
}

func TestReopenRequiresReason(t *testing.T) {
	backend := &fakeBackend{}
	gw, _ := newGateway(t, backend)

	assert.ErrorIs(t, gw.Reopen(context.Background(), 1, 7, ""), ErrValidation)
	assert.Equal(t, int64(0), backend.mutationCount())
}

func TestUpdateStatusRequiresNotes(t *testing.T) {
	backend := &fakeBackend{}
	gw, _ := newGateway(t, backend)

	err := gw.UpdateStatus(context.Background(), 1, models.StatusResolved, "", "officer")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int64(0), backend.mutationCount())
}

func TestWarnHighRating(t *testing.T) {
	assert.False(t, WarnHighRating(3))
	assert.True(t, WarnHighRating(4))
	assert.True(t, WarnHighRating(5))
}

func TestFailedMutationLeavesSnapshot(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/api/grievances" {
			calls++
			_ = json.NewEncoder(w).Encode([]models.Grievance{
				{ID: 1, Status: models.StatusPending, VerificationStatus: models.VerificationApproved},
			})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"database unavailable"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	s := NewStore(c, Scope{})
	assert.NoError(t, s.Reload(context.Background()))
	gw := NewGateway(c, s)

	err := gw.Assign(context.Background(), 1, 10)
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "database unavailable", apiErr.Message)

	assert.Equal(t, 1, calls, "no reload after a failed mutation")
	assert.Len(t, s.Snapshot(), 1)
}
