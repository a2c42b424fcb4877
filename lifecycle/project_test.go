package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"civicpulse-be/models"
)

func grievance(id int64, status models.GrievanceStatus, verification models.VerificationStatus) models.Grievance {
	return models.Grievance{
		ID:                 id,
		Status:             status,
		VerificationStatus: verification,
	}
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	in := []models.Grievance{
		{ID: 1, Location: "MG Road", Category: string(models.Water), Status: models.StatusPending},
		{ID: 2, Location: "Park Street", Category: string(models.Road), Status: models.StatusPending},
	}

	out := Filter(in, Criteria{Search: "mg road"})
	assert.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)

	out = Filter(in, Criteria{Search: "2"})
	assert.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].ID)
}

func TestFilterSyntheticBuckets(t *testing.T) {
	in := []models.Grievance{
		grievance(1, models.StatusPending, models.VerificationApproved),
		grievance(2, models.StatusPending, models.VerificationRejected),
		grievance(3, models.StatusPending, ""),
	}

	verified := Filter(in, Criteria{Status: BucketVerified})
	assert.Len(t, verified, 1)
	assert.Equal(t, int64(1), verified[0].ID)

	rejected := Filter(in, Criteria{Status: BucketRejected})
	assert.Len(t, rejected, 1)
	assert.Equal(t, int64(2), rejected[0].ID)
}

func TestFilterAllMatchesEverything(t *testing.T) {
	in := []models.Grievance{
		grievance(1, models.StatusPending, ""),
		grievance(2, models.StatusResolved, models.VerificationApproved),
	}
	assert.Len(t, Filter(in, Criteria{Status: "all", Category: "all", Priority: "all"}), 2)
	assert.Len(t, Filter(in, Criteria{}), 2)
}

func TestFilterPriorityUsesBucketDefault(t *testing.T) {
	in := []models.Grievance{
		{ID: 1, Status: models.StatusPending},
		{ID: 2, Status: models.StatusPending, Priority: models.PriorityHigh},
	}
	out := Filter(in, Criteria{Priority: string(models.PriorityMedium)})
	assert.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID, "unset priority buckets as MEDIUM")
}

func TestPendingVerification(t *testing.T) {
	in := []models.Grievance{
		grievance(1, models.StatusPending, ""),
		grievance(2, models.StatusPending, models.VerificationPending),
		grievance(3, models.StatusPending, models.VerificationApproved),
		grievance(4, models.StatusPending, models.VerificationRejected),
		grievance(5, models.StatusInProgress, models.VerificationPending),
	}

	out := PendingVerification(in)
	ids := make([]int64, 0, len(out))
	for _, g := range out {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []int64{1, 2, 4}, ids)

	// Running the projection over its own output changes nothing.
	again := PendingVerification(out)
	assert.Equal(t, out, again)
}

func TestStatsPendingCountsInProgress(t *testing.T) {
	in := []models.Grievance{
		grievance(1, models.StatusPending, ""),
		grievance(2, models.StatusInProgress, models.VerificationApproved),
		grievance(3, models.StatusResolved, models.VerificationApproved),
		grievance(4, models.StatusCompleted, models.VerificationApproved),
		grievance(5, models.StatusRejected, models.VerificationRejected),
	}

	s := Stats(in)
	assert.Equal(t, int64(5), s.Total)
	assert.Equal(t, int64(2), s.Pending)
	assert.Equal(t, int64(1), s.Resolved)
}

func TestWorkloadGroupingAndRating(t *testing.T) {
	officers := []models.User{
		{ID: 10, Name: "Asha", Role: models.RoleOfficer, Department: string(models.Water)},
		{ID: 11, Name: "Ravi", Role: models.RoleOfficer, Department: string(models.Water)},
		{ID: 12, Name: "Meena", Role: models.RoleOfficer},
	}
	assignedTo := func(id int64, name string) *models.UserRef {
		return &models.UserRef{ID: id, Name: name}
	}
	grievances := []models.Grievance{
		{ID: 1, Status: models.StatusResolved, AssignedTo: assignedTo(10, "Asha")},
		{ID: 2, Status: models.StatusCompleted, AssignedTo: assignedTo(10, "Asha")},
		{ID: 3, Status: models.StatusInProgress, AssignedTo: assignedTo(10, "Asha")},
		{ID: 4, Status: models.StatusInProgress, AssignedTo: assignedTo(11, "Ravi")},
		{ID: 5, Status: models.StatusPending},
	}

	out := Workload(grievances, officers)
	assert.Len(t, out, 2)

	// Departments come back alphabetically; the empty department falls
	// under General.
	assert.Equal(t, string(models.General), out[0].Department)
	assert.Equal(t, string(models.Water), out[1].Department)

	water := out[1].Officers
	assert.Len(t, water, 2)
	assert.Equal(t, "Asha", water[0].Name, "busiest officer first")
	assert.Equal(t, int64(3), water[0].Assigned)
	assert.Equal(t, int64(2), water[0].Resolved)
	assert.InDelta(t, 2.0/3.0, water[0].CompletionRate, 1e-9)
	assert.InDelta(t, 2.0/3.0*5, water[0].Rating, 1e-9)

	assert.Equal(t, "Ravi", water[1].Name)
	assert.Equal(t, float64(0), water[1].Rating)

	meena := out[0].Officers[0]
	assert.Equal(t, int64(0), meena.Assigned)
	assert.Equal(t, float64(0), meena.CompletionRate)
}

func TestWorkloadTotalMatchesAssignedGrievances(t *testing.T) {
	officers := []models.User{
		{ID: 10, Name: "Asha", Department: string(models.Water)},
		{ID: 11, Name: "Ravi", Department: string(models.Road)},
	}
	grievances := []models.Grievance{
		{ID: 1, Status: models.StatusPending, AssignedTo: &models.UserRef{ID: 10}},
		{ID: 2, Status: models.StatusResolved, AssignedTo: &models.UserRef{ID: 11}},
		{ID: 3, Status: models.StatusResolved, AssignedTo: &models.UserRef{ID: 11}},
		{ID: 4, Status: models.StatusPending},
	}

	var wantAssigned int64
	for _, g := range grievances {
		if g.AssignedTo != nil {
			wantAssigned++
		}
	}
	assert.Equal(t, wantAssigned, TotalAssigned(Workload(grievances, officers)))
}
