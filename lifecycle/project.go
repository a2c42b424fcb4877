package lifecycle

import (
	"sort"
	"strconv"
	"strings"

	"civicpulse-be/models"
)

// Synthetic status buckets accepted by Criteria.Status alongside the real
// status values; they match on verificationStatus instead.
const (
	BucketVerified = "verified"
	BucketRejected = "rejected"
)

// Criteria describes a dashboard filter. Zero values (or "all") match
// everything.
type Criteria struct {
	Search   string
	Status   string
	Category string
	Priority string
}

// Filter returns the grievances matching the criteria. The input slice is
// never mutated.
func Filter(grievances []models.Grievance, c Criteria) []models.Grievance {
	out := make([]models.Grievance, 0, len(grievances))
	search := strings.ToLower(strings.TrimSpace(c.Search))

	for _, g := range grievances {
		if !matchesSearch(g, search) {
			continue
		}
		if !matchesStatus(g, c.Status) {
			continue
		}
		if c.Category != "" && c.Category != "all" && g.Category != c.Category {
			continue
		}
		if c.Priority != "" && c.Priority != "all" &&
			PriorityBucket(g.Priority) != models.Priority(c.Priority) {
			continue
		}
		out = append(out, g)
	}

	return out
}

// matchesSearch does a case-insensitive substring match against the
// stringified id, location, category and description.
func matchesSearch(g models.Grievance, search string) bool {
	if search == "" {
		return true
	}
	fields := []string{
		strconv.FormatInt(g.ID, 10),
		g.Location,
		g.Category,
		g.Description,
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func matchesStatus(g models.Grievance, status string) bool {
	switch status {
	case "", "all":
		return true
	case BucketVerified:
		return g.Verification() == models.VerificationApproved
	case BucketRejected:
		return g.Verification() == models.VerificationRejected
	default:
		return g.Status == models.GrievanceStatus(status)
	}
}

// PendingVerification returns the grievances still awaiting admin
// verification: submitted but not yet approved.
func PendingVerification(grievances []models.Grievance) []models.Grievance {
	out := make([]models.Grievance, 0)
	for _, g := range grievances {
		if g.Status == models.StatusPending && g.Verification() != models.VerificationApproved {
			out = append(out, g)
		}
	}
	return out
}

// CitizenStats summarizes a citizen's grievances for the dashboard header.
// Pending counts both PENDING and IN_PROGRESS, matching the citizen view.
type CitizenStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Resolved int64 `json:"resolved"`
}

func Stats(grievances []models.Grievance) CitizenStats {
	var s CitizenStats
	s.Total = int64(len(grievances))
	for _, g := range grievances {
		switch g.Status {
		case models.StatusPending, models.StatusInProgress:
			s.Pending++
		case models.StatusResolved:
			s.Resolved++
		}
	}
	return s
}

// OfficerWorkload is one officer's row in the workload view.
type OfficerWorkload struct {
	OfficerID      int64   `json:"officerId"`
	Name           string  `json:"name"`
	Department     string  `json:"department"`
	Assigned       int64   `json:"assigned"`
	Resolved       int64   `json:"resolved"`
	CompletionRate float64 `json:"completionRate"`
	Rating         float64 `json:"rating"`
}

// DepartmentWorkload groups officer workloads under one department.
type DepartmentWorkload struct {
	Department string            `json:"department"`
	Officers   []OfficerWorkload `json:"officers"`
}

// Workload aggregates grievances per assigned officer: total and resolved
// counts, completion rate (0 when nothing assigned) and the derived rating
// resolved/assigned*5. Officers are grouped by department (alphabetical)
// and sorted by descending workload within each group.
func Workload(grievances []models.Grievance, officers []models.User) []DepartmentWorkload {
	assigned := make(map[int64]int64)
	resolved := make(map[int64]int64)
	for _, g := range grievances {
		if g.AssignedTo == nil {
			continue
		}
		assigned[g.AssignedTo.ID]++
		if g.Status == models.StatusResolved || g.Status == models.StatusCompleted {
			resolved[g.AssignedTo.ID]++
		}
	}

	byDept := make(map[string][]OfficerWorkload)
	for _, o := range officers {
		dept := o.Department
		if dept == "" {
			dept = string(models.General)
		}
		w := OfficerWorkload{
			OfficerID:  o.ID,
			Name:       o.Name,
			Department: dept,
			Assigned:   assigned[o.ID],
			Resolved:   resolved[o.ID],
		}
		if w.Assigned > 0 {
			w.CompletionRate = float64(w.Resolved) / float64(w.Assigned)
			w.Rating = w.CompletionRate * 5
		}
		byDept[dept] = append(byDept[dept], w)
	}

	depts := make([]string, 0, len(byDept))
	for d := range byDept {
		depts = append(depts, d)
	}
	sort.Strings(depts)

	out := make([]DepartmentWorkload, 0, len(depts))
	for _, d := range depts {
		rows := byDept[d]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Assigned > rows[j].Assigned
		})
		out = append(out, DepartmentWorkload{Department: d, Officers: rows})
	}
	return out
}

// TotalAssigned sums the per-officer assigned counts of a workload view.
func TotalAssigned(workload []DepartmentWorkload) int64 {
	var total int64
	for _, dept := range workload {
		for _, o := range dept.Officers {
			total += o.Assigned
		}
	}
	return total
}
