// Package lifecycle holds the pure grievance lifecycle logic shared by the
// API handlers and the dashboard client: display classification, allowed
// status transitions, and in-memory projections (filters, workload, heat
// zones, dashboard aggregates).
package lifecycle

import (
	"civicpulse-be/models"
)

// Badge pairs a display label with its style class.
type Badge struct {
	Label string `json:"label"`
	Class string `json:"class"`
}

var statusBadges = map[models.GrievanceStatus]Badge{
	models.StatusPending:    {Label: "Pending", Class: "status-pending"},
	models.StatusInProgress: {Label: "In Progress", Class: "status-in-progress"},
	models.StatusResolved:   {Label: "Resolved", Class: "status-resolved"},
	models.StatusCompleted:  {Label: "Completed", Class: "status-completed"},
	models.StatusRejected:   {Label: "Rejected", Class: "status-rejected"},
}

// StatusBadge maps a status to its display badge. Unknown statuses pass
// through unchanged with the default style; an empty status renders "N/A".
func StatusBadge(status models.GrievanceStatus) Badge {
	if b, ok := statusBadges[status]; ok {
		return b
	}
	if status == "" {
		return Badge{Label: "N/A", Class: "status-default"}
	}
	return Badge{Label: string(status), Class: "status-default"}
}

// VerificationBadge maps a verification state to its display badge. Every
// value other than APPROVED and REJECTED, including the empty one, reads as
// still pending.
func VerificationBadge(vs models.VerificationStatus) Badge {
	switch vs {
	case models.VerificationApproved:
		return Badge{Label: "Verified", Class: "badge-verified"}
	case models.VerificationRejected:
		return Badge{Label: "Rejected", Class: "badge-rejected"}
	default:
		return Badge{Label: "Pending Verification", Class: "badge-pending"}
	}
}

// PriorityBucket normalizes a priority value, defaulting unset or
// unrecognized values to MEDIUM.
func PriorityBucket(p models.Priority) models.Priority {
	switch p {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent:
		return p
	default:
		return models.PriorityMedium
	}
}

// DisplayText substitutes "N/A" for missing free-text fields.
func DisplayText(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
