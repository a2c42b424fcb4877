package lifecycle

import (
	"civicpulse-be/models"
)

// allowedTransitions enforces the grievance status flow. RESOLVED and
// REJECTED may return to PENDING through the reopen path.
var allowedTransitions = map[models.GrievanceStatus][]models.GrievanceStatus{
	models.StatusPending:    {models.StatusInProgress, models.StatusResolved, models.StatusRejected},
	models.StatusInProgress: {models.StatusResolved, models.StatusCompleted},
	models.StatusResolved:   {models.StatusCompleted, models.StatusPending},
	models.StatusRejected:   {models.StatusPending},
	models.StatusCompleted:  {},
}

// CanTransition checks if a status transition is allowed
func CanTransition(from, to models.GrievanceStatus) bool {
	allowed, exists := allowedTransitions[from]
	if !exists {
		return false
	}
	for _, next := range allowed {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the allowed next statuses for a given status
func AllowedTransitions(from models.GrievanceStatus) []models.GrievanceStatus {
	allowed, exists := allowedTransitions[from]
	if !exists {
		return []models.GrievanceStatus{}
	}
	return allowed
}
