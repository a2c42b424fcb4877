package models

import (
	"time"
)

// GrievanceCategory enum; the original system keeps department equal to
// category at submission time.
type GrievanceCategory string

const (
	Road        GrievanceCategory = "Road"
	Water       GrievanceCategory = "Water"
	Electricity GrievanceCategory = "Electricity"
	Sanitation  GrievanceCategory = "Sanitation"
	StreetLight GrievanceCategory = "Street Light"
	General     GrievanceCategory = "General"
	Other       GrievanceCategory = "Other"
)

// ValidCategories doubles as the department list for officers.
var ValidCategories = map[string]bool{
	"Road": true, "Water": true, "Electricity": true,
	"Sanitation": true, "Street Light": true, "General": true, "Other": true,
}

// GrievanceStatus enum
type GrievanceStatus string

const (
	StatusPending    GrievanceStatus = "PENDING"
	StatusInProgress GrievanceStatus = "IN_PROGRESS"
	StatusResolved   GrievanceStatus = "RESOLVED"
	StatusCompleted  GrievanceStatus = "COMPLETED"
	// Written by the verify endpoint when a grievance is rejected.
	StatusRejected GrievanceStatus = "REJECTED"
)

// VerificationStatus enum; an empty value is treated as PENDING.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationApproved VerificationStatus = "APPROVED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// Priority enum
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// UserRef is an embedded reference to the submitting citizen or the
// assigned officer.
type UserRef struct {
	ID   int64  `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Grievance represents a citizen complaint tracked through verification,
// assignment and resolution.
type Grievance struct {
	ID                 int64              `bson:"_id" json:"id"`
	Title              string             `bson:"title" json:"title"`
	Category           string             `bson:"category" json:"category"`
	Location           string             `bson:"location" json:"location"`
	Description        string             `bson:"description" json:"description"`
	ImagePath          string             `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	Status             GrievanceStatus    `bson:"status" json:"status"`
	VerificationStatus VerificationStatus `bson:"verificationStatus" json:"verificationStatus"`
	VerificationReason string             `bson:"verificationReason,omitempty" json:"verificationReason,omitempty"`
	RejectionReason    string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Priority           Priority           `bson:"priority,omitempty" json:"priority,omitempty"`
	Department         string             `bson:"department" json:"department"`
	OfficerRemarks     string             `bson:"officerRemarks,omitempty" json:"officerRemarks,omitempty"`
	ReopenReason       string             `bson:"reopenReason,omitempty" json:"reopenReason,omitempty"`
	FeedbackSubmitted  bool               `bson:"feedbackSubmitted" json:"feedbackSubmitted"`
	Latitude           *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude          *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	User               *UserRef           `bson:"user,omitempty" json:"user,omitempty"`
	AssignedTo         *UserRef           `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
	ResolvedAt         *time.Time         `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

// Verification reports the grievance's verification state, mapping the
// empty value to PENDING.
func (g *Grievance) Verification() VerificationStatus {
	if g.VerificationStatus == "" {
		return VerificationPending
	}
	return g.VerificationStatus
}

// IsApproved reports whether the grievance passed admin verification and
// may be assigned to an officer.
func (g *Grievance) IsApproved() bool {
	return g.Verification() == VerificationApproved
}

// RawUserRef tolerates the legacy payload shape where the display name may
// arrive as either "name" or "fullName".
type RawUserRef struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
}

// RawGrievance is the wire shape accepted from older backend deployments,
// which served "imageUrl" instead of "imagePath" and mixed user name keys.
// Canonical maps it onto the one internal record shape so render sites
// never chain fallbacks.
type RawGrievance struct {
	ID                 int64       `json:"id"`
	Title              string      `json:"title"`
	Category           string      `json:"category"`
	Location           string      `json:"location"`
	Description        string      `json:"description"`
	ImagePath          string      `json:"imagePath"`
	ImageURL           string      `json:"imageUrl"`
	Status             string      `json:"status"`
	VerificationStatus string      `json:"verificationStatus"`
	VerificationReason string      `json:"verificationReason"`
	RejectionReason    string      `json:"rejectionReason"`
	Priority           string      `json:"priority"`
	Department         string      `json:"department"`
	OfficerRemarks     string      `json:"officerRemarks"`
	ReopenReason       string      `json:"reopenReason"`
	FeedbackSubmitted  bool        `json:"feedbackSubmitted"`
	Latitude           *float64    `json:"latitude"`
	Longitude          *float64    `json:"longitude"`
	User               *RawUserRef `json:"user"`
	AssignedTo         *RawUserRef `json:"assignedTo"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
	ResolvedAt         *time.Time  `json:"resolvedAt"`
}

// Canonical converts a raw payload into the internal record shape.
func (r RawGrievance) Canonical() Grievance {
	g := Grievance{
		ID:                 r.ID,
		Title:              r.Title,
		Category:           r.Category,
		Location:           r.Location,
		Description:        r.Description,
		ImagePath:          r.ImagePath,
		Status:             GrievanceStatus(r.Status),
		VerificationStatus: VerificationStatus(r.VerificationStatus),
		VerificationReason: r.VerificationReason,
		RejectionReason:    r.RejectionReason,
		Priority:           Priority(r.Priority),
		Department:         r.Department,
		OfficerRemarks:     r.OfficerRemarks,
		ReopenReason:       r.ReopenReason,
		FeedbackSubmitted:  r.FeedbackSubmitted,
		Latitude:           r.Latitude,
		Longitude:          r.Longitude,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		ResolvedAt:         r.ResolvedAt,
	}
	if g.ImagePath == "" {
		g.ImagePath = r.ImageURL
	}
	g.User = r.User.canonical()
	g.AssignedTo = r.AssignedTo.canonical()
	return g
}

func (r *RawUserRef) canonical() *UserRef {
	if r == nil {
		return nil
	}
	name := r.Name
	if name == "" {
		name = r.FullName
	}
	return &UserRef{ID: r.ID, Name: name}
}
