package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalImagePathFallback(t *testing.T) {
	g := RawGrievance{ID: 1, ImagePath: "/uploads/a.jpg", ImageURL: "/uploads/b.jpg"}.Canonical()
	assert.Equal(t, "/uploads/a.jpg", g.ImagePath, "imagePath wins when both are set")

	g = RawGrievance{ID: 2, ImageURL: "/uploads/b.jpg"}.Canonical()
	assert.Equal(t, "/uploads/b.jpg", g.ImagePath)

	g = RawGrievance{ID: 3}.Canonical()
	assert.Empty(t, g.ImagePath)
}

func TestCanonicalUserNameFallback(t *testing.T) {
	g := RawGrievance{
		User:       &RawUserRef{ID: 7, FullName: "Asha Verma"},
		AssignedTo: &RawUserRef{ID: 9, Name: "Ravi Kumar", FullName: "R. Kumar"},
	}.Canonical()

	assert.Equal(t, &UserRef{ID: 7, Name: "Asha Verma"}, g.User)
	assert.Equal(t, &UserRef{ID: 9, Name: "Ravi Kumar"}, g.AssignedTo, "name wins over fullName")
}

func TestCanonicalNilUsers(t *testing.T) {
	g := RawGrievance{ID: 4}.Canonical()
	assert.Nil(t, g.User)
	assert.Nil(t, g.AssignedTo)
}

func TestCanonicalFromLegacyPayload(t *testing.T) {
	payload := `{
		"id": 42,
		"title": "Burst pipe",
		"category": "Water",
		"status": "IN_PROGRESS",
		"verificationStatus": "APPROVED",
		"imageUrl": "/api/grievances/42/image",
		"user": {"id": 7, "fullName": "Asha Verma"}
	}`

	var raw RawGrievance
	assert.NoError(t, json.Unmarshal([]byte(payload), &raw))

	g := raw.Canonical()
	assert.Equal(t, int64(42), g.ID)
	assert.Equal(t, StatusInProgress, g.Status)
	assert.True(t, g.IsApproved())
	assert.Equal(t, "/api/grievances/42/image", g.ImagePath)
	assert.Equal(t, "Asha Verma", g.User.Name)
}

func TestVerificationEmptyMeansPending(t *testing.T) {
	g := Grievance{}
	assert.Equal(t, VerificationPending, g.Verification())
	assert.False(t, g.IsApproved())

	g.VerificationStatus = VerificationApproved
	assert.True(t, g.IsApproved())
}
