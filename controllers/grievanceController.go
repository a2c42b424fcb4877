package controllers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"civicpulse-be/config"
	"civicpulse-be/lifecycle"
	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var grievanceCollection *mongo.Collection = config.GetCollection("grievances")
var userCollection *mongo.Collection = config.GetCollection("users")
var feedbackCollection *mongo.Collection = config.GetCollection("feedback")
var counterCollection *mongo.Collection = config.GetCollection("counters")

const maxImageSize = 5 * 1024 * 1024

// Default reason stored when an admin approves without giving one.
const defaultVerificationReason = "Verified by admin"

func uploadPath() string {
	if p := os.Getenv("UPLOAD_PATH"); p != "" {
		return p
	}
	return "./uploads"
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func findGrievance(ctx context.Context, c *gin.Context, id int64) (*models.Grievance, bool) {
	var g models.Grievance
	err := grievanceCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Grievance not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve grievance"})
		}
		return nil, false
	}
	return &g, true
}

// SubmitGrievance handles the multipart grievance submission with an image
// attachment. The department is copied from the category; verification
// always starts out pending.
func SubmitGrievance(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	category := strings.TrimSpace(c.PostForm("category"))
	location := strings.TrimSpace(c.PostForm("location"))
	description := c.PostForm("description")
	citizenIDStr := c.PostForm("citizenId")

	if title == "" || category == "" || location == "" || citizenIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, category, location and citizenId are required"})
		return
	}
	if !models.ValidCategories[category] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}
	citizenID, err := strconv.ParseInt(citizenIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid citizenId"})
		return
	}

	status := models.StatusPending
	if s := c.PostForm("status"); s != "" {
		switch models.GrievanceStatus(s) {
		case models.StatusPending, models.StatusInProgress, models.StatusResolved, models.StatusCompleted:
			status = models.GrievanceStatus(s)
		}
	}

	priority := models.Priority("")
	if p := c.PostForm("priority"); p != "" {
		priority = lifecycle.PriorityBucket(models.Priority(p))
	}

	var latitude, longitude *float64
	if v := c.PostForm("latitude"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			latitude = &f
		}
	}
	if v := c.PostForm("longitude"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			longitude = &f
		}
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image is required"})
		return
	}
	if file.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image size must be less than 5MB"})
		return
	}
	contentType := file.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPG, JPEG, and PNG images are allowed"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var citizen models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": citizenID}).Decode(&citizen); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}

	if err := os.MkdirAll(uploadPath(), 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
		return
	}
	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(uploadPath(), filename)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	id, err := models.NextSequence(counterCollection, "grievances")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate grievance id"})
		return
	}

	now := time.Now()
	grievance := models.Grievance{
		ID:                 id,
		Title:              title,
		Category:           category,
		Location:           location,
		Description:        description,
		ImagePath:          filename,
		Status:             status,
		VerificationStatus: models.VerificationPending,
		Priority:           priority,
		Department:         category,
		User:               &models.UserRef{ID: citizen.ID, Name: citizen.Name},
		Latitude:           latitude,
		Longitude:          longitude,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if _, err := grievanceCollection.InsertOne(ctx, grievance); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create grievance"})
		return
	}

	c.JSON(http.StatusCreated, grievance)
}

// GetAllGrievances retrieves all grievances, optionally narrowed by status,
// category or a free-text search, newest first.
func GetAllGrievances(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if category := c.Query("category"); category != "" && category != "all" {
		filter["category"] = category
	}
	if status := c.Query("status"); status != "" && status != "all" {
		switch status {
		case lifecycle.BucketVerified:
			filter["verificationStatus"] = string(models.VerificationApproved)
		case lifecycle.BucketRejected:
			filter["verificationStatus"] = string(models.VerificationRejected)
		default:
			filter["status"] = status
		}
	}
	if search := c.Query("search"); search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
			{"location": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := grievanceCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve grievances"})
		return
	}
	defer cursor.Close(ctx)

	grievances := make([]models.Grievance, 0)
	if err := cursor.All(ctx, &grievances); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode grievances"})
		return
	}

	c.JSON(http.StatusOK, grievances)
}

// GetGrievance retrieves a grievance by its ID
func GetGrievance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grievance, ok := findGrievance(ctx, c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, grievance)
}

// GetCitizenGrievances retrieves all grievances submitted by one citizen,
// newest first.
func GetCitizenGrievances(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := grievanceCollection.Find(ctx, bson.M{"user.id": userID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve grievances"})
		return
	}
	defer cursor.Close(ctx)

	grievances := make([]models.Grievance, 0)
	if err := cursor.All(ctx, &grievances); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode grievances"})
		return
	}

	c.JSON(http.StatusOK, grievances)
}

// GetCitizenStats summarizes a citizen's grievances for the dashboard
// header cards.
func GetCitizenStats(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := grievanceCollection.Find(ctx, bson.M{"user.id": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve grievances"})
		return
	}
	defer cursor.Close(ctx)

	var grievances []models.Grievance
	if err := cursor.All(ctx, &grievances); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode grievances"})
		return
	}

	c.JSON(http.StatusOK, lifecycle.Stats(grievances))
}

// GetAssignedGrievances retrieves the grievances an officer works on. The
// original system routes by department, matched case-insensitively against
// the grievance category.
func GetAssignedGrievances(c *gin.Context) {
	officerID, ok := parseID(c, "officerId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var officer models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": officerID}).Decode(&officer); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Officer not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve officer"})
		}
		return
	}

	department := officer.Department
	if department == "" {
		department = string(models.General)
	}

	filter := bson.M{"category": bson.M{
		"$regex":   "^" + regexp.QuoteMeta(department) + "$",
		"$options": "i",
	}}
	cursor, err := grievanceCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve grievances"})
		return
	}
	defer cursor.Close(ctx)

	grievances := make([]models.Grievance, 0)
	if err := cursor.All(ctx, &grievances); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode grievances"})
		return
	}

	c.JSON(http.StatusOK, grievances)
}

// GetGrievancesByStatus retrieves grievances in one status
func GetGrievancesByStatus(c *gin.Context) {
	status := models.GrievanceStatus(c.Param("status"))
	switch status {
	case models.StatusPending, models.StatusInProgress, models.StatusResolved,
		models.StatusCompleted, models.StatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := grievanceCollection.Find(ctx, bson.M{"status": string(status)})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve grievances"})
		return
	}
	defer cursor.Close(ctx)

	grievances := make([]models.Grievance, 0)
	if err := cursor.All(ctx, &grievances); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode grievances"})
		return
	}

	c.JSON(http.StatusOK, grievances)
}

// GetGrievancesByCategory retrieves grievances in one category
func GetGrievancesByCategory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := grievanceCollection.Find(ctx, bson.M{"category": c.Param("category")})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve grievances"})
		return
	}
	defer cursor.Close(ctx)

	grievances := make([]models.Grievance, 0)
	if err := cursor.All(ctx, &grievances); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode grievances"})
		return
	}

	c.JSON(http.StatusOK, grievances)
}

// GetPendingVerification lists grievances awaiting admin verification.
func GetPendingVerification(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := grievanceCollection.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve grievances"})
		return
	}
	defer cursor.Close(ctx)

	var grievances []models.Grievance
	if err := cursor.All(ctx, &grievances); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode grievances"})
		return
	}

	c.JSON(http.StatusOK, lifecycle.PendingVerification(grievances))
}

// VerifyGrievance approves or rejects a pending grievance. Rejection
// requires a reason; approval without one stores a default message.
func VerifyGrievance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Approved bool   `json:"approved"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reason := strings.TrimSpace(input.Reason)
	if !input.Approved && reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rejection reason is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grievance, ok := findGrievance(ctx, c, id)
	if !ok {
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Approved {
		if reason == "" {
			reason = defaultVerificationReason
		}
		update["verificationStatus"] = string(models.VerificationApproved)
		update["verificationReason"] = reason
		grievance.VerificationStatus = models.VerificationApproved
		grievance.VerificationReason = reason
	} else {
		update["verificationStatus"] = string(models.VerificationRejected)
		update["rejectionReason"] = reason
		update["status"] = string(models.StatusRejected)
		grievance.VerificationStatus = models.VerificationRejected
		grievance.RejectionReason = reason
		grievance.Status = models.StatusRejected
	}

	if _, err := grievanceCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update grievance"})
		return
	}

	c.JSON(http.StatusOK, grievance)
}

// AssignGrievance links an approved grievance to an officer and moves it to
// IN_PROGRESS. Unverified grievances cannot be assigned.
func AssignGrievance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	officerID, err := strconv.ParseInt(c.Query("officerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid officerId"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grievance, ok := findGrievance(ctx, c, id)
	if !ok {
		return
	}
	if !grievance.IsApproved() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot assign unverified grievance"})
		return
	}

	var officer models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": officerID}).Decode(&officer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Officer not found"})
		return
	}

	assignee := models.UserRef{ID: officer.ID, Name: officer.Name}
	update := bson.M{
		"assignedTo": assignee,
		"status":     string(models.StatusInProgress),
		"updatedAt":  time.Now(),
	}
	if _, err := grievanceCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update grievance"})
		return
	}

	grievance.AssignedTo = &assignee
	grievance.Status = models.StatusInProgress
	c.JSON(http.StatusOK, grievance)
}

// UpdateGrievanceStatus advances a grievance along the lifecycle. Notes are
// mandatory and recorded as officer remarks; resolving stamps resolvedAt.
func UpdateGrievanceStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Status    string `json:"status" binding:"required"`
		Notes     string `json:"notes" binding:"required"`
		UpdatedBy string `json:"updatedBy"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newStatus := models.GrievanceStatus(input.Status)
	switch newStatus {
	case models.StatusPending, models.StatusInProgress, models.StatusResolved,
		models.StatusCompleted, models.StatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grievance, ok := findGrievance(ctx, c, id)
	if !ok {
		return
	}

	if !lifecycle.CanTransition(grievance.Status, newStatus) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid status transition",
			"allowed": lifecycle.AllowedTransitions(grievance.Status),
		})
		return
	}

	now := time.Now()
	update := bson.M{
		"status":         string(newStatus),
		"officerRemarks": input.Notes,
		"updatedAt":      now,
	}
	if newStatus == models.StatusResolved {
		update["resolvedAt"] = now
		grievance.ResolvedAt = &now
	}

	if _, err := grievanceCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update grievance"})
		return
	}

	grievance.Status = newStatus
	grievance.OfficerRemarks = input.Notes
	grievance.UpdatedAt = now
	c.JSON(http.StatusOK, grievance)
}

// DeleteGrievance removes a grievance and any feedback attached to it
func DeleteGrievance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := grievanceCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete grievance"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grievance not found"})
		return
	}

	// Delete associated feedback
	_, _ = feedbackCollection.DeleteMany(ctx, bson.M{"grievanceId": id})

	c.JSON(http.StatusOK, gin.H{"message": "Grievance deleted successfully"})
}

// GetGrievanceImage serves an uploaded grievance image
func GetGrievanceImage(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" || strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}

	path := filepath.Join(uploadPath(), filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	c.File(path)
}
