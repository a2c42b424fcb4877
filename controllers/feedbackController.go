package controllers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmitFeedback records a citizen's rating of a resolved grievance. One
// feedback per grievance; an empty comment is stored as null.
func SubmitFeedback(c *gin.Context) {
	var input struct {
		GrievanceID int64   `json:"grievanceId" binding:"required"`
		UserID      int64   `json:"userId" binding:"required"`
		Rating      int     `json:"rating" binding:"required"`
		Comment     *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Rating < 1 || input.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grievance, ok := findGrievance(ctx, c, input.GrievanceID)
	if !ok {
		return
	}
	if grievance.Status != models.StatusResolved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feedback can only be submitted for resolved complaints"})
		return
	}

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": input.UserID}).Decode(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		return
	}

	count, err := feedbackCollection.CountDocuments(ctx, bson.M{"grievanceId": input.GrievanceID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing feedback"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feedback already submitted for this complaint"})
		return
	}

	comment := input.Comment
	if comment != nil && strings.TrimSpace(*comment) == "" {
		comment = nil
	}

	id, err := models.NextSequence(counterCollection, "feedback")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate feedback id"})
		return
	}

	feedback := models.Feedback{
		ID:          id,
		GrievanceID: input.GrievanceID,
		UserID:      input.UserID,
		Rating:      input.Rating,
		Comment:     comment,
		IsReopened:  false,
		CreatedAt:   time.Now(),
	}

	if _, err := feedbackCollection.InsertOne(ctx, feedback); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Feedback already submitted for this complaint"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}

	_, _ = grievanceCollection.UpdateOne(ctx, bson.M{"_id": input.GrievanceID},
		bson.M{"$set": bson.M{"feedbackSubmitted": true, "updatedAt": time.Now()}})

	c.JSON(http.StatusOK, feedback)
}

// ReopenComplaint resets a grievance back to PENDING on the owner's
// request. The feedback record, if any, is kept and marked reopened.
func ReopenComplaint(c *gin.Context) {
	grievanceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}
	reason := strings.TrimSpace(c.Query("reason"))
	if reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reopen reason is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grievance, ok := findGrievance(ctx, c, grievanceID)
	if !ok {
		return
	}
	if grievance.User == nil || grievance.User.ID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only reopen your own complaints"})
		return
	}

	update := bson.M{
		"status":             string(models.StatusPending),
		"verificationStatus": string(models.VerificationPending),
		"feedbackSubmitted":  false,
		"reopenReason":       reason,
		"updatedAt":          time.Now(),
	}
	if _, err := grievanceCollection.UpdateOne(ctx, bson.M{"_id": grievanceID}, bson.M{"$set": update}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reopen complaint"})
		return
	}

	_, _ = feedbackCollection.UpdateOne(ctx, bson.M{"grievanceId": grievanceID},
		bson.M{"$set": bson.M{"isReopened": true}})

	c.JSON(http.StatusOK, gin.H{
		"message":     "Complaint reopened successfully",
		"grievanceId": grievanceID,
		"newStatus":   string(models.StatusPending),
	})
}

// GetFeedbackByGrievance fetches the feedback for one grievance. Absence is
// a plain 404 the dashboards treat as "no feedback yet".
func GetFeedbackByGrievance(c *gin.Context) {
	grievanceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var feedback models.Feedback
	err := feedbackCollection.FindOne(ctx, bson.M{"grievanceId": grievanceID}).Decode(&feedback)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "No feedback for this grievance"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
		}
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// GetFeedbackByUser lists all feedback one citizen has submitted
func GetFeedbackByUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := feedbackCollection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
		return
	}
	defer cursor.Close(ctx)

	feedback := make([]models.Feedback, 0)
	if err := cursor.All(ctx, &feedback); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode feedback"})
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// GetAdminFeedbackStats aggregates ratings for the admin dashboard:
// histogram, average, reopened count and how many resolved grievances still
// lack feedback.
func GetAdminFeedbackStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := feedbackCollection.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
		return
	}
	defer cursor.Close(ctx)

	var allFeedback []models.Feedback
	if err := cursor.All(ctx, &allFeedback); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode feedback"})
		return
	}

	totalResolved, err := grievanceCollection.CountDocuments(ctx,
		bson.M{"status": string(models.StatusResolved)})
	if err != nil {
		totalResolved = 0
	}
	pendingFeedback, err := grievanceCollection.CountDocuments(ctx, bson.M{
		"status":            string(models.StatusResolved),
		"feedbackSubmitted": false,
	})
	if err != nil {
		pendingFeedback = 0
	}

	distribution := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	var ratingSum int64
	var reopened int64
	for _, f := range allFeedback {
		if f.Rating >= 1 && f.Rating <= 5 {
			distribution[f.Rating]++
			ratingSum += int64(f.Rating)
		}
		if f.IsReopened {
			reopened++
		}
	}

	var avgRating float64
	received := int64(len(allFeedback))
	if received > 0 {
		avgRating = math.Round(float64(ratingSum)/float64(received)*10) / 10
	}
	var feedbackRate float64
	if totalResolved > 0 {
		feedbackRate = math.Round(float64(received) * 100 / float64(totalResolved))
	}

	c.JSON(http.StatusOK, gin.H{
		"totalResolved":      totalResolved,
		"feedbackReceived":   received,
		"pendingFeedback":    pendingFeedback,
		"reopenedCount":      reopened,
		"averageRating":      avgRating,
		"feedbackRate":       feedbackRate,
		"ratingDistribution": distribution,
	})
}

// DeleteFeedback removes one feedback record
func DeleteFeedback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := feedbackCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete feedback"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted successfully"})
}
