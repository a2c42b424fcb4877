package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"civicpulse-be/config"
	"civicpulse-be/lifecycle"
	"civicpulse-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

const dashboardCacheKey = "analytics:dashboard"
const dashboardCacheTTL = 60 * time.Second

// GetDashboardStats serves the analytics dashboard snapshot. The derived
// payload is cached in Redis briefly since every dashboard page load asks
// for it.
func GetDashboardStats(c *gin.Context) {
	if config.RedisClient != nil {
		if cached, err := config.RedisClient.Get(config.Ctx, dashboardCacheKey).Bytes(); err == nil {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
	}

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

	stats := lifecycle.Dashboard(grievances)

	if config.RedisClient != nil {
		if payload, err := json.Marshal(stats); err == nil {
			_ = config.RedisClient.Set(config.Ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, stats)
}

// GetOfficerWorkload returns per-officer workload grouped by department.
func GetOfficerWorkload(c *gin.Context) {
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

	userCursor, err := userCollection.Find(ctx, bson.M{"role": string(models.RoleOfficer)})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve officers"})
		return
	}
	defer userCursor.Close(ctx)

	var officers []models.User
	if err := userCursor.All(ctx, &officers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode officers"})
		return
	}

	c.JSON(http.StatusOK, lifecycle.Workload(grievances, officers))
}
