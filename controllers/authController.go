package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"civicpulse-be/models"
	authUtils "civicpulse-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// RegisterUser handles account registration for citizens, officers and
// admins. Officers without a department land in General.
func RegisterUser(c *gin.Context) {
	var input struct {
		Name       string `json:"name" binding:"required,max=50"`
		Email      string `json:"email" binding:"required,email"`
		Phone      string `json:"phone" binding:"required"`
		Password   string `json:"password" binding:"required,min=6"`
		Role       string `json:"role,omitempty"`
		Department string `json:"department,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.RoleCitizen
	switch models.Role(input.Role) {
	case models.RoleOfficer:
		role = models.RoleOfficer
	case models.RoleAdmin:
		role = models.RoleAdmin
	}

	department := ""
	if role == models.RoleOfficer {
		department = input.Department
		if department == "" {
			department = string(models.General)
		}
		if !models.ValidCategories[department] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := userCollection.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		log.Println("Error checking existing user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
		return
	}

	id, err := models.NextSequence(counterCollection, "users")
	if err != nil {
		log.Println("Error allocating user id:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	user := models.User{
		ID:         id,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Password:   input.Password,
		Role:       role,
		Department: department,
		Active:     true,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := user.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	if _, err := userCollection.InsertOne(ctx, user); err != nil {
		log.Println("Error creating user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful! Please login.",
		"email":   user.Email,
		"name":    user.Name,
		"role":    string(user.Role),
	})
}

// LoginUser validates credentials and issues a JWT
func LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User not found"})
		} else {
			log.Println("Error fetching user:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		}
		return
	}

	if !user.ComparePassword(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid password"})
		return
	}

	if !user.Active {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account is deactivated"})
		return
	}

	token, err := authUtils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"phone":      user.Phone,
			"role":       string(user.Role),
			"department": user.Department,
		},
	})
}
