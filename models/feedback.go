package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Feedback is a citizen's rating of a resolved grievance. At most one
// feedback exists per grievance; reopening marks it instead of deleting it.
type Feedback struct {
	ID          int64     `bson:"_id" json:"id"`
	GrievanceID int64     `bson:"grievanceId" json:"grievanceId"`
	UserID      int64     `bson:"userId" json:"userId"`
	Rating      int       `bson:"rating" json:"rating"`
	Comment     *string   `bson:"comment,omitempty" json:"comment"`
	IsReopened  bool      `bson:"isReopened" json:"isReopened"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// EnsureFeedbackIndex creates a unique index on grievanceId so the
// one-feedback-per-grievance rule holds even under concurrent submissions
func EnsureFeedbackIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "grievanceId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
