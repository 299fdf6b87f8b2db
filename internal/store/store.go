package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dentacare/booking-api/internal/models"
)

// Collection names used across handlers and services.
const (
	UsersCollection    = "users"
	DentistsCollection = "dentists"
	BookingsCollection = "bookings"
)

// Connect opens a Mongo client and pings the deployment.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique indexes the data model relies on. The
// partial index on bookings makes the overlap rule hold even when two create
// requests pass the pre-check concurrently: the second insert fails with a
// duplicate key error.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "telephone", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	dentistName := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection(DentistsCollection).Indexes().CreateOne(ctx, dentistName); err != nil {
		return fmt.Errorf("create dentist indexes: %w", err)
	}

	bookingSlot := mongo.IndexModel{
		Keys: bson.D{{Key: "dentist", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": models.StatusBooked}),
	}
	if _, err := db.Collection(BookingsCollection).Indexes().CreateOne(ctx, bookingSlot); err != nil {
		return fmt.Errorf("create booking indexes: %w", err)
	}

	return nil
}
