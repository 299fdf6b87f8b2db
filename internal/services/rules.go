package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dentacare/booking-api/internal/models"
	"github.com/dentacare/booking-api/internal/store"
)

// Rejection reasons surfaced by the rule engine. Handlers map these to HTTP
// statuses; anything else is a store failure.
var (
	ErrNotOnTheHour        = errors.New("Booking time must be on the hour (e.g., 14:00, 15:00)")
	ErrDentistNotFound     = errors.New("Dentist not found")
	ErrActiveBookingExists = errors.New("User already has an active booking")
	ErrBookingOverlap      = errors.New("The requested time overlaps with an existing booking for this dentist")
)

// Rules is the booking rule engine. It is a pure guard: it reads the store to
// evaluate the scheduling invariants but never writes.
type Rules struct {
	DB *mongo.Database
}

func NewRules(db *mongo.Database) *Rules {
	return &Rules{DB: db}
}

// NormalizeDate converts a proposed booking time to UTC so that overlap
// comparisons are time-zone independent. Called once, before any check.
func NormalizeDate(t time.Time) time.Time {
	return t.UTC()
}

// OnTheHour reports whether t has zero minute and second components.
func OnTheHour(t time.Time) bool {
	return t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// ValidateBooking runs the scheduling checks for a proposed booking and
// returns the normalized date to persist. exclude identifies a booking being
// updated, which must not conflict with itself. The caller performs the
// actual write.
//
// Check order: on-the-hour, dentist exists, one active booking per non-admin
// requester, no overlapping booking for the dentist at that time.
func (r *Rules) ValidateBooking(ctx context.Context, requesterID primitive.ObjectID, requesterRole string, dentistID primitive.ObjectID, date time.Time, exclude *primitive.ObjectID) (time.Time, error) {
	date = NormalizeDate(date)

	if !OnTheHour(date) {
		return date, ErrNotOnTheHour
	}

	err := r.DB.Collection(store.DentistsCollection).
		FindOne(ctx, bson.M{"_id": dentistID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return date, ErrDentistNotFound
		}
		return date, fmt.Errorf("look up dentist: %w", err)
	}

	bookings := r.DB.Collection(store.BookingsCollection)

	if requesterRole != models.RoleAdmin {
		filter := bson.M{"user": requesterID, "status": models.StatusBooked}
		if exclude != nil {
			filter["_id"] = bson.M{"$ne": *exclude}
		}
		err = bookings.FindOne(ctx, filter).Err()
		if err == nil {
			return date, ErrActiveBookingExists
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return date, fmt.Errorf("check active booking: %w", err)
		}
	}

	filter := bson.M{"dentist": dentistID, "date": date, "status": models.StatusBooked}
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}
	err = bookings.FindOne(ctx, filter).Err()
	if err == nil {
		return date, ErrBookingOverlap
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return date, fmt.Errorf("check overlapping booking: %w", err)
	}

	return date, nil
}
