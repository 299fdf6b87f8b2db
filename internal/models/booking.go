package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusBooked    = "booked"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Dentist   primitive.ObjectID `bson:"dentist" json:"dentist"`
	Date      time.Time          `bson:"date" json:"date"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ValidStatus reports whether s is one of the booking status values.
func ValidStatus(s string) bool {
	return s == StatusBooked || s == StatusCompleted || s == StatusCanceled
}

// Validate checks the field rules before a write. Scheduling rules (on the
// hour, no overlap, one active booking) live in the rule engine; this covers
// the record shape only.
func (b *Booking) Validate() error {
	verr := &ValidationError{}

	if b.User.IsZero() {
		verr.add("Please add a user")
	}
	if b.Dentist.IsZero() {
		verr.add("Please add a dentist")
	}
	if b.Date.IsZero() {
		verr.add("Please add a date")
	}
	if !ValidStatus(b.Status) {
		verr.add("Status must be booked, completed or canceled")
	}

	return verr.orNil()
}
