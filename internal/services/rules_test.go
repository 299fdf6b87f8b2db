package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/dentacare/booking-api/internal/models"
)

func TestOnTheHour(t *testing.T) {
	assert.True(t, OnTheHour(time.Date(2025, 4, 1, 14, 0, 0, 0, time.UTC)))
	assert.False(t, OnTheHour(time.Date(2025, 4, 1, 14, 30, 0, 0, time.UTC)))
	assert.False(t, OnTheHour(time.Date(2025, 4, 1, 14, 0, 30, 0, time.UTC)))
	assert.False(t, OnTheHour(time.Date(2025, 4, 1, 14, 0, 0, 500, time.UTC)))
}

func TestNormalizeDate(t *testing.T) {
	lagos := time.FixedZone("WAT", 60*60)
	local := time.Date(2025, 4, 1, 15, 0, 0, 0, lagos)

	normalized := NormalizeDate(local)
	assert.Equal(t, time.UTC, normalized.Location())
	assert.Equal(t, 14, normalized.Hour())
}

func foundDoc(ns string) bson.D {
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
		bson.D{{Key: "_id", Value: primitive.NewObjectID()}})
}

func emptyDoc(ns string) bson.D {
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch)
}

func TestValidateBooking(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	userID := primitive.NewObjectID()
	dentistID := primitive.NewObjectID()
	slot := time.Date(2025, 4, 1, 14, 0, 0, 0, time.UTC)

	mt.Run("rejects time off the hour", func(mt *mtest.T) {
		rules := NewRules(mt.DB)
		_, err := rules.ValidateBooking(context.Background(), userID, models.RoleUser,
			dentistID, slot.Add(30*time.Minute), nil)
		assert.ErrorIs(t, err, ErrNotOnTheHour)
	})

	mt.Run("rejects missing dentist", func(mt *mtest.T) {
		mt.AddMockResponses(emptyDoc("db.dentists"))

		rules := NewRules(mt.DB)
		_, err := rules.ValidateBooking(context.Background(), userID, models.RoleUser,
			dentistID, slot, nil)
		assert.ErrorIs(t, err, ErrDentistNotFound)
	})

	mt.Run("rejects second active booking for a user", func(mt *mtest.T) {
		mt.AddMockResponses(
			foundDoc("db.dentists"),
			foundDoc("db.bookings"), // the user's existing booked booking
		)

		rules := NewRules(mt.DB)
		_, err := rules.ValidateBooking(context.Background(), userID, models.RoleUser,
			dentistID, slot, nil)
		assert.ErrorIs(t, err, ErrActiveBookingExists)
	})

	mt.Run("rejects overlapping slot", func(mt *mtest.T) {
		mt.AddMockResponses(
			foundDoc("db.dentists"),
			emptyDoc("db.bookings"),
			foundDoc("db.bookings"), // another booking at the same dentist and time
		)

		rules := NewRules(mt.DB)
		_, err := rules.ValidateBooking(context.Background(), userID, models.RoleUser,
			dentistID, slot, nil)
		assert.ErrorIs(t, err, ErrBookingOverlap)
	})

	mt.Run("accepts a free on-the-hour slot", func(mt *mtest.T) {
		mt.AddMockResponses(
			foundDoc("db.dentists"),
			emptyDoc("db.bookings"),
			emptyDoc("db.bookings"),
		)

		rules := NewRules(mt.DB)
		date, err := rules.ValidateBooking(context.Background(), userID, models.RoleUser,
			dentistID, slot, nil)
		require.NoError(t, err)
		assert.True(t, date.Equal(slot))
	})

	mt.Run("admin requester skips the one-active-booking check", func(mt *mtest.T) {
		mt.AddMockResponses(
			foundDoc("db.dentists"),
			emptyDoc("db.bookings"), // overlap check only
		)

		rules := NewRules(mt.DB)
		_, err := rules.ValidateBooking(context.Background(), userID, models.RoleAdmin,
			dentistID, slot, nil)
		assert.NoError(t, err)
	})

	mt.Run("normalizes the proposed time to UTC before checking", func(mt *mtest.T) {
		mt.AddMockResponses(
			foundDoc("db.dentists"),
			emptyDoc("db.bookings"),
			emptyDoc("db.bookings"),
		)

		kathmandu := time.FixedZone("NPT", 5*60*60+45*60)
		local := time.Date(2025, 4, 1, 19, 45, 0, 0, kathmandu)

		rules := NewRules(mt.DB)
		date, err := rules.ValidateBooking(context.Background(), userID, models.RoleUser,
			dentistID, local, nil)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, date.Location())
		assert.Equal(t, 14, date.Hour())
		assert.Zero(t, date.Minute())
	})
}
