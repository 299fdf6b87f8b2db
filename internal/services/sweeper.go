package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dentacare/booking-api/internal/models"
	"github.com/dentacare/booking-api/internal/store"
)

// Sweeper marks past bookings as completed so they stop counting against the
// one-active-booking rule.
type Sweeper struct {
	DB      *mongo.Database
	cron    *cron.Cron
	catchup sync.WaitGroup
}

func NewSweeper(db *mongo.Database) *Sweeper {
	return &Sweeper{DB: db, cron: cron.New()}
}

// Start schedules the daily sweep at 00:05 and runs one pass immediately to
// catch up after downtime.
func (s *Sweeper) Start() {
	if _, err := s.cron.AddFunc("5 0 * * *", func() {
		if err := s.CompletePastBookings(context.Background()); err != nil {
			log.Printf("Booking sweep failed: %v", err)
		}
	}); err != nil {
		log.Printf("Scheduling booking sweep failed: %v", err)
	}
	s.cron.Start()

	s.catchup.Add(1)
	go func() {
		defer s.catchup.Done()
		if err := s.CompletePastBookings(context.Background()); err != nil {
			log.Printf("Initial booking sweep failed: %v", err)
		}
	}()
}

// Stop halts the scheduler, waiting for scheduled jobs and the catch-up
// sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.catchup.Wait()
}

// CompletePastBookings flips every booked booking whose hour has passed to
// completed.
func (s *Sweeper) CompletePastBookings(ctx context.Context) error {
	filter := bson.M{
		"status": models.StatusBooked,
		"date":   bson.M{"$lt": time.Now().UTC()},
	}
	update := bson.M{"$set": bson.M{"status": models.StatusCompleted}}

	result, err := s.DB.Collection(store.BookingsCollection).UpdateMany(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.ModifiedCount > 0 {
		log.Printf("Booking sweep completed %d past booking(s)", result.ModifiedCount)
	}
	return nil
}
