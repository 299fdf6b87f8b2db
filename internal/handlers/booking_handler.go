package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dentacare/booking-api/internal/middleware"
	"github.com/dentacare/booking-api/internal/models"
	"github.com/dentacare/booking-api/internal/services"
	"github.com/dentacare/booking-api/internal/store"
	"github.com/dentacare/booking-api/internal/utils"
)

// DentistSummary is the dentist projection embedded in booking responses.
type DentistSummary struct {
	ID                primitive.ObjectID `json:"id"`
	Name              string             `json:"name"`
	YearsOfExperience int                `json:"yearsOfExperience"`
	AreaOfExpertise   string             `json:"areaOfExpertise"`
}

// BookingResponse is a booking with its dentist resolved by a foreign-key
// lookup.
type BookingResponse struct {
	ID        primitive.ObjectID `json:"id"`
	User      primitive.ObjectID `json:"user"`
	Dentist   *DentistSummary    `json:"dentist"`
	Date      time.Time          `json:"date"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

// GetBookings lists bookings. A plain user sees only their own; an admin sees
// all.
func (h *Handler) GetBookings(c *gin.Context) {
	userID, role := middleware.Identity(c)

	filter := bson.M{}
	if role != models.RoleAdmin {
		filter["user"] = userID
	}

	h.listBookings(c, filter)
}

// GetBooking fetches one booking by id. Non-admin lookups are scoped to the
// owner, so another user's booking reads as not found.
func (h *Handler) GetBooking(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	userID, role := middleware.Identity(c)
	filter := bson.M{"_id": bookingID}
	if role != models.RoleAdmin {
		filter["user"] = userID
	}

	var booking models.Booking
	err = h.DB.Collection(store.BookingsCollection).
		FindOne(c.Request.Context(), filter).Decode(&booking)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "No booking found with id "+c.Param("id"))
		return
	}

	resp, err := h.withDentists(c.Request.Context(), []models.Booking{booking})
	if err != nil {
		log.Printf("GetBooking: resolving dentist: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot find booking")
		return
	}

	utils.OK(c, http.StatusOK, resp[0])
}

// GetDentistBookings lists bookings for one dentist. A plain user sees only
// their own bookings with that dentist.
func (h *Handler) GetDentistBookings(c *gin.Context) {
	dentistID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid dentist ID")
		return
	}

	userID, role := middleware.Identity(c)
	filter := bson.M{"dentist": dentistID}
	if role != models.RoleAdmin {
		filter["user"] = userID
	}

	h.listBookings(c, filter)
}

type CreateBookingRequest struct {
	Date   string `json:"date" binding:"required"`
	Status string `json:"status"`
}

// CreateBooking books the authenticated user with the dentist from the path.
func (h *Handler) CreateBooking(c *gin.Context) {
	dentistID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid dentist ID")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Please provide a booking date")
		return
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid date format, use RFC3339")
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusBooked
	}
	if !models.ValidStatus(status) {
		utils.Fail(c, http.StatusBadRequest, "Status must be booked, completed or canceled")
		return
	}

	userID, role := middleware.Identity(c)
	ctx := c.Request.Context()

	date, err = h.Rules.ValidateBooking(ctx, userID, role, dentistID, date, nil)
	if err != nil {
		h.failRule(c, err)
		return
	}

	booking := models.Booking{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Dentist:   dentistID,
		Date:      date,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if err := booking.Validate(); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	_, err = h.DB.Collection(store.BookingsCollection).InsertOne(ctx, booking)
	if err != nil {
		// Lost the race against a concurrent create; the slot index caught it.
		if mongo.IsDuplicateKeyError(err) {
			utils.Fail(c, http.StatusBadRequest, services.ErrBookingOverlap.Error())
			return
		}
		log.Printf("CreateBooking: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot create booking")
		return
	}

	utils.OK(c, http.StatusCreated, booking)
}

type UpdateBookingRequest struct {
	Date    *string `json:"date,omitempty"`
	Dentist *string `json:"dentist,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// UpdateBooking changes a booking's date, dentist or status. Owner or admin
// only; scheduling rules are re-checked against the new values.
func (h *Handler) UpdateBooking(c *gin.Context) {
	h.updateBooking(c, false)
}

// DeleteBooking removes a booking permanently. Owner or admin only.
func (h *Handler) DeleteBooking(c *gin.Context) {
	h.deleteBooking(c, false)
}

func (h *Handler) updateBooking(c *gin.Context, adminRoute bool) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	ctx := c.Request.Context()

	var booking models.Booking
	err = h.DB.Collection(store.BookingsCollection).
		FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "No booking found with id "+c.Param("id"))
		return
	}

	userID, role := middleware.Identity(c)
	if !adminRoute && !middleware.OwnerOrRole(userID, role, booking.User, models.RoleAdmin) {
		utils.Fail(c, http.StatusUnauthorized,
			"User "+userID.Hex()+" is not authorized to update this booking")
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	updateFields := bson.M{}

	newDate := booking.Date
	if req.Date != nil {
		newDate, err = time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid date format, use RFC3339")
			return
		}
	}

	newDentist := booking.Dentist
	if req.Dentist != nil {
		newDentist, err = primitive.ObjectIDFromHex(*req.Dentist)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid dentist ID")
			return
		}
	}

	newStatus := booking.Status
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			utils.Fail(c, http.StatusBadRequest, "Status must be booked, completed or canceled")
			return
		}
		newStatus = *req.Status
		updateFields["status"] = newStatus
	}

	// Re-run the scheduling checks when the slot moves, and also when a
	// completed or canceled booking is flipped back to booked, which re-enters
	// it into the active-booking and overlap invariants. This booking is
	// excluded from its own conflict checks.
	slotChanged := req.Date != nil || req.Dentist != nil
	reactivated := newStatus == models.StatusBooked && booking.Status != models.StatusBooked
	if slotChanged || reactivated {
		newDate, err = h.Rules.ValidateBooking(ctx, userID, role, newDentist, newDate, &bookingID)
		if err != nil {
			h.failRule(c, err)
			return
		}
	}
	if slotChanged {
		updateFields["date"] = newDate
		updateFields["dentist"] = newDentist
	}

	if len(updateFields) == 0 {
		utils.Fail(c, http.StatusBadRequest, "No fields to update")
		return
	}

	bookings := h.DB.Collection(store.BookingsCollection)
	_, err = bookings.UpdateOne(ctx, bson.M{"_id": bookingID}, bson.M{"$set": updateFields})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.Fail(c, http.StatusBadRequest, services.ErrBookingOverlap.Error())
			return
		}
		log.Printf("UpdateBooking: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot update booking")
		return
	}

	if err = bookings.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking); err != nil {
		log.Printf("UpdateBooking: reloading: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot update booking")
		return
	}

	utils.OK(c, http.StatusOK, booking)
}

func (h *Handler) deleteBooking(c *gin.Context, adminRoute bool) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	ctx := c.Request.Context()

	var booking models.Booking
	err = h.DB.Collection(store.BookingsCollection).
		FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "No booking found with id "+c.Param("id"))
		return
	}

	userID, role := middleware.Identity(c)
	if !adminRoute && !middleware.OwnerOrRole(userID, role, booking.User, models.RoleAdmin) {
		utils.Fail(c, http.StatusUnauthorized,
			"User "+userID.Hex()+" is not authorized to delete this booking")
		return
	}

	_, err = h.DB.Collection(store.BookingsCollection).DeleteOne(ctx, bson.M{"_id": bookingID})
	if err != nil {
		log.Printf("DeleteBooking: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot delete booking")
		return
	}

	utils.OK(c, http.StatusOK, gin.H{})
}

// listBookings fetches bookings matching the filter, resolves their dentists
// and writes the list envelope.
func (h *Handler) listBookings(c *gin.Context, filter bson.M) {
	ctx := c.Request.Context()

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := h.DB.Collection(store.BookingsCollection).Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("listBookings: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot find bookings")
		return
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		log.Printf("listBookings: decoding: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot find bookings")
		return
	}

	resp, err := h.withDentists(ctx, bookings)
	if err != nil {
		log.Printf("listBookings: resolving dentists: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot find bookings")
		return
	}

	utils.OKCount(c, http.StatusOK, len(resp), resp)
}

// withDentists resolves the dentist reference of each booking with a single
// query-by-foreign-key lookup. A booking whose dentist was removed keeps a
// nil dentist rather than failing the whole read.
func (h *Handler) withDentists(ctx context.Context, bookings []models.Booking) ([]BookingResponse, error) {
	ids := make([]primitive.ObjectID, 0, len(bookings))
	seen := make(map[primitive.ObjectID]bool)
	for _, b := range bookings {
		if !seen[b.Dentist] {
			seen[b.Dentist] = true
			ids = append(ids, b.Dentist)
		}
	}

	dentistByID := make(map[primitive.ObjectID]models.Dentist)
	if len(ids) > 0 {
		cursor, err := h.DB.Collection(store.DentistsCollection).
			Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var dentists []models.Dentist
		if err = cursor.All(ctx, &dentists); err != nil {
			return nil, err
		}
		for _, d := range dentists {
			dentistByID[d.ID] = d
		}
	}

	resp := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		r := BookingResponse{
			ID:        b.ID,
			User:      b.User,
			Date:      b.Date,
			Status:    b.Status,
			CreatedAt: b.CreatedAt,
		}
		if d, ok := dentistByID[b.Dentist]; ok {
			r.Dentist = &DentistSummary{
				ID:                d.ID,
				Name:              d.Name,
				YearsOfExperience: d.YearsOfExperience,
				AreaOfExpertise:   d.AreaOfExpertise,
			}
		}
		resp = append(resp, r)
	}
	return resp, nil
}

// failRule converts a rule engine rejection into the matching HTTP response.
func (h *Handler) failRule(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotOnTheHour),
		errors.Is(err, services.ErrActiveBookingExists),
		errors.Is(err, services.ErrBookingOverlap):
		utils.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrDentistNotFound):
		utils.Fail(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("Booking rule check failed: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot process booking")
	}
}
