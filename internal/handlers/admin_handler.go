package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dentacare/booking-api/internal/middleware"
	"github.com/dentacare/booking-api/internal/models"
	"github.com/dentacare/booking-api/internal/services"
	"github.com/dentacare/booking-api/internal/store"
	"github.com/dentacare/booking-api/internal/utils"
)

// Admin booking endpoints. Role enforcement happens in the route group via
// RequireRoles, so these handlers skip the ownership checks.

// GetBookingsByAdmin lists every booking.
func (h *Handler) GetBookingsByAdmin(c *gin.Context) {
	h.listBookings(c, bson.M{})
}

// GetBookingByAdmin fetches any booking by id.
func (h *Handler) GetBookingByAdmin(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	var booking models.Booking
	err = h.DB.Collection(store.BookingsCollection).
		FindOne(c.Request.Context(), bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "No booking found with id "+c.Param("id"))
		return
	}

	resp, err := h.withDentists(c.Request.Context(), []models.Booking{booking})
	if err != nil {
		log.Printf("GetBookingByAdmin: resolving dentist: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot find booking")
		return
	}

	utils.OK(c, http.StatusOK, resp[0])
}

type AdminCreateBookingRequest struct {
	User    string `json:"user" binding:"required"`
	Dentist string `json:"dentist" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Status  string `json:"status"`
}

// AddBookingByAdmin creates a booking on behalf of a user. The one-active-
// booking rule does not bind the admin requester, but the slot must still be
// free and on the hour.
func (h *Handler) AddBookingByAdmin(c *gin.Context) {
	var req AdminCreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Both user and dentist IDs must be provided")
		return
	}

	targetUser, err := primitive.ObjectIDFromHex(req.User)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	dentistID, err := primitive.ObjectIDFromHex(req.Dentist)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid dentist ID")
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

	ctx := c.Request.Context()

	err = h.DB.Collection(store.UsersCollection).
		FindOne(ctx, bson.M{"_id": targetUser}).Err()
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "No user found with ID "+req.User)
		return
	}

	adminID, role := middleware.Identity(c)
	date, err = h.Rules.ValidateBooking(ctx, adminID, role, dentistID, date, nil)
	if err != nil {
		h.failRule(c, err)
		return
	}

	booking := models.Booking{
		ID:        primitive.NewObjectID(),
		User:      targetUser,
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
		if mongo.IsDuplicateKeyError(err) {
			utils.Fail(c, http.StatusBadRequest, services.ErrBookingOverlap.Error())
			return
		}
		log.Printf("AddBookingByAdmin: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot create booking")
		return
	}

	utils.OK(c, http.StatusCreated, booking)
}

// UpdateBookingByAdmin changes any booking.
func (h *Handler) UpdateBookingByAdmin(c *gin.Context) {
	h.updateBooking(c, true)
}

// DeleteBookingByAdmin removes any booking permanently.
func (h *Handler) DeleteBookingByAdmin(c *gin.Context) {
	h.deleteBooking(c, true)
}
