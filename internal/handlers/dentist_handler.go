package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dentacare/booking-api/internal/models"
	"github.com/dentacare/booking-api/internal/store"
	"github.com/dentacare/booking-api/internal/utils"
)

// GetDentists lists all dentists. Public.
func (h *Handler) GetDentists(c *gin.Context) {
	ctx := c.Request.Context()

	cursor, err := h.DB.Collection(store.DentistsCollection).Find(ctx, bson.M{})
	if err != nil {
		log.Printf("GetDentists: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot find dentists")
		return
	}
	defer cursor.Close(ctx)

	dentists := make([]models.Dentist, 0)
	if err = cursor.All(ctx, &dentists); err != nil {
		log.Printf("GetDentists: decoding: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot find dentists")
		return
	}

	utils.OKCount(c, http.StatusOK, len(dentists), dentists)
}

type CreateDentistRequest struct {
	Name              string `json:"name" binding:"required"`
	YearsOfExperience int    `json:"yearsOfExperience"`
	AreaOfExpertise   string `json:"areaOfExpertise" binding:"required"`
}

// CreateDentist adds a dentist record. Admin only.
func (h *Handler) CreateDentist(c *gin.Context) {
	var req CreateDentistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Please provide name, years of experience and area of expertise")
		return
	}

	dentist := models.Dentist{
		ID:                primitive.NewObjectID(),
		Name:              req.Name,
		YearsOfExperience: req.YearsOfExperience,
		AreaOfExpertise:   req.AreaOfExpertise,
		CreatedAt:         time.Now().UTC(),
	}
	if err := dentist.Validate(); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.DB.Collection(store.DentistsCollection).InsertOne(c.Request.Context(), dentist)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.Fail(c, http.StatusBadRequest, "A dentist with this name already exists")
			return
		}
		log.Printf("CreateDentist: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot create dentist")
		return
	}

	utils.OK(c, http.StatusCreated, dentist)
}
