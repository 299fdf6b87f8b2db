package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dentacare/booking-api/internal/middleware"
	"github.com/dentacare/booking-api/internal/models"
	"github.com/dentacare/booking-api/internal/store"
	"github.com/dentacare/booking-api/internal/utils"
)

type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Telephone string `json:"telephone" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role"`
}

// Register creates a user account and issues a session token.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Please provide name, telephone, email and password")
		return
	}

	if len(req.Password) < utils.MinPasswordLength {
		utils.Fail(c, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Telephone: req.Telephone,
		Email:     req.Email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := user.Validate(); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("Register: hashing password failed: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot register user")
		return
	}
	user.Password = hashed

	_, err = h.DB.Collection(store.UsersCollection).InsertOne(c.Request.Context(), user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.Fail(c, http.StatusBadRequest, "Duplicate value for "+duplicateField(err))
			return
		}
		log.Printf("Register: inserting user failed: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Cannot register user")
		return
	}

	h.sendTokenResponse(c, http.StatusOK, &user)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates by email and password and issues a session token. The
// failure message is the same whether the email is unknown or the password
// does not match.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "Please provide an email and password")
		return
	}

	if req.Email == "" || req.Password == "" {
		utils.Fail(c, http.StatusBadRequest, "Please provide an email and password")
		return
	}
	if !models.ValidEmail(req.Email) {
		utils.Fail(c, http.StatusBadRequest, "Please provide a valid email address")
		return
	}
	if len(req.Password) < utils.MinPasswordLength {
		utils.Fail(c, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	var user models.User
	err := h.DB.Collection(store.UsersCollection).
		FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		utils.Fail(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.sendTokenResponse(c, http.StatusOK, &user)
}

// GetMe returns the profile of the authenticated user.
func (h *Handler) GetMe(c *gin.Context) {
	userID, _ := middleware.Identity(c)

	var user models.User
	err := h.DB.Collection(store.UsersCollection).
		FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "User not found")
		return
	}

	utils.OK(c, http.StatusOK, user)
}

// Logout expires the session cookie client-side. Tokens are stateless, so
// there is nothing to revoke on the server.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "none", 10, "/", "", h.Cfg.IsProduction(), true)
	utils.OK(c, http.StatusOK, gin.H{})
}

// sendTokenResponse issues a signed token and delivers it both in the JSON
// body and as an http-only cookie.
func (h *Handler) sendTokenResponse(c *gin.Context, status int, user *models.User) {
	expiry := time.Duration(h.Cfg.JWTExpireHours) * time.Hour
	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role, h.Cfg.JWTSecret, expiry)
	if err != nil {
		log.Printf("Token generation failed: %v", err)
		utils.Fail(c, http.StatusInternalServerError, "Could not generate token")
		return
	}

	maxAge := h.Cfg.CookieExpireDays * 24 * 60 * 60
	c.SetCookie("token", token, maxAge, "/", "", h.Cfg.IsProduction(), true)

	c.JSON(status, gin.H{"success": true, "token": token})
}

// duplicateField extracts which unique field a duplicate key error is about,
// based on the index naming convention from EnsureIndexes.
func duplicateField(err error) string {
	msg := err.Error()
	for _, field := range []string{"email", "telephone", "name"} {
		if strings.Contains(msg, field+"_1") {
			return field
		}
	}
	return "field"
}
