package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dentacare/booking-api/internal/config"
	"github.com/dentacare/booking-api/internal/models"
	"github.com/dentacare/booking-api/internal/store"
	"github.com/dentacare/booking-api/internal/utils"
)

// Context keys set after a successful authentication.
const (
	CtxUserID   = "userID"
	CtxUserRole = "userRole"
)

// Authenticate verifies the session token from the Authorization header or
// the token cookie, then resolves it to a live user record. A token for a
// deleted user is rejected.
func Authenticate(db *mongo.Database, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			utils.AbortFail(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		claims, err := utils.ValidateJWT(token, cfg.JWTSecret)
		if err != nil {
			utils.AbortFail(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.AbortFail(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		var user models.User
		err = db.Collection(store.UsersCollection).
			FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&user)
		if err != nil {
			utils.AbortFail(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		c.Set(CtxUserID, user.ID)
		c.Set(CtxUserRole, user.Role)

		c.Next()
	}
}

// RequireRoles passes only identities whose role is in the allowed set. Must
// run after Authenticate.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxUserRole)
		if !roleAllowed(role, roles) {
			utils.AbortFail(c, http.StatusForbidden,
				"User role "+role+" is not authorized to access this route")
			return
		}
		c.Next()
	}
}

// Identity returns the authenticated user's id and role from the context.
func Identity(c *gin.Context) (primitive.ObjectID, string) {
	id, _ := c.Get(CtxUserID)
	userID, _ := id.(primitive.ObjectID)
	return userID, c.GetString(CtxUserRole)
}

// OwnerOrRole reports whether the identity owns the resource or holds one of
// the allowed roles. Used for booking update and delete.
func OwnerOrRole(userID primitive.ObjectID, role string, ownerID primitive.ObjectID, roles ...string) bool {
	if userID == ownerID {
		return true
	}
	return roleAllowed(role, roles)
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil && cookie != "none" {
		return cookie
	}
	return ""
}
