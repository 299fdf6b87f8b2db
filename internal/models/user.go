package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	emailRegex     = regexp.MustCompile(`^[\w.+-]+@([\w-]+\.)+[\w-]{2,}$`)
	telephoneRegex = regexp.MustCompile(`^(\+?234|0)[789][01]\d{8}$`)
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Telephone string             `bson:"telephone" json:"telephone"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // Hide from JSON responses
	Role      string             `bson:"role" json:"role"`  // "user" or "admin"
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Validate checks the field rules before a write. The password is checked for
// minimum length at registration time, before hashing, not here.
func (u *User) Validate() error {
	verr := &ValidationError{}

	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		verr.add("Please add a name")
	} else if len(u.Name) > 50 {
		verr.add("Name cannot be more than 50 characters")
	}

	if u.Email == "" {
		verr.add("Please add an email")
	} else if !emailRegex.MatchString(u.Email) {
		verr.add("Please add a valid email")
	}

	if u.Telephone == "" {
		verr.add("Please add a telephone number")
	} else if !telephoneRegex.MatchString(u.Telephone) {
		verr.add("Please add a valid telephone number")
	}

	if u.Role != RoleUser && u.Role != RoleAdmin {
		verr.add("Role must be either user or admin")
	}

	return verr.orNil()
}

// ValidEmail reports whether the string looks like an email address.
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
