package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validUser() User {
	return User{
		ID:        primitive.NewObjectID(),
		Name:      "Alice",
		Telephone: "08012345678",
		Email:     "alice@example.com",
		Role:      RoleUser,
		CreatedAt: time.Now(),
	}
}

func TestUserValidate(t *testing.T) {
	u := validUser()
	require.NoError(t, u.Validate())
}

func TestUserValidateTrimsName(t *testing.T) {
	u := validUser()
	u.Name = "  Alice  "
	require.NoError(t, u.Validate())
	assert.Equal(t, "Alice", u.Name)
}

func TestUserValidateRejectsBadFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*User)
		message string
	}{
		{"missing name", func(u *User) { u.Name = "" }, "Please add a name"},
		{"long name", func(u *User) { u.Name = string(make([]byte, 51)) }, "more than 50 characters"},
		{"missing email", func(u *User) { u.Email = "" }, "Please add an email"},
		{"bad email", func(u *User) { u.Email = "not-an-email" }, "valid email"},
		{"missing telephone", func(u *User) { u.Telephone = "" }, "telephone"},
		{"bad telephone", func(u *User) { u.Telephone = "12345" }, "valid telephone"},
		{"bad role", func(u *User) { u.Role = "superuser" }, "Role must be"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := validUser()
			tc.mutate(&u)
			err := u.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestUserValidateAcceptsTelephoneVariants(t *testing.T) {
	for _, tel := range []string{"08012345678", "+2348012345678", "2349112345678", "07001234567"} {
		u := validUser()
		u.Telephone = tel
		assert.NoError(t, u.Validate(), tel)
	}
}

func TestUserValidateCollectsAllMessages(t *testing.T) {
	u := User{Role: RoleUser}
	err := u.Validate()
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Len(t, verr.Messages, 3)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("bob@clinic.example.org"))
	assert.False(t, ValidEmail("bob@clinic"))
	assert.False(t, ValidEmail(""))
}

func TestDentistValidate(t *testing.T) {
	d := Dentist{Name: "Dr. Smith", YearsOfExperience: 12, AreaOfExpertise: "Orthodontics"}
	require.NoError(t, d.Validate())

	d.YearsOfExperience = -1
	require.Error(t, d.Validate())

	d = Dentist{Name: " ", AreaOfExpertise: ""}
	err := d.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please add a name")
	assert.Contains(t, err.Error(), "area of expertise")
}

func TestBookingValidate(t *testing.T) {
	b := Booking{
		User:    primitive.NewObjectID(),
		Dentist: primitive.NewObjectID(),
		Date:    time.Date(2025, 4, 1, 14, 0, 0, 0, time.UTC),
		Status:  StatusBooked,
	}
	require.NoError(t, b.Validate())

	b.User = primitive.NilObjectID
	b.Status = "pending"
	err := b.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please add a user")
	assert.Contains(t, err.Error(), "Status must be")
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusBooked, StatusCompleted, StatusCanceled} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("pending"))
	assert.False(t, ValidStatus(""))
}
