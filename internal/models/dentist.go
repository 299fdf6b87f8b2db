package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Dentist struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	YearsOfExperience int                `bson:"yearsOfExperience" json:"yearsOfExperience"`
	AreaOfExpertise   string             `bson:"areaOfExpertise" json:"areaOfExpertise"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// Validate checks the field rules before a write.
func (d *Dentist) Validate() error {
	verr := &ValidationError{}

	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		verr.add("Please add a name")
	} else if len(d.Name) > 50 {
		verr.add("Name cannot be more than 50 characters")
	}

	if d.YearsOfExperience < 0 {
		verr.add("Years of experience cannot be negative")
	}

	if strings.TrimSpace(d.AreaOfExpertise) == "" {
		verr.add("Please add an area of expertise")
	}

	return verr.orNil()
}
