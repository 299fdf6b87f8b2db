package handlers

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dentacare/booking-api/internal/config"
	"github.com/dentacare/booking-api/internal/services"
)

// Handler carries the dependencies shared by all endpoint methods.
type Handler struct {
	DB    *mongo.Database
	Cfg   *config.Config
	Rules *services.Rules
}

func NewHandler(db *mongo.Database, cfg *config.Config, rules *services.Rules) *Handler {
	return &Handler{
		DB:    db,
		Cfg:   cfg,
		Rules: rules,
	}
}
