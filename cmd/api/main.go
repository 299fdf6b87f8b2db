package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/dentacare/booking-api/internal/config"
	"github.com/dentacare/booking-api/internal/handlers"
	"github.com/dentacare/booking-api/internal/middleware"
	"github.com/dentacare/booking-api/internal/models"
	"github.com/dentacare/booking-api/internal/services"
	"github.com/dentacare/booking-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)
	log.Println("Successfully connected to MongoDB!")

	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// --- Services ---
	rules := services.NewRules(db)
	sweeper := services.NewSweeper(db)
	sweeper.Start()
	defer sweeper.Stop()

	h := handlers.NewHandler(db, cfg, rules)

	// --- Gin Router ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	auth := middleware.Authenticate(db, cfg)

	// --- Routes ---
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
		authRoutes.GET("/me", auth, h.GetMe)
		authRoutes.GET("/logout", auth, h.Logout)
	}

	dentistRoutes := r.Group("/dentists")
	{
		dentistRoutes.GET("", h.GetDentists)
		dentistRoutes.POST("", auth, middleware.RequireRoles(models.RoleAdmin), h.CreateDentist)
		dentistRoutes.GET("/:id/bookings", auth, h.GetDentistBookings)
		dentistRoutes.POST("/:id/bookings", auth, h.CreateBooking)
	}

	bookingRoutes := r.Group("/bookings", auth)
	{
		bookingRoutes.GET("", h.GetBookings)
		bookingRoutes.GET("/:id", h.GetBooking)
		bookingRoutes.PUT("/:id", h.UpdateBooking)
		bookingRoutes.DELETE("/:id", h.DeleteBooking)
	}

	adminRoutes := r.Group("/admins/bookings", auth, middleware.RequireRoles(models.RoleAdmin))
	{
		adminRoutes.GET("", h.GetBookingsByAdmin)
		adminRoutes.POST("", h.AddBookingByAdmin)
		adminRoutes.GET("/:id", h.GetBookingByAdmin)
		adminRoutes.PUT("/:id", h.UpdateBookingByAdmin)
		adminRoutes.DELETE("/:id", h.DeleteBookingByAdmin)
	}

	log.Printf("Starting server in %s mode on port %s", cfg.Environment, cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
