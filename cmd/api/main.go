package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"bloodlink/internal/config"
	"bloodlink/internal/domain"
	"bloodlink/internal/handler"
	"bloodlink/internal/middleware"
	"bloodlink/internal/repository"
	"bloodlink/internal/service"
	"bloodlink/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (stats caching disabled)", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, cfg)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go services.Reaper.Start(ctx)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	protected := v1.Group("", middleware.AuthRequired(authService))

	users := protected.Group("/users")
	users.Get("/me", h.User.GetProfile)
	users.Post("/me/role", h.User.ChooseRole)
	users.Put("/me/availability", middleware.RequireRole(domain.RoleDonor), h.User.UpdateAvailability)
	users.Get("/me/donations", middleware.RequireRole(domain.RoleDonor), h.User.DonationHistory)
	users.Get("/me/fulfilled", middleware.RequireRole(domain.RoleRequester), h.User.RequestHistory)

	requests := protected.Group("/requests", middleware.RequireRole(domain.RoleRequester))
	requests.Post("/", h.Request.Create)
	requests.Get("/", h.Request.ListOpen)
	requests.Get("/matched", h.Request.ListMatched)
	requests.Get("/:id", h.Request.GetByID)
	requests.Delete("/:id", h.Request.Cancel)

	matches := protected.Group("/matches", middleware.RequireAnyRole(domain.RoleDonor, domain.RoleRequester))
	matches.Get("/pending", h.Match.ListPending)
	matches.Get("/active", h.Match.ListActive)
	matches.Post("/:id/respond", h.Match.Respond)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	admin := protected.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.Get("/donors", h.Admin.ListDonors)
	admin.Get("/requests", h.Admin.ListRequests)
	admin.Get("/matches", h.Admin.ListMatches)
	admin.Get("/stats", h.Admin.GetStats)
	admin.Post("/trigger-matching", h.Admin.TriggerMatching)
	admin.Post("/trigger-sweep", h.Admin.TriggerSweep)
}
