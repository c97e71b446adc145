package main

import (
	"fmt"

	"agendapro-backend/config"
	"agendapro-backend/database"
	"agendapro-backend/models"
	"agendapro-backend/routes"
	"agendapro-backend/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger := config.NewLogger(cfg)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Customer{},
		&models.Resource{},
		&models.Appointment{},
		&models.ApiKey{},
		&models.Lead{},
		&models.ReminderTemplate{},
		&models.ReminderLog{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	keys := services.NewApiKeyService(db, cfg.APIKeyPrefix, logger)
	leads := services.NewLeadService(db, logger)
	identity := services.NewIdentityService(cfg, logger)
	reminders := services.NewReminderService(db, cfg, logger)
	reminders.StartScheduler()

	r := routes.SetupRouter(cfg, db, logger, keys, leads, identity)
	if cfg.IsDevelopment() {
		printRoutes(r)
	}

	logger.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
