package routes

import (
	"agendapro-backend/config"
	"agendapro-backend/controllers"
	"agendapro-backend/metrics"
	"agendapro-backend/services"
	"agendapro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func SetupRouter(cfg *config.Config, db *gorm.DB, logger zerolog.Logger,
	keys *services.ApiKeyService, leads *services.LeadService, identity *services.IdentityService) *gin.Engine {

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Tenant-Id", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(logger))
	r.Use(metrics.Middleware())

	r.GET("/metrics", metrics.Handler())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db, cfg, identity, logger)
	customerController := controllers.NewCustomerController(db, leads)
	resourceController := controllers.NewResourceController(db)
	appointmentController := controllers.NewAppointmentController(db)
	apiKeyController := controllers.NewApiKeyController(keys)
	leadController := controllers.NewLeadController(leads)
	dashboardController := controllers.NewDashboardController(db)
	webhookController := controllers.NewWebhookController(db, keys, leads, logger)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)

		auth.Use(utils.AuthMiddleware(cfg))
		auth.GET("/me", authController.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(cfg))
	{
		customers := api.Group("/customers")
		{
			customers.POST("", customerController.CreateCustomer)
			customers.GET("", customerController.GetCustomers)
			customers.GET("/:id", customerController.GetCustomer)
			customers.PUT("/:id", customerController.UpdateCustomer)
			customers.DELETE("/:id", customerController.DeleteCustomer)
		}

		resources := api.Group("/resources")
		{
			resources.POST("", resourceController.CreateResource)
			resources.GET("", resourceController.GetResources)
			resources.GET("/:id", resourceController.GetResource)
			resources.PUT("/:id", resourceController.UpdateResource)
			resources.DELETE("/:id", resourceController.DeleteResource)
		}

		appointments := api.Group("/appointments")
		{
			appointments.POST("", appointmentController.CreateAppointment)
			appointments.GET("", appointmentController.GetAppointments)
			appointments.GET("/:id", appointmentController.GetAppointment)
			appointments.PUT("/:id", appointmentController.UpdateAppointment)
			appointments.DELETE("/:id", appointmentController.DeleteAppointment)

			appointments.POST("/:id/confirm", appointmentController.ConfirmAppointment)
			appointments.POST("/:id/start", appointmentController.StartAppointment)
			appointments.POST("/:id/complete", appointmentController.CompleteAppointment)
			appointments.POST("/:id/cancel", appointmentController.CancelAppointment)
			appointments.POST("/:id/no-show", appointmentController.NoShowAppointment)
			appointments.POST("/:id/reschedule", appointmentController.RescheduleAppointment)
		}

		apikeys := api.Group("/apikeys")
		{
			apikeys.POST("", apiKeyController.CreateApiKey)
			apikeys.GET("", apiKeyController.GetApiKeys)
			apikeys.PUT("/:id", apiKeyController.UpdateApiKey)
			apikeys.DELETE("/:id", apiKeyController.DeleteApiKey)
			apikeys.GET("/webhook-url", apiKeyController.GetWebhookURL)
		}

		api.GET("/leads", leadController.GetLeads)
		api.GET("/dashboard", dashboardController.GetDashboardOverview)
	}

	// Webhook routes are authorized by API key, not JWT
	webhook := r.Group("/webhook")
	{
		webhook.POST("/whatsapp", webhookController.ReceiveWhatsAppMessage)
		webhook.POST("/customers", webhookController.CreateCustomerFromWebhook)
		webhook.POST("/appointments", webhookController.CreateAppointmentFromWebhook)
		webhook.GET("/customers/check", webhookController.CheckCustomerExists)
	}

	return r
}
