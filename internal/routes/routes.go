package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/talkthroughit/therapy-api/internal/config"
	"github.com/talkthroughit/therapy-api/internal/handlers"
	infraRepo "github.com/talkthroughit/therapy-api/internal/infra/repository"
	"github.com/talkthroughit/therapy-api/internal/middleware"
	"github.com/talkthroughit/therapy-api/internal/models"
	"github.com/talkthroughit/therapy-api/internal/notification"
	"github.com/talkthroughit/therapy-api/internal/storage"
	ucAppointment "github.com/talkthroughit/therapy-api/internal/usecase/appointment"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	rdb *redis.Client,
	dispatcher *notification.Dispatcher,
	reminders *notification.ReminderScheduler,
	store *storage.S3Store,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	bookAppointmentUC := ucAppointment.NewBookAppointment(
		appointmentRepo,
		dispatcher,
		reminders,
	)

	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		appointmentRepo,
		dispatcher,
		reminders,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		dispatcher,
		reminders,
	)

	listUpcomingUC := ucAppointment.NewListUpcomingAppointments(appointmentRepo)
	listForProviderUC := ucAppointment.NewListProviderAppointments(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	clientHandler := handlers.NewClientHandler(db)
	providerHandler := handlers.NewProviderHandler(db, store)

	availabilityHandler := handlers.NewAvailabilityHandler(db)
	searchHandler := handlers.NewSearchHandler(db, rdb)
	specialtyHandler := handlers.NewSpecialtyHandler(db)

	messageHandler := handlers.NewMessageHandler(db)
	savedProviderHandler := handlers.NewSavedProviderHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		bookAppointmentUC,
		getAppointmentUC,
		updateAppointmentUC,
		cancelAppointmentUC,
		listUpcomingUC,
		listForProviderUC,
	)

	// Login and registration share a tighter per-IP budget than the rest
	// of the API.
	authLimiter := middleware.NewRateLimiter(1, 5)

	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit(authLimiter))
		{
			auth.POST("/register/client", authHandler.RegisterClient)
			auth.POST("/register/provider", authHandler.RegisterProvider)
			auth.POST("/login", authHandler.Login)
		}

		// ------------------------------
		// PUBLIC DIRECTORY
		// ------------------------------
		api.GET("/providers", providerHandler.ListAll)

		api.GET("/search/providers", searchHandler.SearchProviders)
		api.GET("/search/filters", searchHandler.GetFilterOptions)

		api.GET("/specialties", specialtyHandler.List)
		api.GET("/specialties/:id", specialtyHandler.Get)
		api.GET("/specialties/:id/providers", specialtyHandler.ProvidersBySpecialty)

		api.GET("/availability/provider/:providerId", availabilityHandler.GetProviderAvailability)
		api.GET("/availability/provider/:providerId/day/:dayOfWeek", availabilityHandler.GetDayAvailability)
		api.GET("/availability/public/:providerId", availabilityHandler.GetPublicAvailability)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// CLIENT-ONLY
			// ------------------------------
			clients := secured.Group("/clients")
			clients.Use(middleware.RequireRole(models.RoleClient))
			{
				clients.GET("/:id", clientHandler.GetProfile)
				clients.PUT("/:id", clientHandler.UpdateProfile)
			}

			savedProviders := secured.Group("/saved-providers")
			savedProviders.Use(middleware.RequireRole(models.RoleClient))
			{
				savedProviders.POST("", savedProviderHandler.Save)
				savedProviders.GET("", savedProviderHandler.List)
				savedProviders.PUT("/:id", savedProviderHandler.Update)
				savedProviders.DELETE("/:id", savedProviderHandler.Remove)
			}

			// ------------------------------
			// PROVIDER-ONLY
			// ------------------------------
			providers := secured.Group("/providers")
			providers.Use(middleware.RequireRole(models.RoleProvider))
			{
				providers.GET("/:id", providerHandler.GetProfile)
				providers.PUT("/:id", providerHandler.UpdateProfile)
				providers.POST("/:id/image", providerHandler.UploadProfileImage)
				providers.PUT("/:id/specialties", specialtyHandler.UpdateProviderSpecialties)
			}

			availability := secured.Group("/availability")
			availability.Use(middleware.RequireRole(models.RoleProvider))
			{
				availability.PUT("/update", availabilityHandler.Update)
			}

			specialties := secured.Group("/specialties")
			specialties.Use(middleware.RequireRole(models.RoleProvider))
			{
				specialties.POST("", specialtyHandler.Create)
			}

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			appointments := secured.Group("/appointments")
			{
				appointments.POST("", appointmentHandler.Create)
				appointments.GET("/upcoming", appointmentHandler.ListUpcoming)
				appointments.GET("/provider",
					middleware.RequireRole(models.RoleProvider),
					appointmentHandler.ListForProvider,
				)
				appointments.GET("/:id", appointmentHandler.Get)
				appointments.PUT("/:id", appointmentHandler.Update)
				appointments.POST("/:id/cancel", appointmentHandler.Cancel)
			}

			// ------------------------------
			// MESSAGES
			// ------------------------------
			messages := secured.Group("/messages")
			{
				messages.POST("", messageHandler.Send)
				messages.GET("/conversations", messageHandler.ListConversations)
				messages.GET("/conversation/:otherUserId", messageHandler.GetConversation)
				messages.PUT("/read/:otherUserId", messageHandler.MarkRead)
			}
		}
	}
}
