package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/auralynk/internal/audit"
	"github.com/BruksfildServices01/auralynk/internal/config"
	domainBooking "github.com/BruksfildServices01/auralynk/internal/domain/booking"
	"github.com/BruksfildServices01/auralynk/internal/handlers"
	"github.com/BruksfildServices01/auralynk/internal/infra/events"
	"github.com/BruksfildServices01/auralynk/internal/infra/realtime"
	infraRepo "github.com/BruksfildServices01/auralynk/internal/infra/repository"
	"github.com/BruksfildServices01/auralynk/internal/middleware"
	"github.com/BruksfildServices01/auralynk/internal/timezone"
	ucBooking "github.com/BruksfildServices01/auralynk/internal/usecase/booking"
	ucNotification "github.com/BruksfildServices01/auralynk/internal/usecase/notification"
	ucProfile "github.com/BruksfildServices01/auralynk/internal/usecase/profile"
)

// Deps are the process-wide clients built in main.
type Deps struct {
	Log         *zap.Logger
	Verifier    middleware.TokenVerifier
	Cache       ucBooking.AvailabilityCache
	Hub         realtime.Hub
	Events      events.Publisher
	Audit       *audit.Dispatcher
	Rooms       ucBooking.Provisioner
	Mail        ucBooking.Confirmer
	AvatarStore ucProfile.ObjectStore
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, d Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	profileRepo := infraRepo.NewProfileGormRepository(db)
	notificationRepo := infraRepo.NewNotificationGormRepository(db)

	policy := domainBooking.BlockPolicy{PendingBlocks: cfg.PendingBlocksSlot}
	loc := timezone.Location(cfg.DisplayTimezone)

	fanout := ucBooking.NewFanout(d.Cache, d.Hub, d.Events, d.Audit, d.Log)

	// ======================================================
	// USE CASES: BOOKINGS
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo, d.Cache, policy)
	requestUC := ucBooking.NewRequestBooking(bookingRepo, availabilityUC, fanout)
	acceptUC := ucBooking.NewAcceptBooking(bookingRepo, d.Mail, fanout, d.Log)
	rejectUC := ucBooking.NewRejectBooking(bookingRepo, fanout)
	cancelUC := ucBooking.NewCancelBooking(bookingRepo, fanout)
	listUC := ucBooking.NewListBookings(bookingRepo)
	pendingCountUC := ucBooking.NewPendingCount(bookingRepo)
	sessionUC := ucBooking.NewGetSession(bookingRepo)
	joinUC := ucBooking.NewJoinSession(bookingRepo, d.Rooms, d.Hub, d.Log)
	feedUC := ucBooking.NewReaderFeed(bookingRepo, availabilityUC, loc)

	// ======================================================
	// USE CASES: PROFILE / NOTIFICATIONS
	// ======================================================
	getProfileUC := ucProfile.NewGetProfile(profileRepo)
	saveProfileUC := ucProfile.NewSaveProfile(profileRepo, getProfileUC)
	setSlotsUC := ucProfile.NewSetSlots(profileRepo, d.Cache)
	avatarUC := ucProfile.NewUploadAvatar(profileRepo, d.AvatarStore)

	listNotificationsUC := ucNotification.NewListNotifications(notificationRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(
		requestUC,
		acceptUC,
		rejectUC,
		cancelUC,
		listUC,
		pendingCountUC,
		sessionUC,
		joinUC,
		d.Log,
	)
	readerHandler := handlers.NewReaderHandler(feedUC, availabilityUC, d.Log)
	profileHandler := handlers.NewProfileHandler(getProfileUC, saveProfileUC, setSlotsUC, avatarUC, d.Log)
	notificationHandler := handlers.NewNotificationHandler(listNotificationsUC, d.Log)
	streamHandler := handlers.NewStreamHandler(d.Hub, d.Log)
	integrationHandler := handlers.NewIntegrationHandler(d.Rooms, d.Mail, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, d.Log)

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, d.Log)
	public := r.Group("/")
	public.Use(limiter.Middleware())
	{
		public.POST("/create-room", integrationHandler.CreateRoom)
		public.POST("/send-confirmation", integrationHandler.SendConfirmation)
	}

	// ======================================================
	// EVENT STREAM (token may come as ?access_token=)
	// ======================================================
	r.GET("/api/me/stream", middleware.StreamAuthMiddleware(d.Verifier), streamHandler.Stream)

	// ======================================================
	// API (JSON, authenticated)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(d.Verifier))
	{
		// ------------------------------
		// ME
		// ------------------------------
		api.GET("/me", profileHandler.GetMe)
		api.PATCH("/me", profileHandler.UpdateMe)
		api.PUT("/me/slots", profileHandler.PutSlots)
		api.POST("/me/avatar", profileHandler.UploadAvatar)

		api.GET("/me/notifications", notificationHandler.List)
		api.GET("/me/bookings", bookingHandler.ListMine)
		api.GET("/me/bookings/pending-count", bookingHandler.PendingCount)
		api.GET("/me/audit-logs", auditLogsHandler.List)

		// ------------------------------
		// READERS
		// ------------------------------
		api.GET("/readers", readerHandler.Feed)
		api.GET("/readers/:id/availability", readerHandler.Availability)

		// ------------------------------
		// BOOKINGS
		// ------------------------------
		api.POST("/bookings", bookingHandler.Create)
		api.PATCH("/bookings/:id/accept", bookingHandler.Accept)
		api.PATCH("/bookings/:id/reject", bookingHandler.Reject)
		api.DELETE("/bookings/:id", bookingHandler.Delete)
		api.GET("/bookings/:id/session", bookingHandler.Session)
		api.POST("/bookings/:id/room", bookingHandler.JoinRoom)
	}
}
