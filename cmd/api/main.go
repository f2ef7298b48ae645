package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/auralynk/internal/audit"
	"github.com/BruksfildServices01/auralynk/internal/config"
	dbpkg "github.com/BruksfildServices01/auralynk/internal/db"
	"github.com/BruksfildServices01/auralynk/internal/infra/cache"
	"github.com/BruksfildServices01/auralynk/internal/infra/events"
	"github.com/BruksfildServices01/auralynk/internal/infra/mail"
	"github.com/BruksfildServices01/auralynk/internal/infra/realtime"
	infraRepo "github.com/BruksfildServices01/auralynk/internal/infra/repository"
	"github.com/BruksfildServices01/auralynk/internal/infra/storage"
	"github.com/BruksfildServices01/auralynk/internal/infra/video"
	"github.com/BruksfildServices01/auralynk/internal/logger"
	"github.com/BruksfildServices01/auralynk/internal/middleware"
	"github.com/BruksfildServices01/auralynk/internal/obs"
	"github.com/BruksfildServices01/auralynk/internal/routes"
	"github.com/BruksfildServices01/auralynk/internal/timezone"
	ucNotification "github.com/BruksfildServices01/auralynk/internal/usecase/notification"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "auralynk-api", cfg.AppEnv, cfg.OTLPEndpoint)
	if err != nil {
		zlog.Fatal("tracer init failed", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		zlog.Fatal("database init failed", zap.Error(err))
	}

	deps, closeDeps := buildDeps(ctx, cfg, db, zlog)
	defer closeDeps()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	routes.RegisterRoutes(r, db, cfg, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		zlog.Warn("graceful shutdown failed", zap.Error(err))
	}
}

// buildDeps picks each external integration, falling back to an in-process
// stand-in when it is not configured.
func buildDeps(
	ctx context.Context,
	cfg *config.Config,
	db *gorm.DB,
	zlog *zap.Logger,
) (routes.Deps, func()) {

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	loc := timezone.Location(cfg.DisplayTimezone)

	d := routes.Deps{Log: zlog}

	// --------------------------------------------------
	// Auth
	// --------------------------------------------------
	switch cfg.AuthMode {
	case "firebase":
		v, err := middleware.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			zlog.Fatal("firebase auth init failed", zap.Error(err))
		}
		d.Verifier = v
	default:
		d.Verifier = middleware.NewJWTVerifier(cfg.JWTSecret)
	}

	// --------------------------------------------------
	// Redis: availability cache + live updates
	// --------------------------------------------------
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			zlog.Fatal("redis ping failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		closers = append(closers, func() { _ = rdb.Close() })

		d.Cache = cache.NewRedisAvailability(rdb, cfg.AvailabilityCacheTTL, zlog)
		d.Hub = realtime.NewRedisHub(rdb, zlog)
	} else {
		zlog.Info("redis not configured: availability cache off, live updates in-process")
		d.Cache = cache.Nop{}
		d.Hub = realtime.NewMemoryHub()
	}

	// --------------------------------------------------
	// Audit
	// --------------------------------------------------
	d.Audit = audit.NewDispatcher(audit.New(db), zlog)
	closers = append(closers, d.Audit.Close)

	// --------------------------------------------------
	// Booking events -> notifications
	// --------------------------------------------------
	recorder := ucNotification.NewRecorder(infraRepo.NewNotificationGormRepository(db), loc, zlog)

	if cfg.RabbitURL != "" {
		pub, err := events.NewAMQPPublisher(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			zlog.Fatal("rabbitmq publisher init failed", zap.Error(err))
		}
		closers = append(closers, func() { _ = pub.Close() })

		consumer, err := events.NewAMQPConsumer(cfg.RabbitURL, cfg.EventsExchange, cfg.EventsQueue, events.BookingKeys, zlog)
		if err != nil {
			zlog.Fatal("rabbitmq consumer init failed", zap.Error(err))
		}
		closers = append(closers, func() { _ = consumer.Close() })

		go func() {
			if err := consumer.Run(ctx, recorder); err != nil && !errors.Is(err, context.Canceled) {
				zlog.Error("notification consumer stopped", zap.Error(err))
			}
		}()

		d.Events = pub
	} else {
		local := events.NewLocalPublisher(recorder, zlog)
		closers = append(closers, local.Wait)
		d.Events = local
	}

	// --------------------------------------------------
	// Mail
	// --------------------------------------------------
	var sender mail.Sender
	if cfg.SendGridAPIKey != "" {
		sender = mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFrom)
	} else {
		zlog.Info("SENDGRID_API_KEY not set: mails are logged, not delivered")
		sender = mail.NewLogSender(zlog)
	}
	d.Mail = mail.NewConfirmations(sender, loc)

	// --------------------------------------------------
	// Video rooms
	// --------------------------------------------------
	if cfg.DailyAPIKey == "" {
		zlog.Warn("DAILY_API_KEY not set: room creation will fail")
	}
	d.Rooms = video.NewDailyProvisioner(cfg.DailyAPIURL, cfg.DailyAPIKey, cfg.RoomTTL)

	// --------------------------------------------------
	// Avatars
	// --------------------------------------------------
	if cfg.S3Bucket != "" {
		d.AvatarStore = storage.NewS3Store(storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
			AccessKeyID:   cfg.AWSAccessKeyID,
			SecretKey:     cfg.AWSSecretKey,
		})
	}

	return d, closeAll
}
