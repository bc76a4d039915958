package main

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/talkthroughit/therapy-api/internal/cache"
	"github.com/talkthroughit/therapy-api/internal/config"
	dbpkg "github.com/talkthroughit/therapy-api/internal/db"
	"github.com/talkthroughit/therapy-api/internal/middleware"
	"github.com/talkthroughit/therapy-api/internal/monitoring"
	"github.com/talkthroughit/therapy-api/internal/notification"
	"github.com/talkthroughit/therapy-api/internal/observability"
	"github.com/talkthroughit/therapy-api/internal/routes"
	"github.com/talkthroughit/therapy-api/internal/storage"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	observability.InitLogger(cfg.Env)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Env,
			TracesSampleRate: 0.2,
		}); err != nil {
			log.Warn().Err(err).Msg("sentry init failed")
		}
		defer sentry.Flush(2 * time.Second)
	}

	monitoring.Init()

	db := dbpkg.NewDB(cfg)

	rdb, err := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}

	var sender notification.Sender = notification.LogSender{}
	if kafkaSender, err := notification.NewKafkaSender(cfg.KafkaBroker, cfg.KafkaTopic); err != nil {
		log.Warn().Err(err).Msg("kafka unavailable, notices go to the log")
	} else {
		sender = kafkaSender
		defer kafkaSender.Close()
	}

	dispatcher := notification.NewDispatcher(sender)

	reminders := notification.NewReminderScheduler(rdb, db, dispatcher)
	go reminders.Run(context.Background(), time.Minute)

	store := storage.NewS3Store(cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.PrometheusMetrics())
	if cfg.SentryDSN != "" {
		r.Use(middleware.SentryMiddleware())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(monitoring.Handler()))

	routes.RegisterRoutes(r, db, cfg, rdb, dispatcher, reminders, store)

	log.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
