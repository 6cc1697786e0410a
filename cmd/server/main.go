package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	rediscache "github.com/joker-whysosireus/CryptoPay-Backend/internal/cache/redis"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/common/config"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/common/logger"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/common/middleware"
	authhttp "github.com/joker-whysosireus/CryptoPay-Backend/internal/features/auth/delivery/http"
	authservice "github.com/joker-whysosireus/CryptoPay-Backend/internal/features/auth/service"
	paymenthttp "github.com/joker-whysosireus/CryptoPay-Backend/internal/features/payment/delivery/http"
	paymentpg "github.com/joker-whysosireus/CryptoPay-Backend/internal/features/payment/repository/postgres"
	paymentservice "github.com/joker-whysosireus/CryptoPay-Backend/internal/features/payment/service"
	userhttp "github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/delivery/http"
	userpg "github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/repository/postgres"
	userservice "github.com/joker-whysosireus/CryptoPay-Backend/internal/features/user/service"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/platform/db"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/platform/telegram"
	redisclient "github.com/joker-whysosireus/CryptoPay-Backend/internal/redis"
	"github.com/joker-whysosireus/CryptoPay-Backend/internal/service/notifications"
)

func main() {
	cfg := config.MustLoad()
	logger.Init("cryptopay-backend", cfg.Debug)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Postgres open failed")
	}
	defer pg.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, pg); err != nil {
			log.Fatal().Err(err).Msg("Migrations failed")
		}
	}

	// Redis is optional; without it account reads always hit Postgres.
	var accountCache *rediscache.AccountCache
	if cfg.Redis.Addr != "" {
		rdb, err := redisclient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis open failed")
		}
		defer rdb.Close()
		accountCache = rediscache.NewAccountCache(rdb, time.Duration(cfg.Redis.AccountTTL)*time.Second)
	}

	tgClient := telegram.NewClient(cfg.Telegram.BotToken)

	userRepo := userpg.NewPostgresRepository(pg)
	paymentRepo := paymentpg.NewPostgresRepository(pg)

	authSvc := authservice.NewAuthService(userRepo, cfg.Telegram.BotToken)
	userSvc := userservice.NewUserService(userRepo, accountCache)
	paymentSvc := paymentservice.NewPaymentService(paymentRepo, userRepo, tgClient)
	notifier := notifications.New(tgClient, userRepo, cfg.Telegram.CreatorID)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.CORS(cfg.Server.Origin))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/")
	authhttp.NewAuthHandler(authSvc, accountCache).RegisterRoutes(api)
	userhttp.NewUserHandler(userSvc).RegisterRoutes(api)
	paymenthttp.NewPaymentHandler(paymentSvc).RegisterRoutes(api)
	notifications.NewHandler(notifier).RegisterRoutes(api)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
