package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/evanmmo/vod-dashboard/config"
	applog "github.com/evanmmo/vod-dashboard/logger"
	"github.com/evanmmo/vod-dashboard/routes"
	"github.com/evanmmo/vod-dashboard/services"
	"github.com/evanmmo/vod-dashboard/utils"
)

func main() {
	// Load .env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	applog.Configure(applog.Config{Level: os.Getenv("LOG_LEVEL")})
	log := applog.L()
	if envErr != nil {
		log.Info().Msg("không tìm thấy file .env, dùng biến môi trường")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("cấu hình không hợp lệ")
	}

	utils.ConfigureJWT(cfg.JWTSecret, cfg.JWTTTL)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("không thể khởi tạo database")
	}
	if err := config.SeedAdmin(db, cfg); err != nil {
		log.Fatal().Err(err).Msg("không thể tạo tài khoản admin")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	utils.StartCleanupJob(ctx, services.NewSessionService(db), 6*time.Hour)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	//Bật CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r = routes.SetupRouter(r, db, cfg)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "VOD dashboard server is running")
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
