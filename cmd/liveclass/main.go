package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akinstitute/liveclass/internal/cache"
	"github.com/akinstitute/liveclass/internal/capture"
	"github.com/akinstitute/liveclass/internal/config"
	"github.com/akinstitute/liveclass/internal/domain"
	"github.com/akinstitute/liveclass/internal/handler"
	"github.com/akinstitute/liveclass/internal/hub"
	"github.com/akinstitute/liveclass/internal/notice"
	"github.com/akinstitute/liveclass/internal/repository"
	"github.com/akinstitute/liveclass/internal/service"
	"github.com/akinstitute/liveclass/pkg/database"
	pkglog "github.com/akinstitute/liveclass/pkg/log"
	"github.com/akinstitute/liveclass/pkg/token"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: "liveclass",
	})
	logger := pkglog.L()

	// Connect to database using GORM
	dbConfig := &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate
	if err := database.AutoMigrate(db, &domain.CourseModel{}, &domain.ApplicationModel{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	logger.Info().Msg("database migration completed")

	// Initialize repositories
	courseRepo := repository.NewGormCourseRepository(db)
	applicationRepo := repository.NewGormApplicationRepository(db)

	// Initialize Redis cache
	catalogCache, err := cache.NewRedisCatalogCache(cfg.Redis, "liveclass:catalog")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer catalogCache.Close()
	logger.Info().Msg("redis cache connected")

	noticeStore := notice.NewRedisStore(catalogCache.Client(), cfg.Cache.NoticeKey)

	// Initialize services
	catalogSvc := service.NewCatalogService(courseRepo, catalogCache, cfg.Cache.CatalogTTL)
	admissionSvc := service.NewAdmissionService(applicationRepo, courseRepo)
	classroomMgr := service.NewClassroomManager(func() capture.Backend {
		return capture.NewFakeBackend()
	}, cfg.Classroom.HUDHideDelay, cfg.Classroom.ChatTail)

	// Token verification
	verifier := token.NewVerifier(cfg.Auth.Secret)

	// Websocket hub
	wsHub := hub.NewHub(cfg.WebSocket)
	go wsHub.Run()

	// Handlers
	httpHandler := handler.NewHandler(classroomMgr, catalogSvc, admissionSvc, noticeStore, verifier, cfg.Classroom.ChatTail)
	wsHandler := handler.NewWSHandler(wsHub, classroomMgr, verifier, cfg.WebSocket, cfg.Classroom.ChatTail)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	httpHandler.RegisterRoutes(r)
	wsHandler.RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Str("driver", cfg.Database.Driver).Msg("liveclass starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Release every captured device before the server stops accepting.
	classroomMgr.TeardownAll(shutdownCtx)

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("liveclass stopped")
}
