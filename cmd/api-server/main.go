package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hyeonwoo-dev/community-board-api/api/swagger"
	"github.com/hyeonwoo-dev/community-board-api/internal/handler"
	"github.com/hyeonwoo-dev/community-board-api/internal/middleware"
	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	"github.com/hyeonwoo-dev/community-board-api/internal/repository"
	"github.com/hyeonwoo-dev/community-board-api/internal/service"
	"github.com/hyeonwoo-dev/community-board-api/internal/token"
	"github.com/hyeonwoo-dev/community-board-api/pkg/cache"
	"github.com/hyeonwoo-dev/community-board-api/pkg/config"
	"github.com/hyeonwoo-dev/community-board-api/pkg/database"
	"github.com/hyeonwoo-dev/community-board-api/pkg/logger"
	corsmiddleware "github.com/hyeonwoo-dev/community-board-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hyeonwoo-dev/community-board-api/pkg/middleware/requestid"
	"github.com/hyeonwoo-dev/community-board-api/pkg/storage"
)

// @title Community Board API
// @version 1.0.0
// @description Anonymous community board with cookie-based session tokens
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, login rate limiting disabled", "error", err)
		rdb = nil
	} else {
		defer rdb.Close() //nolint:errcheck
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	auditService := service.NewAuditService(userRepo, cfg.Audit, logr)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	auditService.Start(ctx)
	defer auditService.Stop()

	codec := token.NewCodec(cfg.JWT, time.Now)
	cookies := token.NewCookieWriter(cfg.JWT, cfg.Cookie)

	metricsService := service.NewMetricsService()
	authService := service.NewAuthService(userRepo, codec, auditService, nil, logr)
	userService := service.NewUserService(userRepo, auditService, nil, logr)
	postService := service.NewPostService(postRepo, nil, logr)
	commentService := service.NewCommentService(commentRepo, postRepo, nil, logr)
	likeService := service.NewLikeService(likeRepo, postRepo, commentRepo, logr)

	authHandler := handler.NewAuthHandler(authService, cookies, metricsService)
	userHandler := handler.NewUserHandler(userService, cookies)
	postHandler := handler.NewPostHandler(postService, userService)
	commentHandler := handler.NewCommentHandler(commentService, userService)
	likeHandler := handler.NewLikeHandler(likeService, userService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	var exportHandler *handler.ExportHandler
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportService := service.NewExportService(postRepo, userRepo, store, signer, logr)
		exportHandler = handler.NewExportHandler(exportService)

		go func() {
			ticker := time.NewTicker(cfg.Exports.CleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					exportService.CleanupOlderThan(cfg.Exports.SignedURLTTL)
				}
			}
		}()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Metrics)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimit(rdb, cfg.RateLimit, logr), authHandler.Login)
		auth.POST("/reissue", authHandler.Reissue)
		auth.POST("/logout", authHandler.Logout)
	}

	api.POST("/users/signup", userHandler.Signup)

	protected := api.Group("")
	protected.Use(middleware.Auth(authService, cookies))
	{
		protected.GET("/users/me", userHandler.Me)
		protected.PUT("/users/me", userHandler.UpdateProfile)
		protected.POST("/users/me/resign", userHandler.Resign)

		protected.GET("/posts", postHandler.List)
		protected.GET("/posts/:id", postHandler.Get)
		protected.POST("/posts", postHandler.Create)
		protected.PUT("/posts/:id", postHandler.Update)
		protected.DELETE("/posts/:id", postHandler.Delete)

		protected.GET("/posts/:id/comments", commentHandler.ListByPost)
		protected.POST("/posts/:id/comments", commentHandler.Create)
		protected.PUT("/comments/:id", commentHandler.Update)
		protected.DELETE("/comments/:id", commentHandler.Delete)

		protected.POST("/posts/:id/likes", likeHandler.LikePost)
		protected.DELETE("/posts/:id/likes", likeHandler.UnlikePost)
		protected.POST("/comments/:id/likes", likeHandler.LikeComment)
		protected.DELETE("/comments/:id/likes", likeHandler.UnlikeComment)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.Auth(authService, cookies), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", userHandler.List)
		if exportHandler != nil {
			admin.POST("/exports/posts", exportHandler.ExportPosts)
			admin.POST("/exports/users", exportHandler.ExportUsers)
			admin.GET("/exports/download", exportHandler.Download)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
