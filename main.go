// LinkUp is a social networking API: accounts, profiles, posts, follows,
// a personalized feed, explore rankings and search. This entry point wires
// configuration, the database pool, services and the HTTP router, then runs
// the server with graceful shutdown.
//
// @title LinkUp API
// @version 1.0
// @description Social networking API: profiles, posts, follows, feed and search.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/user/linkup-go/apperror"
	"github.com/user/linkup-go/auth"
	"github.com/user/linkup-go/background"
	"github.com/user/linkup-go/cache"
	"github.com/user/linkup-go/config"
	"github.com/user/linkup-go/db"
	_ "github.com/user/linkup-go/docs" // Generated Swagger docs
	"github.com/user/linkup-go/explore"
	"github.com/user/linkup-go/feed"
	"github.com/user/linkup-go/follows"
	"github.com/user/linkup-go/imagestore"
	"github.com/user/linkup-go/posts"
	"github.com/user/linkup-go/search"
	"github.com/user/linkup-go/users"
	"github.com/user/linkup-go/webutil"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		logger.Fatal("failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnableExtensions(pool); err != nil {
		logger.Fatal("failed to enable extensions", zap.Error(err))
	}
	if err := db.RunMigrations(cfg.DB, cfg.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// The image store is optional: without Cloudinary credentials posts are
	// created text-only.
	images, err := imagestore.New(*cfg.Images, logger)
	if err != nil {
		if errors.Is(err, imagestore.ErrNotConfigured) {
			logger.Warn("image store not configured, posts will be text-only")
		} else {
			logger.Fatal("failed to create image store", zap.Error(err))
		}
	}

	exploreCache := cache.New(cfg.Cache.Addr, logger)

	authService := auth.NewService(pool, *cfg.Auth, logger)
	authHandlers := auth.NewHandlers(authService)

	userService := users.NewService(pool)
	userHandlers := users.NewHandlers(userService)

	followService := follows.NewService(pool, logger)
	followHandlers := follows.NewHandlers(followService)

	postService := posts.NewService(pool, logger)
	postHandlers := posts.NewHandlers(postService, images, logger)

	feedHandlers := feed.NewHandlers(postService)

	exploreService := explore.NewService(postService, userService, exploreCache, cfg.Cache.TTL)
	exploreHandlers := explore.NewHandlers(exploreService)

	searchService := search.NewService(userService, postService)
	searchHandlers := search.NewHandlers(searchService)

	var warmer *background.Warmer
	if exploreCache != nil {
		warmer = background.NewWarmer(exploreService, cfg.Cache.TTL/2, logger)
		warmer.Start()
		logger.Info("explore cache warmer started")
	}

	requireAuth := auth.JWTMiddleware(cfg.Auth)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(webutil.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	// Public GET endpoints still read the caller id when a token is sent, so
	// liked flags and cache bypasses reflect the logged-in user.
	r.Use(auth.OptionalJWTMiddleware(cfg.Auth))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			webutil.WriteError(w, apperror.NewInternalError("database unreachable", err))
			return
		}
		webutil.WriteMessage(w, http.StatusOK, "API is running", nil)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
		r.Post("/refresh", authHandlers.HandleRefreshToken())
		r.With(requireAuth).Get("/me", userHandlers.HandleGetMe)
	})

	r.Route("/api/users", func(r chi.Router) {
		userHandlers.RegisterRoutes(r, requireAuth)
		followHandlers.RegisterRoutes(r, requireAuth)
		r.Get("/{id}/posts", postHandlers.HandleListByAuthor)
	})

	r.Route("/api/posts", func(r chi.Router) {
		postHandlers.RegisterRoutes(r, requireAuth)
	})

	r.With(requireAuth).Get("/api/feed", feedHandlers.HandleFeed)

	r.Route("/api/explore", func(r chi.Router) {
		exploreHandlers.RegisterRoutes(r)
	})

	r.Route("/api/search", func(r chi.Router) {
		searchHandlers.RegisterRoutes(r)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if warmer != nil {
		warmer.Stop()
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
