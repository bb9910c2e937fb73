//	@title			Artfolio API
//	@version		1.0
//	@description	Backend for Artfolio — an art and portfolio gallery with image uploads.
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**
//
//	@securityDefinitions.apikey	AdminSecret
//	@in							header
//	@name						X-Admin-Secret
//	@description				Shared admin secret gating mutating routes.

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/artfolio/service/internal/account"
	"github.com/artfolio/service/internal/config"
	"github.com/artfolio/service/internal/db"
	"github.com/artfolio/service/internal/gallery"
	appMiddleware "github.com/artfolio/service/internal/middleware"
	"github.com/artfolio/service/internal/storage"

	_ "github.com/artfolio/service/docs/swagger"
)

// One bucket per resource type; object keys are unique per upload, so the two
// resources never collide even on identical filenames.
const (
	artBucket       = "art-images"
	portfolioBucket = "portfolio-images"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	artStore, err := newStorage(cfg, artBucket)
	if err != nil {
		log.Fatalf("art storage init failed: %v", err)
	}
	portfolioStore, err := newStorage(cfg, portfolioBucket)
	if err != nil {
		log.Fatalf("portfolio storage init failed: %v", err)
	}

	// Wire dependencies: repository → service → handler, once per resource.
	artHandler := gallery.NewHandler(gallery.NewService(
		gallery.NewRepository(pool, "arts"), artStore, "arts"))
	portfolioHandler := gallery.NewHandler(gallery.NewService(
		gallery.NewRepository(pool, "portfolio_items"), portfolioStore, "portfolio"))

	accountRepo := account.NewRepository(pool)
	accountSvc := account.NewService(accountRepo, cfg.JWTSecret)
	accountHandler := account.NewHandler(accountSvc, cfg.AdminSecret)

	// Credential gate for mutating gallery routes, selected by AUTH_MODE.
	var gate func(http.Handler) http.Handler
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		gate = appMiddleware.RequireAuth(cfg.JWTSecret)
	default:
		gate = appMiddleware.RequireSecret(cfg.AdminSecret)
	}

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Admin-Secret"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Account endpoints
	r.Post("/register", accountHandler.Register)
	r.Post("/login", accountHandler.Login)

	// Gallery resources: same handler code mounted twice
	r.Mount("/api/arts", artHandler.Routes(gate))
	r.Mount("/api/portfolio", portfolioHandler.Routes(gate))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // uploads with retries can run long
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s, auth=%s)", cfg.Port, cfg.AppEnv, cfg.AuthMode)
		log.Printf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}

// newStorage builds the MinIO-backed storage for one bucket, deriving the
// public URL prefix from the configured host base.
func newStorage(cfg *config.Config, bucket string) (storage.Storage, error) {
	return storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		bucket,
		cfg.StoragePublicBase+"/"+bucket,
		cfg.StorageUseSSL,
	)
}
