// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/utsavhq/utsav/internal/config"
	"github.com/utsavhq/utsav/internal/database"
	"github.com/utsavhq/utsav/internal/handler"
	"github.com/utsavhq/utsav/internal/mailer"
	"github.com/utsavhq/utsav/internal/monitor"
	"github.com/utsavhq/utsav/internal/repository"
	"github.com/utsavhq/utsav/internal/service"
	"github.com/utsavhq/utsav/internal/storage"
	"github.com/utsavhq/utsav/internal/token"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// ── 1. External collaborators ─────────────────────────────────────────
	sentry := monitor.New(cfg.SentryDSN, cfg.SentryEnv)
	defer sentry.Flush(2 * time.Second)

	pool, err := database.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("connected to PostgreSQL")

	store, err := storage.New(cfg.Minio)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		// Event creation without images still works; log and continue.
		log.Printf("storage bucket unavailable: %v", err)
	}

	mail := mailer.New(cfg.Mailtrap)
	if !mail.Enabled() {
		log.Println("MAILTRAP_API_KEY not set, confirmation emails disabled")
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.JWTExpiration)

	// ── 2. Wire up layers ─────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	regRepo := repository.NewRegistrationRepository(pool)

	authSvc := service.NewAuthService(userRepo, tokens)
	eventSvc := service.NewEventService(eventRepo, store)
	regSvc := service.NewRegistrationService(eventRepo, regRepo, userRepo, mail, sentry)

	authHandler := handler.NewAuthHandler(authSvc, sentry)
	eventHandler := handler.NewEventHandler(eventSvc, sentry)
	regHandler := handler.NewRegistrationHandler(regSvc, sentry)
	authenticate := handler.Authenticator(tokens)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(cfg.CORSOrigin),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", handler.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/by-email", authHandler.LookupByEmail)
				r.Get("/profile", authHandler.Profile)
				r.Put("/profile", authHandler.UpdateProfile)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.List)
				r.Post("/", eventHandler.Create)
				r.Get("/myEvents", eventHandler.MyEvents)
				r.Get("/{id}", eventHandler.Get)
				r.Put("/{id}", eventHandler.Update)
				r.Delete("/{id}", eventHandler.Delete)
				r.Get("/{id}/participation-count", eventHandler.ParticipationCount)
			})

			r.Route("/registrations", func(r chi.Router) {
				r.Post("/", regHandler.Create)
				r.Get("/", regHandler.ListMine)
				r.Get("/{eventID}", regHandler.ListForEvent)
			})
		})
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

// splitOrigins turns a comma-separated CORS_ORIGIN value into a list.
func splitOrigins(s string) []string {
	var origins []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
