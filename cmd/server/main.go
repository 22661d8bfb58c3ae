package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mycofoundr/email-service/internal/api"
	"github.com/mycofoundr/email-service/internal/config"
	"github.com/mycofoundr/email-service/internal/gmail"
	"github.com/mycofoundr/email-service/internal/mail"
	"github.com/mycofoundr/email-service/internal/repository/postgres"
	"github.com/mycofoundr/email-service/internal/ses"
	"github.com/mycofoundr/email-service/internal/service/dispatch"
	"github.com/mycofoundr/email-service/internal/service/suppression"
	"github.com/mycofoundr/email-service/internal/template"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func newProvider(ctx context.Context, cfg *config.Config) (mail.Provider, error) {
	switch cfg.Mail.Provider {
	case "gmail":
		return gmail.NewProvider(cfg.Gmail.ClientSecretFile, cfg.Gmail.TokenFile, cfg.PublicBaseURL, cfg.Mail.Timeout()), nil
	case "ses":
		return ses.NewProvider(ctx, cfg.SES, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown mail provider %q (want gmail or ses)", cfg.Mail.Provider)
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}
	if cfg.Database.URL == "" {
		log.Fatal("database.url is not configured (set DATABASE_URL or config/config.yaml)")
	}

	// Suppression store
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(3)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		pingCancel()
		log.Fatalf("Database ping failed: %v", err)
	}
	pingCancel()
	log.Println("Suppression database connected")

	suppressions := suppression.NewService(postgres.NewSuppressionRepo(db))

	// Mail transport
	provider, err := newProvider(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize mail provider: %v", err)
	}
	log.Printf("Mail transport: %s (from %s)", provider.Name(), cfg.Sender.FromHeader())

	dispatcher := dispatch.NewService(suppressions, provider, cfg.Sender.FromHeader(), cfg.Sender.FromEmail)

	renderer, err := template.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	handlers := api.NewHandlers(dispatcher, suppressions, renderer, cfg.Sender.FromName)
	server := api.NewServer(handlers)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
		log.Printf("Starting %s on %s (env %s)", cfg.App.Name, addr, cfg.App.Environment)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
