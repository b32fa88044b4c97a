package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	emailPkg "revive/internal/adapters/email"
	web "revive/internal/adapters/http"
	"revive/internal/adapters/storage"
	memberStore "revive/internal/adapters/storage/member"
	reminderStore "revive/internal/adapters/storage/reminder"
	"revive/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Optional .env for local development; real deployments set env vars directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("REVIVE_DB", "revive.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("Database initialized successfully!")

	stores := &web.Stores{
		MemberStore:   memberStore.NewSQLiteStore(db),
		ReminderStore: reminderStore.NewSQLiteStore(db),
	}

	// Seed demo members for development only
	if os.Getenv("REVIVE_ENV") != "production" {
		seedDeps := orchestrators.SeedDemoDeps{MemberStore: stores.MemberStore}
		if err := orchestrators.ExecuteSeedDemoMembers(context.Background(), seedDeps); err != nil {
			log.Fatalf("failed to seed demo members: %v", err)
		}
		log.Println("Demo members loaded (dev mode)")
	}

	// Configure email sender for reminder delivery
	resendKey := os.Getenv("REVIVE_RESEND_KEY")
	emailFrom := envOrDefault("REVIVE_RESEND_FROM", "Revive Fitness <noreply@revivefitness.com>")
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("REVIVE_ENV") == "production" {
			log.Println("WARNING: REVIVE_RESEND_KEY is not set — reminder delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set REVIVE_RESEND_KEY for real delivery)")
		}
	}

	// Start the reminder worker: queues renewal/payment nudges and delivers them
	reminderStopCh := make(chan struct{})
	processor := orchestrators.NewReminderProcessor(stores.ReminderStore, sender)
	queueDeps := orchestrators.QueueRemindersDeps{
		MemberStore:   stores.MemberStore,
		ReminderStore: stores.ReminderStore,
	}
	orchestrators.StartReminderWorker(processor, queueDeps, 1*time.Minute, reminderStopCh)
	defer close(reminderStopCh)

	// Create HTTP handler with middleware
	mux := web.NewMux(stores)

	// Start server
	addr := envOrDefault("REVIVE_ADDR", ":8080")
	log.Printf("Revive %s starting on %s (env=%s)", version, addr, envOrDefault("REVIVE_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
