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
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/movewatch/backend/bus"
	"github.com/movewatch/backend/config"
	"github.com/movewatch/backend/database"
	"github.com/movewatch/backend/handlers"
	"github.com/movewatch/backend/realtime"
	"github.com/movewatch/backend/repository"
	"github.com/movewatch/backend/tracking"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	if err := database.Seed(db, cfg.SeedCameraCount); err != nil {
		log.Fatalf("FATAL: Failed to seed database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying sql.DB: %v", err)
	}
	eventLog, err := database.NewEventLog(sqlDB, cfg.EventLogMaxExcerpt)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize event log: %v", err)
	}

	violationHub := realtime.NewHub("violations")
	tableHub := realtime.NewHub("tables")
	go violationHub.Run()
	go tableHub.Run()

	notifier := realtime.NewNotifier(violationHub, tableHub, cfg.TableFlushInterval)
	notifier.Start()

	store := repository.NewGormStore(db)
	tracker := tracking.NewTracker(store, notifier)
	coordinator := tracking.NewCoordinator(store, tracker, notifier, eventLog, cfg.PersistRetries, cfg.PersistBackoff)

	consumer, err := bus.NewConsumer(cfg.AMQPURL, cfg.QueueName, coordinator, cfg.NumIngestWorkers, cfg.MessageTimeout)
	if err != nil {
		log.Printf("Warning: message bus unavailable, HTTP ingest only: %v", err)
	}

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Table-change flush interval: %s", cfg.TableFlushInterval)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	detectionHandler := &handlers.DetectionHandler{Processor: coordinator}

	r.Route("/api", func(r chi.Router) {
		r.Post("/detections", detectionHandler.IngestDetections)
	})
	r.Get("/ws/violations", violationHub.ServeWS)
	r.Get("/ws/tables", tableHub.ServeWS)
	r.Get("/healthz", handlers.Healthz)

	serverAddr := ":" + cfg.HTTPPort
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("Shutdown signal received")

	// drain in-flight detections before releasing the event channel
	if consumer != nil {
		consumer.Stop()
	}
	notifier.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: HTTP server shutdown: %v", err)
	}
	log.Println("Shutdown complete")
}
