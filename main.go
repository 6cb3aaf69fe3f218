package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordquest/catalog"
	"wordquest/config"
	"wordquest/database"
	"wordquest/locker"
	"wordquest/metrics"
	"wordquest/routers"
	"wordquest/services"
	"wordquest/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	cfg := config.AppConfig
	db := database.Database.Db

	store := catalog.NewStore(db)
	if cfg.CatalogURL != "" {
		importCatalog(db, store, cfg.CatalogURL)
	}

	lk, closeLocker, err := locker.NewFromURL(context.Background(), cfg.RedisURL, cfg.LockTTL)
	if err != nil {
		log.Fatalf("Failed to set up record locks: %v", err)
	}
	defer closeLocker()
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set. Using in-process locks; run a single instance only.")
	}

	engine := services.NewEngine(db, store, lk, services.Options{
		MaxLevel:       cfg.MaxLevel,
		QuizSize:       cfg.QuizQuestionCount,
		EligibilityCap: cfg.QuizEligibilityCap,
		BcryptCost:     cfg.SaltRound,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.MustRegister(registry)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CorsOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	routers.Setup(app, engine, store)

	scheduler, err := utils.InitializeStreakScheduler(cfg.StreakSweepCron, engine.Streak)
	if err != nil {
		log.Fatalf("Invalid STREAK_SWEEP_CRON %q: %v", cfg.StreakSweepCron, err)
	}

	go func() {
		log.Printf("Server is running on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}

// importCatalog refreshes the catalog at boot. A failure is logged and the
// server starts with whatever content is already stored.
func importCatalog(db *gorm.DB, store *catalog.Store, url string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	importer := catalog.NewImporter(db, store)
	doc, err := importer.Fetch(ctx, url)
	if err != nil {
		log.Printf("[CATALOG-IMPORT] Skipping boot import: %v", err)
		return
	}
	if _, err := importer.Import(ctx, doc); err != nil {
		log.Printf("[CATALOG-IMPORT] Boot import failed: %v", err)
	}
}
