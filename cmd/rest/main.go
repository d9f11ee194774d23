package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talentscout-be/internal/bootstrap"
	"talentscout-be/internal/config"
	"talentscout-be/internal/server"
	"talentscout-be/internal/service"
	"talentscout-be/internal/tracer"
	"talentscout-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Database (optional)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Fatalf("Startup aborted: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer(cfg.Telemetry, container.Logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(shutdownCtx)
	}()

	// 4. Start Background Services
	if err := container.ConsumerService.Consume(ctx); err != nil {
		container.Logger.Error("MAIN", "Evaluation consumer failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}
	go service.NewRetentionSweeper(container.CandidateStore, cfg.Screening.SweepInterval, container.Logger).Run(ctx)

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			container.Logger.Error("MAIN", "Server shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		container.Logger.Error("MAIN", "Server stopped", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
