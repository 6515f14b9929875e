package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ideaspark-be/internal/bootstrap"
	"ideaspark-be/internal/config"
	"ideaspark-be/internal/server"
	"ideaspark-be/internal/tracer"
	"ideaspark-be/pkg/database"

	_ "go.uber.org/automaxprocs"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(context.Background(), tracer.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.App.ServiceName,
		Insecure:    cfg.Tracing.Insecure,
	})
	defer shutdownTracer(context.Background())

	// 3. Remote Database (optional). The storage probe decides whether it is usable.
	var gormDB *gorm.DB
	if cfg.RemoteConfigured() {
		opts := database.DefaultOptions()
		opts.Ping = false
		db, err := database.Open(cfg.Database.Connection, opts)
		if err != nil {
			log.Printf("[WARN] Invalid remote database configuration: %v. Using local storage", err)
		} else {
			gormDB = db
		}
	}

	// 4. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(context.Background(), gormDB, cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to bootstrap: %v", err)
	}
	defer container.Close()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
