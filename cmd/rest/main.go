package main

import (
	"context"
	"log"

	"characterhub-be/internal/bootstrap"
	"characterhub-be/internal/config"
	"characterhub-be/internal/server"
	"characterhub-be/internal/tracer"
	"characterhub-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// Background media cleanup consumer
	go func() {
		log.Println("Background: Starting Media Cleanup Service...")
		if err := container.MediaCleanupService.Consume(context.Background()); err != nil {
			log.Printf("Background Media Cleanup Error: %v", err)
		}
	}()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
