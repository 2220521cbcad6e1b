package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/fincast/fincast/internal/archive"
	"github.com/fincast/fincast/internal/config"
	"github.com/fincast/fincast/internal/httpserver"
	"github.com/fincast/fincast/internal/service"
	"github.com/fincast/fincast/internal/store"
	"github.com/fincast/fincast/internal/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	var st store.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
		if err := db.Ping(); err != nil {
			log.Fatalf("db ping: %v", err)
		}
		pg := store.NewPGStore(db)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("db schema: %v", err)
		}
		st = pg
	} else {
		log.Printf("[startup] no database configured, using in-memory store (simulations will not survive restarts)")
		st = store.NewMemoryStore()
	}

	var publisher stream.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := stream.NewKafkaPublisher(stream.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Fatalf("kafka init: %v", err)
		}
		defer kp.Close()
		publisher = kp
	}

	var archiver archive.Archiver
	switch {
	case cfg.S3Bucket != "":
		a, err := archive.NewS3Archiver(context.Background(), cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Fatalf("s3 archiver init: %v", err)
		}
		archiver = a
	case cfg.ArchiveDir != "":
		archiver = archive.NewFileArchiver(cfg.ArchiveDir)
	}

	svc := service.New(st, publisher, archiver)
	server := httpserver.New(cfg, svc, st)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Router(),
	}

	go func() {
		log.Printf("fincast service listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	waitForShutdown(httpServer)
}

func waitForShutdown(srv *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
