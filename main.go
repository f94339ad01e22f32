package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fanvault/fanvault-be/internal/api"
	"github.com/fanvault/fanvault-be/internal/blob"
	"github.com/fanvault/fanvault-be/internal/config"
	"github.com/fanvault/fanvault-be/internal/logger"
	"github.com/fanvault/fanvault-be/internal/services"
	"github.com/fanvault/fanvault-be/internal/snapshot"
	"github.com/fanvault/fanvault-be/internal/store"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up the durable snapshot store and load the last saved state
	snap, err := snapshot.NewSQLite(cfg.SnapshotPath)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer snap.Close()

	state, err := snap.Load()
	if err != nil {
		log.Fatalf("Failed to load snapshot: %v", err)
	}

	// Set up the in-memory store with a write-behind flusher. The flusher is
	// created first so the store can mark it dirty on every mutation.
	var flusher *snapshot.Flusher
	st := store.New(state, func() { flusher.MarkDirty() })
	flusher, err = snapshot.NewFlusher(snap, st.Snapshot, cfg.SnapshotDebounce, cfg.SnapshotFlushCron)
	if err != nil {
		log.Fatalf("Failed to set up snapshot flusher: %v", err)
	}
	go flusher.Run()

	// Set up the media blob store
	blobs, err := blob.NewLocalStore(cfg.MediaPath)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	// Set up services
	userService := services.NewUserService(st)
	creatorService := services.NewCreatorService(st)
	postService := services.NewPostService(st)
	monetizeService := services.NewMonetizeService(st)
	earningsService := services.NewEarningsService(st)
	messageService := services.NewMessageService(st)

	// Set up router
	router := api.NewRouter(userService, creatorService, postService, monetizeService, earningsService, messageService, blobs)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Stop the flusher last; it performs a final snapshot flush.
	flusher.Stop()

	log.Println("Server exiting")
}
