package main

import (
	"fmt"
	"log"

	"workdesk/internal/config"
	"workdesk/internal/database"
	"workdesk/internal/logger"
	"workdesk/internal/server"
	"workdesk/internal/storage"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Open(cfg.DBDSN, zlog)
	if err != nil {
		zlog.Fatal("database init failed", "error", err)
	}

	blobs, err := storage.NewLocalStore(cfg.StorageDir, zlog)
	if err != nil {
		zlog.Fatal("storage init failed", "error", err)
	}

	r := server.NewRouter(cfg, db, zlog, blobs)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	zlog.Info("starting server", "addr", addr)
	if err := r.Run(addr); err != nil {
		zlog.Fatal("server error", "error", err)
	}
}
