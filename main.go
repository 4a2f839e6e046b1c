package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

func main() {
	cfg := LoadConfig()

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	clientDir := flag.String("client", cfg.ClientDir, "Path to client directory (default: ../client)")
	dbPath := flag.String("db", cfg.DBPath, "Path to the telemetry database (empty disables persistence)")
	flag.Parse()

	if *clientDir == "" {
		exe, _ := os.Executable()
		*clientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(*clientDir); os.IsNotExist(err) {
			*clientDir = "../client"
		}
	}

	var db *DB
	if *dbPath != "" {
		var err error
		db, err = OpenDB(*dbPath)
		if err != nil {
			log.Printf("telemetry database unavailable, continuing without: %v", err)
			db = nil
		}
	}
	if db != nil {
		serverID := db.GetSetting("server_id")
		if serverID == "" {
			serverID = GenerateID(8)
			if err := db.SetSetting("server_id", serverID); err != nil {
				log.Printf("warning: could not persist server id: %v", err)
			}
		}
		log.Printf("server id %s", serverID)
	}

	telemetry := NewTelemetry(db)
	registry := NewRoomRegistry(cfg, telemetry)
	hub := NewHub(registry, db, telemetry)
	go hub.Run()

	mux := SetupRoutes(hub, *clientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("Serving client files from %s", *clientDir)
		log.Printf("Board %dx%d, room capacity %d, room cap %d",
			int(BoardWidth), int(BoardHeight), cfg.MaxRoomSize(), cfg.MaxRooms)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	server.Close()
	registry.CloseAll()
	telemetry.Stop()
	if db != nil {
		db.Close()
	}
}
