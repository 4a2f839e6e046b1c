package main

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"
)

var roomPathRe = regexp.MustCompile(`^/[A-Z2-9]{5}$`)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRoutes configures HTTP routes
func SetupRoutes(hub *Hub, clientDir string) *http.ServeMux {
	mux := http.NewServeMux()

	// Serve static files with no-cache so browsers always revalidate
	fs := http.FileServer(http.Dir(clientDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		// SPA: serve index.html for root and room-code invite paths
		if r.URL.Path == "/" || roomPathRe.MatchString(r.URL.Path) {
			http.ServeFile(w, r, filepath.Join(clientDir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	}))

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, uuid.NewString(), ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	// Room invite QR: PNG encoding of the join URL
	mux.HandleFunc("/qr/", func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.URL.Path, "/qr/")
		if hub.registry.Get(code) == nil {
			http.NotFound(w, r)
			return
		}
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		png, err := qrcode.Encode(scheme+"://"+r.Host+"/"+code, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	// Live metrics and recent telemetry aggregates
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		events, err := hub.telemetry.EventCounts(7)
		if err != nil {
			log.Printf("stats: event counts: %v", err)
		}
		busiest, err := hub.telemetry.BusiestRooms(10)
		if err != nil {
			log.Printf("stats: busiest rooms: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"rooms":        hub.registry.RoomCount(),
			"players":      hub.registry.PlayerCount(),
			"connections":  hub.TotalConns(),
			"events_7d":    events,
			"busiestRooms": busiest,
		})
	})

	return mux
}
