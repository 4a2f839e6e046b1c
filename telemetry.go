package main

import (
	"database/sql"
	"log"
	"sync"
	"time"
)

// Telemetry event types
const (
	EvtRoomCreated      = "room_created"
	EvtRoomClosed       = "room_closed"
	EvtPlayerJoined     = "player_joined"
	EvtPlayerLeft       = "player_left"
	EvtShipDestroyed    = "ship_destroyed"
	EvtAsteroidSplit    = "asteroid_split"
	EvtAsteroidExploded = "asteroid_exploded"
	EvtGemPicked        = "gem_picked"
)

// TelemetryEvent is a single trackable gameplay or lifecycle event
type TelemetryEvent struct {
	Type      string
	RoomID    string
	SubjectID string
	Data      string
	Timestamp time.Time
}

// Telemetry persists events through a batched background writer so
// tracking from inside an event handler never blocks on the database.
// A nil *Telemetry is valid and drops everything.
type Telemetry struct {
	db     *DB
	events chan TelemetryEvent
	stop   chan struct{}
	wg     sync.WaitGroup

	mu          sync.RWMutex
	liveRooms   int
	livePlayers int
}

// NewTelemetry starts the background writer. db may be nil (events
// are counted in memory only).
func NewTelemetry(db *DB) *Telemetry {
	t := &Telemetry{
		db:     db,
		events: make(chan TelemetryEvent, 1024),
		stop:   make(chan struct{}),
	}
	t.wg.Add(1)
	go t.writer()
	return t
}

// Track enqueues an event for async persistence (non-blocking)
func (t *Telemetry) Track(evtType, roomID, subjectID, data string) {
	if t == nil {
		return
	}
	select {
	case t.events <- TelemetryEvent{
		Type:      evtType,
		RoomID:    roomID,
		SubjectID: subjectID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// channel full — drop rather than stall an event handler
	}
}

// SetLiveCounts updates the live metrics shown on /stats
func (t *Telemetry) SetLiveCounts(rooms, players int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.liveRooms = rooms
	t.livePlayers = players
	t.mu.Unlock()
}

// LiveCounts returns the current (rooms, players) metrics
func (t *Telemetry) LiveCounts() (int, int) {
	if t == nil {
		return 0, 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.liveRooms, t.livePlayers
}

// Stop flushes and shuts down the writer
func (t *Telemetry) Stop() {
	if t == nil {
		return
	}
	close(t.stop)
	t.wg.Wait()
}

func (t *Telemetry) writer() {
	defer t.wg.Done()

	batch := make([]TelemetryEvent, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt := <-t.events:
			batch = append(batch, evt)
			if len(batch) >= 50 {
				t.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				t.flush(batch)
				batch = batch[:0]
			}
		case <-t.stop:
			close(t.events)
			for evt := range t.events {
				batch = append(batch, evt)
			}
			if len(batch) > 0 {
				t.flush(batch)
			}
			return
		}
	}
}

func (t *Telemetry) flush(events []TelemetryEvent) {
	if t.db == nil || len(events) == 0 {
		return
	}
	tx, err := t.db.conn.Begin()
	if err != nil {
		log.Printf("telemetry: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO telemetry_events (event_type, room_id, subject_id, data, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("telemetry: prepare error: %v", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		rid := sql.NullString{String: evt.RoomID, Valid: evt.RoomID != ""}
		sid := sql.NullString{String: evt.SubjectID, Valid: evt.SubjectID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		if _, err := stmt.Exec(evt.Type, rid, sid, data, evt.Timestamp.Format(time.RFC3339)); err != nil {
			log.Printf("telemetry: insert error: %v", err)
		}
	}
	tx.Commit()
}

// EventCounts returns counts of each event type for the last N days
func (t *Telemetry) EventCounts(days int) (map[string]int, error) {
	if t == nil || t.db == nil {
		return nil, nil
	}
	rows, err := t.db.conn.Query(`
		SELECT event_type, COUNT(*) FROM telemetry_events
		WHERE created_at >= date('now', '-' || ? || ' days')
		GROUP BY event_type ORDER BY COUNT(*) DESC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			continue
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

// BusiestRooms returns the rooms with the most recorded events
func (t *Telemetry) BusiestRooms(limit int) ([]RoomActivity, error) {
	if t == nil || t.db == nil {
		return nil, nil
	}
	rows, err := t.db.conn.Query(`
		SELECT room_id, COUNT(*) as cnt FROM telemetry_events
		WHERE room_id IS NOT NULL
		GROUP BY room_id ORDER BY cnt DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RoomActivity
	for rows.Next() {
		var ra RoomActivity
		if err := rows.Scan(&ra.RoomID, &ra.Events); err != nil {
			continue
		}
		result = append(result, ra)
	}
	return result, rows.Err()
}

// RoomActivity holds the event count for one room
type RoomActivity struct {
	RoomID string `json:"room_id"`
	Events int    `json:"events"`
}
