package main

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSettings(t *testing.T) {
	db := openTestDB(t)

	if v := db.GetSetting("missing"); v != "" {
		t.Errorf("GetSetting(missing) = %q, want empty", v)
	}

	if err := db.SetSetting("server_id", "abc123"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if v := db.GetSetting("server_id"); v != "abc123" {
		t.Errorf("GetSetting = %q, want abc123", v)
	}

	// Upsert replaces the value
	if err := db.SetSetting("server_id", "def456"); err != nil {
		t.Fatalf("SetSetting (update): %v", err)
	}
	if v := db.GetSetting("server_id"); v != "def456" {
		t.Errorf("GetSetting after update = %q, want def456", v)
	}
}

func TestTelemetryPersistsEvents(t *testing.T) {
	db := openTestDB(t)
	tel := NewTelemetry(db)

	tel.Track(EvtRoomCreated, "AAAAA", "", "")
	tel.Track(EvtPlayerJoined, "AAAAA", "c1", "")
	tel.Track(EvtPlayerJoined, "BBBBB", "c2", "")
	tel.Stop() // drains and flushes

	counts, err := tel.EventCounts(1)
	if err != nil {
		t.Fatalf("EventCounts: %v", err)
	}
	if counts[EvtPlayerJoined] != 2 {
		t.Errorf("player_joined count = %d, want 2", counts[EvtPlayerJoined])
	}
	if counts[EvtRoomCreated] != 1 {
		t.Errorf("room_created count = %d, want 1", counts[EvtRoomCreated])
	}

	busiest, err := tel.BusiestRooms(10)
	if err != nil {
		t.Fatalf("BusiestRooms: %v", err)
	}
	if len(busiest) != 2 {
		t.Fatalf("busiest rooms = %d, want 2", len(busiest))
	}
	if busiest[0].RoomID != "AAAAA" || busiest[0].Events != 2 {
		t.Errorf("busiest = %+v, want AAAAA with 2 events", busiest[0])
	}
}

func TestTelemetryNilSafe(t *testing.T) {
	var tel *Telemetry

	// Every method must be a no-op on a nil receiver
	tel.Track(EvtRoomCreated, "AAAAA", "", "")
	tel.SetLiveCounts(1, 2)
	if rooms, players := tel.LiveCounts(); rooms != 0 || players != 0 {
		t.Errorf("LiveCounts = %d/%d, want 0/0", rooms, players)
	}
	tel.Stop()

	if _, err := tel.EventCounts(7); err != nil {
		t.Errorf("EventCounts on nil: %v", err)
	}
	if _, err := tel.BusiestRooms(5); err != nil {
		t.Errorf("BusiestRooms on nil: %v", err)
	}
}

func TestTelemetryLiveCounts(t *testing.T) {
	tel := NewTelemetry(nil)
	defer tel.Stop()

	tel.SetLiveCounts(3, 17)
	rooms, players := tel.LiveCounts()
	if rooms != 3 || players != 17 {
		t.Errorf("LiveCounts = %d/%d, want 3/17", rooms, players)
	}
}
