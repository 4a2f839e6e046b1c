package main

import "testing"

type sentEnvelope struct {
	senderID string
	env      Envelope
}

func newTestManager(event string) (*Manager[*Ship], *[]sentEnvelope, *SpatialGrid) {
	grid := NewSpatialGrid()
	var sent []sentEnvelope
	m := NewManager[*Ship](event, grid, func(senderID string, env Envelope) {
		sent = append(sent, sentEnvelope{senderID, env})
	})
	return m, &sent, grid
}

func TestManagerHandleMovedUpdatesExisting(t *testing.T) {
	m, sent, grid := newTestManager(MsgShipMoved)

	ship := NewShip("s1", "ann", "", 0, true)
	ship.HealthPoints = 3
	m.Put(ship)

	update := &Ship{Body: Body{ID: "s1", X: 500, Y: 600, Deg: 45, Speed: 2}}
	got := m.HandleMoved("conn1", update)

	if got != ship {
		t.Fatal("HandleMoved should return the stored record, not the update")
	}
	if ship.X != 500 || ship.Y != 600 || ship.Deg != 45 || ship.Speed != 2 {
		t.Errorf("movement fields not applied: %+v", ship.Body)
	}
	// Server-owned fields survive the client report
	if ship.HealthPoints != 3 {
		t.Errorf("HealthPoints = %d, want 3 (server-authoritative)", ship.HealthPoints)
	}
	if ship.Name != "ann" {
		t.Errorf("Name = %q, want ann", ship.Name)
	}

	if len(*sent) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(*sent))
	}
	if (*sent)[0].senderID != "conn1" || (*sent)[0].env.T != MsgShipMoved {
		t.Errorf("broadcast = %+v, want sender conn1 event %s", (*sent)[0], MsgShipMoved)
	}

	if !sameCells(grid.Sections("s1"), grid.CellsOverlapping(ship.Bounds())) {
		t.Error("sector membership out of sync after move")
	}
}

func TestManagerHandleMovedCreatesUnknown(t *testing.T) {
	m, sent, _ := newTestManager(MsgShipMoved)

	// First report for an unknown id creates the entity
	update := &Ship{Body: Body{ID: "new", X: 100, Y: 100}}
	got := m.HandleMoved("conn1", update)

	if got == nil || m.Len() != 1 {
		t.Fatalf("entity not created, len = %d", m.Len())
	}
	stored, ok := m.Get("new")
	if !ok {
		t.Fatal("created entity not retrievable")
	}
	// normalize fills server defaults on implicit creation
	if stored.HealthPoints != ShipStartHealth || stored.Lives != ShipStartLives {
		t.Errorf("defaults not applied: hp=%d lives=%d", stored.HealthPoints, stored.Lives)
	}
	if stored.Type != KindShip {
		t.Errorf("Type = %q, want %q", stored.Type, KindShip)
	}
	if len(*sent) != 1 {
		t.Errorf("broadcasts = %d, want 1", len(*sent))
	}
}

func TestManagerHandleMovedIdempotent(t *testing.T) {
	m, _, _ := newTestManager(MsgShipMoved)

	update := &Ship{Body: Body{ID: "s1", X: 100, Y: 100}}
	m.HandleMoved("conn1", update)
	m.HandleMoved("conn1", &Ship{Body: Body{ID: "s1", X: 100, Y: 100}})

	if m.Len() != 1 {
		t.Errorf("repeated identical move created duplicates, len = %d", m.Len())
	}
	s, _ := m.Get("s1")
	if s.X != 100 || s.Y != 100 {
		t.Errorf("position drifted to (%v, %v)", s.X, s.Y)
	}
}

func TestManagerDeleteAbsentIsNoOp(t *testing.T) {
	m, _, grid := newTestManager(MsgShipMoved)

	m.Put(NewShip("s1", "ann", "", 0, true))
	m.Delete("ghost") // stale reference, must not disturb anything
	m.Delete("s1")
	m.Delete("s1") // double delete is also a no-op

	if m.Len() != 0 {
		t.Errorf("len = %d, want 0", m.Len())
	}
	if grid.Sections("s1") != nil {
		t.Error("deleted entity still in grid")
	}
}

func TestManagerAll(t *testing.T) {
	m, _, _ := newTestManager(MsgShipMoved)
	m.Put(NewShip("a", "ann", "", 0, true))
	m.Put(NewShip("b", "bob", "", 0, true))

	if got := len(m.All()); got != 2 {
		t.Errorf("All() length = %d, want 2", got)
	}
}
