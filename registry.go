package main

import (
	"sync"
)

const roomCodeLen = 5

// RoomRegistry creates rooms on demand and load-balances new
// connections into the first room with a free slot. It is constructed
// explicitly and passed down, never a package-level singleton, and its
// mutex is the single coordinator for room creation.
type RoomRegistry struct {
	mu        sync.Mutex
	cfg       Config
	rooms     map[string]*GameRoom
	open      *GameRoom // last room that admitted someone
	telemetry *Telemetry
}

func NewRoomRegistry(cfg Config, tel *Telemetry) *RoomRegistry {
	return &RoomRegistry{
		cfg:       cfg,
		rooms:     make(map[string]*GameRoom),
		telemetry: tel,
	}
}

// Assign admits the connection: requested room first (invite links),
// then the open room, then any room with space, then a fresh room
// while under the hard cap. Past the cap the connection fails with
// ErrNoRoomsAvailable.
func (rr *RoomRegistry) Assign(connID string, b Broadcaster, join JoinMsg) (*GameRoom, *Ship, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if join.RoomID != "" {
		room, ok := rr.rooms[join.RoomID]
		if !ok {
			return nil, nil, ErrNoRoomsAvailable
		}
		ship, err := room.AddPlayer(connID, b, join)
		if err != nil {
			return nil, nil, err
		}
		rr.open = room
		return room, ship, nil
	}

	if rr.open != nil {
		if ship, err := rr.open.AddPlayer(connID, b, join); err == nil {
			return rr.open, ship, nil
		}
	}
	for _, room := range rr.rooms {
		if room == rr.open {
			continue
		}
		if ship, err := room.AddPlayer(connID, b, join); err == nil {
			rr.open = room
			return room, ship, nil
		}
	}

	if len(rr.rooms) >= rr.cfg.MaxRooms {
		return nil, nil, ErrNoRoomsAvailable
	}

	room := rr.createRoom()
	ship, err := room.AddPlayer(connID, b, join)
	if err != nil {
		return nil, nil, err
	}
	rr.open = room
	return room, ship, nil
}

// createRoom builds a room under a collision-free random code.
// Callers hold the registry lock.
func (rr *RoomRegistry) createRoom() *GameRoom {
	id := GenerateRoomCode(roomCodeLen)
	for _, exists := rr.rooms[id]; exists; _, exists = rr.rooms[id] {
		id = GenerateRoomCode(roomCodeLen)
	}

	room := NewGameRoom(id, rr.cfg.MaxRoomSize(), rr.telemetry)
	room.onEmpty = rr.removeRoom
	rr.rooms[id] = room
	go room.Run()

	rr.telemetry.Track(EvtRoomCreated, id, "", "")
	return room
}

func (rr *RoomRegistry) removeRoom(id string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	room, ok := rr.rooms[id]
	if !ok {
		return
	}
	delete(rr.rooms, id)
	if rr.open == room {
		rr.open = nil
	}
	rr.telemetry.Track(EvtRoomClosed, id, "", "")
}

// Get returns a room by id
func (rr *RoomRegistry) Get(id string) *GameRoom {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.rooms[id]
}

func (rr *RoomRegistry) RoomCount() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return len(rr.rooms)
}

// PlayerCount sums the admitted connections across rooms
func (rr *RoomRegistry) PlayerCount() int {
	rr.mu.Lock()
	rooms := make([]*GameRoom, 0, len(rr.rooms))
	for _, r := range rr.rooms {
		rooms = append(rooms, r)
	}
	rr.mu.Unlock()

	n := 0
	for _, r := range rooms {
		n += r.PlayerCount()
	}
	return n
}

// CloseAll stops every room's bot loop; used at shutdown
func (rr *RoomRegistry) CloseAll() {
	rr.mu.Lock()
	rooms := make([]*GameRoom, 0, len(rr.rooms))
	for _, r := range rr.rooms {
		rooms = append(rooms, r)
	}
	rr.mu.Unlock()

	for _, r := range rooms {
		r.Close()
	}
}
