package main

import (
	"errors"
	"log"
	"math"
	"sync"
	"time"
)

var (
	// ErrRoomFull is the admission capacity fault
	ErrRoomFull = errors.New("room full")
	// ErrNoRoomsAvailable is raised when every room is full and the
	// registry is at its hard cap
	ErrNoRoomsAvailable = errors.New("no rooms available")
)

// Broadcaster is the per-connection transport surface the room depends
// on; the websocket client implements it
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// GameRoom composes one manager per entity kind plus the player
// registry. It is a pure dispatcher: every inbound event maps to
// exactly one manager operation, and the room alone decides broadcast
// scope — always "every other connection in this room", never
// cross-room. One mutex serializes all event handlers, so a handler's
// mutations and broadcast enqueues are atomic with respect to every
// other event.
type GameRoom struct {
	mu      sync.Mutex
	id      string
	maxSize int

	conns   map[string]Broadcaster
	names   map[string]string
	escorts map[string][]string // connection id -> escort ship ids

	grid      *SpatialGrid
	ships     *Manager[*Ship]
	asteroids *Manager[*Asteroid]
	lasers    *Manager[*LaserBeam]
	gems      *Manager[*Gem]
	planets   []*Planet

	telemetry *Telemetry
	onEmpty   func(roomID string)
	stop      chan struct{}
	closed    bool
}

// NewGameRoom builds a room with its asteroid field and scenery in
// place. maxSize is teams x team-size.
func NewGameRoom(id string, maxSize int, tel *Telemetry) *GameRoom {
	r := &GameRoom{
		id:        id,
		maxSize:   maxSize,
		conns:     make(map[string]Broadcaster),
		names:     make(map[string]string),
		escorts:   make(map[string][]string),
		grid:      NewSpatialGrid(),
		telemetry: tel,
		stop:      make(chan struct{}),
	}
	r.ships = NewManager[*Ship](MsgShipMoved, r.grid, r.broadcastExcept)
	r.asteroids = NewManager[*Asteroid](MsgAsteroidMoved, r.grid, r.broadcastExcept)
	r.lasers = NewManager[*LaserBeam](MsgLaserMoved, r.grid, r.broadcastExcept)
	r.gems = NewManager[*Gem](MsgShipPickedUpGem, r.grid, r.broadcastExcept)

	for _, a := range SpawnAsteroids(AsteroidCount) {
		r.asteroids.Put(a)
	}
	for i := 0; i < PlanetCount; i++ {
		r.planets = append(r.planets, NewPlanet())
	}
	return r
}

func (r *GameRoom) ID() string { return r.id }

func (r *GameRoom) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Run advances escort bots until the room closes
func (r *GameRoom) Run() {
	ticker := time.NewTicker(BotTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.stepBots()
		case <-r.stop:
			return
		}
	}
}

// Close stops the bot loop. Safe to call more than once.
func (r *GameRoom) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.stop)
	}
}

// broadcastExcept fans an envelope out to every connection in the room
// but the sender. Callers hold the room lock; sends only enqueue onto
// per-connection buffers, so nothing blocks mid-mutation.
func (r *GameRoom) broadcastExcept(senderID string, env Envelope) {
	for id, conn := range r.conns {
		if id == senderID {
			continue
		}
		conn.SendJSON(env)
	}
}

// AddPlayer admits a connection, creates its ship (plus an escort bot
// when requested) and sends the full room snapshot. A full room is a
// capacity fault, never a silent drop.
func (r *GameRoom) AddPlayer(connID string, b Broadcaster, join JoinMsg) (*Ship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || len(r.conns) >= r.maxSize {
		return nil, ErrRoomFull
	}

	r.conns[connID] = b
	r.names[connID] = join.Name

	ship := NewShip(connID, join.Name, join.ShipColor, join.ModelNum, true)
	r.ships.Put(ship)

	if join.AllowRobots {
		bot := newEscortShip(ship)
		r.ships.Put(bot)
		r.escorts[connID] = append(r.escorts[connID], bot.ID)
	}

	r.broadcastExcept(connID, Envelope{T: MsgUserJoined, Data: UserJoinedMsg{
		ShipID:  ship.ID,
		Name:    join.Name,
		Message: join.Name + " joined the game",
	}})

	b.SendJSON(Envelope{T: MsgJoined, Data: JoinedMsg{RoomID: r.id, ShipID: ship.ID}})
	r.sendSnapshot(b, ship.ID)

	r.telemetry.Track(EvtPlayerJoined, r.id, connID, "")
	return ship, nil
}

// sendSnapshot ships the full entity state to one connection as a
// binary msgpack frame, once per admission
func (r *GameRoom) sendSnapshot(b Broadcaster, shipID string) {
	snap := InitialObjects{
		RoomID:     r.id,
		ShipID:     shipID,
		Ships:      r.ships.All(),
		Asteroids:  r.asteroids.All(),
		LaserBeams: r.lasers.All(),
		Gems:       r.gems.All(),
		Planets:    r.planets,
	}
	data, err := EncodeSnapshot(snap)
	if err != nil {
		log.Printf("room %s: snapshot encode: %v", r.id, err)
		return
	}
	b.SendBinary(data)
}

// RemovePlayer handles disconnection: delete the ship, cascade the
// escorts, broadcast the departure. Idempotent — it may fire after
// other cleanup already ran.
func (r *GameRoom) RemovePlayer(connID, reason string) {
	r.mu.Lock()
	if _, ok := r.conns[connID]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.conns, connID)
	name := r.names[connID]
	delete(r.names, connID)

	escortIDs := r.escorts[connID]
	delete(r.escorts, connID)
	for _, id := range escortIDs {
		r.ships.Delete(id)
	}
	r.ships.Delete(connID)

	r.broadcastExcept(connID, Envelope{T: MsgUserLeft, Data: UserLeftMsg{
		ShipID:    connID,
		Name:      name,
		Message:   name + " " + reason,
		EscortIDs: escortIDs,
	}})

	empty := len(r.conns) == 0
	if empty && !r.closed {
		r.closed = true
		close(r.stop)
	}
	r.mu.Unlock()

	r.telemetry.Track(EvtPlayerLeft, r.id, connID, "")
	if empty && r.onEmpty != nil {
		r.onEmpty(r.id)
	}
}

// --- movement events (client-trusted) ---

func (r *GameRoom) HandleShipMoved(connID string, rec *Ship) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ships.HandleMoved(connID, rec)
}

func (r *GameRoom) HandleLaserMoved(connID string, rec *LaserBeam) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lasers.HandleMoved(connID, rec)
}

func (r *GameRoom) HandleAsteroidMoved(connID string, rec *Asteroid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.asteroids.HandleMoved(connID, rec)
}

// HandleDeleteLaser is the explicit miss/expiry removal
func (r *GameRoom) HandleDeleteLaser(connID, laserID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lasers.Delete(laserID)
	r.broadcastExcept(connID, Envelope{T: MsgDeleteLaserBeam, Data: DeleteLaserMsg{LaserBeamID: laserID}})
}

// --- server-arbitrated events (ack + broadcast) ---

// ApplyShipDamage applies the damage rule for the reported source: a
// laser costs one health point, an asteroid or ship collision costs
// all remaining health (an instant life loss). The bool is false on a
// stale reference — already resolved, not an error.
func (r *GameRoom) ApplyShipDamage(connID string, msg ShipDamageMsg) (DamageResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ship, ok := r.ships.Get(msg.ShipID)
	if !ok {
		r.lasers.Delete(msg.LaserBeamID)
		return DamageResult{}, false
	}

	reduceBy := ship.HealthPoints
	if msg.LaserBeamID != "" {
		reduceBy = LaserDamage
		r.lasers.Delete(msg.LaserBeamID)
	}

	destroyed := ship.takeDamage(reduceBy)
	res := DamageResult{
		ShipID:       ship.ID,
		HealthPoints: ship.HealthPoints,
		Lives:        ship.Lives,
		Destroyed:    destroyed,
	}
	if destroyed {
		res.EscortIDs = r.destroyShip(ship)
	}
	r.broadcastExcept(connID, Envelope{T: MsgShipDamage, Data: res})
	return res, true
}

// ApplyShipExploded is the direct life-loss event
func (r *GameRoom) ApplyShipExploded(connID string, msg ShipExplodedMsg) (DamageResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ship, ok := r.ships.Get(msg.ShipID)
	if !ok {
		r.lasers.Delete(msg.LaserBeamID)
		return DamageResult{}, false
	}
	r.lasers.Delete(msg.LaserBeamID)

	destroyed := ship.loseLife()
	res := DamageResult{
		ShipID:       ship.ID,
		HealthPoints: ship.HealthPoints,
		Lives:        ship.Lives,
		Destroyed:    destroyed,
	}
	if destroyed {
		res.EscortIDs = r.destroyShip(ship)
	}
	r.broadcastExcept(connID, Envelope{T: MsgShipExploded, Data: res})
	return res, true
}

// destroyShip removes a ship whose last life is gone. For a player
// ship the escorts cascade and the whole room gets the departure
// notice with the escort ids to drop.
func (r *GameRoom) destroyShip(ship *Ship) []string {
	r.ships.Delete(ship.ID)
	r.telemetry.Track(EvtShipDestroyed, r.id, ship.ID, "")

	if !ship.UserControlled {
		r.dropEscort(ship.ID)
		return nil
	}

	escortIDs := r.escorts[ship.ID]
	delete(r.escorts, ship.ID)
	for _, id := range escortIDs {
		r.ships.Delete(id)
	}
	name := r.names[ship.ID]
	r.broadcastExcept("", Envelope{T: MsgUserLeft, Data: UserLeftMsg{
		ShipID:    ship.ID,
		Name:      name,
		Message:   name + " was destroyed",
		EscortIDs: escortIDs,
	}})
	return escortIDs
}

// dropEscort removes a destroyed bot from its owner's escort list
func (r *GameRoom) dropEscort(shipID string) {
	for owner, ids := range r.escorts {
		for i, id := range ids {
			if id == shipID {
				r.escorts[owner] = append(ids[:i], ids[i+1:]...)
				return
			}
		}
	}
}

// ApplyAsteroidExploded destroys a below-threshold asteroid: the
// asteroid and the spent laser go away, a gem appears in its place.
func (r *GameRoom) ApplyAsteroidExploded(connID string, msg AsteroidLaserMsg) (ExplodeResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.Asteroid == nil {
		return ExplodeResult{}, false
	}
	a, ok := r.asteroids.Get(msg.Asteroid.ID)
	if !ok {
		r.lasers.Delete(msg.LaserBeamID)
		return ExplodeResult{}, false
	}

	gem := a.YieldGem()
	r.asteroids.Delete(a.ID)
	r.lasers.Delete(msg.LaserBeamID)
	r.gems.Put(gem)

	res := ExplodeResult{RemovedID: a.ID, Gem: gem}
	r.broadcastExcept(connID, Envelope{T: MsgAsteroidExploded, Data: res})
	r.telemetry.Track(EvtAsteroidExploded, r.id, a.ID, "")
	return res, true
}

// ApplyAsteroidHit splits an above-threshold asteroid into its two
// half-radius successors
func (r *GameRoom) ApplyAsteroidHit(connID string, msg AsteroidLaserMsg) (SplitResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.Asteroid == nil {
		return SplitResult{}, false
	}
	a, ok := r.asteroids.Get(msg.Asteroid.ID)
	if !ok || !a.CanSplit() {
		r.lasers.Delete(msg.LaserBeamID)
		return SplitResult{}, false
	}

	c1, c2 := a.Split()
	r.asteroids.Delete(a.ID)
	r.lasers.Delete(msg.LaserBeamID)
	r.asteroids.Put(c1)
	r.asteroids.Put(c2)

	res := SplitResult{RemovedID: a.ID, Children: []*Asteroid{c1, c2}}
	r.broadcastExcept(connID, Envelope{T: MsgAsteroidHit, Data: res})
	r.telemetry.Track(EvtAsteroidSplit, r.id, a.ID, "")
	return res, true
}

// ApplyGemPickup credits the gem to the ship and deletes it. The
// single room lock makes the claim atomic: the second ship to report
// the same gem gets a stale no-op.
func (r *GameRoom) ApplyGemPickup(connID string, msg GemPickupMsg) (GemPickupResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gem, ok := r.gems.Get(msg.GemID)
	if !ok {
		return GemPickupResult{}, false
	}
	ship, ok := r.ships.Get(msg.ShipID)
	if !ok {
		return GemPickupResult{}, false
	}

	ship.Points += gem.Points
	r.gems.Delete(gem.ID)

	res := GemPickupResult{ShipID: ship.ID, GemID: gem.ID, Points: ship.Points}
	r.broadcastExcept(connID, Envelope{T: MsgShipPickedUpGem, Data: res})
	r.telemetry.Track(EvtGemPicked, r.id, ship.ID, "")
	return res, true
}

// --- escort bots ---

// stepBots advances every escort one tick and rebroadcasts their
// authoritative positions
func (r *GameRoom) stepBots() {
	r.mu.Lock()
	defer r.mu.Unlock()

	dt := BotTickInterval.Seconds()
	for _, ids := range r.escorts {
		for _, id := range ids {
			bot, ok := r.ships.Get(id)
			if !ok {
				continue
			}
			target, ok := r.ships.Get(bot.TargetID)
			if !ok {
				bot.TargetID = r.nearestUserShip(bot)
				if target, ok = r.ships.Get(bot.TargetID); !ok {
					continue
				}
			}
			stepEscort(bot, target, dt)
			r.grid.Update(bot.ID, bot.Bounds())
			r.broadcastExcept("", Envelope{T: MsgShipMoved, Data: bot})
		}
	}
}

// nearestUserShip retargets a bot: broad-phase candidates from the
// grid first, full scan as fallback
func (r *GameRoom) nearestUserShip(bot *Ship) string {
	best := ""
	bestGap := math.MaxFloat64
	consider := func(s *Ship) {
		if !s.UserControlled {
			return
		}
		if gap := GapDistance(bot, s); gap < bestGap {
			bestGap = gap
			best = s.ID
		}
	}
	for _, id := range r.grid.Near(bot.ID, bot.Bounds()) {
		if s, ok := r.ships.Get(id); ok {
			consider(s)
		}
	}
	if best == "" {
		for _, s := range r.ships.All() {
			if s.ID != bot.ID {
				consider(s)
			}
		}
	}
	return best
}
