package main

// movable is implemented by every entity kind a Manager owns
type movable[T any] interface {
	Entity
	applyMovement(T)
	normalize()
}

// Manager owns the live set of one entity kind inside a room: lookup,
// idempotent upsert, delete, and the move-and-broadcast operation.
// One generic implementation covers ships, asteroids, lasers and gems.
// Callers hold the room lock, so the maps need no locking of their own.
type Manager[T movable[T]] struct {
	event    string // broadcast event name for this kind
	entities map[string]T
	grid     *SpatialGrid
	out      func(senderID string, env Envelope)
}

func NewManager[T movable[T]](event string, grid *SpatialGrid, out func(string, Envelope)) *Manager[T] {
	return &Manager[T]{
		event:    event,
		entities: make(map[string]T),
		grid:     grid,
		out:      out,
	}
}

func (m *Manager[T]) Get(id string) (T, bool) {
	e, ok := m.entities[id]
	return e, ok
}

// Put upserts the entity and syncs its sector membership
func (m *Manager[T]) Put(e T) {
	e.normalize()
	m.entities[e.EntityID()] = e
	m.grid.Update(e.EntityID(), e.Bounds())
}

// Delete removes the entity. An absent id is a no-op: it signals a
// stale client event that some earlier event already resolved.
func (m *Manager[T]) Delete(id string) {
	if _, ok := m.entities[id]; !ok {
		return
	}
	delete(m.entities, id)
	m.grid.Remove(id)
}

func (m *Manager[T]) Len() int { return len(m.entities) }

func (m *Manager[T]) All() []T {
	out := make([]T, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, e)
	}
	return out
}

// HandleMoved applies a self-reported position update. If the entity
// exists, only its movement fields change; if not, it is created from
// the update (the server trusts the first reporter). Either way the
// sector membership is recomputed and the authoritative post-update
// record goes out to every other connection in the room.
func (m *Manager[T]) HandleMoved(senderID string, update T) T {
	e, ok := m.entities[update.EntityID()]
	if ok {
		e.applyMovement(update)
	} else {
		update.normalize()
		e = update
		m.entities[e.EntityID()] = e
	}
	m.grid.Update(e.EntityID(), e.Bounds())
	m.out(senderID, Envelope{T: m.event, Data: e})
	return e
}
