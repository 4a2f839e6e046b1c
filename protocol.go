package main

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server event names
const (
	MsgJoin             = "join"
	MsgShipMoved        = "ShipMoved"
	MsgLaserMoved       = "LaserMoved"
	MsgEmitLaserBeam    = "EmitLaserBeam"
	MsgDeleteLaserBeam  = "DeleteLaserBeam"
	MsgAsteroidMoved    = "AsteroidMoved"
	MsgShipDamage       = "ShipDamage"
	MsgAsteroidExploded = "AsteroidExploded"
	MsgAsteroidHit      = "AsteroidHit"
	MsgShipExploded     = "ShipExploded"
	MsgShipPickedUpGem  = "ShipPickedUpGem"
)

// Server -> Client event names
const (
	MsgInitialObjects = "GetInitialObjects"
	MsgUserJoined     = "UserJoined"
	MsgUserLeft       = "UserLeft"
	MsgJoined         = "joined"
	MsgAck            = "ack"
	MsgError          = "error"
)

// Envelope wraps all outgoing messages with a type field. Seq is set
// only on ack replies, echoing the request's correlation number.
type Envelope struct {
	T    string      `json:"t"`
	Seq  int         `json:"seq,omitempty"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids
// double-unmarshal. Events that expect an ack must carry a nonzero Seq.
type InEnvelope struct {
	T   string          `json:"t"`
	Seq int             `json:"seq,omitempty"`
	D   json.RawMessage `json:"d,omitempty"`
}

// JoinMsg is the implicit-on-connect admission request
type JoinMsg struct {
	Name        string `json:"name"`
	ShipColor   string `json:"shipColor,omitempty"`
	ModelNum    int    `json:"modelNum,omitempty"`
	AllowRobots bool   `json:"allowRobots,omitempty"`
	RoomID      string `json:"roomId,omitempty"` // invite-link join
}

// JoinedMsg confirms admission before the snapshot arrives
type JoinedMsg struct {
	RoomID string `json:"roomId"`
	ShipID string `json:"shipId"`
}

// DeleteLaserMsg is an explicit laser removal (client-decided miss)
type DeleteLaserMsg struct {
	LaserBeamID string `json:"laserBeamId"`
}

// ShipDamageMsg names the hit ship and exactly one damage source
type ShipDamageMsg struct {
	ShipID      string `json:"shipId"`
	LaserBeamID string `json:"laserBeamId,omitempty"`
	AsteroidID  string `json:"asteroidId,omitempty"`
	OtherShipID string `json:"otherShipId,omitempty"`
}

// DamageResult answers ShipDamage and ShipExploded and is broadcast to
// the rest of the room
type DamageResult struct {
	ShipID       string   `json:"shipId"`
	HealthPoints int      `json:"healthPoints"`
	Lives        int      `json:"lives"`
	Destroyed    bool     `json:"destroyed"`
	EscortIDs    []string `json:"escortIds,omitempty"`
}

// AsteroidLaserMsg reports a confirmed laser hit on an asteroid
type AsteroidLaserMsg struct {
	Asteroid    *Asteroid `json:"asteroid"`
	LaserBeamID string    `json:"laserBeamId"`
}

// SplitResult carries the two successor asteroids of a split
type SplitResult struct {
	RemovedID string      `json:"removedId"`
	Children  []*Asteroid `json:"children"`
}

// ExplodeResult carries the gem a below-threshold asteroid yielded
type ExplodeResult struct {
	RemovedID string `json:"removedId"`
	Gem       *Gem   `json:"gem"`
}

// ShipExplodedMsg reports a collision severe enough to cost a life
type ShipExplodedMsg struct {
	ShipID      string `json:"shipId"`
	LaserBeamID string `json:"laserBeamId,omitempty"`
}

// GemPickupMsg reports a ship overlapping a gem
type GemPickupMsg struct {
	ShipID string `json:"shipId"`
	GemID  string `json:"gemId"`
}

// GemPickupResult answers ShipPickedUpGem with the new score
type GemPickupResult struct {
	ShipID string `json:"shipId"`
	GemID  string `json:"gemId"`
	Points int    `json:"points"`
}

// UserJoinedMsg is broadcast when a player is admitted
type UserJoinedMsg struct {
	ShipID  string `json:"shipId"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// UserLeftMsg is broadcast on departure or terminal destruction,
// carrying the escort ids every other client must remove
type UserLeftMsg struct {
	ShipID    string   `json:"shipId"`
	Name      string   `json:"name"`
	Message   string   `json:"message"`
	EscortIDs []string `json:"escortIds,omitempty"`
}

// ErrorMsg surfaces admission faults to the connection
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// InitialObjects is the full room snapshot, sent once per connection
// as a binary msgpack frame
type InitialObjects struct {
	RoomID     string       `json:"roomId"`
	ShipID     string       `json:"shipId"`
	Ships      []*Ship      `json:"ships"`
	Asteroids  []*Asteroid  `json:"asteroids"`
	LaserBeams []*LaserBeam `json:"laserBeams"`
	Gems       []*Gem       `json:"gems"`
	Planets    []*Planet    `json:"planets"`
}

// EncodeSnapshot marshals the snapshot for the binary websocket frame
func EncodeSnapshot(s InitialObjects) ([]byte, error) {
	return msgpack.Marshal(s)
}

// DecodeSnapshot is the inverse, used by tests and non-browser clients
func DecodeSnapshot(data []byte) (InitialObjects, error) {
	var s InitialObjects
	err := msgpack.Unmarshal(data, &s)
	return s, err
}
