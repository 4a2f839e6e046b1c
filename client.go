package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 8192
	sendBufSize       = 256
	maxMessagesPerSec = 60
	maxNameLen        = 16
)

// Client represents one WebSocket connection and implements
// Broadcaster for its room
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	connID     string
	roomID     string
	name       string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, connID, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		connID:     connID,
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 0xFF prefix marks a binary frame (see SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// room resolves the client's current room, nil before join
func (c *Client) room() *GameRoom {
	if c.roomID == "" {
		return nil
	}
	return c.hub.registry.Get(c.roomID)
}

// handleMessage routes incoming events (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	if env.T == MsgJoin {
		c.handleJoin(env.D)
		return
	}

	room := c.room()
	if room == nil {
		return
	}

	switch env.T {
	case MsgShipMoved:
		var rec Ship
		if err := json.Unmarshal(env.D, &rec); err != nil || rec.ID == "" {
			return
		}
		room.HandleShipMoved(c.connID, &rec)

	case MsgLaserMoved, MsgEmitLaserBeam:
		var rec LaserBeam
		if err := json.Unmarshal(env.D, &rec); err != nil || rec.ID == "" {
			return
		}
		room.HandleLaserMoved(c.connID, &rec)

	case MsgDeleteLaserBeam:
		var msg DeleteLaserMsg
		if err := json.Unmarshal(env.D, &msg); err != nil || msg.LaserBeamID == "" {
			return
		}
		room.HandleDeleteLaser(c.connID, msg.LaserBeamID)

	case MsgAsteroidMoved:
		var rec Asteroid
		if err := json.Unmarshal(env.D, &rec); err != nil || rec.ID == "" {
			return
		}
		room.HandleAsteroidMoved(c.connID, &rec)

	case MsgShipDamage:
		if !c.requireAck(env) {
			return
		}
		var msg ShipDamageMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		if res, ok := room.ApplyShipDamage(c.connID, msg); ok {
			c.ack(env.Seq, res)
		} else {
			c.ack(env.Seq, nil)
		}

	case MsgShipExploded:
		if !c.requireAck(env) {
			return
		}
		var msg ShipExplodedMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		if res, ok := room.ApplyShipExploded(c.connID, msg); ok {
			c.ack(env.Seq, res)
		} else {
			c.ack(env.Seq, nil)
		}

	case MsgAsteroidExploded:
		if !c.requireAck(env) {
			return
		}
		var msg AsteroidLaserMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		if res, ok := room.ApplyAsteroidExploded(c.connID, msg); ok {
			c.ack(env.Seq, res)
		} else {
			c.ack(env.Seq, nil)
		}

	case MsgAsteroidHit:
		if !c.requireAck(env) {
			return
		}
		var msg AsteroidLaserMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		if res, ok := room.ApplyAsteroidHit(c.connID, msg); ok {
			c.ack(env.Seq, res)
		} else {
			c.ack(env.Seq, nil)
		}

	case MsgShipPickedUpGem:
		if !c.requireAck(env) {
			return
		}
		var msg GemPickupMsg
		if err := json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		if res, ok := room.ApplyGemPickup(c.connID, msg); ok {
			c.ack(env.Seq, res)
		} else {
			c.ack(env.Seq, nil)
		}
	}
}

// requireAck enforces the ack contract: events in the ack set must
// carry a correlation seq. Missing seq is protocol misuse — logged,
// event otherwise ignored.
func (c *Client) requireAck(env InEnvelope) bool {
	if env.Seq == 0 {
		log.Printf("client %s: %s without ack seq, ignored", c.connID, env.T)
		return false
	}
	return true
}

// ack answers the caller. A nil payload means the referenced entity
// was already resolved by an earlier event; the callback still fires.
func (c *Client) ack(seq int, data interface{}) {
	c.SendJSON(Envelope{T: MsgAck, Seq: seq, Data: data})
}

// handleJoin admits the connection into a room. Capacity problems are
// faults surfaced to this connection, never silent drops.
func (c *Client) handleJoin(data json.RawMessage) {
	if c.roomID != "" {
		return // already admitted
	}
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.Name == "" {
		msg.Name = "Pilot"
	}
	if len(msg.Name) > maxNameLen {
		msg.Name = msg.Name[:maxNameLen]
	}

	room, _, err := c.hub.registry.Assign(c.connID, c, msg)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.roomID = room.ID()
	c.name = msg.Name
	c.hub.telemetry.SetLiveCounts(c.hub.registry.RoomCount(), c.hub.registry.PlayerCount())
}
