package main

import "math"

const (
	BoardWidth  = 3200.0
	BoardHeight = 2000.0
)

// Entity kind tags carried in every wire record
const (
	KindShip      = "ship"
	KindAsteroid  = "asteroid"
	KindLaserBeam = "laserBeam"
	KindGem       = "gem"
	KindPlanet    = "planet"
)

const (
	GemWidth    = 30.0
	PlanetWidth = 220.0
	PlanetCount = 2
)

// Entity is the capability set shared by every positioned, bounded
// game object
type Entity interface {
	EntityID() string
	Center() (float64, float64)
	Radius() float64
	Bounds() Rect
}

// Body is the field set common to all entity kinds. Wire records embed
// it, so every record carries position, size, heading, speed and the
// kind tag.
type Body struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Deg    float64 `json:"deg"`
	Speed  float64 `json:"speed"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Type   string  `json:"type"`
}

func (b *Body) EntityID() string { return b.ID }

func (b *Body) Center() (float64, float64) { return b.X, b.Y }

func (b *Body) Radius() float64 { return math.Floor(b.Width / 2) }

func (b *Body) Bounds() Rect {
	return Rect{
		MinX: b.X - b.Width/2,
		MaxX: b.X + b.Width/2,
		MinY: b.Y - b.Height/2,
		MaxY: b.Y + b.Height/2,
	}
}

// moveTo applies a position report. Only the client-owned movement
// fields transfer; everything else stays server-authoritative.
func (b *Body) moveTo(u Body) {
	b.X = u.X
	b.Y = u.Y
	b.Deg = u.Deg
	b.Speed = u.Speed
}

// LaserBeam is a fired laser. Created on EmitLaserBeam, destroyed on
// collision or an explicit DeleteLaserBeam (client-decided miss).
type LaserBeam struct {
	Body
	FromShipID string `json:"fromShipId"`
	Color      string `json:"color,omitempty"`
}

func (l *LaserBeam) applyMovement(u *LaserBeam) { l.Body.moveTo(u.Body) }

func (l *LaserBeam) normalize() {
	l.Type = KindLaserBeam
}

// Gem is dropped by a destroyed asteroid and picked up on ship overlap
type Gem struct {
	Body
	Points int `json:"points"`
}

func (g *Gem) applyMovement(u *Gem) { g.Body.moveTo(u.Body) }

func (g *Gem) normalize() {
	g.Type = KindGem
	if g.Points == 0 {
		g.Points = DefaultGemPoints
	}
}

// Planet is static scenery, included in the snapshot but never moved
// or destroyed
type Planet struct {
	Body
}

// NewPlanet places a planet fully inside the board
func NewPlanet() *Planet {
	return &Planet{Body: Body{
		ID:     GenerateID(4),
		X:      PlanetWidth/2 + randFloat()*(BoardWidth-PlanetWidth),
		Y:      PlanetWidth/2 + randFloat()*(BoardHeight-PlanetWidth),
		Width:  PlanetWidth,
		Height: PlanetWidth,
		Type:   KindPlanet,
	}}
}
