package main

import "math"

const (
	AsteroidWidth      = 100.0
	AsteroidCount      = 20
	AsteroidStartSpeed = 0.5
	AsteroidSplitSpeed = 0.5
	MinAsteroidRadius  = 20.0
	DefaultGemPoints   = 1

	maxSpawnAttempts = 1000
)

// Asteroid drifts across the board until a laser destroys it. The two
// child ids are reserved at creation so a later split reuses them.
type Asteroid struct {
	Body
	GemPoints   int    `json:"gemPoints"`
	AsteroidID1 string `json:"asteroidId1"`
	AsteroidID2 string `json:"asteroidId2"`
}

// NewAsteroid spawns a full-size asteroid fully inside the board
func NewAsteroid() *Asteroid {
	return &Asteroid{
		Body: Body{
			ID:     GenerateID(4),
			X:      AsteroidWidth/2 + randFloat()*(BoardWidth-AsteroidWidth),
			Y:      AsteroidWidth/2 + randFloat()*(BoardHeight-AsteroidWidth),
			Deg:    randFloat() * 360,
			Speed:  AsteroidStartSpeed,
			Width:  AsteroidWidth,
			Height: AsteroidWidth,
			Type:   KindAsteroid,
		},
		GemPoints:   DefaultGemPoints,
		AsteroidID1: GenerateID(4),
		AsteroidID2: GenerateID(4),
	}
}

func (a *Asteroid) applyMovement(u *Asteroid) { a.Body.moveTo(u.Body) }

func (a *Asteroid) normalize() {
	a.Type = KindAsteroid
	if a.GemPoints == 0 {
		a.GemPoints = DefaultGemPoints
	}
	if a.AsteroidID1 == "" {
		a.AsteroidID1 = GenerateID(4)
	}
	if a.AsteroidID2 == "" {
		a.AsteroidID2 = GenerateID(4)
	}
}

// SpawnAsteroids places n asteroids with no pairwise overlap (coarse
// rectangle test), all in bounds. Candidates that land on an existing
// asteroid are redrawn.
func SpawnAsteroids(n int) []*Asteroid {
	out := make([]*Asteroid, 0, n)
	for attempts := 0; len(out) < n && attempts < maxSpawnAttempts; attempts++ {
		cand := NewAsteroid()
		clear := true
		for _, other := range out {
			if RectsOverlap(cand.Bounds(), other.Bounds()) {
				clear = false
				break
			}
		}
		if clear {
			out = append(out, cand)
		}
	}
	return out
}

// CanSplit reports whether the asteroid is still above the minimum
// radius. Below it, a hit explodes the asteroid into a gem instead —
// that threshold is what stops infinite subdivision.
func (a *Asteroid) CanSplit() bool {
	return a.Radius() >= MinAsteroidRadius
}

// Split produces the two successor asteroids of a confirmed hit: half
// the radius, projected newRadius/2 from the impact point along the
// original heading and its opposite, consuming the reserved child ids.
func (a *Asteroid) Split() (*Asteroid, *Asteroid) {
	newRadius := math.Round(a.Radius() / 2)
	offset := newRadius / 2
	rad := DegToRad(a.Deg)

	c1 := a.child(a.AsteroidID1, a.Deg,
		a.X+math.Cos(rad)*offset, a.Y+math.Sin(rad)*offset, newRadius)
	c2 := a.child(a.AsteroidID2, a.Deg+180,
		a.X-math.Cos(rad)*offset, a.Y-math.Sin(rad)*offset, newRadius)
	return c1, c2
}

func (a *Asteroid) child(id string, deg, x, y, size float64) *Asteroid {
	return &Asteroid{
		Body: Body{
			ID:     id,
			X:      x,
			Y:      y,
			Deg:    deg,
			Speed:  AsteroidSplitSpeed,
			Width:  size,
			Height: size,
			Type:   KindAsteroid,
		},
		GemPoints:   a.GemPoints,
		AsteroidID1: GenerateID(4),
		AsteroidID2: GenerateID(4),
	}
}

// YieldGem converts a below-threshold asteroid into the gem it drops
func (a *Asteroid) YieldGem() *Gem {
	return &Gem{
		Body: Body{
			ID:     GenerateID(4),
			X:      a.X,
			Y:      a.Y,
			Width:  GemWidth,
			Height: GemWidth,
			Type:   KindGem,
		},
		Points: a.GemPoints,
	}
}
