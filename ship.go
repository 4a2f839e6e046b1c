package main

const (
	ShipWidth       = 80.0
	ShipStartHealth = 10
	ShipStartLives  = 5
	LaserDamage     = 1
)

// Ship is a player- or bot-controlled vessel. Movement is
// client-computed and server-trusted; health, lives and points are
// server-arbitrated.
type Ship struct {
	Body
	Name           string `json:"name"`
	HealthPoints   int    `json:"healthPoints"`
	Lives          int    `json:"lives"`
	Points         int    `json:"points"`
	UserControlled bool   `json:"userControlled"`
	TargetID       string `json:"targetId,omitempty"`
	ShipColor      string `json:"shipColor,omitempty"`
	ModelNum       int    `json:"modelNum,omitempty"`
}

// NewShip spawns a ship at a random board position
func NewShip(id, name, color string, modelNum int, userControlled bool) *Ship {
	return &Ship{
		Body: Body{
			ID:     id,
			X:      ShipWidth + randFloat()*(BoardWidth-2*ShipWidth),
			Y:      ShipWidth + randFloat()*(BoardHeight-2*ShipWidth),
			Deg:    randFloat() * 360,
			Width:  ShipWidth,
			Height: ShipWidth,
			Type:   KindShip,
		},
		Name:           name,
		HealthPoints:   ShipStartHealth,
		Lives:          ShipStartLives,
		UserControlled: userControlled,
		ShipColor:      color,
		ModelNum:       modelNum,
	}
}

func (s *Ship) applyMovement(u *Ship) { s.Body.moveTo(u.Body) }

func (s *Ship) normalize() {
	s.Type = KindShip
	if s.HealthPoints <= 0 {
		s.HealthPoints = ShipStartHealth
	}
	if s.Lives <= 0 {
		s.Lives = ShipStartLives
	}
}

// takeDamage walks the Alive -> Damaged -> Dying transitions. Health
// and lives are never left negative. Returns true when the ship's last
// life is gone and it must be removed from the room.
func (s *Ship) takeDamage(reduceBy int) (destroyed bool) {
	if reduceBy < 0 {
		reduceBy = 0
	}
	s.HealthPoints -= reduceBy
	if s.HealthPoints > 0 {
		return false
	}
	s.HealthPoints = 0
	s.Lives--
	if s.Lives <= 0 {
		s.Lives = 0
		return true
	}
	s.HealthPoints = ShipStartHealth
	return false
}

// loseLife is the asteroid/ship collision rule: the hit costs whatever
// health remains, i.e. an instant life loss
func (s *Ship) loseLife() (destroyed bool) {
	return s.takeDamage(s.HealthPoints)
}
