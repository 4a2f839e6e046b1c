package main

import (
	"math"
	"time"
)

const (
	EscortWidth     = 60.0
	EscortSpeed     = 140.0 // board units per second
	EscortTurnRate  = 180.0 // max turn, degrees per second
	EscortStandoff  = 150.0 // holds position once this close to target
	BotTickInterval = 100 * time.Millisecond
)

// newEscortShip spawns an "evil ship" bot tied to the owner's
// connection. It lives in the ship map like any ship but holds no
// connection slot, and dies with its owner.
func newEscortShip(owner *Ship) *Ship {
	bot := NewShip("bot-"+GenerateID(3), owner.Name+"'s escort", owner.ShipColor, owner.ModelNum, false)
	bot.Width = EscortWidth
	bot.Height = EscortWidth
	bot.TargetID = owner.ID
	return bot
}

// angleDiffDeg returns the shortest signed rotation from one heading
// to another, in (-180, 180]
func angleDiffDeg(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

// stepEscort turns the bot toward its target and advances it, clamped
// to the board. The bot stops once inside the standoff distance.
func stepEscort(bot, target *Ship, dt float64) {
	tx, ty := target.Center()
	want := math.Atan2(ty-bot.Y, tx-bot.X) * 180 / math.Pi

	diff := angleDiffDeg(bot.Deg, want)
	maxTurn := EscortTurnRate * dt
	diff = Clamp(diff, -maxTurn, maxTurn)
	bot.Deg = NormalizeDeg(bot.Deg + diff)

	dx := tx - bot.X
	dy := ty - bot.Y
	if math.Sqrt(dx*dx+dy*dy) <= EscortStandoff {
		bot.Speed = 0
		return
	}

	bot.Speed = EscortSpeed
	rad := DegToRad(bot.Deg)
	bot.X = Clamp(bot.X+math.Cos(rad)*EscortSpeed*dt, EscortWidth/2, BoardWidth-EscortWidth/2)
	bot.Y = Clamp(bot.Y+math.Sin(rad)*EscortSpeed*dt, EscortWidth/2, BoardHeight-EscortWidth/2)
}
