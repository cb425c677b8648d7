package main

import "math"

// Ball tuning. The soccer ball is a light toy that pops off the player; the
// basketball wants deliberate dribbling and charges up shot power.
const (
	MaxBallVX = 18.0 // velocity safety clamp, per axis
	MaxBallVY = 25.0

	RestWall     = 0.7 // restitution against world bounds
	RestGround   = 0.65
	RestPlatform = 0.75
	RestPlayer   = 0.6

	GroundFriction = 0.85 // horizontal damping on ground contact
	GroundSnapEps  = 0.5  // |vy| below this on ground contact snaps to 0

	GentleDrag  = 0.995 // continuous horizontal drag (soccer, or shot in flight)
	DribbleHold = 0.85  // idle basketball damping, keeps it from wandering

	SoccerRadius   = 16.0
	SoccerMinPop   = 6.5 // minimum upward pop on player contact
	DribbleSpeed   = 6.0 // horizontal push per unit of contact offset
	DribbleCarry   = 0.4 // fraction of the player's own Δx carried into the ball
	FacingDeadzone = 0.15

	BasketballRadius = 20.0
	MaxEnergy        = 12
	DribbleBase      = 8.0 // upward dribble impulse at zero energy
	DribblePerEnergy = 0.9

	ShotBase       = 14.0 // vertical launch at zero energy
	ShotPerEnergy  = 0.6
	ShotSpeedMin   = 8.0
	ShotSpeedMax   = 16.0
	ShotEnergyLow  = 6.0 // energy at/below which the shot is minimum speed
	ShotEnergyHigh = 11.0
	shotTouchSlack = 0.5 // surface gap still counted as "touching" for a shot

	NearBounceGap = 6.0 // proximity window for a header without overlap

	ballResetDX = 20.0 // respawn offset from the player after a score
	ballResetDY = -40.0
)

// BallKind selects the ball's physical behavior.
type BallKind int

const (
	BallSoccer BallKind = iota
	BallBasketball
)

// ballRadius maps kind to the fixed collision radius.
var ballRadius = [2]float64{SoccerRadius, BasketballRadius}

// Ball is the secondary entity: a rigid circle integrated under gravity with
// kind-specific player interaction. One instance per run; scoring repositions
// it instead of destroying it.
type Ball struct {
	Kind   BallKind
	X, Y   float64
	VX, VY float64
	Radius float64

	Active   bool
	Energy   int  // basketball only, 0..MaxEnergy
	Shooting bool // basketball only, true while following a shot arc
}

// NewBall creates an active ball of the given kind resting near the player.
func NewBall(kind BallKind, p *Player) *Ball {
	b := &Ball{Kind: kind, Radius: ballRadius[kind], Active: true}
	b.ResetNear(p)
	return b
}

// SetKind switches the ball's kind. Energy and the shooting flag reset
// unconditionally; position and velocity carry over.
func (b *Ball) SetKind(kind BallKind) {
	b.Kind = kind
	b.Radius = ballRadius[kind]
	b.Energy = 0
	b.Shooting = false
}

// ResetNear drops the ball at a fixed offset from the player with zero
// velocity.
func (b *Ball) ResetNear(p *Player) {
	b.X = p.X + PlayerSize + ballResetDX
	b.Y = p.Y + PlayerSize + ballResetDY
	b.VX = 0
	b.VY = 0
	b.Shooting = false
}

// Airborne reports whether the ball is above its ground rest height.
func (b *Ball) Airborne() bool {
	return b.Y < GroundY-b.Radius
}

// Step advances the ball one tick against the finalized player and level
// state. playerBounced is true when this tick's landing produced a rebound
// rather than a come-to-rest.
func (b *Ball) Step(p *Player, playerBounced bool, lv *Level) {
	if !b.Active {
		return
	}

	b.VY += Gravity

	// Horizontal damping. An idle basketball brakes hard so it stays where
	// it was left; everything else coasts with a gentle drag.
	if b.Kind == BallBasketball && !b.Shooting {
		b.VX *= DribbleHold
	} else {
		b.VX *= GentleDrag
	}

	b.clampVelocity()

	b.X += b.VX
	b.Y += b.VY

	b.resolveBounds()
	b.resolvePlatforms(p, lv)
	b.resolvePlayer(p, playerBounced)

	b.clampVelocity()
}

func (b *Ball) clampVelocity() {
	b.VX = Clamp(b.VX, -MaxBallVX, MaxBallVX)
	b.VY = Clamp(b.VY, -MaxBallVY, MaxBallVY)
}

// resolveBounds reflects the ball off the world edges and the ground plane.
func (b *Ball) resolveBounds() {
	if b.X-b.Radius < 0 {
		b.X = b.Radius
		b.VX = -b.VX * RestWall
	} else if b.X+b.Radius > WorldWidth {
		b.X = WorldWidth - b.Radius
		b.VX = -b.VX * RestWall
	}
	if b.Y-b.Radius < 0 {
		b.Y = b.Radius
		b.VY = -b.VY * RestWall
	}
	if b.Y+b.Radius >= GroundY {
		b.Y = GroundY - b.Radius
		b.VY = -b.VY * RestGround
		b.VX *= GroundFriction
		if math.Abs(b.VY) < GroundSnapEps {
			b.VY = 0
		}
		// A shot arc ends when the ball comes back down.
		b.Shooting = false
	}
}

// resolvePlatforms bounces the ball off every platform that is collidable
// this tick: solid platforms always, fall-through platforms only while the
// player's bounce chain is active.
func (b *Ball) resolvePlatforms(p *Player, lv *Level) {
	for _, pf := range lv.Platforms {
		if !pf.Solid && p.BounceLevel == 0 {
			continue
		}
		b.X, b.Y, b.VX, b.VY, _ = ResolveCircleRect(b.X, b.Y, b.VX, b.VY, b.Radius, pf.Rect, RestPlatform)
	}
}

// resolvePlayer handles ball-player contact: the generic circle-rect
// reflection followed by the kind-specific override, plus the near-bounce
// proximity trigger that lets a rebounding player head the ball without
// direct overlap.
func (b *Ball) resolvePlayer(p *Player, playerBounced bool) {
	bounds := p.Bounds()
	preVY := b.VY

	var hit bool
	b.X, b.Y, b.VX, b.VY, hit = ResolveCircleRect(b.X, b.Y, b.VX, b.VY, b.Radius, bounds, RestPlayer)
	if hit {
		b.playerContact(p, playerBounced, preVY)
		return
	}
	if playerBounced && CircleRectGap(b.X, b.Y, b.Radius, bounds) <= NearBounceGap {
		b.playerContact(p, playerBounced, preVY)
	}
}

// playerContact applies the kind-specific response to player contact. This is
// the only place ball behavior branches on kind.
func (b *Ball) playerContact(p *Player, playerBounced bool, preVY float64) {
	if b.Kind == BallBasketball && !b.Shooting {
		// Dribble: the ball never squirts sideways off the player, and each
		// landing rebound pumps it a little higher.
		b.VX = 0
		if playerBounced && b.Energy < MaxEnergy {
			b.Energy++
		}
		b.VY = -(DribbleBase + float64(b.Energy)*DribblePerEnergy)
		return
	}

	// Soccer pop (also a basketball mid-shot): always bounce up, at least
	// the minimum pop, and push sideways only when the ball sits on the
	// side the player is moving toward.
	up := math.Abs(preVY)
	if up < SoccerMinPop {
		up = SoccerMinPop
	}
	b.VY = -up

	offset := Clamp((b.X-(p.X+PlayerSize/2))/(PlayerSize/2), -1, 1)
	if p.Facing != 0 && offset*float64(p.Facing) > FacingDeadzone {
		b.VX = DribbleSpeed*offset + DribbleCarry*p.DX
	} else {
		b.VX = 0
	}
}

// Shoot launches the basketball along a shot arc. The shot is gated on kind,
// ball-player contact, and both bodies being airborne. Energy maps to
// horizontal speed by linear interpolation between the two thresholds and is
// not consumed.
func (b *Ball) Shoot(p *Player) bool {
	if !b.Active || b.Kind != BallBasketball {
		return false
	}
	if p.Grounded || !b.Airborne() {
		return false
	}
	if CircleRectGap(b.X, b.Y, b.Radius, p.Bounds()) > shotTouchSlack {
		return false
	}

	t := Clamp((float64(b.Energy)-ShotEnergyLow)/(ShotEnergyHigh-ShotEnergyLow), 0, 1)
	speed := ShotSpeedMin + t*(ShotSpeedMax-ShotSpeedMin)
	b.VX = float64(p.ShotFacing()) * speed
	b.VY = -(ShotBase + float64(b.Energy)*ShotPerEnergy)
	b.Shooting = true
	return true
}

// CheckScoring tests the ball center against each basket. The first match
// resets the ball next to the player and wins the tick; overlapping baskets
// never double-score.
func CheckScoring(b *Ball, p *Player, baskets []Basket) bool {
	if !b.Active {
		return false
	}
	for _, bk := range baskets {
		if bk.Rect.Contains(b.X, b.Y) {
			b.ResetNear(p)
			return true
		}
	}
	return false
}
