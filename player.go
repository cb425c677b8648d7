package main

const (
	PlayerSize    = 64.0
	Gravity       = 0.5 // world units per tick²
	MoveSpeed     = 5.0 // horizontal units per tick
	DownwardForce = 3.0 // extra fall speed added by a timing-window boost
	MaxBounce     = 5   // highest chainable bounce level
)

// bounceImpulse maps bounce level to the vertical velocity applied on a
// successful landing at that level. Index 0 is the small rebound used by the
// two-stage settle on the ground.
var bounceImpulse = [MaxBounce + 1]float64{-3, -10, -14, -18, -22, -26}

// boostWindow maps bounce level to the maximum distance from the surface
// below at which a jump input still counts as a boost. The window shrinks as
// the chain grows.
var boostWindow = [MaxBounce + 1]float64{80, 70, 60, 50, 40, 30}

// SurfaceKind identifies what the player landed on. Ground landings and
// platform landings settle differently at level 0.
type SurfaceKind int

const (
	SurfaceNone SurfaceKind = iota
	SurfaceGround
	SurfacePlatform
)

// Player is the bouncing character. A single instance lives for the whole
// run; every tick the bounce controller and the collision pass mutate it in
// place.
type Player struct {
	X, Y   float64
	VY     float64
	DX     float64 // horizontal displacement applied this tick
	Facing int     // -1 left, 0 idle, +1 right

	Grounded    bool
	WasAirborne bool
	BounceLevel int  // 0..MaxBounce
	Boosted     bool // jump accepted inside the timing window this fall
	Settling    bool // level-0 small rebound already taken (ground only)

	lastFacing int // last non-neutral facing, used to orient shots
}

// NewPlayer creates a grounded player at the given position.
func NewPlayer(startX, startY float64) *Player {
	return &Player{
		X:          startX,
		Y:          startY,
		Grounded:   true,
		lastFacing: 1,
	}
}

// Move applies one tick of horizontal input. dir is -1, 0 or +1.
func (p *Player) Move(dir int) {
	prev := p.X
	switch {
	case dir < 0:
		p.X -= MoveSpeed
		if p.X < 0 {
			p.X = 0
		}
		p.Facing = -1
		p.lastFacing = -1
	case dir > 0:
		p.X += MoveSpeed
		if p.X > WorldWidth-PlayerSize {
			p.X = WorldWidth - PlayerSize
		}
		p.Facing = 1
		p.lastFacing = 1
	default:
		p.Facing = 0
	}
	p.DX = p.X - prev
}

// ShotFacing returns the direction a shot should travel: the current
// movement facing, or the last non-neutral facing when idle.
func (p *Player) ShotFacing() int {
	if p.Facing != 0 {
		return p.Facing
	}
	return p.lastFacing
}

// Bounds returns the player's bounding rectangle.
func (p *Player) Bounds() Rect {
	return Rect{X: p.X, Y: p.Y, W: PlayerSize, H: PlayerSize}
}

// Jump handles a jump input while grounded: the initial hop that starts a
// bounce chain. Returns true if the jump was taken.
func (p *Player) Jump() bool {
	if !p.Grounded || p.BounceLevel != 0 {
		return false
	}
	p.VY = bounceImpulse[1]
	p.BounceLevel = 1
	p.Grounded = false
	p.WasAirborne = true
	return true
}

// TryBoost handles a jump input while airborne and falling. The input counts
// only if the player's bottom edge is within the level's timing window of the
// nearest collidable surface below. On success the boost flag latches for the
// rest of the fall and the player slams downward.
func (p *Player) TryBoost(lv *Level) bool {
	if p.Grounded || p.Boosted || p.VY <= 0 {
		return false
	}

	dist := p.distanceToSurface(lv)
	window := boostWindow[MaxBounce]
	if p.BounceLevel < MaxBounce {
		window = boostWindow[p.BounceLevel]
	}
	if dist <= 0 || dist > window {
		return false
	}

	p.Boosted = true
	p.VY += DownwardForce
	return true
}

// distanceToSurface returns the vertical gap from the player's bottom edge to
// the nearest surface below: the ground, or any platform that is collidable
// at the current bounce level, horizontally overlapping and entirely below.
func (p *Player) distanceToSurface(lv *Level) float64 {
	bottom := p.Y + PlayerSize
	min := GroundY - bottom
	for _, pf := range lv.Platforms {
		if !pf.Solid && p.BounceLevel == 0 {
			continue
		}
		if p.X+PlayerSize <= pf.Rect.X || p.X >= pf.Rect.Right() {
			continue
		}
		if bottom >= pf.Rect.Y {
			continue
		}
		if d := pf.Rect.Y - bottom; d < min {
			min = d
		}
	}
	return min
}

// Land resolves a landing event from the collision pass. Returns true if the
// landing produced a rebound (the player is still airborne), false if the
// player came to rest.
//
// Boosted landings climb one level and always rebound. Unboosted landings
// decay one level; at level 0 the ground grants one small rebound before the
// player settles, while a platform stops the player immediately.
func (p *Player) Land(surface SurfaceKind) bool {
	if !p.WasAirborne {
		p.VY = 0
		return false
	}

	bounced := false
	if p.Boosted {
		p.BounceLevel++
		if p.BounceLevel > MaxBounce {
			p.BounceLevel = MaxBounce
		}
		p.VY = bounceImpulse[p.BounceLevel]
		p.Settling = false
		bounced = true
	} else {
		p.BounceLevel--
		if p.BounceLevel < 0 {
			p.BounceLevel = 0
		}
		switch {
		case p.BounceLevel >= 1:
			p.VY = bounceImpulse[p.BounceLevel]
			p.Settling = false
			bounced = true
		case surface == SurfaceGround && !p.Settling:
			p.VY = bounceImpulse[0]
			p.Settling = true
			bounced = true
		default:
			p.VY = 0
			p.Settling = false
		}
	}

	p.Boosted = false
	if bounced {
		p.Grounded = false
		p.WasAirborne = true
	} else {
		p.Grounded = true
		p.WasAirborne = false
	}
	return bounced
}
