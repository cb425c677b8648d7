package main

// ResolvePlayerWorld applies gravity and the tick's vertical displacement,
// then resolves the player against the level's platforms and the ground
// plane. It returns the surface landed on (SurfaceNone when the player stays
// airborne) and whether the landing rebounded the player.
//
// Platforms are tested in load order and the first match wins, not the
// nearest one. Load order is significant and preserved from the editor.
func ResolvePlayerWorld(p *Player, lv *Level) (SurfaceKind, bool) {
	if !p.Grounded {
		p.VY += Gravity
	}
	prevBottom := p.Y + PlayerSize
	p.Y += p.VY

	// Swept platform test, falling or resting only.
	if p.VY >= 0 {
		for _, pf := range lv.Platforms {
			if !pf.Solid && p.BounceLevel == 0 {
				continue
			}
			if p.X+PlayerSize <= pf.Rect.X || p.X >= pf.Rect.Right() {
				continue
			}
			if prevBottom <= pf.Rect.Y && p.Y+PlayerSize >= pf.Rect.Y {
				p.Y = pf.Rect.Y - PlayerSize
				bounced := p.Land(SurfacePlatform)
				return SurfacePlatform, bounced
			}
		}
	}

	if p.Y >= GroundY-PlayerSize {
		p.Y = GroundY - PlayerSize
		bounced := p.Land(SurfaceGround)
		return SurfaceGround, bounced
	}

	p.WasAirborne = true
	p.Grounded = false
	return SurfaceNone, false
}
