package main

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 50, H: 50}
	if !r.Contains(125, 125) {
		t.Error("interior point should be contained")
	}
	if !r.Contains(100, 100) || !r.Contains(150, 150) {
		t.Error("edges should be inclusive")
	}
	if r.Contains(151, 125) {
		t.Error("exterior point should not be contained")
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 5, Y: 5, W: 10, H: 10}
	c := Rect{X: 10, Y: 0, W: 10, H: 10}
	if !a.Overlaps(b) {
		t.Error("overlapping rects should report overlap")
	}
	if a.Overlaps(c) {
		t.Error("edge-touching rects should not report overlap")
	}
}

func TestCircleRectGap(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 50, H: 50}

	gap := CircleRectGap(70, 125, 10, r)
	if math.Abs(gap-20) > 1e-9 {
		t.Errorf("expected gap 20, got %g", gap)
	}

	gap = CircleRectGap(95, 125, 10, r)
	if gap >= 0 {
		t.Errorf("expected negative gap for overlap, got %g", gap)
	}
}

func TestResolveCircleRectNoContact(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 50, H: 50}
	cx, cy, vx, vy, hit := ResolveCircleRect(70, 125, 10, 3, 4, r, 0.5)
	_ = cy
	if hit {
		t.Error("separated circle should not collide")
	}
	if cx != 70 || vx != 10 || vy != 3 {
		t.Error("no-contact resolution should not modify inputs")
	}
}

func TestResolveCircleRectPushOutAndReflect(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 50, H: 50}

	// Overlapping the left face, moving right (into the surface).
	cx, cy, vx, vy, hit := ResolveCircleRect(95, 125, 3, 0, 10, r, 0.5)
	if !hit {
		t.Fatal("expected collision")
	}
	if math.Abs(cx-90) > 1e-9 {
		t.Errorf("expected push-out to x=90, got %g", cx)
	}
	if cy != 125 {
		t.Errorf("expected y unchanged, got %g", cy)
	}
	// vx' = vx - (1+e)*dot*nx = 3 - 1.5*3 = -1.5
	if math.Abs(vx-(-1.5)) > 1e-9 {
		t.Errorf("expected vx -1.5, got %g", vx)
	}
	if vy != 0 {
		t.Errorf("expected vy unchanged, got %g", vy)
	}
}

func TestResolveCircleRectSeparatingVelocityKept(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 50, H: 50}

	// Overlapping but already moving away: position corrects, velocity stays.
	cx, _, vx, _, hit := ResolveCircleRect(95, 125, -3, 0, 10, r, 0.5)
	if !hit {
		t.Fatal("expected collision")
	}
	if math.Abs(cx-90) > 1e-9 {
		t.Errorf("expected push-out to x=90, got %g", cx)
	}
	if vx != -3 {
		t.Errorf("separating velocity should be preserved, got %g", vx)
	}
}

func TestResolveCircleRectCenterInside(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 50, H: 50}

	// Center inside, nearest to the left face.
	cx, cy, vx, _, hit := ResolveCircleRect(105, 125, 4, 0, 10, r, 0.5)
	if !hit {
		t.Fatal("expected collision")
	}
	// Pushed out by penetration (5) plus radius.
	if math.Abs(cx-90) > 1e-9 {
		t.Errorf("expected push-out to x=90, got %g", cx)
	}
	if cy != 125 {
		t.Errorf("expected y unchanged, got %g", cy)
	}
	// Reflected off the left normal: 4 - 1.5*4 = -2
	if math.Abs(vx-(-2)) > 1e-9 {
		t.Errorf("expected vx -2, got %g", vx)
	}
}

func TestResolveCircleRectCenterInsideTopFace(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 200, H: 50}

	// Center inside near the top edge of a wide rect: push-out must go up.
	_, cy, _, vy, hit := ResolveCircleRect(200, 103, 0, 6, 10, r, 0.5)
	if !hit {
		t.Fatal("expected collision")
	}
	if math.Abs(cy-90) > 1e-9 {
		t.Errorf("expected push-out to y=90, got %g", cy)
	}
	if vy >= 0 {
		t.Errorf("downward velocity should reflect upward, got %g", vy)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 {
		t.Error("in-range value should pass through")
	}
	if Clamp(-5, 0, 10) != 0 {
		t.Error("low value should clamp to min")
	}
	if Clamp(15, 0, 10) != 10 {
		t.Error("high value should clamp to max")
	}
}
