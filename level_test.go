package main

import (
	"testing"
)

func TestSnapToGrid(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{31, 0},
		{32, 32},
		{100, 96},
		{500, 480},
	}
	for _, tc := range cases {
		if got := SnapToGrid(tc.in); got != tc.want {
			t.Errorf("SnapToGrid(%g) = %g, want %g", tc.in, got, tc.want)
		}
	}
}

func TestAddPlatformSnapsAndSizes(t *testing.T) {
	lv := NewLevel("test")
	lv.AddPlatform(100, 500, true)

	pf := lv.Platforms[0]
	if pf.Rect.X != 96 || pf.Rect.Y != 480 {
		t.Errorf("expected snapped origin (96, 480), got (%g, %g)", pf.Rect.X, pf.Rect.Y)
	}
	if pf.Rect.W != GridSize*6 || pf.Rect.H != GridSize {
		t.Errorf("expected 6x1 cells, got %gx%g", pf.Rect.W, pf.Rect.H)
	}
	if !pf.Solid {
		t.Error("expected solid platform")
	}
}

func TestAddBasketSnapsAndSizes(t *testing.T) {
	lv := NewLevel("test")
	lv.AddBasket(100, 300)

	b := lv.Baskets[0]
	if b.Rect.X != 96 || b.Rect.Y != 288 {
		t.Errorf("expected snapped origin (96, 288), got (%g, %g)", b.Rect.X, b.Rect.Y)
	}
	if b.Rect.W != GridSize*2 || b.Rect.H != GridSize*2 {
		t.Errorf("expected 2x2 cells, got %gx%g", b.Rect.W, b.Rect.H)
	}
}

func TestDeleteAtPrefersPlatforms(t *testing.T) {
	lv := NewLevel("test")
	lv.AddPlatform(100, 300, true)
	lv.AddBasket(100, 300)

	if !lv.DeleteAt(100, 300) {
		t.Fatal("delete failed")
	}
	if len(lv.Platforms) != 0 {
		t.Error("platform should be deleted first")
	}
	if len(lv.Baskets) != 1 {
		t.Error("basket should survive the first delete")
	}

	if !lv.DeleteAt(100, 300) {
		t.Fatal("second delete failed")
	}
	if len(lv.Baskets) != 0 {
		t.Error("basket should be deleted second")
	}

	if lv.DeleteAt(100, 300) {
		t.Error("delete on empty space should report false")
	}
}

func TestLevelCodecRoundTrip(t *testing.T) {
	lv := NewLevel("roundtrip")
	lv.AddPlatform(100, 500, true)
	lv.AddPlatform(400, 400, false)
	lv.AddBasket(800, 300)
	lv.SetStart(64, 1300)
	lv.SetFinish(9000, 300)

	data, err := lv.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := DecodeLevel(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "roundtrip" {
		t.Errorf("name lost: %q", got.Name)
	}
	if len(got.Platforms) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(got.Platforms))
	}
	// Platform order is the collision scan order; it must survive the trip.
	if got.Platforms[0].Rect.Y != 480 || got.Platforms[1].Rect.Y != 384 {
		t.Error("platform order not preserved")
	}
	if got.Platforms[0].Solid == got.Platforms[1].Solid {
		t.Error("solidity not preserved")
	}
	if !got.HasStart || !got.HasFinish {
		t.Error("markers not preserved")
	}
}

func TestDecodeRejectsMalformedGeometry(t *testing.T) {
	if _, err := DecodeLevel([]byte(`{"name":"x"`)); err == nil {
		t.Error("truncated JSON should fail")
	}

	zeroSize := []byte(`{"name":"x","platforms":[{"rect":{"x":100,"y":100,"w":0,"h":32},"solid":true}]}`)
	if _, err := DecodeLevel(zeroSize); err == nil {
		t.Error("zero-width platform should fail validation")
	}

	outOfWorld := []byte(`{"name":"x","baskets":[{"rect":{"x":-500,"y":-500,"w":64,"h":64}}]}`)
	if _, err := DecodeLevel(outOfWorld); err == nil {
		t.Error("out-of-world basket should fail validation")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	lv := NewLevel("orig")
	lv.AddPlatform(100, 500, true)

	cp := lv.Clone()
	cp.AddPlatform(400, 400, false)
	cp.Platforms[0].Solid = false

	if len(lv.Platforms) != 1 {
		t.Error("clone append leaked into the original")
	}
	if !lv.Platforms[0].Solid {
		t.Error("clone mutation leaked into the original")
	}
}

func TestSpawnPosition(t *testing.T) {
	lv := NewLevel("test")
	x, y := lv.SpawnPosition()
	if x != ScreenWidth/2-PlayerSize/2 || y != GroundY-PlayerSize {
		t.Errorf("unexpected default spawn (%g, %g)", x, y)
	}

	lv.SetStart(320, 640)
	x, y = lv.SpawnPosition()
	if x != 320 || y != 640 {
		t.Errorf("expected start marker spawn (320, 640), got (%g, %g)", x, y)
	}
}

func TestCatalogLevelsAreValid(t *testing.T) {
	if len(LevelCatalog) == 0 {
		t.Fatal("catalog is empty")
	}
	for _, lv := range LevelCatalog {
		if err := lv.Validate(); err != nil {
			t.Errorf("catalog level %q invalid: %v", lv.Name, err)
		}
		if LevelCatalogMap[lv.Name] != lv {
			t.Errorf("catalog map missing %q", lv.Name)
		}
	}
}
