package main

import (
	"encoding/json"
	"fmt"
)

const (
	ScreenWidth  = 1280.0
	ScreenHeight = 720.0
	WorldWidth   = ScreenWidth * 8 // 8 screens wide
	WorldHeight  = ScreenHeight * 2
	GroundHeight = 64.0
	GroundY      = WorldHeight - GroundHeight
	GridSize     = 32.0 // editor snap size
)

// Default editor placement sizes, in grid cells.
const (
	platformCellsW = 6
	basketCells    = 2
)

// Platform is a static rectangle the player and ball collide with. Solid
// platforms always catch the player from above; fall-through platforms catch
// the player only during an active bounce chain. The ball collides with both.
type Platform struct {
	Rect  Rect `json:"rect"`
	Solid bool `json:"solid"`
}

// Basket is a scoring target region for the ball.
type Basket struct {
	Rect Rect `json:"rect"`
}

// Level holds the static world: an ordered platform list (order is the
// collision scan order and must survive save/load), baskets, and optional
// start/finish markers. Levels are immutable during play; only the editor
// mutates them.
type Level struct {
	Name      string     `json:"name"`
	Platforms []Platform `json:"platforms"`
	Baskets   []Basket   `json:"baskets"`
	HasStart  bool       `json:"hasStart"`
	StartX    float64    `json:"startX"`
	StartY    float64    `json:"startY"`
	HasFinish bool       `json:"hasFinish"`
	FinishX   float64    `json:"finishX"`
	FinishY   float64    `json:"finishY"`
}

// NewLevel returns an empty level with default start/finish markers near the
// ground.
func NewLevel(name string) *Level {
	return &Level{
		Name:    name,
		StartX:  100,
		StartY:  GroundY - PlayerSize,
		FinishX: WorldWidth - 100 - PlayerSize,
		FinishY: GroundY - PlayerSize,
	}
}

// SpawnPosition returns where the player starts: the start marker if set,
// otherwise centered on the first screen at ground height.
func (lv *Level) SpawnPosition() (float64, float64) {
	if lv.HasStart {
		return lv.StartX, lv.StartY
	}
	return ScreenWidth/2 - PlayerSize/2, GroundY - PlayerSize
}

// SnapToGrid snaps a world coordinate to the editor grid.
func SnapToGrid(v float64) float64 {
	return float64(int(v/GridSize)) * GridSize
}

// AddPlatform places a grid-snapped platform (6×1 cells) at the given point.
func (lv *Level) AddPlatform(x, y float64, solid bool) {
	lv.Platforms = append(lv.Platforms, Platform{
		Rect:  Rect{X: SnapToGrid(x), Y: SnapToGrid(y), W: GridSize * platformCellsW, H: GridSize},
		Solid: solid,
	})
}

// AddBasket places a grid-snapped basket (2×2 cells) at the given point.
func (lv *Level) AddBasket(x, y float64) {
	lv.Baskets = append(lv.Baskets, Basket{
		Rect: Rect{X: SnapToGrid(x), Y: SnapToGrid(y), W: GridSize * basketCells, H: GridSize * basketCells},
	})
}

// SetStart moves the start marker to a grid-snapped point.
func (lv *Level) SetStart(x, y float64) {
	lv.StartX = SnapToGrid(x)
	lv.StartY = SnapToGrid(y)
	lv.HasStart = true
}

// SetFinish moves the finish marker to a grid-snapped point.
func (lv *Level) SetFinish(x, y float64) {
	lv.FinishX = SnapToGrid(x)
	lv.FinishY = SnapToGrid(y)
	lv.HasFinish = true
}

// DeleteAt removes the first platform containing the point; if none matches,
// the first basket containing the point. Returns true if anything was
// removed.
func (lv *Level) DeleteAt(x, y float64) bool {
	for i, pf := range lv.Platforms {
		if pf.Rect.Contains(x, y) {
			lv.Platforms = append(lv.Platforms[:i], lv.Platforms[i+1:]...)
			return true
		}
	}
	for i, b := range lv.Baskets {
		if b.Rect.Contains(x, y) {
			lv.Baskets = append(lv.Baskets[:i], lv.Baskets[i+1:]...)
			return true
		}
	}
	return false
}

// Encode serializes the level to its JSON wire/storage form.
func (lv *Level) Encode() ([]byte, error) {
	return json.Marshal(lv)
}

// DecodeLevel parses and validates a level. The simulation core assumes
// well-formed geometry, so malformed rectangles are rejected here at the
// boundary.
func DecodeLevel(data []byte) (*Level, error) {
	var lv Level
	if err := json.Unmarshal(data, &lv); err != nil {
		return nil, err
	}
	if err := lv.Validate(); err != nil {
		return nil, err
	}
	return &lv, nil
}

// Validate checks all level geometry against world bounds.
func (lv *Level) Validate() error {
	world := Rect{X: 0, Y: 0, W: WorldWidth, H: WorldHeight}
	for i, pf := range lv.Platforms {
		if pf.Rect.W <= 0 || pf.Rect.H <= 0 {
			return fmt.Errorf("platform %d: non-positive size %gx%g", i, pf.Rect.W, pf.Rect.H)
		}
		if !world.Overlaps(pf.Rect) {
			return fmt.Errorf("platform %d: outside world bounds", i)
		}
	}
	for i, b := range lv.Baskets {
		if b.Rect.W <= 0 || b.Rect.H <= 0 {
			return fmt.Errorf("basket %d: non-positive size %gx%g", i, b.Rect.W, b.Rect.H)
		}
		if !world.Overlaps(b.Rect) {
			return fmt.Errorf("basket %d: outside world bounds", i)
		}
	}
	return nil
}

// Clone returns a deep copy. Each session edits its own copy of a catalog or
// stored level.
func (lv *Level) Clone() *Level {
	cp := *lv
	cp.Platforms = append([]Platform(nil), lv.Platforms...)
	cp.Baskets = append([]Basket(nil), lv.Baskets...)
	return &cp
}

// LevelCatalog is the set of levels that ship with the server.
var LevelCatalog = []*Level{
	{
		Name: "Training Court",
		Platforms: []Platform{
			{Rect: Rect{X: 640, Y: GroundY - 192, W: 192, H: 32}, Solid: true},
			{Rect: Rect{X: 1024, Y: GroundY - 320, W: 192, H: 32}, Solid: false},
			{Rect: Rect{X: 1408, Y: GroundY - 448, W: 192, H: 32}, Solid: false},
		},
		Baskets: []Basket{
			{Rect: Rect{X: 1472, Y: GroundY - 576, W: 64, H: 64}},
		},
		HasStart: true, StartX: 128, StartY: GroundY - PlayerSize,
	},
	{
		Name: "Tower Run",
		Platforms: []Platform{
			{Rect: Rect{X: 384, Y: GroundY - 160, W: 192, H: 32}, Solid: true},
			{Rect: Rect{X: 768, Y: GroundY - 352, W: 192, H: 32}, Solid: true},
			{Rect: Rect{X: 384, Y: GroundY - 544, W: 192, H: 32}, Solid: false},
			{Rect: Rect{X: 768, Y: GroundY - 736, W: 192, H: 32}, Solid: false},
			{Rect: Rect{X: 1152, Y: GroundY - 896, W: 192, H: 32}, Solid: false},
		},
		Baskets: []Basket{
			{Rect: Rect{X: 1216, Y: GroundY - 1024, W: 64, H: 64}},
			{Rect: Rect{X: 64, Y: GroundY - 640, W: 64, H: 64}},
		},
		HasStart: true, StartX: 96, StartY: GroundY - PlayerSize,
		HasFinish: true, FinishX: 1216, FinishY: GroundY - 960,
	},
}

// LevelCatalogMap provides lookup by level name.
var LevelCatalogMap map[string]*Level

func init() {
	LevelCatalogMap = make(map[string]*Level, len(LevelCatalog))
	for _, lv := range LevelCatalog {
		LevelCatalogMap[lv.Name] = lv
	}
}
