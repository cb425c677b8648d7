package main

import (
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate       = 60 // physics ticks per second
	BroadcastRate  = 30 // state broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate
)

// Mode gates the simulation: editing disables physics and collision
// entirely, play mode locks the level.
type Mode int

const (
	ModePlay Mode = iota
	ModeEdit
)

// Broadcaster is a client that can receive outgoing messages.
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Game holds one run: a single player, one ball, the active level, and the
// tick loop that advances them. All state is owned by the loop goroutine and
// guarded by mu for the message handlers.
type Game struct {
	mu      sync.RWMutex
	level   *Level
	player  *Player
	ball    *Ball
	clients map[string]Broadcaster

	tick    uint64
	running bool
	stop    chan struct{}

	mode      Mode
	score     int
	bestChain int

	// Latched input, consumed each tick.
	input    ClientInput
	shootReq bool

	analytics *Analytics
	sessionID string
}

// NewGame creates a game on a copy of the given level.
func NewGame(lv *Level) *Game {
	g := &Game{
		level:   lv.Clone(),
		clients: make(map[string]Broadcaster),
		stop:    make(chan struct{}),
	}
	sx, sy := g.level.SpawnPosition()
	g.player = NewPlayer(sx, sy)
	g.ball = NewBall(BallSoccer, g.player)
	return g
}

// Run starts the game loop
func (g *Game) Run() {
	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.update()
		case <-g.stop:
			return
		}
	}
}

// Stop terminates the game loop
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		g.running = false
		close(g.stop)
	}
}

// SetAnalytics attaches the analytics sink for score/chain events.
func (g *Game) SetAnalytics(a *Analytics, sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.analytics = a
	g.sessionID = sessionID
}

// AddClient registers a broadcaster to receive state.
func (g *Game) AddClient(id string, c Broadcaster) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[id] = c
}

// RemoveClient detaches a broadcaster.
func (g *Game) RemoveClient(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, id)
}

// ClientCount returns the number of attached clients.
func (g *Game) ClientCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.clients)
}

// HandleInput stores the latest sampled input. Press edges are latched until
// the next tick consumes them, so a press between ticks is never lost.
func (g *Game) HandleInput(input ClientInput) {
	g.mu.Lock()
	defer g.mu.Unlock()
	pressed := g.input.JumpPressed || input.JumpPressed
	g.input = input
	g.input.JumpPressed = pressed
}

// HandleShoot latches a shot request for the next tick.
func (g *Game) HandleShoot() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shootReq = true
}

// HandleBallKind switches the ball kind. Energy and the shooting flag reset
// regardless of the previous kind.
func (g *Game) HandleBallKind(kind BallKind) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if kind != BallSoccer && kind != BallBasketball {
		return
	}
	g.ball.SetKind(kind)
}

// HandleMode toggles between play and edit mode and returns the new mode.
// Entering edit mode parks the ball; leaving it re-activates the ball next
// to the player.
func (g *Game) HandleMode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mode == ModePlay {
		g.mode = ModeEdit
		g.ball.Active = false
	} else {
		g.mode = ModePlay
		g.ball.Active = true
		g.ball.ResetNear(g.player)
	}
	return g.mode
}

// HandleEdit applies one editor operation. Ignored outside edit mode.
func (g *Game) HandleEdit(msg EditMsg) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mode != ModeEdit {
		return false
	}
	switch msg.Tool {
	case ToolSolid:
		g.level.AddPlatform(msg.X, msg.Y, true)
	case ToolFallthrough:
		g.level.AddPlatform(msg.X, msg.Y, false)
	case ToolBasket:
		g.level.AddBasket(msg.X, msg.Y)
	case ToolStart:
		g.level.SetStart(msg.X, msg.Y)
	case ToolFinish:
		g.level.SetFinish(msg.X, msg.Y)
	case ToolDelete:
		return g.level.DeleteAt(msg.X, msg.Y)
	default:
		return false
	}
	return true
}

// HandleLoadLevel replaces the active level and restarts the run on it.
func (g *Game) HandleLoadLevel(lv *Level) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.level = lv.Clone()
	sx, sy := g.level.SpawnPosition()
	g.player = NewPlayer(sx, sy)
	g.ball = NewBall(g.ball.Kind, g.player)
	g.ball.Active = g.mode == ModePlay
	g.score = 0
}

// CurrentLevel returns a snapshot copy of the active level.
func (g *Game) CurrentLevel() *Level {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.level.Clone()
}

// Stats returns the run's score, best bounce chain, and playtime in seconds.
func (g *Game) Stats() (int, int, float64) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.score, g.bestChain, float64(g.tick) / TickRate
}

// update runs one simulation tick. Ordering is strict: input, horizontal
// movement, timing-window check, gravity and vertical collision (which
// resolves the bounce level), then the ball against the finalized player
// state, then scoring.
func (g *Game) update() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.tick++

	if g.mode == ModeEdit {
		if g.tick%BroadcastEvery == 0 {
			g.broadcastState()
		}
		return
	}

	in := g.input
	g.input.JumpPressed = false
	shoot := g.shootReq
	g.shootReq = false

	p := g.player

	// A press starts a chain from the ground; otherwise press and held both
	// feed the timing window while falling.
	jumped := in.JumpPressed && p.Jump()

	p.Move(in.MoveX)

	if !jumped && (in.JumpPressed || in.Jump) {
		p.TryBoost(g.level)
	}

	_, bounced := ResolvePlayerWorld(p, g.level)
	if bounced && p.BounceLevel > g.bestChain {
		g.bestChain = p.BounceLevel
		if g.analytics != nil {
			g.analytics.Track(EvtChainPeak, 0, g.sessionID, "")
		}
	}

	if shoot {
		g.ball.Shoot(p)
	}

	g.ball.Step(p, bounced, g.level)

	if CheckScoring(g.ball, p, g.level.Baskets) {
		g.score++
		g.broadcastMsg(Envelope{T: MsgScored, Data: ScoredMsg{Score: g.score}})
		if g.analytics != nil {
			g.analytics.Track(EvtBasketScored, 0, g.sessionID, "")
		}
	}

	if g.tick%BroadcastEvery == 0 {
		g.broadcastState()
	}
}

// broadcastState sends the msgpack-encoded snapshot to all clients.
func (g *Game) broadcastState() {
	state := GameState{
		Tick:  g.tick,
		Mode:  int(g.mode),
		Score: g.score,
		Player: PlayerState{
			X:        g.player.X,
			Y:        g.player.Y,
			VY:       g.player.VY,
			Facing:   g.player.Facing,
			Level:    g.player.BounceLevel,
			Grounded: g.player.Grounded,
			Boosted:  g.player.Boosted,
		},
		Ball: BallState{
			Kind:     int(g.ball.Kind),
			X:        g.ball.X,
			Y:        g.ball.Y,
			VX:       g.ball.VX,
			VY:       g.ball.VY,
			R:        g.ball.Radius,
			Energy:   g.ball.Energy,
			Shooting: g.ball.Shooting,
			Active:   g.ball.Active,
		},
	}

	data, err := msgpack.Marshal(state)
	if err != nil {
		return
	}
	for _, client := range g.clients {
		client.SendBinary(data)
	}
}

// broadcastMsg sends a JSON message to all clients in the session
func (g *Game) broadcastMsg(msg Envelope) {
	for _, client := range g.clients {
		client.SendJSON(msg)
	}
}
