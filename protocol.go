package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin     = "join"
	MsgLeave    = "leave"
	MsgInput    = "input"
	MsgCreate   = "create" // create session
	MsgList     = "list"   // list sessions
	MsgCheck    = "check"  // check if session exists
	MsgShoot    = "shoot"  // basketball shot attempt
	MsgBall     = "ball"   // toggle ball kind
	MsgMode     = "mode"   // toggle play/edit mode
	MsgEdit     = "edit"   // editor operation
	MsgSave     = "save"   // persist current level
	MsgLoad     = "load"   // load a level by name
	MsgLevels   = "levels" // list available levels
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth" // token re-auth
	MsgProfile  = "profile"
)

// Server -> Client message types
const (
	MsgState       = "state"
	MsgWelcome     = "welcome"
	MsgSessions    = "sessions"
	MsgJoined      = "joined"
	MsgCreated     = "created"
	MsgError       = "error"
	MsgChecked     = "checked"
	MsgScored      = "scored" // basket scored, ball reset
	MsgLevel       = "level"  // full level snapshot
	MsgLevelList   = "level_list"
	MsgModeSet     = "mode_set"
	MsgSaved       = "saved"
	MsgAuthOK      = "auth_ok"
	MsgProfileData = "profile_data"
	MsgAchievement = "achievement"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is the continuously sampled input state, sent by the client
// every tick it changes. JumpPressed is the edge-triggered press for this
// batch; Jump is the held level, re-checked every tick against the timing
// window.
type ClientInput struct {
	MoveX       int  `json:"mx"` // -1 left, 0 idle, +1 right
	Jump        bool `json:"j"`  // jump held
	JumpPressed bool `json:"jp"` // jump pressed since last input message
}

// JoinMsg is sent when a player wants to join a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// CreateMsg is sent when a player wants to create a session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
	Level       string `json:"level,omitempty"` // catalog level to start from
}

// CheckMsg is sent by client to check if a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID    string `json:"sid"`
	Exists bool   `json:"exists"`
	Name   string `json:"name,omitempty"`
}

// BallMsg selects the ball kind (0 soccer, 1 basketball)
type BallMsg struct {
	Kind int `json:"kind"`
}

// Editor tools accepted in EditMsg.Tool
const (
	ToolSolid       = "solid"
	ToolFallthrough = "fallthrough"
	ToolBasket      = "basket"
	ToolStart       = "start"
	ToolFinish      = "finish"
	ToolDelete      = "delete"
)

// EditMsg applies one editor operation at a world coordinate
type EditMsg struct {
	Tool string  `json:"tool"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// SaveMsg persists the session's current level under a name
type SaveMsg struct {
	Name string `json:"name"`
}

// LoadMsg loads a level by name (catalog or saved)
type LoadMsg struct {
	Name string `json:"name"`
}

// PlayerState is the per-tick player snapshot
type PlayerState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VY       float64 `json:"vy"`
	Facing   int     `json:"f"`
	Level    int     `json:"lv"` // bounce level
	Grounded bool    `json:"g"`
	Boosted  bool    `json:"b,omitempty"`
}

// BallState is the per-tick ball snapshot
type BallState struct {
	Kind     int     `json:"k"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	R        float64 `json:"r"`
	Energy   int     `json:"e"`
	Shooting bool    `json:"sh,omitempty"`
	Active   bool    `json:"a"`
}

// GameState is the full per-tick state broadcast. The level itself is sent
// separately (MsgLevel) on join and after editor changes.
type GameState struct {
	Tick   uint64      `json:"tick"`
	Mode   int         `json:"mode"` // 0 play, 1 edit
	Score  int         `json:"sc"`
	Player PlayerState `json:"p"`
	Ball   BallState   `json:"ball"`
}

// WelcomeMsg is sent to a player when they join
type WelcomeMsg struct {
	ID    string `json:"id"`
	Level string `json:"level"` // active level name
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// LevelListMsg lists loadable levels
type LevelListMsg struct {
	Catalog []string `json:"catalog"`
	Saved   []string `json:"saved"`
}

// ScoredMsg notifies a basket
type ScoredMsg struct {
	Score int `json:"score"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg authenticates an account
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg re-authenticates with a stored token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"pid"`
}

// AchievementMsg announces a newly unlocked achievement
type AchievementMsg struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// ProfileDataMsg returns the authenticated player's stats
type ProfileDataMsg struct {
	Username  string  `json:"username"`
	BestChain int     `json:"bestChain"`
	Baskets   int     `json:"baskets"`
	Playtime  float64 `json:"playtime"`
}
