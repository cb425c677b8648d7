package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 65536 // level payloads ride the socket
	sendBufSize       = 256
	maxMessagesPerSec = 120 // input is sampled per tick
	maxLevelNameLen   = 30
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	clientID   string
	sessionID  string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
	// Auth state
	authPlayerID int64  // 0 = unauthenticated/guest
	authUsername string // "" = unauthenticated
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		clientID:   GenerateID(4),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		// Binary input messages: 3 bytes [0x01, moveX, flags]
		if msgType == websocket.BinaryMessage && len(message) == 3 && message[0] == 0x01 {
			c.handleBinaryInput(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message
// Prefixes with 0xFF marker byte so WritePump can distinguish from text
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// session returns the client's current session, or nil.
func (c *Client) session() *Session {
	if c.sessionID == "" {
		return nil
	}
	return c.hub.sessions.GetSession(c.sessionID)
}

// recordRunStats persists the run's score/chain/playtime for authenticated
// players. Called when the client detaches.
func (c *Client) recordRunStats() {
	if c.hub.db == nil || c.authPlayerID == 0 {
		return
	}
	sess := c.session()
	if sess == nil {
		return
	}
	score, chain, playtime := sess.Game.Stats()
	if err := c.hub.db.RecordRun(c.authPlayerID, score, chain, playtime); err != nil {
		log.Printf("record run stats: %v", err)
		return
	}
	for _, def := range CheckAchievements(c.hub.db, c.authPlayerID, score, chain) {
		c.SendJSON(Envelope{T: MsgAchievement, Data: AchievementMsg{
			ID:   def.ID,
			Name: def.Name,
			Desc: def.Description,
		}})
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgList:
		c.handleList()
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgInput:
		c.handleInput(env.D)
	case MsgLeave:
		c.handleLeave()
	case MsgCheck:
		c.handleCheck(env.D)
	case MsgShoot:
		c.handleShoot()
	case MsgBall:
		c.handleBall(env.D)
	case MsgMode:
		c.handleMode()
	case MsgEdit:
		c.handleEdit(env.D)
	case MsgSave:
		c.handleSave(env.D)
	case MsgLoad:
		c.handleLoad(env.D)
	case MsgLevels:
		c.handleLevels()
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgProfile:
		c.handleProfile()
	}
}

func (c *Client) handleList() {
	sessions := c.hub.sessions.ListSessions()
	c.SendJSON(Envelope{T: MsgSessions, Data: sessions})
}

func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sname := msg.SessionName
	if sname == "" {
		sname = "Bounce Run"
	}
	if len(sname) > maxLevelNameLen {
		sname = sname[:maxLevelNameLen]
	}

	lv := LevelCatalog[0]
	if msg.Level != "" {
		if cat, ok := LevelCatalogMap[msg.Level]; ok {
			lv = cat
		}
	}

	sess := c.hub.sessions.CreateSession(sname, lv)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "too many active sessions"}})
		return
	}
	if c.hub.analytics != nil {
		sess.Game.SetAnalytics(c.hub.analytics, sess.ID)
		c.hub.analytics.Track(EvtSessionStart, c.authPlayerID, sess.ID, "")
	}

	sess.MarkActive()
	c.SendJSON(Envelope{T: MsgCreated, Data: map[string]string{"sid": sess.ID}})
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}

	sess := c.hub.sessions.GetSession(msg.SessionID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "session not found"}})
		return
	}

	sess.MarkActive()
	c.sessionID = sess.ID
	sess.Game.AddClient(c.clientID, c)

	lv := sess.Game.CurrentLevel()
	c.SendJSON(Envelope{T: MsgJoined, Data: map[string]string{"sid": sess.ID}})
	c.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{ID: c.clientID, Level: lv.Name}})
	c.SendJSON(Envelope{T: MsgLevel, Data: lv})
}

// handleBinaryInput decodes the compact 3-byte input message:
// [0x01, moveX(int8), flags] with flags bit0=jump held, bit1=jump pressed.
func (c *Client) handleBinaryInput(msg []byte) {
	sess := c.session()
	if sess == nil {
		return
	}
	input := ClientInput{
		MoveX:       int(int8(msg[1])),
		Jump:        msg[2]&0x01 != 0,
		JumpPressed: msg[2]&0x02 != 0,
	}
	sess.Game.HandleInput(input)
}

func (c *Client) handleInput(data json.RawMessage) {
	sess := c.session()
	if sess == nil {
		return
	}
	var input ClientInput
	if err := json.Unmarshal(data, &input); err != nil {
		return
	}
	sess.Game.HandleInput(input)
}

func (c *Client) handleShoot() {
	if sess := c.session(); sess != nil {
		sess.Game.HandleShoot()
	}
}

func (c *Client) handleBall(data json.RawMessage) {
	sess := c.session()
	if sess == nil {
		return
	}
	var msg BallMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess.Game.HandleBallKind(BallKind(msg.Kind))
}

func (c *Client) handleMode() {
	sess := c.session()
	if sess == nil {
		return
	}
	mode := sess.Game.HandleMode()
	c.SendJSON(Envelope{T: MsgModeSet, Data: map[string]int{"mode": int(mode)}})
}

func (c *Client) handleEdit(data json.RawMessage) {
	sess := c.session()
	if sess == nil {
		return
	}
	var msg EditMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if sess.Game.HandleEdit(msg) {
		c.SendJSON(Envelope{T: MsgLevel, Data: sess.Game.CurrentLevel()})
	}
}

func (c *Client) handleSave(data json.RawMessage) {
	if c.hub.db == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "persistence disabled"}})
		return
	}
	if c.authPlayerID == 0 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "login to save levels"}})
		return
	}
	sess := c.session()
	if sess == nil {
		return
	}
	var msg SaveMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	name := msg.Name
	if name == "" || len(name) > maxLevelNameLen {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "invalid level name"}})
		return
	}

	lv := sess.Game.CurrentLevel()
	lv.Name = name
	blob, err := lv.Encode()
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "encode failed"}})
		return
	}
	if err := c.hub.db.SaveLevel(c.authPlayerID, name, blob); err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "save failed"}})
		return
	}
	if c.hub.analytics != nil {
		c.hub.analytics.Track(EvtLevelSaved, c.authPlayerID, c.sessionID, "")
	}
	c.SendJSON(Envelope{T: MsgSaved, Data: map[string]string{"name": name}})
}

func (c *Client) handleLoad(data json.RawMessage) {
	sess := c.session()
	if sess == nil {
		return
	}
	var msg LoadMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}

	var lv *Level
	if cat, ok := LevelCatalogMap[msg.Name]; ok {
		lv = cat
	} else if c.hub.db != nil && c.authPlayerID != 0 {
		blob, err := c.hub.db.LoadLevel(c.authPlayerID, msg.Name)
		if err != nil || blob == nil {
			c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "level not found"}})
			return
		}
		lv, err = DecodeLevel(blob)
		if err != nil {
			c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "stored level is invalid"}})
			return
		}
	} else {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "level not found"}})
		return
	}

	sess.Game.HandleLoadLevel(lv)
	c.SendJSON(Envelope{T: MsgLevel, Data: sess.Game.CurrentLevel()})
}

func (c *Client) handleLevels() {
	list := LevelListMsg{Catalog: make([]string, 0, len(LevelCatalog))}
	for _, lv := range LevelCatalog {
		list.Catalog = append(list.Catalog, lv.Name)
	}
	if c.hub.db != nil && c.authPlayerID != 0 {
		names, err := c.hub.db.ListLevels(c.authPlayerID)
		if err == nil {
			list.Saved = names
		}
	}
	c.SendJSON(Envelope{T: MsgLevelList, Data: list})
}

func (c *Client) handleLeave() {
	c.detach()
}

// detach ends the client's participation in its session, recording stats
// first so they survive the session being collected.
func (c *Client) detach() {
	if c.sessionID == "" {
		return
	}
	c.recordRunStats()
	if c.hub.analytics != nil {
		c.hub.analytics.Track(EvtSessionEnd, c.authPlayerID, c.sessionID, "")
	}
	c.hub.sessions.RemoveClient(c.sessionID, c.clientID)
	c.sessionID = ""
}

func (c *Client) handleCheck(data json.RawMessage) {
	var msg CheckMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{SID: msg.SID, Exists: false}})
		return
	}
	c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{
		SID:    msg.SID,
		Exists: true,
		Name:   sess.Name,
	}})
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	if c.hub.analytics != nil {
		c.hub.analytics.Track(EvtRegister, id, "", "")
	}
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "invalid token"}})
		return
	}
	c.authPlayerID = id
	c.authUsername = username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    msg.Token,
		Username: username,
		PlayerID: id,
	}})
}

func (c *Client) handleProfile() {
	if c.hub.db == nil || c.authPlayerID == 0 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "not authenticated"}})
		return
	}
	stats, err := c.hub.db.GetStats(c.authPlayerID)
	if err != nil || stats == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "profile not found"}})
		return
	}
	c.SendJSON(Envelope{T: MsgProfileData, Data: ProfileDataMsg{
		Username:  c.authUsername,
		BestChain: stats.BestChain,
		Baskets:   stats.Baskets,
		Playtime:  stats.Playtime,
	}})
}
