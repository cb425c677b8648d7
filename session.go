package main

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const maxSessions = 100

// SessionIdleTimeout is how long an empty session survives before the reaper
// collects it. Variable so tests can shorten it.
var SessionIdleTimeout = 5 * time.Minute

// Session represents one run that a player (and spectators) can attach to
type Session struct {
	ID   string
	Name string
	Game *Game

	mu         sync.Mutex
	lastActive time.Time
}

// MarkActive refreshes the idle timer.
func (s *Session) MarkActive() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// SessionManager handles creation, lookup, and reaping of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	stop     chan struct{}
	once     sync.Once
}

// NewSessionManager creates a SessionManager and starts its idle reaper.
func NewSessionManager() *SessionManager {
	sm := &SessionManager{
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	go sm.reap()
	return sm
}

// CreateSession creates a new game session on the given level. Returns nil
// if the session limit is reached.
func (sm *SessionManager) CreateSession(name string, lv *Level) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	sess := &Session{
		ID:         uuid.NewString(),
		Name:       name,
		Game:       NewGame(lv),
		lastActive: time.Now(),
	}
	sm.sessions[sess.ID] = sess
	go sess.Game.Run()
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// MarkActive refreshes a session's idle timer by ID.
func (sm *SessionManager) MarkActive(id string) {
	if sess := sm.GetSession(id); sess != nil {
		sess.MarkActive()
	}
}

// RemoveClient detaches a client from a session and collects the session
// once it is empty.
func (sm *SessionManager) RemoveClient(sessionID, clientID string) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}
	sess.Game.RemoveClient(clientID)

	if sess.Game.ClientCount() == 0 {
		sess.Game.Stop()
		sm.mu.Lock()
		delete(sm.sessions, sessionID)
		sm.mu.Unlock()
	}
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, SessionInfo{
			ID:    sess.ID,
			Name:  sess.Name,
			Level: sess.Game.CurrentLevel().Name,
		})
	}
	return list
}

// Stop halts the reaper and all running games.
func (sm *SessionManager) Stop() {
	sm.once.Do(func() { close(sm.stop) })
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for id, sess := range sm.sessions {
		sess.Game.Stop()
		delete(sm.sessions, id)
	}
}

// reap collects sessions that have had no attached clients and no activity
// for SessionIdleTimeout.
func (sm *SessionManager) reap() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-SessionIdleTimeout)
			sm.mu.Lock()
			for id, sess := range sm.sessions {
				if sess.Game.ClientCount() == 0 && sess.idleSince().Before(cutoff) {
					sess.Game.Stop()
					delete(sm.sessions, id)
				}
			}
			sm.mu.Unlock()
		case <-sm.stop:
			return
		}
	}
}
