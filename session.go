package main

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	maxSessions        = 100
	sessionIdleTimeout = 30 * time.Minute
	janitorPeriod      = time.Minute
)

// Session is one joinable game room
type Session struct {
	ID        string
	Name      string
	Mode      GameMode
	Game      *Game
	CreatedAt time.Time

	mu         sync.Mutex
	lastActive time.Time
}

// MarkActive refreshes the session's idle clock
func (s *Session) MarkActive() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// idleSince reports how long the session has been without activity
func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive)
}

// SessionManager handles creation, lookup and reaping of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	db        *DB
	analytics *Analytics
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(db *DB, analytics *Analytics) *SessionManager {
	sm := &SessionManager{
		sessions:  make(map[string]*Session),
		db:        db,
		analytics: analytics,
		stop:      make(chan struct{}),
	}
	go sm.janitor()
	return sm
}

// Stop halts the idle janitor and every running session.
func (sm *SessionManager) Stop() {
	sm.stopOnce.Do(func() { close(sm.stop) })
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for id, sess := range sm.sessions {
		sess.Game.Stop()
		delete(sm.sessions, id)
	}
}

// CreateSession creates a new game session. Returns nil if limit reached.
func (sm *SessionManager) CreateSession(name string, mode GameMode) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	id := uuid.NewString()
	game := NewGame(id, mode)
	game.analytics = sm.analytics
	sess := &Session{
		ID:         id,
		Name:       name,
		Mode:       mode,
		Game:       game,
		CreatedAt:  time.Now(),
		lastActive: time.Now(),
	}
	game.onGameOver = func(winner int, players []*Player, mode GameMode, duration time.Duration) {
		sm.recordMatch(sess, winner, players, mode, duration)
	}
	sm.sessions[id] = sess
	go game.Run()

	if sm.analytics != nil {
		sm.analytics.Track(EvtSessionCreate, 0, id, `{"mode":"`+string(mode)+`"}`)
		sm.analytics.SetActiveSessions(len(sm.sessions))
	}
	log.Printf("session %s created (%s, mode=%s)", id, name, mode)
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// RemovePlayer detaches a connection from a session and reaps the session
// once its last human leaves.
func (sm *SessionManager) RemovePlayer(sessionID, connID string) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}
	sess.Game.RemovePlayer(connID)

	if sess.Game.HumanCount() == 0 {
		sm.destroy(sessionID)
	}
}

// destroy stops a session's loop and drops it from the registry.
func (sm *SessionManager) destroy(sessionID string) {
	sm.mu.Lock()
	sess, ok := sm.sessions[sessionID]
	if ok {
		delete(sm.sessions, sessionID)
	}
	n := len(sm.sessions)
	sm.mu.Unlock()
	if !ok {
		return
	}
	sess.Game.Stop()
	if sm.analytics != nil {
		sm.analytics.SetActiveSessions(n)
	}
	log.Printf("session %s destroyed", sessionID)
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, SessionInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			Mode:    string(sess.Mode),
			Players: sess.Game.HumanCount(),
		})
	}
	return list
}

// janitor reaps sessions idle past the timeout.
func (sm *SessionManager) janitor() {
	ticker := time.NewTicker(janitorPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			sm.mu.RLock()
			var stale []string
			for id, sess := range sm.sessions {
				if sess.Game.HumanCount() == 0 && sess.idleSince(now) > sessionIdleTimeout {
					stale = append(stale, id)
				}
			}
			sm.mu.RUnlock()
			for _, id := range stale {
				sm.destroy(id)
			}
		case <-sm.stop:
			return
		}
	}
}
