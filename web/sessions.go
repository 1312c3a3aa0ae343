package web

import (
	"context"
	"sync"
	"time"

	"hoopcompare/panel"

	"github.com/google/uuid"
)

const sessionCookie = "hoopcompare_session"

type session struct {
	panel    *panel.Panel
	lastSeen time.Time
}

// Sessions keeps one panel per visitor.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	newPanel func() *panel.Panel
	mount    func(*panel.Panel)
	now      func() time.Time
}

// NewSessions builds panels with newPanel and hands each new one to mount,
// which is expected to load it in the background.
func NewSessions(newPanel func() *panel.Panel, mount func(*panel.Panel)) *Sessions {
	return &Sessions{
		sessions: make(map[string]*session),
		newPanel: newPanel,
		mount:    mount,
		now:      time.Now,
	}
}

// Get returns the panel for id, creating a fresh one under a new id when id
// is unknown. created reports whether that happened.
func (s *Sessions) Get(id string) (p *panel.Panel, newID string, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = s.now()
		return sess.panel, id, false
	}
	newID = uuid.NewString()
	p = s.newPanel()
	s.sessions[newID] = &session{panel: p, lastSeen: s.now()}
	s.mount(p)
	return p, newID, true
}

// Lookup returns the panel for id without creating one.
func (s *Sessions) Lookup(id string) (*panel.Panel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.panel, true
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Evict drops sessions idle for longer than ttl and returns how many went.
func (s *Sessions) Evict(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	n := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Janitor evicts idle sessions every interval until ctx is done.
func (s *Sessions) Janitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Evict(ttl)
		}
	}
}
