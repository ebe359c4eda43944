package service

import (
	"context"
	"sync"
	"time"
)

// Session defaults.
const (
	DefaultSessionIdle = 30 * time.Minute
	DefaultSweepEvery  = 5 * time.Minute
)

// ViewerSessions holds one ModalController per visitor. Calls for the same
// visitor are serialized; different visitors proceed independently. It is
// safe for concurrent use.
type ViewerSessions struct {
	newController func() *ModalController
	idle          time.Duration
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*viewerSession
}

type viewerSession struct {
	mu       sync.Mutex
	ctrl     *ModalController
	lastSeen time.Time
}

// NewViewerSessions creates a registry that builds controllers with
// newController and forgets visitors idle for longer than idle.
func NewViewerSessions(newController func() *ModalController, idle time.Duration) *ViewerSessions {
	return &ViewerSessions{
		newController: newController,
		idle:          idle,
		now:           time.Now,
		sessions:      make(map[string]*viewerSession),
	}
}

// With runs fn with the visitor's controller while holding the visitor's
// lock, creating a closed controller on first use.
func (v *ViewerSessions) With(visitorID string, fn func(*ModalController) error) error {
	s := v.session(visitorID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = v.now()
	return fn(s.ctrl)
}

// Reset tears down the visitor's controller, if any. A full page load calls
// this because the previous page, and any modal open on it, is gone.
func (v *ViewerSessions) Reset(visitorID string, doc Document) {
	v.mu.Lock()
	s, ok := v.sessions[visitorID]
	v.mu.Unlock()
	if !ok {
		return
	}
	s.mu.Lock()
	s.ctrl.Teardown(doc)
	s.lastSeen = v.now()
	s.mu.Unlock()
}

// Len returns the number of tracked visitors.
func (v *ViewerSessions) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.sessions)
}

// Sweep tears down and forgets visitors idle since before now-idle. It
// returns the number removed.
func (v *ViewerSessions) Sweep(now time.Time) int {
	cutoff := now.Add(-v.idle)

	v.mu.Lock()
	var stale []*viewerSession
	for id, s := range v.sessions {
		s.mu.Lock()
		if s.lastSeen.Before(cutoff) {
			stale = append(stale, s)
			delete(v.sessions, id)
		}
		s.mu.Unlock()
	}
	v.mu.Unlock()

	for _, s := range stale {
		s.mu.Lock()
		s.ctrl.Teardown(DetachedDocument{})
		s.mu.Unlock()
	}
	return len(stale)
}

// Run sweeps idle visitors every interval until ctx is cancelled.
func (v *ViewerSessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			v.Sweep(now)
		}
	}
}

func (v *ViewerSessions) session(visitorID string) *viewerSession {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.sessions[visitorID]
	if !ok {
		s = &viewerSession{ctrl: v.newController(), lastSeen: v.now()}
		v.sessions[visitorID] = s
	}
	return s
}
