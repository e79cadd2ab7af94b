package behaviorsdk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// ──────────────────────────────────────────────
// Session Registry — explicit live-session ownership
// ──────────────────────────────────────────────
//
// The registry replaces the process-wide map of live chat sessions with an
// explicit object owned by the transport layer, with lifecycle tied to
// session open/close. The behavior engine itself holds no per-session
// state; the registry is where the caller serializes turns (one in-flight
// completion per session) and cancels in-flight work when a session closes
// or a client disconnects.

// ErrTurnInFlight is returned by BeginTurn while a previous turn of the
// same session has not finished.
var ErrTurnInFlight = sentinelError("a turn is already in flight for this session")

// ErrSessionClosed is returned for operations on a closed session.
var ErrSessionClosed = sentinelError("session is closed")

// Session is one live conversation. Closing it cancels any in-flight turn.
type Session struct {
	ID        string
	PersonaID string
	UserID    string
	OpenedAt  time.Time

	ctx    context.Context
	cancel context.CancelFunc

	inFlight  atomic.Bool
	turnCount atomic.Int64
	closed    atomic.Bool
}

// Namespace returns the StateStore namespace for this session's
// conversation, "{persona_id}:{user_id}".
func (s *Session) Namespace() string {
	return fmt.Sprintf("%s:%s", s.PersonaID, s.UserID)
}

// Turns returns the number of turns begun on this session.
func (s *Session) Turns() int {
	return int(s.turnCount.Load())
}

// BeginTurn claims the session for one turn and returns a turn-scoped
// context (child of the session context) plus a release function. Exactly
// one turn may be in flight; concurrent calls get ErrTurnInFlight. The
// release function must be called when the turn finishes, error or not.
func (s *Session) BeginTurn() (context.Context, func(), error) {
	if s.closed.Load() {
		return nil, nil, ErrSessionClosed
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, nil, ErrTurnInFlight
	}
	s.turnCount.Inc()
	turnCtx, turnCancel := context.WithCancel(s.ctx)
	release := func() {
		turnCancel()
		s.inFlight.Store(false)
	}
	return turnCtx, release, nil
}

// Close cancels any in-flight turn and marks the session closed.
// Idempotent.
func (s *Session) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.cancel()
	}
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// SessionRegistry owns live sessions. Construct one per transport layer;
// it is never a package-level singleton.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Open creates and registers a new session. The parent context typically
// spans the transport connection; cancelling it cancels every turn of the
// session.
func (r *SessionRegistry) Open(parent context.Context, personaID, userID string) *Session {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		ID:        uuid.NewString(),
		PersonaID: personaID,
		UserID:    userID,
		OpenedAt:  time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns a session by ID, or nil.
func (r *SessionRegistry) Get(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Close closes a session and removes it from the registry.
func (r *SessionRegistry) Close(id string) {
	r.mu.Lock()
	s := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if s != nil {
		s.Close()
	}
}

// CloseAll closes every live session, e.g. on shutdown.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
