package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rshade/usertable/internal/source"
	"github.com/rshade/usertable/internal/table"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "usertable_session"

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 30 * time.Minute

// session is one browser's table. Handlers hold mu for the whole request.
type session struct {
	mu       sync.Mutex
	id       string
	ctrl     *table.Controller
	lastSeen time.Time
}

// sync moves a loading controller to the state of the shared query.
// Must be called with s.mu held.
func (s *session) sync(res source.Result) {
	if s.ctrl.Phase() != table.PhaseLoading {
		return
	}
	switch res.Status {
	case source.StatusSuccess:
		s.ctrl.SetData(res.Records)
	case source.StatusError:
		s.ctrl.SetError(res.Err)
	case source.StatusIdle, source.StatusLoading:
	}
}

// SessionStore maps session ids to controllers and expires idle ones.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	newCtrl  func() *table.Controller
	secure   bool
}

// NewSessionStore creates a store whose sessions start from newCtrl.
func NewSessionStore(ttl time.Duration, newCtrl func() *table.Controller) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
		newCtrl:  newCtrl,
	}
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// get returns the caller's session, creating one and setting the cookie
// when the request carries no valid, unexpired id.
func (st *SessionStore) get(w http.ResponseWriter, r *http.Request) *session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, parseErr := uuid.Parse(c.Value); parseErr == nil {
			if s, ok := st.sessions[c.Value]; ok && now.Sub(s.lastSeen) < st.ttl {
				s.lastSeen = now
				return s
			}
		}
	}

	st.sweepLocked(now)

	s := &session{
		id:       uuid.NewString(),
		ctrl:     st.newCtrl(),
		lastSeen: now,
	}
	st.sessions[s.id] = s

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.id,
		Path:     "/",
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(st.ttl.Seconds()),
	})
	return s
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sweepLocked(st.now())
}

func (st *SessionStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.lastSeen) >= st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
