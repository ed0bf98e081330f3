package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
)

// ErrIncompleteSession is returned by SetUser when either the credential or
// the identity is missing. Partial sessions are never stored.
var ErrIncompleteSession = errors.New("incomplete session: token and identity are both required")

// DefaultTokenKey and DefaultIdentityKey are the storage keys used when the
// caller does not override them. They match the reference deployment.
const (
	DefaultTokenKey    = "token"
	DefaultIdentityKey = "user"
)

// Store is the single source of truth for the current session. All
// mutations are atomic from the caller's perspective: the in-memory state
// and the durable mirror change together or not at all.
type Store struct {
	storage     Storage
	tokenKey    string
	identityKey string
	log         *slog.Logger

	mu          sync.Mutex
	sess        Session
	initialized bool
	nextSubID   int
	subs        map[int]func(Session)
}

// NewStore creates a Store over the given durable backend. Empty key names
// fall back to the defaults; a nil logger falls back to slog.Default.
func NewStore(storage Storage, tokenKey, identityKey string, log *slog.Logger) *Store {
	if tokenKey == "" {
		tokenKey = DefaultTokenKey
	}
	if identityKey == "" {
		identityKey = DefaultIdentityKey
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		storage:     storage,
		tokenKey:    tokenKey,
		identityKey: identityKey,
		log:         log,
		subs:        make(map[int]func(Session)),
	}
}

// SetUser stores the identity and credential, in durable storage first and
// then in memory. The caller is responsible for having obtained a valid
// credential; no validation happens here beyond the completeness check.
// Subscribers observe the new state synchronously before SetUser returns.
func (s *Store) SetUser(id Identity, token string) error {
	if token == "" || id.isZero() {
		return ErrIncompleteSession
	}

	data, err := json.Marshal(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.storage.SetAll(map[string]string{
		s.tokenKey:    token,
		s.identityKey: string(data),
	}); err != nil {
		s.mu.Unlock()
		return err
	}
	s.sess = Session{Token: token, Identity: id}
	s.initialized = true
	snapshot, subs := s.sess, s.subscribersLocked()
	s.mu.Unlock()

	s.log.Debug("session established", "user", id.Email, "role", id.Role)
	notify(subs, snapshot)
	return nil
}

// Logout clears the session in memory and removes both durable entries.
// Calling it while already logged out is a no-op with the same end state.
func (s *Store) Logout() error {
	s.mu.Lock()
	wasAuthenticated := s.sess.Authenticated()
	if err := s.storage.DeleteAll(s.tokenKey, s.identityKey); err != nil {
		s.mu.Unlock()
		return err
	}
	s.sess = Session{}
	s.initialized = true
	subs := s.subscribersLocked()
	s.mu.Unlock()

	if wasAuthenticated {
		s.log.Debug("session cleared")
		notify(subs, Session{})
	}
	return nil
}

// Initialize reconciles the in-memory state from durable storage. If both
// entries are present and the identity parses, the session is restored;
// anything else (missing key, corrupt JSON, unreadable backend) resolves to
// the logged-out state and scrubs the leftover entries so partial state
// never persists. Initialize is idempotent and never panics into the
// caller's render path.
func (s *Store) Initialize() error {
	s.mu.Lock()

	token, tokenOK, err := s.storage.Get(s.tokenKey)
	if err != nil {
		s.resetLocked()
		s.mu.Unlock()
		return err
	}
	raw, idOK, err := s.storage.Get(s.identityKey)
	if err != nil {
		s.resetLocked()
		s.mu.Unlock()
		return err
	}

	if !tokenOK || !idOK || token == "" {
		s.scrubLocked("absent")
		s.mu.Unlock()
		return nil
	}

	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil || id.isZero() {
		s.scrubLocked("corrupt")
		s.mu.Unlock()
		return nil
	}

	s.sess = Session{Token: token, Identity: id}
	s.initialized = true
	snapshot, subs := s.sess, s.subscribersLocked()
	s.mu.Unlock()

	s.log.Debug("session restored", "user", id.Email, "role", id.Role)
	notify(subs, snapshot)
	return nil
}

// resetLocked moves memory to the logged-out state without touching storage.
func (s *Store) resetLocked() {
	s.sess = Session{}
	s.initialized = true
}

// scrubLocked moves memory to the logged-out state and removes whatever is
// left in storage, enforcing the all-or-nothing invariant after a partial
// or corrupt mirror.
func (s *Store) scrubLocked(reason string) {
	if err := s.storage.DeleteAll(s.tokenKey, s.identityKey); err != nil {
		s.log.Warn("session storage scrub failed", "reason", reason, "err", err)
	}
	s.sess = Session{}
	s.initialized = true
}

// Current returns a copy of the session. The zero Session means logged out.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

// Authenticated reports whether a complete session is present.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.Authenticated()
}

// Initialized reports whether Initialize, SetUser, or Logout has completed
// at least once since construction.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Subscribe registers fn to be called synchronously on every state
// transition. The returned cancel function removes the subscription.
func (s *Store) Subscribe(fn func(Session)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) subscribersLocked() []func(Session) {
	out := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(Session), sess Session) {
	for _, fn := range subs {
		fn(sess)
	}
}
