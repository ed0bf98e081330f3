// Package transport is the single outbound pipeline for every FarmaPlex API
// call. It enforces the two cross-cutting contracts call sites must never
// repeat: attach the stored credential to each outgoing request, and watch
// every response for an authentication failure.
//
// On the first 401/403 of a session the transport clears the durable
// credential mirror, surfaces exactly one expiry notice, schedules a hard
// redirect to the login entry point, and fails the call with
// [ErrSessionExpired]. Later 401/403 responses from requests already in
// flight fail the same way with no further side effects, regardless of the
// order responses arrive in.
package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/farmaplex/farmaplex-go/notify"
	"github.com/farmaplex/farmaplex-go/session"
)

// ErrSessionExpired marks calls that failed because the server rejected the
// credential. Callers distinguish it from ordinary transport errors with
// errors.Is.
var ErrSessionExpired = errors.New("session expired")

// Navigator performs the hard redirect after a detected expiry. A hard
// navigation (not a client-side route change) guarantees the embedding
// application restarts from a clean state.
type Navigator interface {
	Redirect(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

// Redirect calls f(path).
func (f NavigatorFunc) Redirect(path string) { f(path) }

// Clock is the scheduling seam for the post-notice redirect delay. The
// returned cancel function reports whether it prevented the callback.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) (cancel func() bool)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// Config assembles a Transport. Base, Storage, Notifier, and Navigator are
// the integration points; everything else has working defaults.
type Config struct {
	// Base performs the actual round trip. Defaults to http.DefaultTransport.
	Base http.RoundTripper
	// Storage is read for the credential on every request and cleared once
	// on a detected expiry. The transport never writes new values.
	Storage session.Storage
	// TokenKey and IdentityKey name the storage entries. Empty values use
	// the session package defaults.
	TokenKey    string
	IdentityKey string

	// LoginPath is the redirect target for every termination path.
	LoginPath string
	// RedirectDelay is how long the expiry notice stays readable before the
	// redirect fires.
	RedirectDelay time.Duration
	// UserAgent is set on requests that do not already carry one.
	UserAgent string

	Notifier  notify.Notifier
	Navigator Navigator
	Clock     Clock
	Logger    *slog.Logger

	// OnAuthFailure, if set, runs once as part of the first-expiry sequence,
	// after storage is cleared. The client uses it to converge in-memory
	// session state and stop the inactivity watchdog.
	OnAuthFailure func()
}

// Transport implements http.RoundTripper. Construct it with New; the zero
// value is not usable.
type Transport struct {
	cfg Config

	mu           sync.Mutex
	expiredShown bool
}

// New returns a Transport over cfg. cfg.Storage must be non-nil.
func New(cfg Config) (*Transport, error) {
	if cfg.Storage == nil {
		return nil, errors.New("transport: session storage required")
	}
	if cfg.Base == nil {
		cfg.Base = http.DefaultTransport
	}
	if cfg.TokenKey == "" {
		cfg.TokenKey = session.DefaultTokenKey
	}
	if cfg.IdentityKey == "" {
		cfg.IdentityKey = session.DefaultIdentityKey
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = 2500 * time.Millisecond
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NewLogger(cfg.Logger)
	}
	if cfg.Navigator == nil {
		cfg.Navigator = NavigatorFunc(func(string) {})
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Transport{cfg: cfg}, nil
}

// RoundTrip attaches the credential and request ID, performs the exchange,
// and classifies the response. Success and non-auth errors pass through
// untouched; 401/403 triggers the expiry sequence.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	token, ok, err := t.cfg.Storage.Get(t.cfg.TokenKey)
	if err != nil {
		t.cfg.Logger.Warn("credential read failed, sending unauthenticated", "err", err)
	} else if ok && token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if out.Header.Get("X-Request-ID") == "" {
		out.Header.Set("X-Request-ID", uuid.NewString())
	}
	if t.cfg.UserAgent != "" && out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", t.cfg.UserAgent)
	}

	resp, err := t.cfg.Base.RoundTrip(out)
	if err != nil {
		// Transport errors pass through unchanged; no session mutation.
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		t.handleAuthFailure()
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrSessionExpired)
	}

	return resp, nil
}

// handleAuthFailure runs the expiry sequence at most once per Transport
// instance. The flag is checked-and-set under the mutex, so with several
// requests in flight only the first failing response wins.
func (t *Transport) handleAuthFailure() {
	t.mu.Lock()
	if t.expiredShown {
		t.mu.Unlock()
		return
	}
	t.expiredShown = true
	t.mu.Unlock()

	// Clear the mirror first so no further request carries the stale
	// credential, then notify and schedule the redirect.
	if err := t.cfg.Storage.DeleteAll(t.cfg.TokenKey, t.cfg.IdentityKey); err != nil {
		t.cfg.Logger.Error("failed to clear expired credentials", "err", err)
	}

	t.cfg.Logger.Warn("credential rejected by server, ending session")

	t.cfg.Notifier.Notify(notify.Notice{
		Kind:     notify.KindError,
		Message:  "Tu sesión ha expirado. Redirigiendo al login...",
		Duration: t.cfg.RedirectDelay,
	})

	if t.cfg.OnAuthFailure != nil {
		t.cfg.OnAuthFailure()
	}

	t.cfg.Clock.AfterFunc(t.cfg.RedirectDelay, func() {
		t.cfg.Navigator.Redirect(t.cfg.LoginPath)
	})
}

// Expired reports whether the expiry sequence has already run.
func (t *Transport) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expiredShown
}

// HTTPClient returns an *http.Client using this transport. A zero timeout
// leaves the client without one.
func (t *Transport) HTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Transport: t, Timeout: timeout}
}
