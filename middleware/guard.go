// Package middleware gates protected views behind the session store.
//
// A [Guard] never assumes the store is already initialized: its first
// evaluation triggers initialization and waits a short settling delay so the
// durable-storage read completes before the authenticated flag is trusted.
// Until then it reports a pending state (a neutral loading response, never
// protected content and never a redirect), which avoids flashing the login
// page at users who are in fact authenticated.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/farmaplex/farmaplex-go/session"
)

// Decision is the guard's verdict for a settled evaluation.
type Decision uint8

const (
	// DecisionAllow renders the protected content.
	DecisionAllow Decision = iota
	// DecisionRedirect sends the visitor to the login entry point, replacing
	// the current history entry.
	DecisionRedirect
)

// Clock is the scheduling seam for the settling delay.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) (cancel func() bool)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// Guard gates one mount cycle of the protected shell. Construct a new Guard
// per mount; settling happens once per instance.
type Guard struct {
	store     *session.Store
	loginPath string
	settle    time.Duration
	clock     Clock

	once    sync.Once
	settled chan struct{}
}

// NewGuard returns a Guard over the store. loginPath defaults to "/login",
// settle to 100ms, clock to the system clock.
func NewGuard(store *session.Store, loginPath string, settle time.Duration, clock Clock) *Guard {
	if loginPath == "" {
		loginPath = "/login"
	}
	if settle <= 0 {
		settle = 100 * time.Millisecond
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &Guard{
		store:     store,
		loginPath: loginPath,
		settle:    settle,
		clock:     clock,
		settled:   make(chan struct{}),
	}
}

// begin triggers initialization and the settling countdown, once.
func (g *Guard) begin() {
	g.once.Do(func() {
		// Initialization errors resolve to the logged-out state inside the
		// store; the guard only ever fails toward the login page.
		_ = g.store.Initialize()
		g.clock.AfterFunc(g.settle, func() { close(g.settled) })
	})
}

// Pending reports whether the guard is still settling. While true, callers
// must show a neutral loading indication.
func (g *Guard) Pending() bool {
	g.begin()
	select {
	case <-g.settled:
		return false
	default:
		return true
	}
}

// Evaluate blocks until the guard has settled (or ctx ends), then returns
// the verdict. It never returns DecisionAllow before the store has been
// initialized in this mount cycle.
func (g *Guard) Evaluate(ctx context.Context) (Decision, error) {
	g.begin()
	select {
	case <-g.settled:
	case <-ctx.Done():
		return DecisionRedirect, ctx.Err()
	}

	if g.store.Authenticated() {
		return DecisionAllow, nil
	}
	return DecisionRedirect, nil
}

// LoginPath returns the configured redirect target.
func (g *Guard) LoginPath() string {
	return g.loginPath
}

// Protect wraps next so it is only reached once the guard settles with an
// authenticated session. While settling it serves a minimal loading page
// that retries shortly; once settled, unauthenticated visitors get a 303 to
// the login path.
func (g *Guard) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.Pending() {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("<!doctype html><meta http-equiv=\"refresh\" content=\"1\"><p>Cargando…</p>"))
			return
		}

		decision, err := g.Evaluate(r.Context())
		if err != nil || decision == DecisionRedirect {
			http.Redirect(w, r, g.loginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
