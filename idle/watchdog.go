// Package idle terminates the session after sustained user inactivity,
// independent of server-side token expiry. A [Watchdog] keeps two
// countdowns armed while a session is active: a warning countdown and an
// expiry countdown. Any qualifying activity signal resets both together;
// they are never reset independently. When the expiry countdown elapses the
// watchdog clears the session through its OnExpire hook, issues the hard
// redirect, and goes terminal until a new session starts it again.
package idle

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/farmaplex/farmaplex-go/notify"
)

// State is the watchdog's position in its lifecycle.
type State uint8

const (
	// StateStopped means no session is being tracked.
	StateStopped State = iota
	// StateTracking means both countdowns are armed and no warning has fired.
	StateTracking
	// StateWarned means the warning fired; the expiry countdown keeps running.
	StateWarned
	// StateExpired is terminal: the session was ended for inactivity.
	StateExpired
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateTracking:
		return "tracking"
	case StateWarned:
		return "warned"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Clock is the scheduling seam for both countdowns. The returned cancel
// function reports whether it prevented the callback.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) (cancel func() bool)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

const warningNoticeDuration = 5 * time.Second

// Config assembles a Watchdog.
type Config struct {
	// WarningAfter is the idle time before the "session will expire soon"
	// notice. Must be shorter than ExpireAfter.
	WarningAfter time.Duration
	// ExpireAfter is the total idle budget before the session is ended.
	ExpireAfter time.Duration

	// Activity delivers the reset signals.
	Activity Source
	// OnExpire ends the session: it must clear the session state and issue
	// the hard redirect, producing the same end state as an explicit logout.
	OnExpire func()

	Notifier notify.Notifier
	Clock    Clock
	Logger   *slog.Logger
}

// Watchdog tracks one session's idle time. Start and Stop pair with the
// session's lifecycle; both are idempotent.
type Watchdog struct {
	cfg Config

	mu           sync.Mutex
	state        State
	cancelWarn   func() bool
	cancelExpire func() bool
	unsubscribe  func()
}

// New validates cfg and returns a stopped Watchdog.
func New(cfg Config) (*Watchdog, error) {
	if cfg.Activity == nil {
		return nil, errors.New("idle: activity source required")
	}
	if cfg.OnExpire == nil {
		return nil, errors.New("idle: OnExpire required")
	}
	if cfg.WarningAfter <= 0 || cfg.ExpireAfter <= 0 {
		return nil, errors.New("idle: durations must be positive")
	}
	if cfg.WarningAfter >= cfg.ExpireAfter {
		return nil, errors.New("idle: WarningAfter must be shorter than ExpireAfter")
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NewLogger(cfg.Logger)
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Watchdog{cfg: cfg}, nil
}

// Start attaches the activity listener and arms both countdowns. Starting
// an already-running watchdog is a no-op; starting an expired or stopped
// one re-arms it for a new session.
func (w *Watchdog) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateTracking || w.state == StateWarned {
		return
	}

	w.unsubscribe = w.cfg.Activity.Subscribe(func(Kind) { w.reset() })
	w.armLocked()
	w.cfg.Logger.Debug("inactivity watchdog armed",
		"warning_after", w.cfg.WarningAfter, "expire_after", w.cfg.ExpireAfter)
}

// Stop cancels both countdowns and detaches the activity listener. Safe to
// call at any time, any number of times; the watchdog never fires after
// Stop returns.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.teardownLocked(StateStopped)
}

// State returns the current lifecycle state.
func (w *Watchdog) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// reset is the activity self-loop: cancel both countdowns, re-arm both at
// full duration, clear the warned flag so a later idle period re-warns.
func (w *Watchdog) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateTracking && w.state != StateWarned {
		return
	}
	w.cancelTimersLocked()
	w.armLocked()
}

func (w *Watchdog) armLocked() {
	w.state = StateTracking
	w.cancelWarn = w.cfg.Clock.AfterFunc(w.cfg.WarningAfter, w.warn)
	w.cancelExpire = w.cfg.Clock.AfterFunc(w.cfg.ExpireAfter, w.expire)
}

func (w *Watchdog) warn() {
	w.mu.Lock()
	if w.state != StateTracking {
		w.mu.Unlock()
		return
	}
	w.state = StateWarned
	remaining := w.cfg.ExpireAfter - w.cfg.WarningAfter
	notifier := w.cfg.Notifier
	w.mu.Unlock()

	w.cfg.Logger.Debug("inactivity warning", "remaining", remaining)
	notifier.Notify(notify.Notice{
		Kind:     notify.KindWarning,
		Message:  "Tu sesión expirará pronto por inactividad",
		Duration: warningNoticeDuration,
	})
}

func (w *Watchdog) expire() {
	w.mu.Lock()
	if w.state != StateTracking && w.state != StateWarned {
		w.mu.Unlock()
		return
	}
	w.teardownLocked(StateExpired)
	notifier, onExpire := w.cfg.Notifier, w.cfg.OnExpire
	w.mu.Unlock()

	w.cfg.Logger.Info("session expired due to inactivity", "idle_budget", w.cfg.ExpireAfter)
	notifier.Notify(notify.Notice{
		Kind:     notify.KindError,
		Message:  "Tu sesión ha expirado por inactividad",
		Duration: warningNoticeDuration,
	})
	onExpire()
}

func (w *Watchdog) teardownLocked(next State) {
	w.cancelTimersLocked()
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
	w.state = next
}

func (w *Watchdog) cancelTimersLocked() {
	if w.cancelWarn != nil {
		w.cancelWarn()
		w.cancelWarn = nil
	}
	if w.cancelExpire != nil {
		w.cancelExpire()
		w.cancelExpire = nil
	}
}
