// Package notify carries user-visible notices from the session core to the
// embedding UI. The core never renders anything itself; it emits a [Notice]
// and the host application decides how to present it (toast, status bar,
// terminal line). The default [Logger] sink writes notices to slog so a
// headless integration still surfaces every termination path.
package notify

import (
	"log/slog"
	"time"
)

// Kind classifies a notice for presentation purposes.
type Kind uint8

const (
	// KindInfo is a neutral informational notice.
	KindInfo Kind = iota
	// KindWarning is a transient, non-blocking warning.
	KindWarning
	// KindError is a notice about a terminated session or failed operation.
	KindError
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInfo:
		return "info"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Notice is a single user-visible message. Duration is how long the host
// should keep the notice on screen; it is advisory for sinks that have no
// concept of display time.
type Notice struct {
	Kind     Kind
	Message  string
	Duration time.Duration
}

// Notifier receives notices. Implementations must be safe for concurrent
// use; the transport layer may notify from any goroutine.
type Notifier interface {
	Notify(n Notice)
}

// Func adapts a plain function to the Notifier interface.
type Func func(n Notice)

// Notify calls f(n).
func (f Func) Notify(n Notice) { f(n) }

// Logger is a Notifier that writes notices to a slog logger.
type Logger struct {
	log *slog.Logger
}

// NewLogger returns a Logger sink. A nil logger falls back to slog.Default.
func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

// Notify writes the notice at a level matching its kind.
func (l *Logger) Notify(n Notice) {
	switch n.Kind {
	case KindError:
		l.log.Error(n.Message, "notice", n.Kind.String())
	case KindWarning:
		l.log.Warn(n.Message, "notice", n.Kind.String())
	default:
		l.log.Info(n.Message, "notice", n.Kind.String())
	}
}
