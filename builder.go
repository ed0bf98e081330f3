package farmaplex

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/farmaplex/farmaplex-go/api"
	"github.com/farmaplex/farmaplex-go/idle"
	"github.com/farmaplex/farmaplex-go/middleware"
	"github.com/farmaplex/farmaplex-go/notify"
	"github.com/farmaplex/farmaplex-go/session"
	"github.com/farmaplex/farmaplex-go/transport"
)

// Clock abstracts time for the whole client. Tests substitute a virtual
// clock; production uses the real one.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) (cancel func() bool)
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// Navigator performs the hard redirect at the end of a session. Terminal
// shells plug in whatever "navigate" means for them.
type Navigator = transport.Navigator

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc = transport.NavigatorFunc

// Builder assembles a Client. Configure it during initialization; a
// builder is single use.
type Builder struct {
	config  Config
	storage session.Storage

	base      http.RoundTripper
	notifier  notify.Notifier
	navigator Navigator
	clock     Clock
	logger    *slog.Logger
	activity  idle.Source

	built bool
}

// New returns a Builder loaded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration. Zero values are filled
// from defaults at Build time.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL sets the backend root.
func (b *Builder) WithBaseURL(u string) *Builder {
	b.config.API.BaseURL = u
	return b
}

// WithStorage sets the session storage backend. Required.
func (b *Builder) WithStorage(s session.Storage) *Builder {
	b.storage = s
	return b
}

// WithBaseTransport replaces the underlying round tripper. Defaults to
// http.DefaultTransport.
func (b *Builder) WithBaseTransport(rt http.RoundTripper) *Builder {
	b.base = rt
	return b
}

// WithNotifier sets where user-facing notices go. Defaults to the logger.
func (b *Builder) WithNotifier(n notify.Notifier) *Builder {
	b.notifier = n
	return b
}

// WithNavigator sets how the client performs the login redirect. Defaults
// to a no-op.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithClock substitutes the clock. Tests use this.
func (b *Builder) WithClock(c Clock) *Builder {
	b.clock = c
	return b
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func (b *Builder) WithLogger(log *slog.Logger) *Builder {
	b.logger = log
	return b
}

// WithActivitySource replaces the activity hub feeding the inactivity
// watchdog. Defaults to a fresh Hub exposed through [Client.Activity].
func (b *Builder) WithActivitySource(src idle.Source) *Builder {
	b.activity = src
	return b
}

// Build validates the configuration and wires the client together.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}
	b.built = true

	cfg := b.config
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.storage == nil {
		return nil, ErrStorageRequired
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := b.clock
	if clock == nil {
		clock = systemClock{}
	}
	notifier := b.notifier
	if notifier == nil {
		notifier = notify.NewLogger(logger)
	}
	navigator := b.navigator
	if navigator == nil {
		navigator = NavigatorFunc(func(string) {})
	}

	var hub *idle.Hub
	activity := b.activity
	if activity == nil {
		hub = idle.NewHub()
		activity = hub
	}

	c := &Client{
		cfg:       cfg,
		log:       logger,
		metrics:   NewMetrics(),
		navigator: navigator,
		hub:       hub,
		activity:  activity,
	}

	c.store = session.NewStore(b.storage, cfg.Session.TokenKey, cfg.Session.IdentityKey, logger)

	base := b.base
	if base == nil {
		base = http.DefaultTransport
	}
	tr, err := transport.New(transport.Config{
		Base:          &countingTransport{next: base, metrics: c.metrics},
		Storage:       b.storage,
		TokenKey:      cfg.Session.TokenKey,
		IdentityKey:   cfg.Session.IdentityKey,
		LoginPath:     cfg.Expiry.LoginPath,
		RedirectDelay: cfg.Expiry.RedirectDelay.Std(),
		UserAgent:     cfg.API.UserAgent,
		Notifier:      notifier,
		Navigator:     navigator,
		Clock:         clock,
		Logger:        logger,
		OnAuthFailure: c.onAuthFailure,
	})
	if err != nil {
		return nil, err
	}
	c.transport = tr
	c.api = api.New(cfg.API.BaseURL, tr.HTTPClient(cfg.API.Timeout.Std()), logger)

	if idleEnabled(cfg.Idle) {
		wd, err := idle.New(idle.Config{
			WarningAfter: cfg.Idle.WarningAfter.Std(),
			ExpireAfter:  cfg.Idle.ExpireAfter.Std(),
			Activity:     activity,
			OnExpire:     c.onIdleExpire,
			Notifier:     &warningCounter{next: notifier, metrics: c.metrics},
			Clock:        clock,
			Logger:       logger,
		})
		if err != nil {
			return nil, err
		}
		c.watchdog = wd
	}

	c.guard = middleware.NewGuard(c.store, cfg.Expiry.LoginPath, cfg.Session.SettleDelay.Std(), clock)

	c.unsubscribe = c.store.Subscribe(c.onSessionChange)
	return c, nil
}

// countingTransport counts every exchange that reaches the wire.
type countingTransport struct {
	next    http.RoundTripper
	metrics *Metrics
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.metrics.Inc(MetricRequest)
	return t.next.RoundTrip(req)
}

// warningCounter forwards notices and counts idle warnings as they pass.
type warningCounter struct {
	next    notify.Notifier
	metrics *Metrics
}

func (w *warningCounter) Notify(n notify.Notice) {
	if n.Kind == notify.KindWarning {
		w.metrics.Inc(MetricIdleWarning)
	}
	w.next.Notify(n)
}
